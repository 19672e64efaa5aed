package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// WindowSystem manages the X11 connection and implements the window
// operations the synchronizer needs. Seamless windows are plain
// top-level windows shaped and styled from remote state.
type WindowSystem struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	logger *slog.Logger
}

// NewWindowSystem connects to the X server. An empty display uses
// $DISPLAY. The shape and XTEST extensions are required for window
// shaping and synthesized pointer input.
func NewWindowSystem(display string, logger *slog.Logger) (*WindowSystem, error) {
	if logger == nil {
		logger = slog.Default()
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	if err := shape.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("shape extension unavailable: %w", err)
	}
	if err := xtest.Init(xu.Conn()); err != nil {
		return nil, fmt.Errorf("xtest extension unavailable: %w", err)
	}

	return &WindowSystem{
		xu:     xu,
		root:   xu.RootWin(),
		logger: logger,
	}, nil
}

// EventLoop starts the main X11 event loop (blocking).
func (ws *WindowSystem) EventLoop() {
	xevent.Main(ws.xu)
}

// Close cleanly disconnects from the X11 server.
func (ws *WindowSystem) Close() {
	ws.xu.Conn().Close()
}
