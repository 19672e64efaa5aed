package rail

import (
	"fmt"
	"math"

	"github.com/garydev10/railwin/internal/platform"
)

// OnHandshake confirms the host's channel readiness and sends the queued
// application start command.
func (s *Synchronizer) OnHandshake(buildNumber uint32) error {
	s.logger.Info("channel handshake received", "build", buildNumber)
	return s.sendStartCommand()
}

// OnHandshakeEx is the extended handshake variant; it triggers the same
// start command.
func (s *Synchronizer) OnHandshakeEx(buildNumber, flags uint32) error {
	s.logger.Info("extended channel handshake received", "build", buildNumber, "flags", flags)
	return s.sendStartCommand()
}

func (s *Synchronizer) sendStartCommand() error {
	if err := s.ch.SendExecute(s.launch.Program, s.launch.WorkingDir, s.launch.Arguments); err != nil {
		return fmt.Errorf("send execute order: %w", err)
	}
	return nil
}

// OnExecuteResult handles the host's verdict on the application start
// command. Success enables seamless mode; any failure is fatal to the
// session and the returned error carries the remote code for the caller
// to abort with.
func (s *Synchronizer) OnExecuteResult(result ExecResult, rawResult uint32) error {
	if result != ExecOK {
		err := fmt.Errorf("remote execute failed: %s (raw 0x%X)", result, rawResult)
		s.logger.Error("application start rejected by host", "result", result.String(), "raw", rawResult)
		return err
	}
	s.EnableSeamless()
	return nil
}

// OnLocalMoveSizeRequest starts or ends the local move/resize handshake
// for a window. A full-window move carries a window-local start position
// that must be translated to root coordinates first; all resize edges
// arrive in root coordinates already.
func (s *Synchronizer) OnLocalMoveSizeRequest(windowID uint64, moveType MoveSizeType, isStart bool, posX, posY int) error {
	w, ok := s.registry.Get(windowID)
	if !ok {
		return fmt.Errorf("move/size request for window %#x: %w", windowID, ErrWindowNotFound)
	}

	dir, ok := moveSizeDirection(moveType)
	if !ok {
		s.logger.Warn("ignoring unknown move/size type", "window_id", windowID, "type", uint16(moveType))
		return nil
	}

	x, y := posX, posY
	if moveType == MoveSizeMove {
		var err error
		x, y, err = s.ws.TranslateToRoot(w.Handle, posX, posY)
		if err != nil {
			return fmt.Errorf("translate move origin for window %#x: %w", windowID, err)
		}
	}

	s.logger.Debug("local move/size request",
		"window_id", windowID, "type", moveType.String(), "start", isStart, "x", x, "y", y)

	if isStart {
		return s.mover.Start(w, dir, x, y)
	}
	return s.mover.End(w)
}

func moveSizeDirection(t MoveSizeType) (platform.MoveResizeDirection, bool) {
	switch t {
	case MoveSizeLeft:
		return platform.MoveResizeSizeLeft, true
	case MoveSizeRight:
		return platform.MoveResizeSizeRight, true
	case MoveSizeTop:
		return platform.MoveResizeSizeTop, true
	case MoveSizeTopLeft:
		return platform.MoveResizeSizeTopLeft, true
	case MoveSizeTopRight:
		return platform.MoveResizeSizeTopRight, true
	case MoveSizeBottom:
		return platform.MoveResizeSizeBottom, true
	case MoveSizeBottomLeft:
		return platform.MoveResizeSizeBottomLeft, true
	case MoveSizeBottomRight:
		return platform.MoveResizeSizeBottomRight, true
	case MoveSizeMove:
		return platform.MoveResizeMove, true
	case MoveSizeKeyMove:
		return platform.MoveResizeMoveKeyboard, true
	case MoveSizeKeySize:
		return platform.MoveResizeSizeKeyboard, true
	default:
		return 0, false
	}
}

// OnMinMaxInfo forwards host size constraints to the window manager for
// one window. Unknown ids are benign.
func (s *Synchronizer) OnMinMaxInfo(windowID uint64, info *MinMaxInfo) error {
	w, ok := s.registry.Get(windowID)
	if !ok {
		return nil
	}
	return s.ws.SetSizeConstraints(w.Handle, platform.SizeConstraints{
		MaxWidth:       int(info.MaxWidth),
		MaxHeight:      int(info.MaxHeight),
		MaxPosX:        int(info.MaxPosX),
		MaxPosY:        int(info.MaxPosY),
		MinTrackWidth:  int(info.MinTrackWidth),
		MinTrackHeight: int(info.MinTrackHeight),
		MaxTrackWidth:  int(info.MaxTrackWidth),
		MaxTrackHeight: int(info.MaxTrackHeight),
	})
}

// OnSystemParam is a placeholder; host system parameters are not applied
// locally yet.
func (s *Synchronizer) OnSystemParam(param uint32) error {
	s.logger.Debug("system param not applied", "param", param)
	return nil
}

// OnLanguageBarInfo is a placeholder.
func (s *Synchronizer) OnLanguageBarInfo(status uint32) error {
	s.logger.Debug("language bar info not applied", "status", status)
	return nil
}

// OnGetAppIDResponse is a placeholder.
func (s *Synchronizer) OnGetAppIDResponse(windowID uint64, appID string) error {
	s.logger.Debug("app id response ignored", "window_id", windowID, "app_id", appID)
	return nil
}

// SendSystemCommand forwards a system command (minimize, restore, close)
// for one window. Window ids above the 32-bit wire range are rejected.
func (s *Synchronizer) SendSystemCommand(windowID uint64, command uint16) error {
	if windowID > math.MaxUint32 {
		return fmt.Errorf("system command for window %#x: id exceeds 32-bit range", windowID)
	}
	return s.ch.SendSystemCommand(uint32(windowID), command)
}

// ActivateWindow reports activation of the window backed by the given
// local handle. Activation re-applies the remote style first, since some
// window managers drop style-derived state on focus changes.
func (s *Synchronizer) ActivateWindow(handle platform.WindowID, enabled bool) error {
	w, ok := s.registry.FindByHandle(handle)
	if !ok {
		return nil
	}
	if enabled {
		if err := s.ws.SetStyle(w.Handle, w.Style, w.ExtendedStyle); err != nil {
			s.logger.Warn("failed to re-apply style on activate", "window_id", w.ID, "error", err)
		}
	}
	return s.ch.SendActivate(uint32(w.ID), enabled)
}

// EnableSeamless switches the session into seamless RemoteApp mode.
func (s *Synchronizer) EnableSeamless() {
	if s.seamless.CompareAndSwap(false, true) {
		s.logger.Info("seamless mode enabled")
	}
}

// DisableSeamless leaves seamless mode, e.g. when the host reverts to a
// non-monitored desktop.
func (s *Synchronizer) DisableSeamless() {
	if s.seamless.CompareAndSwap(true, false) {
		s.logger.Info("seamless mode disabled")
	}
}

// Seamless reports whether seamless mode is active.
func (s *Synchronizer) Seamless() bool {
	return s.seamless.Load()
}
