package rail

import (
	"fmt"
	"log/slog"

	"github.com/garydev10/railwin/internal/platform"
)

// MoveCoordinator bridges locally initiated interactive move/resize
// gestures with the remote window geometry protocol. It drives the
// window system's native grab and reports resulting geometry upstream.
type MoveCoordinator struct {
	registry *Registry
	ws       platform.WindowSystem
	ch       platform.Channel
	logger   *slog.Logger
}

// NewMoveCoordinator creates a coordinator over the shared registry.
func NewMoveCoordinator(registry *Registry, ws platform.WindowSystem, ch platform.Channel, logger *slog.Logger) *MoveCoordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &MoveCoordinator{
		registry: registry,
		ws:       ws,
		ch:       ch,
		logger:   logger,
	}
}

// Start enters the move handshake for a window: the host told us the
// user began a drag or resize, and we hand the gesture to the window
// system's native interactive grab at the given root position.
//
// Keyboard-driven directions are accepted into the state machine but do
// not issue the native grab; driving the grab from synthesized key input
// is an open limitation.
func (m *MoveCoordinator) Start(w *AppWindow, dir platform.MoveResizeDirection, rootX, rootY int) error {
	w.LocalMove.State = LocalMoveInProgress
	w.LocalMove.Direction = dir

	if dir.IsKeyboard() {
		m.logger.Warn("keyboard move/resize is not fully supported", "window_id", w.ID, "direction", int(dir))
		return nil
	}

	if err := m.ws.StartMoveResize(w.Handle, dir, rootX, rootY); err != nil {
		return fmt.Errorf("start move/resize for window %#x: %w", w.ID, err)
	}
	return nil
}

// End leaves the interactive gesture. Pointer-driven gestures get a
// synthesized button release at the current pointer position to
// terminate the window system's grab; keyboard-driven gestures instead
// send an explicit geometry update, since no continuous sync happened
// during the gesture.
func (m *MoveCoordinator) End(w *AppWindow) error {
	keyboard := w.LocalMove.Direction.IsKeyboard()

	if keyboard {
		if err := m.sendWindowMove(w); err != nil {
			m.logger.Warn("failed to report keyboard move geometry", "window_id", w.ID, "error", err)
		}
	}

	x, y, err := m.ws.QueryPointer(w.Handle)
	if err != nil {
		m.logger.Warn("failed to query pointer position", "window_id", w.ID, "error", err)
	} else if !keyboard {
		if err := m.ws.SendButtonRelease(x, y); err != nil {
			m.logger.Warn("failed to synthesize button release", "window_id", w.ID, "error", err)
		}
	}

	// Proactively adopt the local geometry as the authoritative remote
	// geometry: surface updates for the new size can arrive before the
	// host's confirming window order, and would otherwise be placed with
	// the stale geometry.
	w.WindowOffsetX = int32(w.X)
	w.WindowOffsetY = int32(w.Y)
	w.WindowWidth = uint32(w.Width)
	w.WindowHeight = uint32(w.Height)
	w.LocalMove.State = LocalMoveTerminating
	return nil
}

// AdjustPosition reports drift between the local and remote geometry for
// one window. Window-manager initiated moves never pass through the
// start/end handshake, so this periodic comparison is how they reach the
// host.
func (m *MoveCoordinator) AdjustPosition(w *AppWindow) error {
	if !w.IsMapped || w.LocalMove.State != LocalMoveNotActive {
		return nil
	}
	if w.RemoteGeometryMatchesLocal() {
		return nil
	}
	return m.sendWindowMove(w)
}

// AdjustAll runs the drift check over every registered window.
func (m *MoveCoordinator) AdjustAll() {
	m.registry.ForEach(func(w *AppWindow) bool {
		if err := m.AdjustPosition(w); err != nil {
			m.logger.Warn("failed to report window drift", "window_id", w.ID, "error", err)
		}
		return true
	})
}

// sendWindowMove reports the local geometry upstream, widened by the
// resize margins; right and bottom are exclusive.
func (m *MoveCoordinator) sendWindowMove(w *AppWindow) error {
	left := int16(w.X - int(w.ResizeMarginLeft))
	top := int16(w.Y - int(w.ResizeMarginTop))
	right := int16(w.X + w.Width + int(w.ResizeMarginRight))
	bottom := int16(w.Y + w.Height + int(w.ResizeMarginBottom))
	return m.ch.SendWindowMove(uint32(w.ID), left, top, right, bottom)
}
