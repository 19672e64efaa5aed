package rail

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/garydev10/railwin/internal/platform"
)

// LaunchSpec is the published application start command queued until the
// channel handshake confirms the host is ready.
type LaunchSpec struct {
	Program    string
	WorkingDir string
	Arguments  string
}

// Synchronizer reconciles window state pushed by the remote host with the
// local windows it owns through the registry. All handlers run on the
// session's single dispatch goroutine; the registry serializes the only
// shared structure.
type Synchronizer struct {
	registry *Registry
	icons    *IconCache
	ws       platform.WindowSystem
	ch       platform.Channel
	launch   LaunchSpec
	logger   *slog.Logger
	mover    *MoveCoordinator

	seamless atomic.Bool
}

// NewSynchronizer wires the reconciliation core to its collaborators.
func NewSynchronizer(registry *Registry, icons *IconCache, ws platform.WindowSystem, ch platform.Channel, launch LaunchSpec, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		registry: registry,
		icons:    icons,
		ws:       ws,
		ch:       ch,
		launch:   launch,
		logger:   logger,
		mover:    NewMoveCoordinator(registry, ws, ch, logger),
	}
}

// Mover exposes the local move/resize coordinator.
func (s *Synchronizer) Mover() *MoveCoordinator {
	return s.mover
}

// Registry exposes the window registry for the move coordinator, the
// paint pass and status reporting.
func (s *Synchronizer) Registry() *Registry {
	return s.registry
}

// fieldAppliers is the ordered (flag, apply) table for the data-model
// part of the merge. Only flags present in the order touch the entity.
var fieldAppliers = []struct {
	flag  uint32
	apply func(w *AppWindow, o *WindowStateOrder)
}{
	{FieldWindowOffset, func(w *AppWindow, o *WindowStateOrder) {
		w.WindowOffsetX = o.WindowOffsetX
		w.WindowOffsetY = o.WindowOffsetY
	}},
	{FieldWindowSize, func(w *AppWindow, o *WindowStateOrder) {
		w.WindowWidth = o.WindowWidth
		w.WindowHeight = o.WindowHeight
	}},
	{FieldResizeMarginX, func(w *AppWindow, o *WindowStateOrder) {
		w.ResizeMarginLeft = o.ResizeMarginLeft
		w.ResizeMarginRight = o.ResizeMarginRight
	}},
	{FieldResizeMarginY, func(w *AppWindow, o *WindowStateOrder) {
		w.ResizeMarginTop = o.ResizeMarginTop
		w.ResizeMarginBottom = o.ResizeMarginBottom
	}},
	{FieldOwner, func(w *AppWindow, o *WindowStateOrder) {
		w.OwnerWindowID = o.OwnerWindowID
	}},
	{FieldStyle, func(w *AppWindow, o *WindowStateOrder) {
		w.Style = o.Style
		w.ExtendedStyle = o.ExtendedStyle
	}},
	{FieldShow, func(w *AppWindow, o *WindowStateOrder) {
		w.ShowState = o.ShowState
	}},
	{FieldTitle, func(w *AppWindow, o *WindowStateOrder) {
		w.Title = o.Title
	}},
	{FieldClientAreaOffset, func(w *AppWindow, o *WindowStateOrder) {
		w.ClientOffsetX = o.ClientOffsetX
		w.ClientOffsetY = o.ClientOffsetY
	}},
	{FieldClientAreaSize, func(w *AppWindow, o *WindowStateOrder) {
		w.ClientAreaWidth = o.ClientAreaWidth
		w.ClientAreaHeight = o.ClientAreaHeight
	}},
	{FieldWindowClientDelta, func(w *AppWindow, o *WindowStateOrder) {
		w.WindowClientDeltaX = o.WindowClientDeltaX
		w.WindowClientDeltaY = o.WindowClientDeltaY
	}},
	{FieldWindowRects, func(w *AppWindow, o *WindowStateOrder) {
		w.WindowRects = append([]Rect(nil), o.WindowRects...)
	}},
	{FieldVisibleOffset, func(w *AppWindow, o *WindowStateOrder) {
		w.VisibleOffsetX = o.VisibleOffsetX
		w.VisibleOffsetY = o.VisibleOffsetY
	}},
	{FieldVisibility, func(w *AppWindow, o *WindowStateOrder) {
		w.VisibilityRects = append([]Rect(nil), o.VisibilityRects...)
	}},
}

// OnWindowCreateOrUpdate merges a window information order into the
// registry. New-window orders create the entity; every other set flag is
// applied verbatim, then a single consolidated refresh pushes the result
// to the local window.
func (s *Synchronizer) OnWindowCreateOrUpdate(info *OrderInfo, state *WindowStateOrder) error {
	flags := info.FieldFlags
	w, _ := s.registry.Get(info.WindowID)

	if flags&StateNew != 0 {
		if w == nil {
			var err error
			w, err = s.registry.Create(info.WindowID,
				int(state.WindowOffsetX), int(state.WindowOffsetY),
				int(state.WindowWidth), int(state.WindowHeight), NoSurface)
			if err != nil {
				return fmt.Errorf("window %#x: %w", info.WindowID, err)
			}
		}

		w.Style = state.Style
		w.ExtendedStyle = state.ExtendedStyle

		if flags&FieldTitle != 0 {
			w.Title = state.Title
		} else {
			w.Title = DefaultWindowTitle
		}
		if err := s.ws.SetTitle(w.Handle, w.Title); err != nil {
			s.logger.Warn("failed to set initial window title", "window_id", w.ID, "error", err)
		}
	}

	if w == nil {
		// Updates can race with local deletion; nothing left to merge onto.
		return nil
	}

	positionOrSizeUpdated := flags&positionOrSizeFlags != 0

	for _, fa := range fieldAppliers {
		if flags&fa.flag != 0 {
			fa.apply(w, state)
		}
	}

	s.refreshWindow(w, flags, positionOrSizeUpdated)

	// A geometry order arriving while the move handshake is terminating is
	// the host's confirmation of the final geometry.
	if positionOrSizeUpdated && w.LocalMove.State == LocalMoveTerminating {
		w.LocalMove.State = LocalMoveNotActive
	}
	return nil
}

// refreshWindow pushes the merged state to the local window with the
// minimal set of window-system calls for this order.
func (s *Synchronizer) refreshWindow(w *AppWindow, flags uint32, positionOrSizeUpdated bool) {
	if flags&FieldShow != 0 {
		if err := s.ws.ShowWindow(w.Handle, showCmdFor(w.ShowState)); err != nil {
			s.logger.Warn("failed to apply show state", "window_id", w.ID, "error", err)
		}
		w.IsMapped = w.ShowState != ShowStateHidden
	}

	if flags&FieldTitle != 0 && flags&StateNew == 0 {
		if err := s.ws.SetTitle(w.Handle, w.Title); err != nil {
			s.logger.Warn("failed to set window title", "window_id", w.ID, "error", err)
		}
	}

	if positionOrSizeUpdated {
		// Hosts report a collapsed size while a window is minimized; the
		// data model keeps it, but moving the hidden window would corrupt
		// the size it restores to.
		if w.ShowState != ShowStateMinimized {
			if w.RemoteGeometryMatchesLocal() {
				if err := s.ws.UpdateArea(w.Handle, 0, 0, int(w.WindowWidth), int(w.WindowHeight)); err != nil {
					s.logger.Warn("failed to repaint window area", "window_id", w.ID, "error", err)
				}
			} else {
				if err := s.ws.MoveResize(w.Handle, int(w.WindowOffsetX), int(w.WindowOffsetY),
					int(w.WindowWidth), int(w.WindowHeight)); err != nil {
					s.logger.Warn("failed to move window", "window_id", w.ID, "error", err)
				} else {
					w.X = int(w.WindowOffsetX)
					w.Y = int(w.WindowOffsetY)
					w.Width = int(w.WindowWidth)
					w.Height = int(w.WindowHeight)
				}
			}

			if err := s.ws.SetShape(w.Handle, w.localVisibilityRects()); err != nil {
				s.logger.Warn("failed to shape window", "window_id", w.ID, "error", err)
			}
		}

		if w.ShowState == ShowStateMaximized {
			if err := s.ws.ShowWindow(w.Handle, platform.ShowCmdMaximize); err != nil {
				s.logger.Warn("failed to maximize window", "window_id", w.ID, "error", err)
			}
		}
	}

	if flags&(StateNew|FieldStyle) != 0 {
		if err := s.ws.SetStyle(w.Handle, w.Style, w.ExtendedStyle); err != nil {
			s.logger.Warn("failed to apply window style", "window_id", w.ID, "error", err)
		}
	}
}

// localVisibilityRects converts the visibility rectangles into the
// window-local coordinate space the shaping call expects, which is not
// the raw visible-offset origin.
func (w *AppWindow) localVisibilityRects() []platform.Rect {
	offsetX := int(w.VisibleOffsetX - (w.ClientOffsetX - w.WindowClientDeltaX))
	offsetY := int(w.VisibleOffsetY - (w.ClientOffsetY - w.WindowClientDeltaY))

	rects := make([]platform.Rect, 0, len(w.VisibilityRects))
	for _, r := range w.VisibilityRects {
		rects = append(rects, platform.Rect{
			X:      offsetX + int(r.Left),
			Y:      offsetY + int(r.Top),
			Width:  int(r.Right) - int(r.Left),
			Height: int(r.Bottom) - int(r.Top),
		})
	}
	return rects
}

func showCmdFor(state ShowState) platform.ShowCmd {
	switch state {
	case ShowStateHidden:
		return platform.ShowCmdHide
	case ShowStateMinimized:
		return platform.ShowCmdMinimize
	case ShowStateMaximized:
		return platform.ShowCmdMaximize
	default:
		return platform.ShowCmdNormal
	}
}

// OnWindowDelete removes the window. Deletes are idempotent; an unknown
// id is not an error since orders race with local teardown.
func (s *Synchronizer) OnWindowDelete(info *OrderInfo) error {
	if !s.registry.Delete(info.WindowID) {
		s.logger.Debug("delete for unknown window", "window_id", info.WindowID)
	}
	return nil
}

// OnWindowIcon decodes an icon order into its cache slot and applies it
// to the window. Failures affect only this update.
func (s *Synchronizer) OnWindowIcon(info *OrderInfo, icon *IconInfo) error {
	w, ok := s.registry.Get(info.WindowID)
	if !ok {
		return nil
	}

	addr := IconAddressFor(icon.CacheID, icon.CacheEntry)
	slot, err := s.icons.Lookup(addr)
	if err != nil {
		s.logger.Warn("icon cache lookup failed", "window_id", info.WindowID, "address", addr.String(), "error", err)
		return err
	}

	if err := DecodeIcon(icon, slot); err != nil {
		s.logger.Warn("failed to decode window icon", "window_id", info.WindowID, "error", err)
		return err
	}

	return s.applyIcon(w, slot, info.FieldFlags)
}

// OnWindowCachedIcon applies a previously decoded icon from the cache.
func (s *Synchronizer) OnWindowCachedIcon(info *OrderInfo, cached *CachedIconOrder) error {
	w, ok := s.registry.Get(info.WindowID)
	if !ok {
		return nil
	}

	addr := IconAddressFor(cached.CacheID, cached.CacheEntry)
	slot, err := s.icons.Lookup(addr)
	if err != nil {
		s.logger.Warn("icon cache lookup failed", "window_id", info.WindowID, "address", addr.String(), "error", err)
		return err
	}

	return s.applyIcon(w, slot, info.FieldFlags)
}

func (s *Synchronizer) applyIcon(w *AppWindow, icon *Icon, flags uint32) error {
	// A new-window order replaces the icon wholesale; otherwise the icon
	// is appended as an additional size.
	replace := flags&StateNew != 0
	if err := s.ws.SetIcon(w.Handle, icon.Data, replace); err != nil {
		s.logger.Warn("failed to set window icon", "window_id", w.ID, "error", err)
		return err
	}
	return nil
}

// OnNotifyIconCreate is a placeholder; notification-area icons are not
// rendered yet.
func (s *Synchronizer) OnNotifyIconCreate(info *OrderInfo) error {
	s.logger.Debug("notify icon create not implemented", "window_id", info.WindowID)
	return nil
}

// OnNotifyIconUpdate is a placeholder; notification-area icons are not
// rendered yet.
func (s *Synchronizer) OnNotifyIconUpdate(info *OrderInfo) error {
	s.logger.Debug("notify icon update not implemented", "window_id", info.WindowID)
	return nil
}

// OnNotifyIconDelete is a placeholder; notification-area icons are not
// rendered yet.
func (s *Synchronizer) OnNotifyIconDelete(info *OrderInfo) error {
	s.logger.Debug("notify icon delete not implemented", "window_id", info.WindowID)
	return nil
}

// OnMonitoredDesktop is a placeholder.
func (s *Synchronizer) OnMonitoredDesktop(info *OrderInfo) error {
	s.logger.Debug("monitored desktop order not implemented")
	return nil
}

// OnNonMonitoredDesktop leaves seamless mode.
func (s *Synchronizer) OnNonMonitoredDesktop(info *OrderInfo) error {
	s.DisableSeamless()
	return nil
}
