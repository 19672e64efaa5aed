package rail

// PaintSurface requests a repaint of the part of a window touched by a
// damage rectangle in screen coordinates. The damage is intersected with
// the window bounds and converted to window-local coordinates before the
// repaint request. Unknown ids are benign.
func (s *Synchronizer) PaintSurface(windowID uint64, damage Rect) error {
	w, ok := s.registry.Get(windowID)
	if !ok {
		return nil
	}

	winLeft := max(w.X, 0)
	winTop := max(w.Y, 0)
	winRight := max(w.X+w.Width, 0)
	winBottom := max(w.Y+w.Height, 0)

	left := max(winLeft, int(damage.Left))
	top := max(winTop, int(damage.Top))
	right := min(winRight, int(damage.Right))
	bottom := min(winBottom, int(damage.Bottom))
	if left >= right || top >= bottom {
		return nil
	}

	return s.ws.UpdateArea(w.Handle, left-w.X, top-w.Y, right-left, bottom-top)
}

// Paint runs PaintSurface for every registered window, used when a
// damage region is not attributable to a single window.
func (s *Synchronizer) Paint(damage Rect) error {
	var firstErr error
	s.registry.ForEach(func(w *AppWindow) bool {
		if err := s.PaintSurface(w.ID, damage); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}
