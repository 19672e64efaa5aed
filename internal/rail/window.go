package rail

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/garydev10/railwin/internal/platform"
)

// DefaultWindowTitle is assigned when a new-window order carries no title
// field at all. A window is never left without a title.
const DefaultWindowTitle = "RemoteAppWindow"

// NoSurface is the sentinel surface binding for a window created before
// its pixel surface is known.
const NoSurface uint32 = 0xFFFFFFFF

// LocalMoveState tracks the interactive move/resize handshake for one
// window.
type LocalMoveState int

const (
	LocalMoveNotActive LocalMoveState = iota
	LocalMoveInProgress
	LocalMoveTerminating
)

// String returns the string representation of the local move state.
func (s LocalMoveState) String() string {
	switch s {
	case LocalMoveNotActive:
		return "not-active"
	case LocalMoveInProgress:
		return "in-progress"
	case LocalMoveTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// LocalMove is the embedded move/resize gesture state of an AppWindow.
type LocalMove struct {
	State     LocalMoveState
	Direction platform.MoveResizeDirection
}

// AppWindow is the local model of one remote window. The remote geometry
// fields (WindowOffset*, Window{Width,Height}, client area, deltas,
// visible offsets) are the host's authoritative values; X, Y, Width and
// Height are the geometry last observed on the local window. The two sets
// drift independently and are reconciled by the synchronizer and the move
// coordinator.
type AppWindow struct {
	ID     uint64
	Handle platform.WindowID

	// SurfaceID binds the window to the compositing surface that renders
	// its pixels. Opaque to this package.
	SurfaceID uint32

	// Local observed geometry.
	X      int
	Y      int
	Width  int
	Height int

	// Authoritative remote geometry.
	WindowOffsetX int32
	WindowOffsetY int32
	WindowWidth   uint32
	WindowHeight  uint32

	ResizeMarginLeft   uint32
	ResizeMarginRight  uint32
	ResizeMarginTop    uint32
	ResizeMarginBottom uint32

	ClientOffsetX    int32
	ClientOffsetY    int32
	ClientAreaWidth  uint32
	ClientAreaHeight uint32

	WindowClientDeltaX int32
	WindowClientDeltaY int32

	VisibleOffsetX int32
	VisibleOffsetY int32

	Style         uint32
	ExtendedStyle uint32
	ShowState     ShowState
	Title         string

	// OwnerWindowID is a weak reference to another window's identity;
	// it may dangle if the owner was deleted out of order and must be
	// resolved through the registry at use time.
	OwnerWindowID uint32

	WindowRects     []Rect
	VisibilityRects []Rect

	IsMapped  bool
	LocalMove LocalMove
}

// RemoteGeometryMatchesLocal reports whether the host geometry and the
// locally observed geometry agree.
func (w *AppWindow) RemoteGeometryMatchesLocal() bool {
	return w.X == int(w.WindowOffsetX) && w.Y == int(w.WindowOffsetY) &&
		w.Width == int(w.WindowWidth) && w.Height == int(w.WindowHeight)
}

var (
	// ErrWindowNotFound is returned when a window id has no registry entry.
	ErrWindowNotFound = errors.New("window not found")
	// ErrDuplicateWindow is returned when creating a window id that is
	// already registered.
	ErrDuplicateWindow = errors.New("window already registered")
)

// Registry owns every AppWindow of one session, keyed by the remote
// window id. Deleting an entry destroys the backing local window first,
// so no registry entry ever outlives its window resource and vice versa.
type Registry struct {
	mu      sync.RWMutex
	windows map[uint64]*AppWindow
	ws      platform.WindowSystem
	logger  *slog.Logger
}

// NewRegistry creates an empty registry bound to a window system.
func NewRegistry(ws platform.WindowSystem, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		windows: make(map[uint64]*AppWindow),
		ws:      ws,
		logger:  logger,
	}
}

// Create registers a new window and creates its local window resource.
// It fails with ErrDuplicateWindow if the id is already present; routing
// a new-window order for a known id to update instead is the
// synchronizer's decision, not the registry's.
func (r *Registry) Create(id uint64, x, y, width, height int, surfaceID uint32) (*AppWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[id]; ok {
		return nil, fmt.Errorf("create window %#x: %w", id, ErrDuplicateWindow)
	}

	handle, err := r.ws.CreateWindow(x, y, width, height)
	if err != nil {
		return nil, fmt.Errorf("create window %#x: %w", id, err)
	}

	w := &AppWindow{
		ID:        id,
		Handle:    handle,
		SurfaceID: surfaceID,
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		IsMapped:  true,
	}
	r.windows[id] = w
	return w, nil
}

// Get returns the window for id, or false if unknown.
func (r *Registry) Get(id uint64) (*AppWindow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.windows[id]
	return w, ok
}

// FindByHandle returns the window backed by the given local window
// resource, or false if none.
func (r *Registry) FindByHandle(handle platform.WindowID) (*AppWindow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.windows {
		if w.Handle == handle {
			return w, true
		}
	}
	return nil, false
}

// Delete destroys the local window resource and removes the entry.
// Deleting an unknown id is a benign no-op and returns false.
func (r *Registry) Delete(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[id]
	if !ok {
		return false
	}
	if err := r.ws.DestroyWindow(w.Handle); err != nil {
		r.logger.Warn("failed to destroy local window", "window_id", id, "error", err)
	}
	delete(r.windows, id)
	return true
}

// ForEach calls fn for every registered window over a snapshot taken
// under the lock, so fn may create or delete windows without deadlock.
// Iteration stops when fn returns false.
func (r *Registry) ForEach(fn func(w *AppWindow) bool) {
	r.mu.RLock()
	snapshot := make([]*AppWindow, 0, len(r.windows))
	for _, w := range r.windows {
		snapshot = append(snapshot, w)
	}
	r.mu.RUnlock()

	for _, w := range snapshot {
		if !fn(w) {
			return
		}
	}
}

// Len returns the number of registered windows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.windows)
}
