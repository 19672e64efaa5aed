package platform

// WindowID is a window-system handle for a local top-level window.
type WindowID uint32

// Rect describes a rectangular region in screen or window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// ShowCmd selects the visible state requested for a local window.
type ShowCmd int

const (
	ShowCmdHide ShowCmd = iota
	ShowCmdNormal
	ShowCmdMinimize
	ShowCmdMaximize
)

// String returns the string representation of the show command.
func (c ShowCmd) String() string {
	switch c {
	case ShowCmdHide:
		return "hide"
	case ShowCmdNormal:
		return "normal"
	case ShowCmdMinimize:
		return "minimize"
	case ShowCmdMaximize:
		return "maximize"
	default:
		return "unknown"
	}
}

// MoveResizeDirection is an interactive move/resize direction, using the
// EWMH _NET_WM_MOVERESIZE numbering.
type MoveResizeDirection int

const (
	MoveResizeSizeTopLeft     MoveResizeDirection = 0
	MoveResizeSizeTop         MoveResizeDirection = 1
	MoveResizeSizeTopRight    MoveResizeDirection = 2
	MoveResizeSizeRight       MoveResizeDirection = 3
	MoveResizeSizeBottomRight MoveResizeDirection = 4
	MoveResizeSizeBottom      MoveResizeDirection = 5
	MoveResizeSizeBottomLeft  MoveResizeDirection = 6
	MoveResizeSizeLeft        MoveResizeDirection = 7
	MoveResizeMove            MoveResizeDirection = 8
	MoveResizeSizeKeyboard    MoveResizeDirection = 9
	MoveResizeMoveKeyboard    MoveResizeDirection = 10
	MoveResizeCancel          MoveResizeDirection = 11
)

// IsKeyboard reports whether the direction is keyboard driven.
func (d MoveResizeDirection) IsKeyboard() bool {
	return d == MoveResizeSizeKeyboard || d == MoveResizeMoveKeyboard
}

// SizeConstraints carries min/max tracking sizes and the maximized
// position/size forwarded from the remote host.
type SizeConstraints struct {
	MaxWidth       int
	MaxHeight      int
	MaxPosX        int
	MaxPosY        int
	MinTrackWidth  int
	MinTrackHeight int
	MaxTrackWidth  int
	MaxTrackHeight int
}

// WindowSystem abstracts the local windowing operations the synchronizer
// needs. The X11 implementation lives in internal/x11; tests use a
// recording fake.
type WindowSystem interface {
	// CreateWindow creates and maps a local window at the given geometry.
	CreateWindow(x, y, width, height int) (WindowID, error)
	// DestroyWindow releases the local window resource.
	DestroyWindow(id WindowID) error
	// MoveResize moves and resizes the window; the window system repaints
	// the exposed area as a side effect.
	MoveResize(id WindowID, x, y, width, height int) error
	// UpdateArea requests a repaint of an area in window-local coordinates.
	UpdateArea(id WindowID, x, y, width, height int) error
	// SetStyle applies the remote style and extended style bitmasks.
	SetStyle(id WindowID, style, extendedStyle uint32) error
	// SetTitle replaces the window title.
	SetTitle(id WindowID, title string) error
	// SetIcon sets the window icon property. Data is the bulk integer
	// payload with leading width and height. When replace is false the
	// icon is appended as an additional size.
	SetIcon(id WindowID, data []uint, replace bool) error
	// SetShape replaces the window shape with the given rectangles in
	// window-local coordinates. An empty slice resets the shape.
	SetShape(id WindowID, rects []Rect) error
	// ShowWindow applies a visible-state change.
	ShowWindow(id WindowID, cmd ShowCmd) error
	// SetSizeConstraints forwards min/max tracking sizes to the window
	// manager.
	SetSizeConstraints(id WindowID, c SizeConstraints) error
	// StartMoveResize begins a native interactive move/resize at the given
	// root-relative position.
	StartMoveResize(id WindowID, dir MoveResizeDirection, rootX, rootY int) error
	// QueryPointer returns the current pointer position in root
	// coordinates.
	QueryPointer(id WindowID) (x, y int, err error)
	// SendButtonRelease synthesizes a pointer button-release at the given
	// root position, terminating any interactive grab.
	SendButtonRelease(x, y int) error
	// TranslateToRoot converts window-local coordinates to root
	// coordinates.
	TranslateToRoot(id WindowID, x, y int) (rootX, rootY int, err error)
}

// Channel is the outbound remote command channel: messages the
// synchronizer sends back to the session host.
type Channel interface {
	// SendWindowMove reports new window geometry. Right and bottom are
	// exclusive.
	SendWindowMove(windowID uint32, left, top, right, bottom int16) error
	// SendActivate reports local activation or deactivation of a window.
	SendActivate(windowID uint32, enabled bool) error
	// SendSystemCommand forwards a system command (minimize, restore,
	// close) for one window.
	SendSystemCommand(windowID uint32, command uint16) error
	// SendExecute asks the host to launch the published application.
	SendExecute(program, workingDir, arguments string) error
}
