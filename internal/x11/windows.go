package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/garydev10/railwin/internal/platform"
)

// Remote style bits this backend cares about when mapping window styles
// onto window-manager hints.
const (
	styleCaption       = 0x00C00000 // WS_CAPTION
	stylePopup         = 0x80000000 // WS_POPUP
	extStyleToolWindow = 0x00000080 // WS_EX_TOOLWINDOW
)

// CreateWindow creates and maps a top-level window at the given
// geometry. X rejects zero-sized windows, so degenerate sizes are
// clamped to one pixel; the following geometry orders correct them.
func (ws *WindowSystem) CreateWindow(x, y, width, height int) (platform.WindowID, error) {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	win, err := xwindow.Generate(ws.xu)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}
	if err := win.CreateChecked(ws.root, x, y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0x000000, xproto.EventMaskStructureNotify|xproto.EventMaskExposure); err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}
	win.Map()
	return platform.WindowID(win.Id), nil
}

// DestroyWindow releases the window resource.
func (ws *WindowSystem) DestroyWindow(id platform.WindowID) error {
	xwindow.New(ws.xu, xproto.Window(id)).Destroy()
	return nil
}

// MoveResize moves and resizes a window to the specified geometry.
func (ws *WindowSystem) MoveResize(id platform.WindowID, x, y, width, height int) error {
	win := xwindow.New(ws.xu, xproto.Window(id))

	// Use EWMH MoveResize for better WM compatibility
	err := ewmh.MoveresizeWindow(ws.xu, xproto.Window(id), x, y, width, height)
	if err != nil {
		// Fallback to direct window manipulation
		win.MoveResize(x, y, width, height)
	}
	return nil
}

// UpdateArea requests a repaint of a window-local area by clearing it
// with exposures, which routes the damage to the surface painter.
func (ws *WindowSystem) UpdateArea(id platform.WindowID, x, y, width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return xproto.ClearAreaChecked(ws.xu.Conn(), true, xproto.Window(id),
		int16(x), int16(y), uint16(width), uint16(height)).Check()
}

// SetStyle maps the remote style bitmasks onto window-manager hints:
// decorations via _MOTIF_WM_HINTS and the window type via EWMH.
func (ws *WindowSystem) SetStyle(id platform.WindowID, style, extendedStyle uint32) error {
	win := xproto.Window(id)

	decorated := style&styleCaption == styleCaption && style&stylePopup == 0
	var decorations uint
	if decorated {
		decorations = 1
	}

	// flags=MWM_HINTS_DECORATIONS, functions, decorations, input, status
	const mwmHintsDecorations = 1 << 1
	if err := xprop.ChangeProp32(ws.xu, win, "_MOTIF_WM_HINTS", "_MOTIF_WM_HINTS",
		mwmHintsDecorations, 0, decorations, 0, 0); err != nil {
		return fmt.Errorf("failed to set motif hints: %w", err)
	}

	windowType := "_NET_WM_WINDOW_TYPE_NORMAL"
	switch {
	case extendedStyle&extStyleToolWindow != 0:
		windowType = "_NET_WM_WINDOW_TYPE_UTILITY"
	case !decorated && style&stylePopup != 0:
		windowType = "_NET_WM_WINDOW_TYPE_DIALOG"
	}
	if err := ewmh.WmWindowTypeSet(ws.xu, win, []string{windowType}); err != nil {
		return fmt.Errorf("failed to set window type: %w", err)
	}
	return nil
}

// SetTitle replaces the window title, setting both the EWMH and ICCCM
// properties since window managers read either.
func (ws *WindowSystem) SetTitle(id platform.WindowID, title string) error {
	win := xproto.Window(id)
	if err := ewmh.WmNameSet(ws.xu, win, title); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := icccm.WmNameSet(ws.xu, win, title); err != nil {
		return fmt.Errorf("failed to set WM_NAME: %w", err)
	}
	return nil
}

// SetIcon sets the _NET_WM_ICON property from the bulk integer payload
// (leading width and height, then ARGB pixels). Append mode adds the
// icon as an additional size instead of replacing the property.
func (ws *WindowSystem) SetIcon(id platform.WindowID, data []uint, replace bool) error {
	iconAtom, err := xprop.Atm(ws.xu, "_NET_WM_ICON")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_ICON: %w", err)
	}
	cardinalAtom, err := xprop.Atm(ws.xu, "CARDINAL")
	if err != nil {
		return fmt.Errorf("failed to intern CARDINAL: %w", err)
	}

	// xprop.ChangeProp32 always replaces; build the request manually so
	// append mode is available for multi-size icons.
	mode := byte(xproto.PropModeReplace)
	if !replace {
		mode = xproto.PropModeAppend
	}
	buf := make([]byte, 4*len(data))
	for i, v := range data {
		xgb.Put32(buf[i*4:], uint32(v))
	}
	return xproto.ChangePropertyChecked(ws.xu.Conn(), mode, xproto.Window(id),
		iconAtom, cardinalAtom, 32, uint32(len(data)), buf).Check()
}

// SetShape replaces the bounding shape with the given window-local
// rectangles. An empty slice resets the shape to the full window.
func (ws *WindowSystem) SetShape(id platform.WindowID, rects []platform.Rect) error {
	win := xproto.Window(id)
	if len(rects) == 0 {
		return shape.MaskChecked(ws.xu.Conn(), shape.SoSet, shape.SkBounding,
			win, 0, 0, xproto.PixmapNone).Check()
	}

	xrects := make([]xproto.Rectangle, 0, len(rects))
	for _, r := range rects {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		xrects = append(xrects, xproto.Rectangle{
			X:      int16(r.X),
			Y:      int16(r.Y),
			Width:  uint16(r.Width),
			Height: uint16(r.Height),
		})
	}
	return shape.RectanglesChecked(ws.xu.Conn(), shape.SoSet, shape.SkBounding,
		xproto.ClipOrderingUnsorted, win, 0, 0, xrects).Check()
}

// ShowWindow applies a visible-state change.
func (ws *WindowSystem) ShowWindow(id platform.WindowID, cmd platform.ShowCmd) error {
	win := xproto.Window(id)
	switch cmd {
	case platform.ShowCmdHide:
		xwindow.New(ws.xu, win).Unmap()
		return nil
	case platform.ShowCmdNormal:
		xwindow.New(ws.xu, win).Map()
		return ws.unmaximizeWindow(win)
	case platform.ShowCmdMinimize:
		return ws.iconifyWindow(win)
	case platform.ShowCmdMaximize:
		if err := ewmh.WmStateReq(ws.xu, win, 1, "_NET_WM_STATE_MAXIMIZED_VERT"); err != nil {
			return fmt.Errorf("failed to maximize vertically: %w", err)
		}
		if err := ewmh.WmStateReq(ws.xu, win, 1, "_NET_WM_STATE_MAXIMIZED_HORZ"); err != nil {
			return fmt.Errorf("failed to maximize horizontally: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown show command %d", cmd)
	}
}

// unmaximizeWindow removes maximized state from a window
func (ws *WindowSystem) unmaximizeWindow(win xproto.Window) error {
	states, err := ewmh.WmStateGet(ws.xu, win)
	if err != nil {
		// Freshly created windows have no state property yet.
		return nil
	}

	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(ws.xu, win, 0, state)
		}
	}
	return nil
}

// iconifyWindow sends a WM_CHANGE_STATE client message with IconicState
// per ICCCM 4.1.4; xgbutil has no iconify helper.
func (ws *WindowSystem) iconifyWindow(win xproto.Window) error {
	atom, err := xprop.Atm(ws.xu, "WM_CHANGE_STATE")
	if err != nil {
		return fmt.Errorf("failed to intern WM_CHANGE_STATE: %w", err)
	}

	const iconicState = 3
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{iconicState, 0, 0, 0, 0}),
	}
	return xproto.SendEventChecked(ws.xu.Conn(), false, ws.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes())).Check()
}

// SetSizeConstraints forwards min/max tracking sizes via WM_NORMAL_HINTS.
func (ws *WindowSystem) SetSizeConstraints(id platform.WindowID, c platform.SizeConstraints) error {
	hints := icccm.NormalHints{}
	if c.MinTrackWidth > 0 || c.MinTrackHeight > 0 {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(c.MinTrackWidth)
		hints.MinHeight = uint(c.MinTrackHeight)
	}
	if c.MaxTrackWidth > 0 || c.MaxTrackHeight > 0 {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MaxWidth = uint(c.MaxTrackWidth)
		hints.MaxHeight = uint(c.MaxTrackHeight)
	}
	if hints.Flags == 0 {
		return nil
	}
	if err := icccm.WmNormalHintsSet(ws.xu, xproto.Window(id), &hints); err != nil {
		return fmt.Errorf("failed to set size hints: %w", err)
	}
	return nil
}

// StartMoveResize asks the window manager to begin a native interactive
// move/resize. We build the _NET_WM_MOVERESIZE message manually because
// the xgbutil ewmh helpers panic on this library version (uint vs int
// type assertion).
func (ws *WindowSystem) StartMoveResize(id platform.WindowID, dir platform.MoveResizeDirection, rootX, rootY int) error {
	atom, err := xprop.Atm(ws.xu, "_NET_WM_MOVERESIZE")
	if err != nil {
		return fmt.Errorf("failed to intern _NET_WM_MOVERESIZE: %w", err)
	}

	const button = 1
	const sourceIndication = 1 // normal application
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: xproto.Window(id),
		Type:   atom,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(rootX), uint32(rootY), uint32(dir), button, sourceIndication,
		}),
	}
	return xproto.SendEventChecked(ws.xu.Conn(), false, ws.root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes())).Check()
}

// QueryPointer returns the pointer position in root coordinates.
func (ws *WindowSystem) QueryPointer(id platform.WindowID) (int, int, error) {
	reply, err := xproto.QueryPointer(ws.xu.Conn(), xproto.Window(id)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// SendButtonRelease synthesizes a button-1 release at the given root
// position via XTEST, first warping the pointer there so the release is
// delivered at the expected coordinates.
func (ws *WindowSystem) SendButtonRelease(x, y int) error {
	conn := ws.xu.Conn()
	if err := xtest.FakeInputChecked(conn, xproto.MotionNotify, 0, 0,
		ws.root, int16(x), int16(y), 0).Check(); err != nil {
		return fmt.Errorf("failed to warp pointer: %w", err)
	}
	if err := xtest.FakeInputChecked(conn, xproto.ButtonRelease, 1, 0,
		ws.root, 0, 0, 0).Check(); err != nil {
		return fmt.Errorf("failed to release button: %w", err)
	}
	return nil
}

// TranslateToRoot converts window-local coordinates to root coordinates.
func (ws *WindowSystem) TranslateToRoot(id platform.WindowID, x, y int) (int, int, error) {
	reply, err := xproto.TranslateCoordinates(ws.xu.Conn(), xproto.Window(id), ws.root,
		int16(x), int16(y)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to translate coordinates: %w", err)
	}
	return int(reply.DstX), int(reply.DstY), nil
}
