package rail

import "fmt"

// Field-presence flags carried in the orderInfo of a window order, using
// the MS-RDPERP wire values. Only attributes whose bit is set are
// authoritative for that message.
const (
	FieldOwner             uint32 = 0x00000002
	FieldTitle             uint32 = 0x00000004
	FieldStyle             uint32 = 0x00000008
	FieldShow              uint32 = 0x00000010
	FieldResizeMarginX     uint32 = 0x00000080
	FieldWindowRects       uint32 = 0x00000100
	FieldVisibility        uint32 = 0x00000200
	FieldWindowSize        uint32 = 0x00000400
	FieldWindowOffset      uint32 = 0x00000800
	FieldVisibleOffset     uint32 = 0x00001000
	FieldIconBig           uint32 = 0x00002000
	FieldClientAreaOffset  uint32 = 0x00004000
	FieldWindowClientDelta uint32 = 0x00008000
	FieldClientAreaSize    uint32 = 0x00010000
	FieldResizeMarginY     uint32 = 0x08000000
	StateNew               uint32 = 0x10000000
)

// Flags whose presence forces a consolidated geometry refresh of the
// local window.
const positionOrSizeFlags = FieldWindowOffset | FieldWindowSize |
	FieldClientAreaOffset | FieldClientAreaSize | FieldWindowClientDelta |
	FieldVisibleOffset | FieldVisibility

// OrderInfo identifies the target window and the attributes a window
// order carries. It is consumed synchronously and never stored.
type OrderInfo struct {
	WindowID   uint64
	FieldFlags uint32
}

// Rect is a protocol rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left   uint16
	Top    uint16
	Right  uint16
	Bottom uint16
}

// ShowState is the remote window visible state.
type ShowState uint32

const (
	ShowStateHidden    ShowState = 0x00
	ShowStateMinimized ShowState = 0x02
	ShowStateMaximized ShowState = 0x03
	ShowStateVisible   ShowState = 0x05
)

// WindowStateOrder is a decoded window information order: a partial
// update whose valid fields are named by OrderInfo.FieldFlags.
type WindowStateOrder struct {
	OwnerWindowID uint32

	Style         uint32
	ExtendedStyle uint32

	ShowState ShowState

	// Title is already decoded to UTF-8 by the wire layer. TitlePresent
	// semantics are carried by FieldTitle; an empty string is a valid
	// title.
	Title string

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

	WindowRects     []Rect
	VisibilityRects []Rect
}

// IconInfo is a decoded TS_ICON_INFO: a device-independent bitmap icon
// plus its cache address.
type IconInfo struct {
	CacheID    uint8
	CacheEntry uint16

	Width  uint16
	Height uint16
	BPP    uint16

	// BitsColor holds the color bitmap, bottom-up with 4-byte aligned
	// scanlines. BitsMask holds the 1-bpp AND mask, bottom-up with
	// 2-byte aligned scanlines. ColorTable holds 4-byte BGRX palette
	// entries for indexed formats.
	BitsColor  []byte
	BitsMask   []byte
	ColorTable []byte
}

// CachedIconOrder references an icon previously stored in the cache.
type CachedIconOrder struct {
	CacheID    uint8
	CacheEntry uint16
}

// MoveSizeType is the move/resize classification of a server-initiated
// local move/size request (RAIL_WMSZ numbering).
type MoveSizeType uint16

const (
	MoveSizeLeft        MoveSizeType = 1
	MoveSizeRight       MoveSizeType = 2
	MoveSizeTop         MoveSizeType = 3
	MoveSizeTopLeft     MoveSizeType = 4
	MoveSizeTopRight    MoveSizeType = 5
	MoveSizeBottom      MoveSizeType = 6
	MoveSizeBottomLeft  MoveSizeType = 7
	MoveSizeBottomRight MoveSizeType = 8
	MoveSizeMove        MoveSizeType = 9
	MoveSizeKeyMove     MoveSizeType = 10
	MoveSizeKeySize     MoveSizeType = 11
)

var moveSizeTypeNames = []string{
	"(invalid)",
	"WMSZ_LEFT",
	"WMSZ_RIGHT",
	"WMSZ_TOP",
	"WMSZ_TOPLEFT",
	"WMSZ_TOPRIGHT",
	"WMSZ_BOTTOM",
	"WMSZ_BOTTOMLEFT",
	"WMSZ_BOTTOMRIGHT",
	"WMSZ_MOVE",
	"WMSZ_KEYMOVE",
	"WMSZ_KEYSIZE",
}

// String returns the protocol name of the move/size type.
func (t MoveSizeType) String() string {
	if int(t) < len(moveSizeTypeNames) {
		return moveSizeTypeNames[t]
	}
	return fmt.Sprintf("WMSZ(%d)", uint16(t))
}

// ExecResult is the remote outcome of an application execute request.
type ExecResult uint16

const (
	ExecOK             ExecResult = 0
	ExecHookNotLoaded  ExecResult = 1
	ExecDecodeFailed   ExecResult = 2
	ExecNotInAllowlist ExecResult = 3
	ExecFileNotFound   ExecResult = 4
	ExecFail           ExecResult = 5
	ExecSessionLocked  ExecResult = 6
)

var execResultNames = []string{
	"EXEC_S_OK",
	"EXEC_E_HOOK_NOT_LOADED",
	"EXEC_E_DECODE_FAILED",
	"EXEC_E_NOT_IN_ALLOWLIST",
	"EXEC_E_FILE_NOT_FOUND",
	"EXEC_E_FAIL",
	"EXEC_E_SESSION_LOCKED",
}

// String returns the protocol name of the execute result code.
func (r ExecResult) String() string {
	if int(r) < len(execResultNames) {
		return execResultNames[r]
	}
	return fmt.Sprintf("EXEC(%d)", uint16(r))
}

// MinMaxInfo carries per-window size constraints from the remote host.
type MinMaxInfo struct {
	MaxWidth       int16
	MaxHeight      int16
	MaxPosX        int16
	MaxPosY        int16
	MinTrackWidth  int16
	MinTrackHeight int16
	MaxTrackWidth  int16
	MaxTrackHeight int16
}
