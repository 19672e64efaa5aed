package rail

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/garydev10/railwin/internal/platform"
)

type geomCall struct {
	id         platform.WindowID
	x, y, w, h int
}

type styleCall struct {
	id      platform.WindowID
	style   uint32
	exStyle uint32
}

type titleCall struct {
	id    platform.WindowID
	title string
}

type iconCall struct {
	id      platform.WindowID
	data    []uint
	replace bool
}

type shapeCall struct {
	id    platform.WindowID
	rects []platform.Rect
}

type showCall struct {
	id  platform.WindowID
	cmd platform.ShowCmd
}

type moveStartCall struct {
	id           platform.WindowID
	dir          platform.MoveResizeDirection
	rootX, rootY int
}

// fakeWindowSystem records every window-system call the core issues.
type fakeWindowSystem struct {
	nextID platform.WindowID

	created     []platform.WindowID
	destroyed   []platform.WindowID
	moves       []geomCall
	updates     []geomCall
	styles      []styleCall
	titles      []titleCall
	icons       []iconCall
	shapes      []shapeCall
	shows       []showCall
	constraints []platform.SizeConstraints
	moveStarts  []moveStartCall
	releases    [][2]int

	pointerX, pointerY       int
	translateDX, translateDY int

	failCreate bool
}

func newFakeWindowSystem() *fakeWindowSystem {
	return &fakeWindowSystem{nextID: 1000}
}

func (f *fakeWindowSystem) CreateWindow(x, y, width, height int) (platform.WindowID, error) {
	if f.failCreate {
		return 0, errors.New("create refused")
	}
	f.nextID++
	f.created = append(f.created, f.nextID)
	return f.nextID, nil
}

func (f *fakeWindowSystem) DestroyWindow(id platform.WindowID) error {
	f.destroyed = append(f.destroyed, id)
	return nil
}

func (f *fakeWindowSystem) MoveResize(id platform.WindowID, x, y, width, height int) error {
	f.moves = append(f.moves, geomCall{id, x, y, width, height})
	return nil
}

func (f *fakeWindowSystem) UpdateArea(id platform.WindowID, x, y, width, height int) error {
	f.updates = append(f.updates, geomCall{id, x, y, width, height})
	return nil
}

func (f *fakeWindowSystem) SetStyle(id platform.WindowID, style, extendedStyle uint32) error {
	f.styles = append(f.styles, styleCall{id, style, extendedStyle})
	return nil
}

func (f *fakeWindowSystem) SetTitle(id platform.WindowID, title string) error {
	f.titles = append(f.titles, titleCall{id, title})
	return nil
}

func (f *fakeWindowSystem) SetIcon(id platform.WindowID, data []uint, replace bool) error {
	f.icons = append(f.icons, iconCall{id, append([]uint(nil), data...), replace})
	return nil
}

func (f *fakeWindowSystem) SetShape(id platform.WindowID, rects []platform.Rect) error {
	f.shapes = append(f.shapes, shapeCall{id, append([]platform.Rect(nil), rects...)})
	return nil
}

func (f *fakeWindowSystem) ShowWindow(id platform.WindowID, cmd platform.ShowCmd) error {
	f.shows = append(f.shows, showCall{id, cmd})
	return nil
}

func (f *fakeWindowSystem) SetSizeConstraints(id platform.WindowID, c platform.SizeConstraints) error {
	f.constraints = append(f.constraints, c)
	return nil
}

func (f *fakeWindowSystem) StartMoveResize(id platform.WindowID, dir platform.MoveResizeDirection, rootX, rootY int) error {
	f.moveStarts = append(f.moveStarts, moveStartCall{id, dir, rootX, rootY})
	return nil
}

func (f *fakeWindowSystem) QueryPointer(id platform.WindowID) (int, int, error) {
	return f.pointerX, f.pointerY, nil
}

func (f *fakeWindowSystem) SendButtonRelease(x, y int) error {
	f.releases = append(f.releases, [2]int{x, y})
	return nil
}

func (f *fakeWindowSystem) TranslateToRoot(id platform.WindowID, x, y int) (int, int, error) {
	return x + f.translateDX, y + f.translateDY, nil
}

// reset clears recorded calls without touching registry state.
func (f *fakeWindowSystem) reset() {
	f.created = nil
	f.destroyed = nil
	f.moves = nil
	f.updates = nil
	f.styles = nil
	f.titles = nil
	f.icons = nil
	f.shapes = nil
	f.shows = nil
	f.constraints = nil
	f.moveStarts = nil
	f.releases = nil
}

type windowMoveCall struct {
	windowID                 uint32
	left, top, right, bottom int16
}

type activateCall struct {
	windowID uint32
	enabled  bool
}

type systemCommandCall struct {
	windowID uint32
	command  uint16
}

type executeCall struct {
	program, workingDir, arguments string
}

// fakeChannel records outbound orders.
type fakeChannel struct {
	windowMoves    []windowMoveCall
	activates      []activateCall
	systemCommands []systemCommandCall
	executes       []executeCall
}

func (f *fakeChannel) SendWindowMove(windowID uint32, left, top, right, bottom int16) error {
	f.windowMoves = append(f.windowMoves, windowMoveCall{windowID, left, top, right, bottom})
	return nil
}

func (f *fakeChannel) SendActivate(windowID uint32, enabled bool) error {
	f.activates = append(f.activates, activateCall{windowID, enabled})
	return nil
}

func (f *fakeChannel) SendSystemCommand(windowID uint32, command uint16) error {
	f.systemCommands = append(f.systemCommands, systemCommandCall{windowID, command})
	return nil
}

func (f *fakeChannel) SendExecute(program, workingDir, arguments string) error {
	f.executes = append(f.executes, executeCall{program, workingDir, arguments})
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSync builds a synchronizer over fakes with a 2x4 icon cache.
func newTestSync(t *testing.T) (*Synchronizer, *fakeWindowSystem, *fakeChannel) {
	t.Helper()
	ws := newFakeWindowSystem()
	ch := &fakeChannel{}
	registry := NewRegistry(ws, testLogger())
	icons := NewIconCache(2, 4)
	s := NewSynchronizer(registry, icons, ws, ch, LaunchSpec{Program: "notepad.exe"}, testLogger())
	return s, ws, ch
}

// createWindow pushes a new-window order and returns the entity.
func createWindow(t *testing.T, s *Synchronizer, id uint64, x, y int32, w, h uint32) *AppWindow {
	t.Helper()
	info := &OrderInfo{
		WindowID:   id,
		FieldFlags: StateNew | FieldWindowOffset | FieldWindowSize,
	}
	state := &WindowStateOrder{
		WindowOffsetX: x,
		WindowOffsetY: y,
		WindowWidth:   w,
		WindowHeight:  h,
	}
	if err := s.OnWindowCreateOrUpdate(info, state); err != nil {
		t.Fatalf("create window %#x: %v", id, err)
	}
	win, ok := s.Registry().Get(id)
	if !ok {
		t.Fatalf("window %#x not registered after create", id)
	}
	return win
}
