package rail

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/garydev10/railwin/internal/platform"
)

func TestSession_HandshakeSendsStartCommand(t *testing.T) {
	s, _, ch := newTestSync(t)

	if err := s.OnHandshake(7600); err != nil {
		t.Fatalf("OnHandshake() error: %v", err)
	}
	if len(ch.executes) != 1 || ch.executes[0].program != "notepad.exe" {
		t.Fatalf("executes = %+v, want the configured program once", ch.executes)
	}

	if err := s.OnHandshakeEx(7600, 0x1); err != nil {
		t.Fatalf("OnHandshakeEx() error: %v", err)
	}
	if len(ch.executes) != 2 {
		t.Fatalf("executes = %d after extended handshake, want 2", len(ch.executes))
	}
}

func TestSession_ExecuteResultOKEnablesSeamless(t *testing.T) {
	s, _, _ := newTestSync(t)

	if err := s.OnExecuteResult(ExecOK, 0); err != nil {
		t.Fatalf("OnExecuteResult(OK) error: %v", err)
	}
	if !s.Seamless() {
		t.Fatal("seamless not enabled after successful execute")
	}
}

func TestSession_ExecuteFailureIsFatal(t *testing.T) {
	s, _, _ := newTestSync(t)

	err := s.OnExecuteResult(ExecNotInAllowlist, 0x3)
	if err == nil {
		t.Fatal("OnExecuteResult(failure) returned nil")
	}
	if !strings.Contains(err.Error(), "EXEC_E_NOT_IN_ALLOWLIST") {
		t.Fatalf("error %q does not carry the remote code name", err)
	}
	if s.Seamless() {
		t.Fatal("seamless enabled despite execute failure")
	}
}

func TestSession_MoveSizeRequestDelegatesToMover(t *testing.T) {
	s, ws, _ := newTestSync(t)
	w := createWindow(t, s, 0x30, 0, 0, 100, 100)
	ws.reset()

	// Resize edges carry root coordinates already.
	if err := s.OnLocalMoveSizeRequest(0x30, MoveSizeBottomRight, true, 99, 98); err != nil {
		t.Fatalf("start request: %v", err)
	}
	if len(ws.moveStarts) != 1 {
		t.Fatalf("moveStarts = %d, want 1", len(ws.moveStarts))
	}
	g := ws.moveStarts[0]
	if g.dir != platform.MoveResizeSizeBottomRight || g.rootX != 99 || g.rootY != 98 {
		t.Fatalf("grab = %+v, want bottom-right at (99,98)", g)
	}

	if err := s.OnLocalMoveSizeRequest(0x30, MoveSizeBottomRight, false, 0, 0); err != nil {
		t.Fatalf("end request: %v", err)
	}
	if w.LocalMove.State != LocalMoveTerminating {
		t.Fatalf("state = %v after end, want terminating", w.LocalMove.State)
	}
}

func TestSession_FullMoveTranslatesOriginToRoot(t *testing.T) {
	s, ws, _ := newTestSync(t)
	createWindow(t, s, 0x31, 0, 0, 100, 100)
	ws.reset()
	ws.translateDX, ws.translateDY = 300, 400

	if err := s.OnLocalMoveSizeRequest(0x31, MoveSizeMove, true, 10, 20); err != nil {
		t.Fatalf("move request: %v", err)
	}
	if len(ws.moveStarts) != 1 {
		t.Fatalf("moveStarts = %d, want 1", len(ws.moveStarts))
	}
	g := ws.moveStarts[0]
	if g.rootX != 310 || g.rootY != 420 {
		t.Fatalf("grab at (%d,%d), want translated (310,420)", g.rootX, g.rootY)
	}
}

func TestSession_MoveSizeRequestUnknownWindow(t *testing.T) {
	s, _, _ := newTestSync(t)

	err := s.OnLocalMoveSizeRequest(0x99, MoveSizeMove, true, 0, 0)
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("error = %v, want ErrWindowNotFound", err)
	}
}

func TestSession_MinMaxInfoForwardsConstraints(t *testing.T) {
	s, ws, _ := newTestSync(t)
	createWindow(t, s, 0x32, 0, 0, 100, 100)
	ws.reset()

	info := &MinMaxInfo{
		MaxWidth: 1920, MaxHeight: 1080,
		MinTrackWidth: 132, MinTrackHeight: 38,
		MaxTrackWidth: 1936, MaxTrackHeight: 1096,
	}
	if err := s.OnMinMaxInfo(0x32, info); err != nil {
		t.Fatalf("OnMinMaxInfo() error: %v", err)
	}
	if len(ws.constraints) != 1 {
		t.Fatalf("constraints = %d calls, want 1", len(ws.constraints))
	}
	c := ws.constraints[0]
	if c.MinTrackWidth != 132 || c.MaxTrackHeight != 1096 {
		t.Fatalf("constraints = %+v, not forwarded intact", c)
	}

	// Unknown window is benign.
	if err := s.OnMinMaxInfo(0xAA, info); err != nil {
		t.Fatalf("unknown window errored: %v", err)
	}
	if len(ws.constraints) != 1 {
		t.Fatal("unknown window still set constraints")
	}
}

func TestSession_SystemCommandRejectsWideIDs(t *testing.T) {
	s, _, ch := newTestSync(t)

	if err := s.SendSystemCommand(0x33, 0xF020); err != nil {
		t.Fatalf("SendSystemCommand() error: %v", err)
	}
	if len(ch.systemCommands) != 1 || ch.systemCommands[0].command != 0xF020 {
		t.Fatalf("systemCommands = %+v, want one minimize", ch.systemCommands)
	}

	if err := s.SendSystemCommand(math.MaxUint32+1, 0xF020); err == nil {
		t.Fatal("id above the 32-bit wire range accepted")
	}
	if len(ch.systemCommands) != 1 {
		t.Fatal("rejected command still reached the channel")
	}
}

func TestSession_ActivateReappliesStyle(t *testing.T) {
	s, ws, ch := newTestSync(t)
	w := createWindow(t, s, 0x34, 0, 0, 100, 100)
	w.Style = 0x00C00000
	w.ExtendedStyle = 0x80
	ws.reset()

	if err := s.ActivateWindow(w.Handle, true); err != nil {
		t.Fatalf("ActivateWindow(true) error: %v", err)
	}
	if len(ws.styles) != 1 || ws.styles[0].style != 0x00C00000 {
		t.Fatalf("styles = %+v, want the remote style re-applied", ws.styles)
	}
	if len(ch.activates) != 1 || ch.activates[0].windowID != 0x34 || !ch.activates[0].enabled {
		t.Fatalf("activates = %+v, want enabled for id 0x34", ch.activates)
	}

	// Deactivation reports upstream without touching the style.
	if err := s.ActivateWindow(w.Handle, false); err != nil {
		t.Fatalf("ActivateWindow(false) error: %v", err)
	}
	if len(ws.styles) != 1 {
		t.Fatal("deactivation re-applied the style")
	}
	if len(ch.activates) != 2 || ch.activates[1].enabled {
		t.Fatalf("activates = %+v, want a disabled report", ch.activates)
	}

	// Foreign handles are ignored.
	if err := s.ActivateWindow(w.Handle+100, true); err != nil {
		t.Fatalf("foreign handle errored: %v", err)
	}
	if len(ch.activates) != 2 {
		t.Fatal("foreign handle produced an activate order")
	}
}

func TestSession_SeamlessToggleIsIdempotent(t *testing.T) {
	s, _, _ := newTestSync(t)

	s.EnableSeamless()
	s.EnableSeamless()
	if !s.Seamless() {
		t.Fatal("seamless off after enable")
	}
	s.DisableSeamless()
	s.DisableSeamless()
	if s.Seamless() {
		t.Fatal("seamless on after disable")
	}
}
