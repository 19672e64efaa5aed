package rail

import "testing"

func TestPaint_DamageClippedToWindow(t *testing.T) {
	s, ws, _ := newTestSync(t)
	w := createWindow(t, s, 0x50, 100, 100, 200, 150)
	ws.reset()

	// Damage overlapping the window's lower-right quadrant.
	if err := s.PaintSurface(0x50, Rect{Left: 250, Top: 200, Right: 400, Bottom: 300}); err != nil {
		t.Fatalf("PaintSurface() error: %v", err)
	}

	if len(ws.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(ws.updates))
	}
	u := ws.updates[0]
	if u.id != w.Handle {
		t.Fatalf("repaint targeted %v, want %v", u.id, w.Handle)
	}
	// Intersection (250,200)-(300,250) in screen space, window-local
	// origin at (100,100).
	if u.x != 150 || u.y != 100 || u.w != 50 || u.h != 50 {
		t.Fatalf("repaint rect = (%d,%d,%d,%d), want (150,100,50,50)", u.x, u.y, u.w, u.h)
	}
}

func TestPaint_DisjointDamageIsNoOp(t *testing.T) {
	s, ws, _ := newTestSync(t)
	createWindow(t, s, 0x51, 100, 100, 50, 50)
	ws.reset()

	if err := s.PaintSurface(0x51, Rect{Left: 0, Top: 0, Right: 90, Bottom: 90}); err != nil {
		t.Fatalf("PaintSurface() error: %v", err)
	}
	if len(ws.updates) != 0 {
		t.Fatalf("disjoint damage issued %d repaints", len(ws.updates))
	}
}

func TestPaint_UnknownWindowIsBenign(t *testing.T) {
	s, ws, _ := newTestSync(t)

	if err := s.PaintSurface(0x52, Rect{Right: 100, Bottom: 100}); err != nil {
		t.Fatalf("PaintSurface() error: %v", err)
	}
	if len(ws.updates) != 0 {
		t.Fatal("unknown window produced a repaint")
	}
}

func TestPaint_NegativeOriginClampedAtScreenEdge(t *testing.T) {
	s, ws, _ := newTestSync(t)
	w := createWindow(t, s, 0x53, 0, 0, 200, 200)
	ws.reset()

	// Window partially off-screen to the upper left.
	w.X, w.Y = -50, -30

	if err := s.PaintSurface(0x53, Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}); err != nil {
		t.Fatalf("PaintSurface() error: %v", err)
	}
	if len(ws.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(ws.updates))
	}
	u := ws.updates[0]
	// On-screen part starts at (0,0), which is (50,30) window-local.
	if u.x != 50 || u.y != 30 || u.w != 100 || u.h != 100 {
		t.Fatalf("repaint rect = (%d,%d,%d,%d), want (50,30,100,100)", u.x, u.y, u.w, u.h)
	}
}

func TestPaint_BroadcastRepaintsEveryOverlappingWindow(t *testing.T) {
	s, ws, _ := newTestSync(t)
	createWindow(t, s, 1, 0, 0, 100, 100)
	createWindow(t, s, 2, 200, 0, 100, 100)
	createWindow(t, s, 3, 1000, 1000, 100, 100)
	ws.reset()

	if err := s.Paint(Rect{Left: 0, Top: 0, Right: 400, Bottom: 400}); err != nil {
		t.Fatalf("Paint() error: %v", err)
	}
	if len(ws.updates) != 2 {
		t.Fatalf("updates = %d, want the 2 overlapping windows", len(ws.updates))
	}
}
