package rail

import (
	"errors"
	"testing"
)

func TestRegistry_CreateAndLookup(t *testing.T) {
	ws := newFakeWindowSystem()
	r := NewRegistry(ws, testLogger())

	w, err := r.Create(0x40, 10, 20, 300, 200, NoSurface)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if w.X != 10 || w.Y != 20 || w.Width != 300 || w.Height != 200 {
		t.Fatalf("local geometry = (%d,%d,%d,%d), want the create geometry", w.X, w.Y, w.Width, w.Height)
	}
	if !w.IsMapped {
		t.Fatal("new window not marked mapped")
	}

	got, ok := r.Get(0x40)
	if !ok || got != w {
		t.Fatal("Get() did not return the created window")
	}
	byHandle, ok := r.FindByHandle(w.Handle)
	if !ok || byHandle != w {
		t.Fatal("FindByHandle() did not return the created window")
	}
	if _, ok := r.Get(0x41); ok {
		t.Fatal("Get() found an unregistered id")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistry_DuplicateCreateFails(t *testing.T) {
	ws := newFakeWindowSystem()
	r := NewRegistry(ws, testLogger())

	if _, err := r.Create(0x42, 0, 0, 10, 10, NoSurface); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := r.Create(0x42, 0, 0, 10, 10, NoSurface); !errors.Is(err, ErrDuplicateWindow) {
		t.Fatalf("duplicate create error = %v, want ErrDuplicateWindow", err)
	}
	if len(ws.created) != 1 {
		t.Fatalf("window system saw %d creates, want 1", len(ws.created))
	}
}

func TestRegistry_CreateFailureLeavesNoEntry(t *testing.T) {
	ws := newFakeWindowSystem()
	ws.failCreate = true
	r := NewRegistry(ws, testLogger())

	if _, err := r.Create(0x43, 0, 0, 10, 10, NoSurface); err == nil {
		t.Fatal("Create() succeeded despite window-system failure")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after failed create, want 0", r.Len())
	}
}

func TestRegistry_DeleteDestroysBackingWindow(t *testing.T) {
	ws := newFakeWindowSystem()
	r := NewRegistry(ws, testLogger())

	w, err := r.Create(0x44, 0, 0, 10, 10, NoSurface)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if !r.Delete(0x44) {
		t.Fatal("Delete() returned false for a registered id")
	}
	if len(ws.destroyed) != 1 || ws.destroyed[0] != w.Handle {
		t.Fatalf("destroyed = %v, want [%v]", ws.destroyed, w.Handle)
	}
	if r.Delete(0x44) {
		t.Fatal("Delete() returned true for an already-removed id")
	}
}

func TestRegistry_ForEachAllowsMutation(t *testing.T) {
	ws := newFakeWindowSystem()
	r := NewRegistry(ws, testLogger())

	for id := uint64(1); id <= 3; id++ {
		if _, err := r.Create(id, 0, 0, 10, 10, NoSurface); err != nil {
			t.Fatalf("Create(%d) error: %v", id, err)
		}
	}

	// Deleting during iteration must not deadlock.
	visited := 0
	r.ForEach(func(w *AppWindow) bool {
		visited++
		r.Delete(w.ID)
		return true
	})
	if visited != 3 {
		t.Fatalf("visited %d windows, want 3", visited)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d after delete-all, want 0", r.Len())
	}

	// Early stop.
	if _, err := r.Create(9, 0, 0, 10, 10, NoSurface); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := r.Create(10, 0, 0, 10, 10, NoSurface); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	visited = 0
	r.ForEach(func(w *AppWindow) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("visited %d windows after early stop, want 1", visited)
	}
}
