package contour

import "testing"

func TestImageManagerStoreAndDedup(t *testing.T) {
	m := NewImageManager()

	data := []byte{1, 2, 3, 4}
	id1 := m.Store(1, 1, data)
	id2 := m.Store(1, 1, []byte{1, 2, 3, 4})

	if id1 != id2 {
		t.Errorf("expected deduplicated ids, got %d and %d", id1, id2)
	}
	if m.ImageCount() != 1 {
		t.Errorf("expected 1 image, got %d", m.ImageCount())
	}
}

func TestImageManagerStoreWithID(t *testing.T) {
	m := NewImageManager()

	m.StoreWithID(42, 1, 1, []byte{1, 2, 3, 4})
	if img := m.Image(42); img == nil || img.Width != 1 {
		t.Fatal("expected image under explicit id")
	}

	// Replacing the id swaps the data without leaking the budget.
	m.StoreWithID(42, 2, 1, []byte{5, 6, 7, 8, 9, 10, 11, 12})
	if img := m.Image(42); img == nil || img.Width != 2 {
		t.Fatal("expected replaced image")
	}
	if m.UsedMemory() != 8 {
		t.Errorf("expected 8 bytes used, got %d", m.UsedMemory())
	}
}

func TestImageManagerPlacements(t *testing.T) {
	m := NewImageManager()
	id := m.Store(1, 1, []byte{0, 0, 0, 255})

	pid := m.Place(&ImagePlacement{ImageID: id, Row: 2, Col: 3, Rows: 1, Cols: 1})
	if m.PlacementCount() != 1 {
		t.Fatal("expected 1 placement")
	}

	m.RemovePlacement(pid)
	if m.PlacementCount() != 0 {
		t.Fatal("expected removed placement")
	}
}

func TestImageManagerDeleteImageRemovesPlacements(t *testing.T) {
	m := NewImageManager()
	id := m.Store(1, 1, []byte{0, 0, 0, 255})
	m.Place(&ImagePlacement{ImageID: id})

	m.DeleteImage(id)

	if m.ImageCount() != 0 || m.PlacementCount() != 0 {
		t.Error("expected image and placements gone")
	}
	if m.UsedMemory() != 0 {
		t.Errorf("expected zero memory, got %d", m.UsedMemory())
	}
}

func TestImageManagerPruneUnplaced(t *testing.T) {
	m := NewImageManager()
	m.SetMaxMemory(10)

	m.Store(1, 1, []byte{1, 1, 1, 1, 1, 1})  // 6 bytes, unplaced
	m.Store(1, 1, []byte{2, 2, 2, 2, 2, 2, 2, 2}) // 8 bytes: over budget

	if m.UsedMemory() > 10 {
		t.Errorf("expected pruning under budget, got %d bytes", m.UsedMemory())
	}
}

func TestImageManagerPositionalDeletes(t *testing.T) {
	m := NewImageManager()
	id := m.Store(1, 1, []byte{0, 0, 0, 255})
	m.Place(&ImagePlacement{ImageID: id, Row: 1, Col: 1, Rows: 2, Cols: 2})

	m.DeletePlacementsByPosition(2, 2)
	if m.PlacementCount() != 0 {
		t.Error("expected overlap delete to remove the placement")
	}
}
