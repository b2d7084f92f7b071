package contour

import "testing"

func TestHyperlinkIntern(t *testing.T) {
	table := NewHyperlinkTable()

	link := Hyperlink{ID: "x", URI: "https://example.com"}
	id1 := table.Intern(link)
	id2 := table.Intern(link)

	if id1 != id2 {
		t.Errorf("expected interned ids to match, got %d and %d", id1, id2)
	}
	if id1 == 0 {
		t.Error("expected non-zero id")
	}

	other := table.Intern(Hyperlink{URI: "https://other.example"})
	if other == id1 {
		t.Error("expected distinct id for distinct link")
	}
}

func TestHyperlinkRefcount(t *testing.T) {
	table := NewHyperlinkTable()

	id := table.Intern(Hyperlink{URI: "https://example.com"})
	table.Retain(id)
	table.Retain(id)

	if table.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", table.Len())
	}

	table.Release(id)
	if _, ok := table.Lookup(id); !ok {
		t.Fatal("expected entry alive with one reference")
	}

	table.Release(id)
	if _, ok := table.Lookup(id); ok {
		t.Fatal("expected entry released at zero references")
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d", table.Len())
	}
}

func TestHyperlinkReinternAfterRelease(t *testing.T) {
	table := NewHyperlinkTable()

	link := Hyperlink{URI: "https://example.com"}
	id := table.Intern(link)
	table.Retain(id)
	table.Release(id)

	// A fresh intern after release gets a new entry.
	id2 := table.Intern(link)
	if _, ok := table.Lookup(id2); !ok {
		t.Error("expected re-interned entry")
	}
}

func TestHyperlinkReleaseLine(t *testing.T) {
	table := NewHyperlinkTable()
	id := table.Intern(Hyperlink{URI: "https://example.com"})

	cells := make([]Cell, 3)
	for i := range cells {
		cells[i] = NewCell()
		cells[i].Hyperlink = id
		table.Retain(id)
	}

	table.ReleaseLine(cells)
	if table.Len() != 0 {
		t.Errorf("expected all references released, got %d entries", table.Len())
	}
}
