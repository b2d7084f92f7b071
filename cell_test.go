package contour

import "testing"

func TestCellNew(t *testing.T) {
	cell := NewCell()

	if cell.Char != ' ' {
		t.Errorf("expected space, got %q", cell.Char)
	}
	if cell.Flags != 0 || cell.Hyperlink != 0 || cell.Image != nil {
		t.Error("expected empty attributes")
	}
}

func TestCellFlags(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagBold | CellFlagItalic)
	if !cell.HasFlag(CellFlagBold) || !cell.HasFlag(CellFlagItalic) {
		t.Error("expected flags set")
	}

	cell.ClearFlag(CellFlagBold)
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected bold cleared")
	}
	if !cell.HasFlag(CellFlagItalic) {
		t.Error("expected italic retained")
	}
}

func TestCellErase(t *testing.T) {
	cell := NewCell()
	cell.Char = 'x'
	cell.SetFlag(CellFlagBold)

	fill := NewCell()
	fill.Bg = &IndexedColor{Index: 4}
	cell.Erase(&fill)

	if cell.Char != ' ' || cell.Flags != 0 {
		t.Error("expected cleared content")
	}
	// BCE: the fill background survives the erase.
	if ic, ok := cell.Bg.(*IndexedColor); !ok || ic.Index != 4 {
		t.Errorf("expected fill background, got %v", cell.Bg)
	}
}

func TestCellCluster(t *testing.T) {
	cell := NewCell()
	cell.Char = 'e'
	cell.AppendCombining('\u0301')

	if cell.Cluster() != "e\u0301" {
		t.Errorf("expected combined cluster, got %q", cell.Cluster())
	}

	// The cluster length is bounded.
	for i := 0; i < 10; i++ {
		cell.AppendCombining('\u0301')
	}
	if len(cell.Combining) != maxCombining {
		t.Errorf("expected %d combining marks, got %d", maxCombining, len(cell.Combining))
	}
}

func TestCellCopyIsDeep(t *testing.T) {
	cell := NewCell()
	cell.Char = 'a'
	cell.AppendCombining('\u0301')

	clone := cell.Copy()
	clone.Combining[0] = 'x'

	if cell.Combining[0] == 'x' {
		t.Error("expected independent combining storage")
	}
}

func TestCellIsBlank(t *testing.T) {
	cell := NewCell()
	if !cell.IsBlank() {
		t.Error("expected fresh cell blank")
	}

	cell.Char = 'x'
	if cell.IsBlank() {
		t.Error("expected non-blank")
	}

	cell.Reset()
	cell.Hyperlink = 3
	if cell.IsBlank() {
		t.Error("hyperlinked cell is not blank")
	}
}
