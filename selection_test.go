package contour

import "testing"

func TestSelectionBasic(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello World")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4})

	if !term.HasSelection() {
		t.Fatal("expected selection to be active")
	}
	if got := term.GetSelectedText(); got != "Hello" {
		t.Errorf("expected 'Hello', got %q", got)
	}

	term.ClearSelection()
	if term.HasSelection() {
		t.Error("expected selection to be cleared")
	}
}

func TestSelectionNormalization(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello World")
	// Reversed endpoints normalize.
	term.SetSelection(Position{Row: 0, Col: 4}, Position{Row: 0, Col: 0})

	if got := term.GetSelectedText(); got != "Hello" {
		t.Errorf("expected 'Hello', got %q", got)
	}
}

func TestSelectionMultiline(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("first\r\nsecond\r\nthird")
	term.SetSelection(Position{Row: 0, Col: 3}, Position{Row: 2, Col: 2})

	want := "st\nsecond\nthi"
	if got := term.GetSelectedText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSelectionRectangular(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("abcdef\r\nghijkl\r\nmnopqr")
	term.SetSelectionKind(SelectionRectangular, Position{Row: 0, Col: 1}, Position{Row: 2, Col: 3})

	want := "bcd\nhij\nnop"
	if got := term.GetSelectedText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSelectionWordwise(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("one two three")
	term.SetSelectionKind(SelectionWordwise, Position{Row: 0, Col: 5}, Position{Row: 0, Col: 5})

	if got := term.GetSelectedText(); got != "two" {
		t.Errorf("expected 'two', got %q", got)
	}
}

func TestSelectionFullLine(t *testing.T) {
	term := New(WithSize(24, 20))

	term.WriteString("alpha beta\r\ngamma")
	term.SetSelectionKind(SelectionFullLine, Position{Row: 0, Col: 7}, Position{Row: 0, Col: 7})

	if got := term.GetSelectedText(); got != "alpha beta" {
		t.Errorf("expected full line, got %q", got)
	}
}

func TestSelectionIsSelected(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello")
	term.SetSelection(Position{Row: 0, Col: 1}, Position{Row: 0, Col: 3})

	if term.IsSelected(0, 0) {
		t.Error("col 0 should not be selected")
	}
	if !term.IsSelected(0, 2) {
		t.Error("col 2 should be selected")
	}
	if term.IsSelected(1, 2) {
		t.Error("row 1 should not be selected")
	}
}

// TestSelectionClearedByOverlappingWrite: any write that touches the
// selection deactivates it.
func TestSelectionClearedByOverlappingWrite(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("hello world")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4})

	term.WriteString("\x1b[1;3HX")

	if term.HasSelection() {
		t.Error("expected overlapping write to clear the selection")
	}
}

func TestSelectionSurvivesNonOverlappingWrite(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("hello")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 4})

	term.WriteString("\x1b[3;1Helsewhere")

	if !term.HasSelection() {
		t.Error("expected selection to survive a write elsewhere")
	}
}

// TestSelectionAnchoredAcrossScroll: the selection is anchored to absolute
// lines, so scrolling new content underneath keeps it on its text.
func TestSelectionAnchoredAcrossScroll(t *testing.T) {
	storage := NewMemoryScrollback(100)
	term := New(WithSize(3, 20), WithScrollback(storage))

	term.WriteString("target")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 5})

	// Scroll the target line into scrollback.
	term.WriteString("\r\nfiller1\r\nfiller2\r\nfiller3")

	if !term.HasSelection() {
		t.Fatal("expected selection to survive scrolling")
	}
	if got := term.GetSelectedText(); got != "target" {
		t.Errorf("expected anchored 'target', got %q", got)
	}
}

func TestSelectionClearedByScrollbackEviction(t *testing.T) {
	storage := NewMemoryScrollback(1)
	term := New(WithSize(2, 20), WithScrollback(storage))

	term.WriteString("target")
	term.SetSelection(Position{Row: 0, Col: 0}, Position{Row: 0, Col: 5})

	// Push the selected line out of the 1-line scrollback entirely.
	term.WriteString("\r\na\r\nb\r\nc\r\nd")

	if term.HasSelection() {
		t.Error("expected selection cleared once its line was dropped")
	}
}

func TestSearchVisible(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello World\r\nGoodbye World")

	matches := term.Search("World")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0] != (Position{Row: 0, Col: 6}) {
		t.Errorf("unexpected first match %+v", matches[0])
	}
	if matches[1] != (Position{Row: 1, Col: 8}) {
		t.Errorf("unexpected second match %+v", matches[1])
	}
}

func TestSearchScrollbackRows(t *testing.T) {
	storage := NewMemoryScrollback(100)
	term := New(WithSize(2, 20), WithScrollback(storage))

	term.WriteString("needle\r\na\r\nb\r\nc")

	matches := term.SearchScrollback("needle")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Row >= 0 {
		t.Errorf("expected negative scrollback row, got %d", matches[0].Row)
	}
}

// TestSearchAcrossWrappedLines: matches span soft-wrap boundaries.
func TestSearchAcrossWrappedLines(t *testing.T) {
	term := New(WithSize(5, 5))

	term.WriteString("abwordcd")
	// Grid: "abwor" (wrapped) / "dcd".

	match, ok := term.SearchFrom("word", SearchMatch{Row: 0, Col: 0}, SearchForward)
	if !ok {
		t.Fatal("expected match across the wrap boundary")
	}
	if match.Row != 0 || match.Col != 2 {
		t.Errorf("expected match at (0,2), got (%d,%d)", match.Row, match.Col)
	}
}

func TestSearchBackward(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("x\r\nx\r\ny")

	match, ok := term.SearchFrom("x", SearchMatch{Row: 2, Col: 0}, SearchBackward)
	if !ok {
		t.Fatal("expected backward match")
	}
	if match.Row != 1 {
		t.Errorf("expected nearest previous match on row 1, got %d", match.Row)
	}
}
