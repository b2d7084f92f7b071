package contour

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSnapshotText(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("hello\r\nworld")

	snap := term.Snapshot(SnapshotDetailText)

	if snap.Size.Rows != 3 || snap.Size.Cols != 10 {
		t.Fatalf("unexpected size %+v", snap.Size)
	}
	if snap.Lines[0].Text != "hello" || snap.Lines[1].Text != "world" {
		t.Errorf("unexpected lines %q / %q", snap.Lines[0].Text, snap.Lines[1].Text)
	}
	if snap.Cursor.Row != 1 || snap.Cursor.Col != 5 {
		t.Errorf("unexpected cursor %+v", snap.Cursor)
	}
	if snap.Lines[0].Segments != nil || snap.Lines[0].Cells != nil {
		t.Error("text detail must not include segments or cells")
	}
}

func TestSnapshotStyledSegments(t *testing.T) {
	term := New(WithSize(2, 20))
	term.WriteString("aa\x1b[31mrr\x1b[0maa")

	snap := term.Snapshot(SnapshotDetailStyled)

	segments := snap.Lines[0].Segments
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segments), segments)
	}
	// The third segment absorbs the blank remainder of the row.
	if segments[0].Text != "aa" || segments[1].Text != "rr" || !strings.HasPrefix(segments[2].Text, "aa") {
		t.Errorf("unexpected segment texts %+v", segments)
	}
	if segments[1].Fg == segments[0].Fg {
		t.Error("expected distinct foreground for the red segment")
	}
}

func TestSnapshotFullCells(t *testing.T) {
	term := New(WithSize(2, 4))
	term.WriteString("\x1b[1mB")

	snap := term.Snapshot(SnapshotDetailFull)

	cells := snap.Lines[0].Cells
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[0].Char != "B" || !cells[0].Attributes.Bold {
		t.Errorf("unexpected first cell %+v", cells[0])
	}
}

func TestSnapshotWrappedFlag(t *testing.T) {
	term := New(WithSize(3, 5))
	term.WriteString("abcdefg")

	snap := term.Snapshot(SnapshotDetailText)
	if !snap.Lines[0].Wrapped {
		t.Error("expected wrapped flag on line 0")
	}
	if snap.Lines[1].Wrapped {
		t.Error("expected no wrapped flag on line 1")
	}
}

func TestSnapshotSelectionOverlay(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("selectable")
	term.SetSelection(Position{Row: 0, Col: 2}, Position{Row: 0, Col: 5})

	snap := term.Snapshot(SnapshotDetailText)
	if snap.Selection == nil {
		t.Fatal("expected selection overlay")
	}
	if snap.Selection.StartRow != 0 || snap.Selection.StartCol != 2 ||
		snap.Selection.EndRow != 0 || snap.Selection.EndCol != 5 {
		t.Errorf("unexpected overlay %+v", snap.Selection)
	}
}

func TestSnapshotHyperlink(t *testing.T) {
	term := New(WithSize(2, 20))
	term.WriteString("\x1b]8;id=7;https://example.com\x07go\x1b]8;;\x07")

	snap := term.Snapshot(SnapshotDetailFull)
	cell := snap.Lines[0].Cells[0]
	if cell.Hyperlink == nil || cell.Hyperlink.URI != "https://example.com" || cell.Hyperlink.ID != "7" {
		t.Errorf("unexpected hyperlink %+v", cell.Hyperlink)
	}
}

func TestSnapshotMarshalsToJSON(t *testing.T) {
	term := New(WithSize(2, 5))
	term.WriteString("ok")

	snap := term.Snapshot(SnapshotDetailStyled)
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected JSON output")
	}
}

func TestScreenshotDimensions(t *testing.T) {
	term := New(WithSize(3, 10))
	term.WriteString("pixels")

	img := term.Screenshot()
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		t.Fatal("expected non-empty image")
	}
	if bounds.Dx()%10 != 0 {
		t.Errorf("expected width to be a multiple of 10 cells, got %d", bounds.Dx())
	}
}
