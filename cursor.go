package contour

// CursorStyle determines how the cursor is rendered.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor tracks the current position and rendering style (0-based coordinates).
// WrapPending is the autowrap sentinel: the cursor sits logically past the
// right edge and the next printed character wraps first.
type Cursor struct {
	Row         int
	Col         int
	Style       CursorStyle
	Visible     bool
	WrapPending bool
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   CursorStyleBlinkingBlock,
		Visible: true,
	}
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
// Used by DECSC/DECRC and when switching between primary and alternate screens.
type SavedCursor struct {
	Row          int
	Col          int
	Attrs        CellTemplate
	OriginMode   bool
	WrapPending  bool
	CharsetIndex int
	Charsets     [4]Charset
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (no colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}

// fillCell returns the erase fill derived from the template, carrying only
// the background so erased regions honour background colour erase.
func (t *CellTemplate) fillCell() Cell {
	fill := NewCell()
	fill.Bg = t.Bg
	return fill
}

// Charset selects the character encoding variant.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of four character set slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
