package contour

import "image/color"

// CellFlags is a bitmask of cell rendering attributes.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagOverline
	CellFlagWideChar
	CellFlagWideCharSpacer
)

// underlineFlags covers every underline style bit.
const underlineFlags = CellFlagUnderline | CellFlagDoubleUnderline |
	CellFlagCurlyUnderline | CellFlagDottedUnderline | CellFlagDashedUnderline

// maxCombining bounds the combining marks stored with a base character.
// Further marks on the same cell are dropped.
const maxCombining = 3

// Cell stores one grid position: a character cluster, colours, formatting
// attributes, and an optional hyperlink reference. Wide characters (2
// columns) use a spacer cell in the second position; the pair is written and
// erased atomically.
type Cell struct {
	Char      rune
	Combining []rune
	Fg        color.Color
	Bg        color.Color
	UnderlineColor color.Color
	Flags     CellFlags
	Hyperlink HyperlinkID
	Image     *CellImage // Image reference, nil if no image
}

// NewCell creates a cell initialized with space character and default colors.
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// Reset clears all attributes and sets the cell to default state (space character, default colors).
func (c *Cell) Reset() {
	c.Char = ' '
	c.Combining = nil
	c.Fg = &NamedColor{Name: NamedColorForeground}
	c.Bg = &NamedColor{Name: NamedColorBackground}
	c.UnderlineColor = nil
	c.Flags = 0
	c.Hyperlink = 0
	c.Image = nil
}

// Erase resets the cell to the given fill, implementing background colour
// erase: erased regions take the current background.
func (c *Cell) Erase(fill *Cell) {
	c.Reset()
	if fill != nil {
		c.Bg = fill.Bg
	}
}

// Cluster returns the full character cluster, base rune plus combining marks.
func (c *Cell) Cluster() string {
	if len(c.Combining) == 0 {
		return string(c.Char)
	}
	return string(c.Char) + string(c.Combining)
}

// AppendCombining attaches a zero-width mark to the cluster, up to the bound.
func (c *Cell) AppendCombining(r rune) {
	if len(c.Combining) < maxCombining {
		c.Combining = append(c.Combining, r)
	}
}

// HasFlag returns true if the specified flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

// SetFlag enables the specified flag without affecting others.
func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

// ClearFlag disables the specified flag without affecting others.
func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

// IsWide returns true if this cell contains a wide character (CJK, emoji, etc.) that occupies 2 columns.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer returns true if this is the second cell of a wide character (should be skipped during rendering).
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// IsBlank reports whether the cell shows nothing beyond its background:
// a space or empty character with no hyperlink and no image.
func (c *Cell) IsBlank() bool {
	return (c.Char == ' ' || c.Char == 0) && len(c.Combining) == 0 &&
		c.Hyperlink == 0 && c.Image == nil
}

// Copy returns a deep copy of the cell.
func (c *Cell) Copy() Cell {
	out := *c
	if len(c.Combining) > 0 {
		out.Combining = append([]rune(nil), c.Combining...)
	}
	return out
}

// HasImage returns true if this cell has an image reference.
func (c *Cell) HasImage() bool {
	return c.Image != nil
}
