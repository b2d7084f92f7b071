package contour

import (
	"encoding/base64"
	"fmt"
	"image/color"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is an immutable, coherent view of the visible region, produced
// under the screen lock and safe to hand to a renderer thread. It honours
// the viewport scroll offset, so a scrolled-back view captures history lines.
type Snapshot struct {
	Size      SnapshotSize      `json:"size"`
	Cursor    SnapshotCursor    `json:"cursor"`
	Lines     []SnapshotLine    `json:"lines"`
	Selection *SnapshotSelection `json:"selection,omitempty"`
	Images    []SnapshotImage   `json:"images,omitempty"`

	// ViewportOffset is how many history lines are scrolled into view.
	ViewportOffset int `json:"viewport_offset,omitempty"`
}

// SnapshotSize holds terminal dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotSelection is the selection overlay in viewport coordinates.
type SnapshotSelection struct {
	Kind     SelectionKind `json:"kind"`
	StartRow int           `json:"start_row"`
	StartCol int           `json:"start_col"`
	EndRow   int           `json:"end_row"`
	EndCol   int           `json:"end_col"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Wrapped  bool              `json:"wrapped,omitempty"`
	Marked   bool              `json:"marked,omitempty"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment represents a styled text segment within a line.
type SnapshotSegment struct {
	Text       string        `json:"text"`
	Fg         string        `json:"fg,omitempty"`
	Bg         string        `json:"bg,omitempty"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
}

// SnapshotCell represents a single cell with full attributes.
type SnapshotCell struct {
	Char       string        `json:"char"`
	Fg         string        `json:"fg"`
	Bg         string        `json:"bg"`
	Attributes SnapshotAttrs `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink `json:"hyperlink,omitempty"`
	Wide       bool          `json:"wide,omitempty"`
	WideSpacer bool          `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
	Overline      bool `json:"overline,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// SnapshotImage holds image placement metadata (without pixel data).
type SnapshotImage struct {
	ID          uint32 `json:"id"`
	PlacementID uint32 `json:"placement_id"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	PixelWidth  uint32 `json:"pixel_width"`
	PixelHeight uint32 `json:"pixel_height"`
	ZIndex      int32  `json:"z_index"`
}

// ImageSnapshot holds complete image data for retrieval.
type ImageSnapshot struct {
	ID     uint32 `json:"id"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Format string `json:"format"` // "rgba" (raw RGBA pixels, base64 encoded)
	Data   string `json:"data"`   // Base64 encoded image data
}

// GetImageData returns the image data for the given ID, or nil if not found.
func (t *Terminal) GetImageData(id uint32) *ImageSnapshot {
	img := t.images.Image(id)
	if img == nil {
		return nil
	}

	return &ImageSnapshot{
		ID:     img.ID,
		Width:  img.Width,
		Height: img.Height,
		Format: "rgba",
		Data:   base64.StdEncoding.EncodeToString(img.Data),
	}
}

// Snapshot creates a snapshot of the current visible region.
// The detail parameter controls how much information is included.
func (t *Terminal) Snapshot(detail SnapshotDetail) *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := &Snapshot{
		Size: SnapshotSize{
			Rows: t.rows,
			Cols: t.cols,
		},
		Cursor: SnapshotCursor{
			Row:     t.cursor.Row,
			Col:     t.cursor.Col,
			Visible: t.cursor.Visible && t.scrollOffset == 0,
			Style:   cursorStyleToString(t.cursor.Style),
		},
		Lines:          make([]SnapshotLine, t.rows),
		ViewportOffset: t.scrollOffset,
	}

	for row := 0; row < t.rows; row++ {
		snap.Lines[row] = t.snapshotLine(row, detail)
	}

	snap.Selection = t.snapshotSelection()
	snap.Images = t.snapshotImages()

	return snap
}

// snapshotSelection projects the active selection into viewport coordinates.
func (t *Terminal) snapshotSelection() *SnapshotSelection {
	if !t.selection.Active {
		return nil
	}

	sel := t.normalizedSelection()
	base := t.primaryBuffer.ScrollbackLen() - t.scrollOffset
	if t.activeBuffer != t.primaryBuffer {
		base = t.primaryBuffer.ScrollbackLen()
	}

	return &SnapshotSelection{
		Kind:     sel.Kind,
		StartRow: sel.Start.Row - base,
		StartCol: sel.Start.Col,
		EndRow:   sel.End.Row - base,
		EndCol:   sel.End.Col,
	}
}

// snapshotImages returns all image placements with metadata.
func (t *Terminal) snapshotImages() []SnapshotImage {
	placements := t.images.Placements()
	if len(placements) == 0 {
		return nil
	}

	images := make([]SnapshotImage, 0, len(placements))
	for _, p := range placements {
		img := t.images.Image(p.ImageID)
		if img == nil {
			continue
		}

		images = append(images, SnapshotImage{
			ID:          p.ImageID,
			PlacementID: p.ID,
			Row:         p.Row,
			Col:         p.Col,
			Rows:        p.Rows,
			Cols:        p.Cols,
			PixelWidth:  img.Width,
			PixelHeight: img.Height,
			ZIndex:      p.ZIndex,
		})
	}

	return images
}

// snapshotLine creates a snapshot of a single viewport line.
func (t *Terminal) snapshotLine(row int, detail SnapshotDetail) SnapshotLine {
	cells := t.viewportLine(row)

	line := SnapshotLine{
		Text: cellsToString(cells),
	}
	if t.scrollOffset == 0 {
		if l := t.activeBuffer.Line(row); l != nil {
			line.Wrapped = l.HasFlag(LineWrapped)
			line.Marked = l.HasFlag(LineMarked)
		}
	}

	switch detail {
	case SnapshotDetailText:
		// Just text, already set

	case SnapshotDetailStyled:
		line.Segments = t.cellsToSegments(cells)

	case SnapshotDetailFull:
		line.Cells = t.cellsToSnapshot(cells)
	}

	return line
}

// cellsToSegments converts a line to styled segments (runs of same style).
func (t *Terminal) cellsToSegments(cells []Cell) []SnapshotSegment {
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var currentChars []rune

	for i := range cells {
		cell := &cells[i]
		if cell.IsWideSpacer() {
			continue
		}

		fg := colorToHex(cell.Fg)
		bg := colorToHex(cell.Bg)
		attrs := cellAttrsToSnapshot(cell)
		link := t.cellHyperlinkToSnapshot(cell)

		if current == nil || !segmentMatches(current, fg, bg, attrs, link) {
			if current != nil && len(currentChars) > 0 {
				current.Text = string(currentChars)
				segments = append(segments, *current)
			}

			current = &SnapshotSegment{
				Fg:         fg,
				Bg:         bg,
				Attributes: attrs,
				Hyperlink:  link,
			}
			currentChars = nil
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		currentChars = append(currentChars, ch)
		currentChars = append(currentChars, cell.Combining...)
	}

	if current != nil && len(currentChars) > 0 {
		current.Text = string(currentChars)
		segments = append(segments, *current)
	}

	return segments
}

// cellsToSnapshot converts a line to full cell data.
func (t *Terminal) cellsToSnapshot(cells []Cell) []SnapshotCell {
	out := make([]SnapshotCell, 0, len(cells))

	for i := range cells {
		cell := &cells[i]

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}

		out = append(out, SnapshotCell{
			Char:       string(ch) + string(cell.Combining),
			Fg:         colorToHex(cell.Fg),
			Bg:         colorToHex(cell.Bg),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  t.cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		})
	}

	return out
}

// segmentMatches checks if segment matches the given style.
func segmentMatches(seg *SnapshotSegment, fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) bool {
	if seg.Fg != fg || seg.Bg != bg {
		return false
	}
	if seg.Attributes != attrs {
		return false
	}
	if seg.Hyperlink == nil && link == nil {
		return true
	}
	if seg.Hyperlink == nil || link == nil {
		return false
	}
	return seg.Hyperlink.URI == link.URI && seg.Hyperlink.ID == link.ID
}

// colorToHex converts a color to hex string.
func colorToHex(c color.Color) string {
	if c == nil {
		return ""
	}

	rgba := resolveDefaultColor(c, true)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// cellAttrsToSnapshot extracts cell attributes.
func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasFlag(CellFlagBold),
		Dim:           cell.HasFlag(CellFlagDim),
		Italic:        cell.HasFlag(CellFlagItalic),
		Underline:     cell.Flags&underlineFlags != 0,
		Blink:         cell.HasFlag(CellFlagBlinkSlow) || cell.HasFlag(CellFlagBlinkFast),
		Reverse:       cell.HasFlag(CellFlagReverse),
		Hidden:        cell.HasFlag(CellFlagHidden),
		Strikethrough: cell.HasFlag(CellFlagStrike),
		Overline:      cell.HasFlag(CellFlagOverline),
	}
}

// cellHyperlinkToSnapshot resolves a cell's interned hyperlink id.
func (t *Terminal) cellHyperlinkToSnapshot(cell *Cell) *SnapshotLink {
	if cell.Hyperlink == 0 {
		return nil
	}
	link, ok := t.links.Lookup(cell.Hyperlink)
	if !ok {
		return nil
	}
	return &SnapshotLink{
		ID:  link.ID,
		URI: link.URI,
	}
}

// cursorStyleToString converts cursor style to string.
func cursorStyleToString(style CursorStyle) string {
	switch style {
	case CursorStyleBlinkingBlock, CursorStyleSteadyBlock:
		return "block"
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return "underline"
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return "bar"
	default:
		return "block"
	}
}
