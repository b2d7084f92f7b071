package contour

import "strings"

// SelectionKind chooses how a selection range maps to cells.
type SelectionKind int

const (
	// SelectionLinear is a reading-order range between two points.
	SelectionLinear SelectionKind = iota
	// SelectionRectangular is a block between two corners.
	SelectionRectangular
	// SelectionWordwise expands both endpoints to word boundaries.
	SelectionWordwise
	// SelectionFullLine covers whole lines between the endpoints.
	SelectionFullLine
)

// SelectionPoint is one selection endpoint. Row is an absolute line id:
// scrollback length plus page row at anchor time, so the anchor stays on its
// line while the grid scrolls underneath.
type SelectionPoint struct {
	Row int
	Col int
}

func (p SelectionPoint) before(other SelectionPoint) bool {
	return p.Row < other.Row || (p.Row == other.Row && p.Col < other.Col)
}

// Selection is an active selected region in absolute grid coordinates.
type Selection struct {
	Kind   SelectionKind
	Start  SelectionPoint
	End    SelectionPoint
	Active bool
}

// StartSelection begins a selection of the given kind at a viewport position.
func (t *Terminal) StartSelection(kind SelectionKind, row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	point := t.viewportToAbsoluteLocked(row, col)
	t.selection = Selection{
		Kind:   kind,
		Start:  point,
		End:    point,
		Active: true,
	}
}

// UpdateSelection moves the selection end to a viewport position.
func (t *Terminal) UpdateSelection(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.selection.Active {
		return
	}
	t.selection.End = t.viewportToAbsoluteLocked(row, col)
}

// SetSelection sets a selection between two viewport positions.
// Start and end are automatically normalized so start is before or equal to end.
func (t *Terminal) SetSelection(start, end Position) {
	t.SetSelectionKind(SelectionLinear, start, end)
}

// SetSelectionKind sets a selection of the given kind between two viewport positions.
func (t *Terminal) SetSelectionKind(kind SelectionKind, start, end Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.viewportToAbsoluteLocked(start.Row, start.Col)
	e := t.viewportToAbsoluteLocked(end.Row, end.Col)
	if e.before(s) {
		s, e = e, s
	}

	t.selection = Selection{
		Kind:   kind,
		Start:  s,
		End:    e,
		Active: true,
	}
}

// ClearSelection deactivates the current selection.
func (t *Terminal) ClearSelection() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Active = false
}

// GetSelection returns the current selection state in absolute coordinates.
func (t *Terminal) GetSelection() Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.normalizedSelection()
}

// HasSelection returns true if a selection is currently active.
func (t *Terminal) HasSelection() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selection.Active
}

// IsSelected returns true if the viewport cell at (row, col) is within the active selection.
func (t *Terminal) IsSelected(row, col int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.selection.Active {
		return false
	}
	point := t.viewportToAbsoluteLocked(row, col)
	return t.selectionContains(point)
}

// GetSelectedText extracts the text content within the active selection.
// Rows are separated by newlines; soft-wrapped boundaries join without one.
func (t *Terminal) GetSelectedText() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.selection.Active {
		return ""
	}

	sel := t.normalizedSelection()
	var out strings.Builder

	for row := sel.Start.Row; row <= sel.End.Row; row++ {
		cells := t.absoluteLine(row)
		if cells == nil {
			continue
		}

		startCol, endCol := t.selectionSpan(sel, row, len(cells))
		if startCol > endCol {
			continue
		}

		segment := cellsToString(trimCells(cells, startCol, endCol+1))
		out.WriteString(segment)

		if row < sel.End.Row && !t.absoluteLineWrapped(row) {
			out.WriteByte('\n')
		}
	}

	return out.String()
}

// trimCells bounds a [start, end) view into cells.
func trimCells(cells []Cell, start, end int) []Cell {
	if start < 0 {
		start = 0
	}
	if end > len(cells) {
		end = len(cells)
	}
	if start >= end {
		return nil
	}
	return cells[start:end]
}

// normalizedSelection orders the endpoints and applies wordwise expansion.
func (t *Terminal) normalizedSelection() Selection {
	sel := t.selection
	if !sel.Active {
		return sel
	}
	if sel.End.before(sel.Start) {
		sel.Start, sel.End = sel.End, sel.Start
	}

	switch sel.Kind {
	case SelectionWordwise:
		sel.Start.Col = t.wordBoundary(sel.Start, -1)
		sel.End.Col = t.wordBoundary(sel.End, 1)
	case SelectionFullLine:
		sel.Start.Col = 0
		sel.End.Col = t.cols - 1
	case SelectionRectangular:
		if sel.End.Col < sel.Start.Col {
			sel.Start.Col, sel.End.Col = sel.End.Col, sel.Start.Col
		}
	}
	return sel
}

// selectionSpan returns the selected [start, end] columns on an absolute row.
func (t *Terminal) selectionSpan(sel Selection, row, lineLen int) (int, int) {
	switch sel.Kind {
	case SelectionRectangular:
		return sel.Start.Col, sel.End.Col
	default:
		startCol := 0
		endCol := lineLen - 1
		if row == sel.Start.Row {
			startCol = sel.Start.Col
		}
		if row == sel.End.Row {
			endCol = sel.End.Col
		}
		return startCol, endCol
	}
}

// selectionContains reports whether an absolute point is inside the selection.
func (t *Terminal) selectionContains(point SelectionPoint) bool {
	sel := t.normalizedSelection()
	if !sel.Active {
		return false
	}
	if point.Row < sel.Start.Row || point.Row > sel.End.Row {
		return false
	}
	start, end := t.selectionSpan(sel, point.Row, t.cols)
	return point.Col >= start && point.Col <= end
}

// wordBoundary expands an endpoint along the row until a delimiter.
func (t *Terminal) wordBoundary(point SelectionPoint, dir int) int {
	cells := t.absoluteLine(point.Row)
	if cells == nil {
		return point.Col
	}

	col := clamp(point.Col, 0, len(cells)-1)
	for {
		next := col + dir
		if next < 0 || next >= len(cells) {
			return col
		}
		r := cells[next].Char
		if r == 0 {
			r = ' '
		}
		if strings.ContainsRune(t.wordDelimiters, r) {
			return col
		}
		col = next
	}
}

// viewportToAbsoluteLocked converts a viewport position to an absolute line id.
func (t *Terminal) viewportToAbsoluteLocked(row, col int) SelectionPoint {
	base := t.primaryBuffer.ScrollbackLen()
	if t.activeBuffer != t.primaryBuffer {
		return SelectionPoint{Row: base + row, Col: col}
	}
	return SelectionPoint{Row: base - t.scrollOffset + row, Col: col}
}

// absoluteLine returns the cells of an absolute line id.
func (t *Terminal) absoluteLine(abs int) []Cell {
	historyLen := t.primaryBuffer.ScrollbackLen()
	if abs < 0 {
		return nil
	}
	if abs < historyLen && t.activeBuffer == t.primaryBuffer {
		return t.primaryBuffer.ScrollbackLine(abs)
	}
	if line := t.activeBuffer.Line(abs - historyLen); line != nil {
		return line.cells
	}
	return nil
}

// absoluteLineWrapped reports whether the absolute line soft-wraps onward.
func (t *Terminal) absoluteLineWrapped(abs int) bool {
	historyLen := t.primaryBuffer.ScrollbackLen()
	row := abs - historyLen
	if row < 0 {
		// Wrap flags are not retained for history lines.
		return false
	}
	return t.activeBuffer.IsWrapped(row)
}

// selectionDamage clears the selection when a write touches it.
// Caller must hold the lock; row is a page row.
func (t *Terminal) selectionDamage(row, col int) {
	if !t.selection.Active {
		return
	}
	abs := t.primaryBuffer.ScrollbackLen() + row
	if t.selectionContains(SelectionPoint{Row: abs, Col: col}) {
		t.selection.Active = false
	}
}

// selectionDamageRows clears the selection when it intersects the page rows
// [top, bottom). Caller must hold the lock.
func (t *Terminal) selectionDamageRows(top, bottom int) {
	if !t.selection.Active {
		return
	}
	base := t.primaryBuffer.ScrollbackLen()
	sel := t.normalizedSelection()
	if sel.End.Row < base+top || sel.Start.Row >= base+bottom {
		return
	}
	t.selection.Active = false
}

// selectionShift moves the selection anchors by delta absolute rows,
// clearing the selection when it falls off the retained grid.
func (t *Terminal) selectionShift(delta int) {
	if !t.selection.Active {
		return
	}
	t.selection.Start.Row += delta
	t.selection.End.Row += delta
	if t.selection.Start.Row < 0 || t.selection.End.Row < 0 {
		t.selection.Active = false
	}
}

// selectionValidate clears a selection that references lines beyond the
// current grid, e.g. after a reflow changed the line count.
func (t *Terminal) selectionValidate() {
	if !t.selection.Active {
		return
	}
	total := t.primaryBuffer.ScrollbackLen() + t.rows
	if t.selection.Start.Row >= total || t.selection.End.Row >= total ||
		t.selection.Start.Row < 0 || t.selection.End.Row < 0 {
		t.selection.Active = false
	}
}

// --- Search ---

// SearchDirection selects where search advances from its starting point.
type SearchDirection int

const (
	// SearchForward scans toward newer content.
	SearchForward SearchDirection = iota
	// SearchBackward scans toward older content.
	SearchBackward
)

// SearchMatch is one located occurrence, in absolute coordinates.
type SearchMatch struct {
	Row int
	Col int
}

// Search finds all occurrences of pattern in the visible screen content.
// Returns positions of the first character of each match.
func (t *Terminal) Search(pattern string) []Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if pattern == "" {
		return nil
	}

	var matches []Position
	patternRunes := []rune(pattern)

	for row := 0; row < t.rows; row++ {
		line := t.activeBuffer.LineContent(row)
		for _, col := range findAll([]rune(line), patternRunes) {
			matches = append(matches, Position{Row: row, Col: col})
		}
	}

	return matches
}

// SearchScrollback finds all occurrences of pattern in scrollback lines.
// Returned row values are negative, where -1 is the most recent scrollback line.
func (t *Terminal) SearchScrollback(pattern string) []Position {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if pattern == "" {
		return nil
	}

	var matches []Position
	patternRunes := []rune(pattern)
	scrollbackLen := t.primaryBuffer.ScrollbackLen()

	for i := 0; i < scrollbackLen; i++ {
		line := t.primaryBuffer.ScrollbackLine(i)
		if line == nil {
			continue
		}
		for _, col := range findAll([]rune(cellsToString(line)), patternRunes) {
			matches = append(matches, Position{Row: -(scrollbackLen - i), Col: col})
		}
	}

	return matches
}

// SearchFrom locates the first occurrence at or after (forward) / at or
// before (backward) the given absolute position. Matches may span
// soft-wrapped line boundaries: consecutive wrapped lines are searched as one
// logical line.
func (t *Terminal) SearchFrom(pattern string, from SearchMatch, dir SearchDirection) (SearchMatch, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	patternRunes := []rune(pattern)
	if len(patternRunes) == 0 {
		return SearchMatch{}, false
	}

	total := t.primaryBuffer.ScrollbackLen() + t.rows
	step := 1
	if dir == SearchBackward {
		step = -1
	}

	for abs := from.Row; abs >= 0 && abs < total; abs += step {
		// Start logical lines only at run heads so every run is scanned once.
		if abs > 0 && t.absoluteLineWrapped(abs-1) && abs != from.Row {
			continue
		}

		text, starts := t.logicalLineAt(abs)
		cols := findAll(text, patternRunes)
		for i := range cols {
			idx := i
			if dir == SearchBackward {
				idx = len(cols) - 1 - i
			}
			row, col := locate(starts, cols[idx])
			match := SearchMatch{Row: row, Col: col}
			if dir == SearchForward && (match.Row > from.Row || (match.Row == from.Row && match.Col >= from.Col)) {
				return match, true
			}
			if dir == SearchBackward && (match.Row < from.Row || (match.Row == from.Row && match.Col <= from.Col)) {
				return match, true
			}
		}
	}

	return SearchMatch{}, false
}

// logicalLineAt concatenates the wrapped run containing abs. Returns the
// text and, per source line, its absolute row and rune offset.
func (t *Terminal) logicalLineAt(abs int) ([]rune, []lineStart) {
	// Walk back to the head of the run.
	head := abs
	for head > 0 && t.absoluteLineWrapped(head-1) {
		head--
	}

	var text []rune
	var starts []lineStart
	total := t.primaryBuffer.ScrollbackLen() + t.rows

	row := head
	for row < total {
		cells := t.absoluteLine(row)
		if cells == nil {
			break
		}
		starts = append(starts, lineStart{row: row, offset: len(text)})
		wrapped := t.absoluteLineWrapped(row)
		if wrapped {
			// Wrapped lines contribute their full width so matches can
			// span the boundary.
			text = append(text, cellsToRunes(cells)...)
		} else {
			text = append(text, []rune(cellsToString(cells))...)
			break
		}
		row++
	}

	return text, starts
}

type lineStart struct {
	row    int
	offset int
}

// locate maps a rune offset in a logical line back to (absolute row, column).
func locate(starts []lineStart, offset int) (int, int) {
	row, col := 0, offset
	for _, s := range starts {
		if offset >= s.offset {
			row = s.row
			col = offset - s.offset
		}
	}
	return row, col
}

// findAll returns the starting offsets of every occurrence of pattern.
func findAll(text, pattern []rune) []int {
	var out []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		match := true
		for j := range pattern {
			if text[i+j] != pattern[j] {
				match = false
				break
			}
		}
		if match {
			out = append(out, i)
		}
	}
	return out
}
