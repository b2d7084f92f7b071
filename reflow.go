package contour

// isTrimmableBlank reports whether a trailing cell can be dropped during
// reflow: blank content, no attributes, default background.
func isTrimmableBlank(c *Cell) bool {
	if !c.IsBlank() || c.Flags != 0 {
		return false
	}
	if c.Bg == nil {
		return true
	}
	nc, ok := c.Bg.(*NamedColor)
	return ok && nc.Name == NamedColorBackground
}

// ResizeReflow resizes the buffer re-laying out soft-wrapped line runs into
// the new width. Wrapped runs are concatenated, trailing blanks trimmed, and
// the content re-chunked; every line but the last of a multi-line run is
// re-marked wrapped. When the reflowed content exceeds the new height, top
// lines are evicted to scrollback. The cursor is moved so that it stays on
// the same character when possible.
//
// Buffers whose lines are not wrappable (the alternate screen) crop and pad
// instead.
func (b *Buffer) ResizeReflow(rows, cols int, cursor *Cursor) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if !b.wrappable || cols == b.cols {
		b.Resize(rows, cols)
		clampCursor(cursor, rows, cols)
		return
	}

	groups, cursorGroup, cursorOffset := b.collectRuns(cursor)

	var out []Line
	outCursorRow, outCursorCol := -1, 0
	keep := 0 // lines up to the last content or the cursor

	for gi, group := range groups {
		lines, cRow, cCol := layoutRun(group, cols, b.lineFlags(), cursorOffsetFor(gi, cursorGroup, cursorOffset))
		if cRow >= 0 {
			outCursorRow = len(out) + cRow
			outCursorCol = cCol
		}
		out = append(out, lines...)
		if len(group.cells) > 0 || cRow >= 0 {
			keep = len(out)
		}
	}

	// Empty runs below the last content or cursor are padding: drop as many
	// as needed before anything is evicted.
	if len(out) > rows && keep < len(out) {
		drop := len(out) - rows
		if drop > len(out)-keep {
			drop = len(out) - keep
		}
		for i := len(out) - drop; i < len(out); i++ {
			b.releaseLine(&out[i])
		}
		out = out[:len(out)-drop]
	}

	// Evict overflow to scrollback, oldest first.
	if len(out) > rows {
		evict := len(out) - rows
		for i := 0; i < evict; i++ {
			if b.scrollback != nil && b.scrollback.MaxLines() > 0 {
				b.scrollback.Push(out[i].cells)
			} else {
				b.releaseLine(&out[i])
			}
		}
		out = out[evict:]
		outCursorRow -= evict
	}

	// Pad to the new height.
	for len(out) < rows {
		out = append(out, newLine(cols, b.lineFlags(), nil))
	}

	for i := range out {
		out[i].SetFlag(LineDirty)
	}

	b.lines = out
	b.rows = rows
	b.resizeCols(cols)
	b.hasDirty = true

	if outCursorRow >= 0 {
		cursor.Row = outCursorRow
		cursor.Col = outCursorCol
	}
	clampCursor(cursor, rows, cols)
	cursor.WrapPending = false
}

func clampCursor(cursor *Cursor, rows, cols int) {
	if cursor.Row >= rows {
		cursor.Row = rows - 1
	}
	if cursor.Row < 0 {
		cursor.Row = 0
	}
	if cursor.Col >= cols {
		cursor.Col = cols - 1
	}
	if cursor.Col < 0 {
		cursor.Col = 0
	}
}

func cursorOffsetFor(group, cursorGroup, offset int) int {
	if group == cursorGroup {
		return offset
	}
	return -1
}

// run is one logical line: the concatenated cells of a soft-wrapped group.
type run struct {
	cells []Cell
	flags LineFlags
}

// collectRuns concatenates soft-wrapped line groups, trimming each run's
// trailing blanks, and locates the cursor as (group index, cell offset).
func (b *Buffer) collectRuns(cursor *Cursor) ([]run, int, int) {
	var groups []run
	cursorGroup, cursorOffset := -1, 0

	row := 0
	for row < b.rows {
		start := row
		cells := append([]Cell(nil), b.lines[row].cells...)
		flags := b.lines[row].flags &^ (LineWrapped | LineDirty)
		for b.lines[row].HasFlag(LineWrapped) && row+1 < b.rows {
			row++
			cells = append(cells, b.lines[row].cells...)
		}

		if cursor.Row >= start && cursor.Row <= row {
			cursorGroup = len(groups)
			cursorOffset = (cursor.Row-start)*b.cols + cursor.Col
		}

		// Trim trailing blanks; never trim past the cursor.
		end := len(cells)
		for end > 0 && isTrimmableBlank(&cells[end-1]) {
			if cursorGroup == len(groups) && end-1 <= cursorOffset {
				break
			}
			end--
		}
		groups = append(groups, run{cells: cells[:end], flags: flags})
		row++
	}

	return groups, cursorGroup, cursorOffset
}

// layoutRun chunks one run into lines of the given width. Wide pairs are
// never split across lines. Returns the lines plus the cursor's position
// within them when cursorOffset falls inside this run (-1 otherwise).
func layoutRun(group run, cols int, base LineFlags, cursorOffset int) ([]Line, int, int) {
	cRow, cCol := -1, 0

	if len(group.cells) == 0 {
		line := newLine(cols, base|group.flags, nil)
		if cursorOffset >= 0 {
			cRow, cCol = 0, 0
		}
		return []Line{line}, cRow, cCol
	}

	var lines []Line
	current := newLine(cols, base|group.flags, nil)
	col := 0

	flush := func(wrapped bool) {
		if wrapped {
			current.SetFlag(LineWrapped)
		}
		lines = append(lines, current)
		current = newLine(cols, base|group.flags, nil)
		col = 0
	}

	for i := range group.cells {
		cell := group.cells[i]

		// Keep wide pairs whole: a head with no room for its spacer moves
		// to the next line.
		if cell.IsWide() && col == cols-1 {
			flush(true)
		} else if col == cols {
			flush(true)
		}

		if i == cursorOffset {
			cRow, cCol = len(lines), col
		}

		current.cells[col] = cell
		col++
	}

	// Cursor past the run's content (on trimmed blanks or beyond).
	if cursorOffset >= len(group.cells) && cursorOffset >= 0 && cRow < 0 {
		extra := cursorOffset - len(group.cells)
		cCol = col + extra
		cRow = len(lines)
		for cCol >= cols {
			cCol -= cols
			cRow++
		}
	}

	flush(false)

	// The cursor may map to a padding row that was never produced.
	if cRow >= len(lines) {
		cRow = len(lines) - 1
		cCol = cols - 1
	}

	return lines, cRow, cCol
}
