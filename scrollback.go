package contour

// scrollbackLine is one stored history line. Uniformly-styled lines keep a
// trivial representation (raw text plus one repeated attribute template);
// anything else stays as an inflated cell vector. Lines compact on push and
// inflate on access.
type scrollbackLine struct {
	trivial  bool
	text     []rune
	template Cell
	cols     int

	cells []Cell
}

// MemoryScrollback is a bounded in-memory ring of scrollback lines. The
// oldest lines are dropped when the capacity is exceeded.
type MemoryScrollback struct {
	lines []scrollbackLine
	head  int // index of the oldest line
	count int
	max   int

	// onEvict is called with the cells of every dropped line, so the
	// terminal can release hyperlink references held by history.
	onEvict func([]Cell)
}

var _ ScrollbackProvider = (*MemoryScrollback)(nil)

// NewMemoryScrollback creates storage retaining at most max lines.
func NewMemoryScrollback(max int) *MemoryScrollback {
	if max < 0 {
		max = 0
	}
	return &MemoryScrollback{max: max}
}

// SetEvictFunc installs a callback invoked with each line dropped from the
// ring, before it becomes unreachable.
func (s *MemoryScrollback) SetEvictFunc(fn func([]Cell)) {
	s.onEvict = fn
}

// Push appends a line, dropping the oldest when full.
func (s *MemoryScrollback) Push(line []Cell) {
	if s.max <= 0 {
		if s.onEvict != nil {
			s.onEvict(line)
		}
		return
	}

	compacted := compactLine(line)

	if s.count < s.max {
		if s.count == len(s.lines) {
			s.lines = append(s.lines, compacted)
		} else {
			s.lines[(s.head+s.count)%len(s.lines)] = compacted
		}
		s.count++
		return
	}

	// Full: overwrite the oldest slot.
	if s.onEvict != nil {
		s.onEvict(s.slotCells(s.head))
	}
	s.lines[s.head] = compacted
	s.head = (s.head + 1) % len(s.lines)
}

// Len returns the current number of stored lines.
func (s *MemoryScrollback) Len() int {
	return s.count
}

// Line returns the line at index, where 0 is the oldest. Returns nil when out
// of range. Trivial lines inflate on access.
func (s *MemoryScrollback) Line(index int) []Cell {
	if index < 0 || index >= s.count {
		return nil
	}
	return s.slotCells((s.head + index) % len(s.lines))
}

func (s *MemoryScrollback) slotCells(slot int) []Cell {
	line := &s.lines[slot]
	if !line.trivial {
		return line.cells
	}

	cells := make([]Cell, line.cols)
	for i := range cells {
		cells[i] = line.template
		if i < len(line.text) {
			cells[i].Char = line.text[i]
		}
	}
	return cells
}

// Clear removes all stored lines.
func (s *MemoryScrollback) Clear() {
	if s.onEvict != nil {
		for i := 0; i < s.count; i++ {
			s.onEvict(s.slotCells((s.head + i) % len(s.lines)))
		}
	}
	s.lines = nil
	s.head = 0
	s.count = 0
}

// SetMaxLines changes the capacity, trimming the oldest lines if needed.
func (s *MemoryScrollback) SetMaxLines(max int) {
	if max < 0 {
		max = 0
	}
	for s.count > max {
		if s.onEvict != nil {
			s.onEvict(s.slotCells(s.head))
		}
		s.lines[s.head] = scrollbackLine{}
		s.head = (s.head + 1) % len(s.lines)
		s.count--
	}
	// Re-linearise the ring so that later pushes see a slice of exactly
	// count lines starting at head 0.
	ordered := make([]scrollbackLine, 0, s.count)
	for i := 0; i < s.count; i++ {
		ordered = append(ordered, s.lines[(s.head+i)%len(s.lines)])
	}
	s.lines = ordered
	s.head = 0
	s.max = max
}

// MaxLines returns the current capacity.
func (s *MemoryScrollback) MaxLines() int {
	return s.max
}

// compactLine stores a uniformly-styled line as text plus one template cell.
// Lines with hyperlinks, images, wide characters, or mixed styling stay
// inflated.
func compactLine(cells []Cell) scrollbackLine {
	if len(cells) == 0 {
		return scrollbackLine{trivial: true}
	}

	template := cells[0]
	template.Char = ' '
	template.Combining = nil

	lastContent := -1
	for i := range cells {
		c := &cells[i]
		if c.Hyperlink != 0 || c.Image != nil || len(c.Combining) > 0 ||
			c.Flags&(CellFlagWideChar|CellFlagWideCharSpacer) != 0 {
			return inflated(cells)
		}
		if !sameStyle(c, &template) {
			return inflated(cells)
		}
		if c.Char != ' ' && c.Char != 0 {
			lastContent = i
		}
	}

	text := make([]rune, lastContent+1)
	for i := 0; i <= lastContent; i++ {
		text[i] = cells[i].Char
	}

	return scrollbackLine{
		trivial:  true,
		text:     text,
		template: template,
		cols:     len(cells),
	}
}

func inflated(cells []Cell) scrollbackLine {
	return scrollbackLine{cells: append([]Cell(nil), cells...)}
}

// sameStyle compares the rendering attributes of two cells, ignoring content.
func sameStyle(a, b *Cell) bool {
	return a.Flags == b.Flags &&
		resolveDefaultColor(a.Fg, true) == resolveDefaultColor(b.Fg, true) &&
		resolveDefaultColor(a.Bg, false) == resolveDefaultColor(b.Bg, false) &&
		resolveDefaultColor(a.UnderlineColor, true) == resolveDefaultColor(b.UnderlineColor, true)
}
