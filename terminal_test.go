package contour

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
)

func TestNewTerminal(t *testing.T) {
	term := New()

	if term.Rows() != 24 {
		t.Errorf("expected 24 rows, got %d", term.Rows())
	}
	if term.Cols() != 80 {
		t.Errorf("expected 80 cols, got %d", term.Cols())
	}
}

func TestTerminalWithSize(t *testing.T) {
	term := New(WithSize(40, 120))

	if term.Rows() != 40 {
		t.Errorf("expected 40 rows, got %d", term.Rows())
	}
	if term.Cols() != 120 {
		t.Errorf("expected 120 cols, got %d", term.Cols())
	}
}

func TestTerminalWrite(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello")

	if content := term.LineContent(0); content != "Hello" {
		t.Errorf("expected 'Hello', got '%s'", content)
	}
}

func TestTerminalCursorPosition(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("ABC")

	row, col := term.CursorPos()
	if row != 0 || col != 3 {
		t.Errorf("expected cursor at (0, 3), got (%d, %d)", row, col)
	}
}

func TestTerminalNewline(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Line1\r\nLine2")

	if term.LineContent(0) != "Line1" {
		t.Errorf("expected 'Line1', got '%s'", term.LineContent(0))
	}
	if term.LineContent(1) != "Line2" {
		t.Errorf("expected 'Line2', got '%s'", term.LineContent(1))
	}
}

// TestTerminalWrap exercises deferred autowrap: writing "Hello, World" into
// five columns produces three rows, the first two soft-wrapped, with the
// cursor after the final character.
func TestTerminalWrap(t *testing.T) {
	term := New(WithSize(10, 5))

	term.WriteString("Hello, World")

	want := []string{"Hello", ", Wor", "ld"}
	for row, content := range want {
		if got := term.LineContent(row); got != content {
			t.Errorf("row %d: expected %q, got %q", row, content, got)
		}
	}

	if !term.IsWrapped(0) {
		t.Error("expected row 0 to be wrapped")
	}
	if !term.IsWrapped(1) {
		t.Error("expected row 1 to be wrapped")
	}
	if term.IsWrapped(2) {
		t.Error("expected row 2 not to be wrapped")
	}

	row, col := term.CursorPos()
	if row != 2 || col != 2 {
		t.Errorf("expected cursor at (2, 2), got (%d, %d)", row, col)
	}
}

func TestTerminalWrapPendingSentinel(t *testing.T) {
	term := New(WithSize(5, 5))

	// Filling the line exactly leaves the cursor on the last column with
	// the wrap pending; a carriage return cancels it.
	term.WriteString("12345")
	row, col := term.CursorPos()
	if row != 0 || col != 4 {
		t.Errorf("expected cursor at (0, 4), got (%d, %d)", row, col)
	}

	term.WriteString("\r\n")
	term.WriteString("ok")
	if term.LineContent(0) != "12345" || term.LineContent(1) != "ok" {
		t.Errorf("unexpected content: %q / %q", term.LineContent(0), term.LineContent(1))
	}
}

func TestTerminalAutowrapDisabled(t *testing.T) {
	term := New(WithSize(5, 5))

	term.WriteString("\x1b[?7l")
	term.WriteString("123456789")

	if got := term.LineContent(0); got != "12349" {
		t.Errorf("expected '12349', got %q", got)
	}
	if term.LineContent(1) != "" {
		t.Errorf("expected empty row 1, got %q", term.LineContent(1))
	}
}

// TestTerminalSgrSubparams: the colon form with an empty colourspace slot
// must produce the same RGB foreground as the semicolon form.
func TestTerminalSgrSubparams(t *testing.T) {
	for _, input := range []string{
		"\x1b[38:2::10:20:30mX",
		"\x1b[38;2;10;20;30mX",
	} {
		term := New(WithSize(5, 10))
		term.WriteString(input)

		cell := term.Cell(0, 0)
		if cell == nil {
			t.Fatalf("%q: no cell", input)
		}
		if cell.Char != 'X' {
			t.Errorf("%q: expected 'X', got %q", input, cell.Char)
		}
		want := color.RGBA{10, 20, 30, 255}
		if got := resolveDefaultColor(cell.Fg, true); got != want {
			t.Errorf("%q: expected fg %v, got %v", input, want, got)
		}
	}
}

func TestTerminalClearScreen(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("Hello")
	term.WriteString("\x1b[2J")

	if term.LineContent(0) != "" {
		t.Errorf("expected empty line after clear, got '%s'", term.LineContent(0))
	}
}

func TestTerminalBackgroundColorErase(t *testing.T) {
	term := New(WithSize(5, 10))

	// BCE: erased cells take the current background.
	term.WriteString("\x1b[41m\x1b[2J")

	cell := term.Cell(2, 3)
	if cell == nil {
		t.Fatal("no cell")
	}
	want := DefaultPalette[1]
	if got := resolveDefaultColor(cell.Bg, false); got != want {
		t.Errorf("expected red background %v, got %v", want, got)
	}
}

func TestTerminalScrollback(t *testing.T) {
	storage := NewMemoryScrollback(100)
	term := New(WithSize(5, 80), WithScrollback(storage))

	for i := 0; i < 10; i++ {
		term.WriteString("Line\r\n")
	}

	if term.ScrollbackLen() < 5 {
		t.Errorf("expected at least 5 scrollback lines, got %d", term.ScrollbackLen())
	}
}

// TestTerminalScrollbackMonotonicity: scrollback equals the evicted page
// lines in eviction order.
func TestTerminalScrollbackMonotonicity(t *testing.T) {
	storage := NewMemoryScrollback(100)
	term := New(WithSize(3, 10), WithScrollback(storage))

	lines := []string{"one", "two", "three", "four", "five", "six"}
	for i, line := range lines {
		term.WriteString(line)
		if i < len(lines)-1 {
			term.WriteString("\r\n")
		}
	}

	// Three lines visible, three evicted.
	if got := term.ScrollbackLen(); got != 3 {
		t.Fatalf("expected 3 scrollback lines, got %d", got)
	}
	for i := 0; i < 3; i++ {
		if got := cellsToString(term.ScrollbackLine(i)); got != lines[i] {
			t.Errorf("scrollback %d: expected %q, got %q", i, lines[i], got)
		}
	}
	for i := 0; i < 3; i++ {
		if got := term.LineContent(i); got != lines[i+3] {
			t.Errorf("page %d: expected %q, got %q", i, lines[i+3], got)
		}
	}
}

func TestTerminalScrollbackCap(t *testing.T) {
	storage := NewMemoryScrollback(2)
	term := New(WithSize(2, 10), WithScrollback(storage))

	for _, line := range []string{"a", "b", "c", "d", "e"} {
		term.WriteString(line + "\r\n")
	}

	if got := term.ScrollbackLen(); got != 2 {
		t.Fatalf("expected capped scrollback of 2, got %d", got)
	}
}

// TestTerminalAlternateScreen: mode 1049 must preserve the primary screen
// and cursor across the switch.
func TestTerminalAlternateScreen(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("A")
	term.WriteString("\x1b[?1049h")

	if !term.IsAlternateScreen() {
		t.Fatal("expected alternate screen after 1049h")
	}
	if term.LineContent(0) != "" {
		t.Errorf("expected cleared alternate screen, got %q", term.LineContent(0))
	}

	term.WriteString("B")
	term.WriteString("\x1b[?1049l")

	if term.IsAlternateScreen() {
		t.Fatal("expected primary screen after 1049l")
	}
	if term.LineContent(0) != "A" {
		t.Errorf("expected primary content 'A', got %q", term.LineContent(0))
	}
	row, col := term.CursorPos()
	if row != 0 || col != 1 {
		t.Errorf("expected restored cursor (0, 1), got (%d, %d)", row, col)
	}
}

// TestTerminalDecrqm covers DECRQM answers: unknown, set, reset, and
// permanently reset modes.
func TestTerminalDecrqm(t *testing.T) {
	tests := []struct {
		name  string
		setup string
		query string
		want  string
	}{
		{"unknown mode", "", "\x1b[?2022$p", "\x1b[?2022;0$y"},
		{"cursor visible is set", "", "\x1b[?25$p", "\x1b[?25;1$y"},
		{"hidden cursor reports reset", "\x1b[?25l", "\x1b[?25$p", "\x1b[?25;2$y"},
		{"deccolm permanently reset", "", "\x1b[?3$p", "\x1b[?3;4$y"},
		{"bracketed paste set", "\x1b[?2004h", "\x1b[?2004$p", "\x1b[?2004;1$y"},
		{"ansi insert mode reset", "", "\x1b[4$p", "\x1b[4;2$y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var response bytes.Buffer
			term := New(WithSize(5, 10), WithResponse(&response))
			term.WriteString(tt.setup)
			response.Reset()
			term.WriteString(tt.query)
			if got := response.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTerminalDeviceStatus(t *testing.T) {
	var response bytes.Buffer
	term := New(WithSize(24, 80), WithResponse(&response))

	term.WriteString("\x1b[5;10H")
	term.WriteString("\x1b[6n")

	if got := response.String(); got != "\x1b[5;10R" {
		t.Errorf("expected cursor report, got %q", got)
	}
}

func TestTerminalTitle(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]0;My Title\x07")
	if term.Title() != "My Title" {
		t.Errorf("expected 'My Title', got %q", term.Title())
	}

	// Title stack via window ops.
	term.WriteString("\x1b[22;0t")
	term.WriteString("\x1b]0;Other\x07")
	term.WriteString("\x1b[23;0t")
	if term.Title() != "My Title" {
		t.Errorf("expected restored title, got %q", term.Title())
	}
}

func TestTerminalScrollRegion(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("\x1b[3;6r")
	top, bottom := term.ScrollRegion()
	if top != 2 || bottom != 6 {
		t.Errorf("expected region (2, 6), got (%d, %d)", top, bottom)
	}

	// Cursor homes after DECSTBM.
	row, col := term.CursorPos()
	if row != 0 || col != 0 {
		t.Errorf("expected home cursor, got (%d, %d)", row, col)
	}
}

func TestTerminalScrollRegionScrolling(t *testing.T) {
	term := New(WithSize(5, 10))

	for i, s := range []string{"aa", "bb", "cc", "dd", "ee"} {
		term.WriteString("\x1b[" + string(rune('1'+i)) + ";1H" + s)
	}

	// Region rows 2-4 (1-based); scrolling it up discards 'bb'.
	term.WriteString("\x1b[2;4r")
	term.WriteString("\x1b[2S")

	if got := term.LineContent(0); got != "aa" {
		t.Errorf("row 0: expected 'aa', got %q", got)
	}
	if got := term.LineContent(1); got != "dd" {
		t.Errorf("row 1: expected 'dd', got %q", got)
	}
	if got := term.LineContent(4); got != "ee" {
		t.Errorf("row 4: expected 'ee', got %q", got)
	}
}

func TestTerminalOriginMode(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("\x1b[3;8r")
	term.WriteString("\x1b[?6h")

	row, _ := term.CursorPos()
	if row != 2 {
		t.Errorf("expected cursor at scroll top 2, got %d", row)
	}

	// CUP is now region-relative.
	term.WriteString("\x1b[2;1H")
	row, _ = term.CursorPos()
	if row != 3 {
		t.Errorf("expected origin-relative row 3, got %d", row)
	}
}

func TestTerminalWideChar(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("中")

	head := term.Cell(0, 0)
	spacer := term.Cell(0, 1)
	if head == nil || !head.IsWide() {
		t.Fatal("expected wide cell at (0,0)")
	}
	if spacer == nil || !spacer.IsWideSpacer() {
		t.Fatal("expected spacer at (0,1)")
	}

	_, col := term.CursorPos()
	if col != 2 {
		t.Errorf("expected cursor at col 2, got %d", col)
	}

	// Overwriting the spacer erases the whole pair.
	term.WriteString("\x1b[1;2Hx")
	if head := term.Cell(0, 0); head.IsWide() || head.Char != ' ' {
		t.Errorf("expected erased wide head, got %q wide=%v", head.Char, head.IsWide())
	}
}

func TestTerminalWideCharWrap(t *testing.T) {
	term := New(WithSize(5, 4))

	// Third wide char does not fit in the last column and wraps whole.
	term.WriteString("中中中")

	if got := term.LineContent(0); got != "中中" {
		t.Errorf("row 0: expected 2 wide chars, got %q", got)
	}
	if got := term.LineContent(1); got != "中" {
		t.Errorf("row 1: expected wrapped wide char, got %q", got)
	}
}

func TestTerminalCombiningMark(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("e\u0301x")

	cell := term.Cell(0, 0)
	if cell == nil || cell.Cluster() != "e\u0301" {
		t.Fatalf("expected cluster with combining mark, got %q", cell.Cluster())
	}
	if got := term.LineContent(0); got != "e\u0301x" {
		t.Errorf("expected combined line content, got %q", got)
	}
}

func TestTerminalTabStops(t *testing.T) {
	term := New(WithSize(5, 30))

	term.WriteString("\tx")
	_, col := term.CursorPos()
	if col != 9 {
		t.Errorf("expected cursor at col 9 after tab+x, got %d", col)
	}

	// Custom tab stop.
	term.WriteString("\x1b[1;4H\x1bH") // HTS at col 3
	term.WriteString("\r\t")
	_, col = term.CursorPos()
	if col != 3 {
		t.Errorf("expected custom tab stop at 3, got %d", col)
	}
}

func TestTerminalInsertMode(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("abc\r")
	term.WriteString("\x1b[4h")
	term.WriteString("X")

	if got := term.LineContent(0); got != "Xabc" {
		t.Errorf("expected 'Xabc', got %q", got)
	}
}

func TestTerminalInsertDeleteLines(t *testing.T) {
	term := New(WithSize(4, 10))

	term.WriteString("a\r\nb\r\nc\r\nd")
	term.WriteString("\x1b[2;1H\x1b[1L")

	if term.LineContent(1) != "" || term.LineContent(2) != "b" {
		t.Errorf("after IL: got %q / %q", term.LineContent(1), term.LineContent(2))
	}

	term.WriteString("\x1b[1M")
	if term.LineContent(1) != "b" {
		t.Errorf("after DL: got %q", term.LineContent(1))
	}
}

func TestTerminalEraseChars(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("abcdef\x1b[1;2H\x1b[3X")

	if got := term.LineContent(0); got != "a   ef" {
		t.Errorf("expected 'a   ef', got %q", got)
	}
}

func TestTerminalRoundTrip(t *testing.T) {
	term := New(WithSize(5, 40))

	input := "the quick brown fox"
	term.WriteString(input)

	if got := term.String(); got != input {
		t.Errorf("round trip: expected %q, got %q", input, got)
	}
}

func TestTerminalReset(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("\x1b[31;1mhello\x1b[?25l")
	term.WriteString("\x1bc")

	if term.LineContent(0) != "" {
		t.Error("expected cleared screen after RIS")
	}
	if !term.CursorVisible() {
		t.Error("expected visible cursor after RIS")
	}
	row, col := term.CursorPos()
	if row != 0 || col != 0 {
		t.Errorf("expected home cursor, got (%d, %d)", row, col)
	}
}

func TestTerminalDecaln(t *testing.T) {
	term := New(WithSize(3, 4))

	term.WriteString("\x1b#8")

	if got := term.LineContent(1); got != "EEEE" {
		t.Errorf("expected 'EEEE', got %q", got)
	}
}

func TestTerminalSaveRestoreCursor(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("\x1b[5;7H\x1b7")
	term.WriteString("\x1b[1;1H")
	term.WriteString("\x1b8")

	row, col := term.CursorPos()
	if row != 4 || col != 6 {
		t.Errorf("expected restored (4, 6), got (%d, %d)", row, col)
	}
}

func TestTerminalReverseIndexScrolls(t *testing.T) {
	term := New(WithSize(3, 10))

	term.WriteString("top\r\nmid\r\nbot")
	term.WriteString("\x1b[1;1H\x1bM")

	if got := term.LineContent(1); got != "top" {
		t.Errorf("expected 'top' pushed down, got %q", got)
	}
	if got := term.LineContent(0); got != "" {
		t.Errorf("expected blank first line, got %q", got)
	}
}

func TestTerminalHyperlinkLifecycle(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("\x1b]8;;https://example.com\x07link\x1b]8;;\x07")

	cell := term.Cell(0, 0)
	if cell == nil || cell.Hyperlink == 0 {
		t.Fatal("expected hyperlink id on cell")
	}
	link, ok := term.Hyperlink(cell.Hyperlink)
	if !ok || link.URI != "https://example.com" {
		t.Fatalf("expected interned link, got %v %v", link, ok)
	}
	if term.HyperlinkCount() != 1 {
		t.Errorf("expected 1 live link, got %d", term.HyperlinkCount())
	}

	// Overwriting every referencing cell releases the entry.
	term.WriteString("\x1b[1;1Hxxxx")
	if term.HyperlinkCount() != 0 {
		t.Errorf("expected released link, got %d live", term.HyperlinkCount())
	}
}

func TestTerminalLineDrawingCharset(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("\x1b(0qx\x1b(B")

	if got := term.LineContent(0); got != "─│" {
		t.Errorf("expected line drawing glyphs, got %q", got)
	}
}

func TestTerminalCursorPhase(t *testing.T) {
	term := New(WithSize(5, 10))

	// Default style blinks.
	if phase := term.CursorPhase(); phase != CursorPhaseBlinkOn {
		t.Errorf("expected blink-on, got %d", phase)
	}
	term.BlinkTick()
	if phase := term.CursorPhase(); phase != CursorPhaseBlinkOff {
		t.Errorf("expected blink-off, got %d", phase)
	}

	term.WriteString("\x1b[2 q") // steady block
	if phase := term.CursorPhase(); phase != CursorPhaseSteady {
		t.Errorf("expected steady, got %d", phase)
	}

	term.WriteString("\x1b[?25l")
	if phase := term.CursorPhase(); phase != CursorPhaseHidden {
		t.Errorf("expected hidden, got %d", phase)
	}
}

func TestTerminalViewportScroll(t *testing.T) {
	storage := NewMemoryScrollback(100)
	term := New(WithSize(3, 10), WithScrollback(storage))

	for _, s := range []string{"one", "two", "three", "four", "five"} {
		term.WriteString(s + "\r\n")
	}

	term.ScrollViewport(2)
	if term.ViewportOffset() != 2 {
		t.Fatalf("expected offset 2, got %d", term.ViewportOffset())
	}

	snap := term.Snapshot(SnapshotDetailText)
	if snap.Lines[0].Text != "two" {
		t.Errorf("expected history line 'two' at top, got %q", snap.Lines[0].Text)
	}

	term.ResetViewport()
	if term.ViewportOffset() != 0 {
		t.Error("expected reset viewport")
	}
}

func TestTerminalUserVars(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("\x1b]1337;SetUserVar=foo=YmFy\x07")

	if v, ok := term.UserVar("foo"); !ok || v != "bar" {
		t.Errorf("expected foo=bar, got %q %v", v, ok)
	}
}

func TestTerminalWorkingDirectory(t *testing.T) {
	term := New(WithSize(5, 10))

	term.WriteString("\x1b]7;file://host/home/user\x1b\\")

	if term.WorkingDirectory() != "file://host/home/user" {
		t.Errorf("unexpected cwd %q", term.WorkingDirectory())
	}
	if term.WorkingDirectoryPath() != "/home/user" {
		t.Errorf("unexpected path %q", term.WorkingDirectoryPath())
	}
}

func TestTerminalMiddleware(t *testing.T) {
	var rang bool
	mw := &Middleware{
		Bell: func(next func()) {
			rang = true
			// Suppress the default by not calling next.
		},
	}
	term := New(WithSize(5, 10), WithMiddleware(mw))

	term.WriteString("\x07")
	if !rang {
		t.Error("expected middleware to observe the bell")
	}
}

func TestTerminalRecording(t *testing.T) {
	rec := &captureRecording{}
	term := New(WithSize(5, 10), WithRecording(rec))

	term.WriteString("abc")
	if string(term.RecordedData()) != "abc" {
		t.Errorf("expected recorded input, got %q", term.RecordedData())
	}
}

type captureRecording struct {
	data []byte
}

func (c *captureRecording) Record(data []byte) { c.data = append(c.data, data...) }
func (c *captureRecording) Data() []byte       { return c.data }
func (c *captureRecording) Clear()             { c.data = nil }

func TestTerminalStringTrimsTrailingLines(t *testing.T) {
	term := New(WithSize(10, 20))

	term.WriteString("a\r\n\r\nb")
	if got := term.String(); got != "a\n\nb" {
		t.Errorf("expected 'a\\n\\nb', got %q", got)
	}
}

func TestTerminalRepeatCharacter(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("x\x1b[4b")
	if got := term.LineContent(0); got != strings.Repeat("x", 5) {
		t.Errorf("expected 'xxxxx', got %q", got)
	}
}

func TestTerminalIdentify(t *testing.T) {
	var response bytes.Buffer
	term := New(WithSize(5, 10), WithResponse(&response))

	term.WriteString("\x1b[c")
	if got := response.String(); got != "\x1b[?62;4c" {
		t.Errorf("unexpected DA response %q", got)
	}
}

func TestTerminalWindowOps(t *testing.T) {
	var response bytes.Buffer
	term := New(WithSize(24, 80), WithResponse(&response))

	term.WriteString("\x1b[18t")
	if got := response.String(); got != "\x1b[8;24;80t" {
		t.Errorf("unexpected size report %q", got)
	}
}

func TestTerminalDecrqss(t *testing.T) {
	var response bytes.Buffer
	term := New(WithSize(24, 80), WithResponse(&response))

	term.WriteString("\x1b[3;10r")
	response.Reset()
	term.WriteString("\x1bP$qr\x1b\\")

	if got := response.String(); got != "\x1bP1$r3;10r\x1b\\" {
		t.Errorf("unexpected DECRQSS reply %q", got)
	}
}

func TestTerminalMalformedSequencesAreAbsorbed(t *testing.T) {
	term := New(WithSize(5, 20))

	term.WriteString("a\x1b[99999zb\x1b]unknown\x07c\x1b[?77h" + "d")
	if got := term.LineContent(0); got != "abcd" {
		t.Errorf("expected surviving text 'abcd', got %q", got)
	}
}
