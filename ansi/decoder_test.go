package ansi

import (
	"fmt"
	"image/color"
	"reflect"
	"testing"
)

// recordingHandler appends a readable line per handler call.
type recordingHandler struct {
	NoopHandler
	calls []string
}

func (h *recordingHandler) add(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *recordingHandler) Input(r rune)                  { h.add("input %c", r) }
func (h *recordingHandler) LineFeed()                     { h.add("linefeed") }
func (h *recordingHandler) CarriageReturn()               { h.add("cr") }
func (h *recordingHandler) Bell()                         { h.add("bell") }
func (h *recordingHandler) Backspace()                    { h.add("backspace") }
func (h *recordingHandler) Tab(n int)                     { h.add("tab %d", n) }
func (h *recordingHandler) Goto(row, col int)             { h.add("goto %d,%d", row, col) }
func (h *recordingHandler) GotoCol(col int)               { h.add("gotocol %d", col) }
func (h *recordingHandler) GotoLine(row int)              { h.add("gotoline %d", row) }
func (h *recordingHandler) MoveUp(n int)                  { h.add("up %d", n) }
func (h *recordingHandler) MoveDown(n int)                { h.add("down %d", n) }
func (h *recordingHandler) MoveForward(n int)             { h.add("forward %d", n) }
func (h *recordingHandler) MoveBackward(n int)            { h.add("backward %d", n) }
func (h *recordingHandler) ClearScreen(m ClearMode)       { h.add("clearscreen %d", m) }
func (h *recordingHandler) ClearLine(m LineClearMode)     { h.add("clearline %d", m) }
func (h *recordingHandler) InsertBlank(n int)             { h.add("ich %d", n) }
func (h *recordingHandler) DeleteChars(n int)             { h.add("dch %d", n) }
func (h *recordingHandler) InsertBlankLines(n int)        { h.add("il %d", n) }
func (h *recordingHandler) DeleteLines(n int)             { h.add("dl %d", n) }
func (h *recordingHandler) EraseChars(n int)              { h.add("ech %d", n) }
func (h *recordingHandler) ScrollUp(n int)                { h.add("su %d", n) }
func (h *recordingHandler) ScrollDown(n int)              { h.add("sd %d", n) }
func (h *recordingHandler) SetScrollingRegion(t, b int)   { h.add("stbm %d,%d", t, b) }
func (h *recordingHandler) SaveCursorPosition()           { h.add("save") }
func (h *recordingHandler) RestoreCursorPosition()        { h.add("restore") }
func (h *recordingHandler) ReverseIndex()                 { h.add("ri") }
func (h *recordingHandler) SetTitle(title string)         { h.add("title %s", title) }
func (h *recordingHandler) DeviceStatus(n int)            { h.add("dsr %d", n) }
func (h *recordingHandler) SetCursorStyle(s CursorStyle)  { h.add("cursorstyle %d", s) }
func (h *recordingHandler) SetWorkingDirectory(uri string) { h.add("cwd %s", uri) }
func (h *recordingHandler) RequestStatusString(req string) { h.add("decrqss %s", req) }
func (h *recordingHandler) SetUserVar(name, value string)  { h.add("uservar %s=%s", name, value) }
func (h *recordingHandler) DesktopNotification(title, body string) {
	h.add("notify %q %q", title, body)
}

func (h *recordingHandler) SetMode(m Mode)   { h.add("setmode %d/%v/%d", m.Raw, m.Private, m.Mode) }
func (h *recordingHandler) UnsetMode(m Mode) { h.add("unsetmode %d/%v/%d", m.Raw, m.Private, m.Mode) }
func (h *recordingHandler) ReportMode(m Mode) {
	h.add("reportmode %d/%v/%d", m.Raw, m.Private, m.Mode)
}

func (h *recordingHandler) SetTerminalCharAttribute(attr TerminalCharAttribute) {
	switch {
	case attr.RGBColor != nil:
		h.add("attr %d rgb(%d,%d,%d)", attr.Attr, attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B)
	case attr.IndexedColor != nil:
		h.add("attr %d idx(%d)", attr.Attr, attr.IndexedColor.Index)
	case attr.NamedColor != nil:
		h.add("attr %d named(%d)", attr.Attr, *attr.NamedColor)
	default:
		h.add("attr %d", attr.Attr)
	}
}

func (h *recordingHandler) SetHyperlink(link *Hyperlink) {
	if link == nil {
		h.add("hyperlink nil")
		return
	}
	h.add("hyperlink %s %s", link.ID, link.URI)
}

func (h *recordingHandler) SetColor(index int, c color.Color) {
	r, g, b, _ := c.RGBA()
	h.add("setcolor %d #%02x%02x%02x", index, r>>8, g>>8, b>>8)
}

func (h *recordingHandler) SixelReceived(params [][]uint16, data []byte) {
	h.add("sixel %v %q", params, data)
}

func (h *recordingHandler) SemanticPromptMark(mark SemanticPromptMark, exitCode int) {
	h.add("prompt %d %d", mark, exitCode)
}

func decode(input string) []string {
	h := &recordingHandler{}
	d := NewDecoder(h)
	d.Write([]byte(input))
	return h.calls
}

func expect(t *testing.T, input string, want ...string) {
	t.Helper()
	got := decode(input)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decode(%q):\n got %v\nwant %v", input, got, want)
	}
}

func TestDecoderControls(t *testing.T) {
	expect(t, "a\b\r\n\t\x07", "input a", "backspace", "cr", "linefeed", "tab 1", "bell")
}

func TestDecoderCursorMovement(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"\x1b[H", []string{"goto 0,0"}},
		{"\x1b[5;10H", []string{"goto 4,9"}},
		{"\x1b[3;7f", []string{"goto 2,6"}},
		{"\x1b[A", []string{"up 1"}},
		{"\x1b[4B", []string{"down 4"}},
		{"\x1b[0C", []string{"forward 1"}},
		{"\x1b[2D", []string{"backward 2"}},
		{"\x1b[7G", []string{"gotocol 6"}},
		{"\x1b[3d", []string{"gotoline 2"}},
	}
	for _, tt := range tests {
		got := decode(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("decode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDecoderEraseInsertDelete(t *testing.T) {
	expect(t, "\x1b[2J", "clearscreen 2")
	expect(t, "\x1b[K", "clearline 0")
	expect(t, "\x1b[1K", "clearline 1")
	expect(t, "\x1b[3@", "ich 3")
	expect(t, "\x1b[2P", "dch 2")
	expect(t, "\x1b[2L", "il 2")
	expect(t, "\x1b[2M", "dl 2")
	expect(t, "\x1b[4X", "ech 4")
	expect(t, "\x1b[3S", "su 3")
	expect(t, "\x1b[3T", "sd 3")
}

func TestDecoderModes(t *testing.T) {
	expect(t, "\x1b[?1049h", "setmode 1049/true/21")
	expect(t, "\x1b[?25l", fmt.Sprintf("unsetmode 25/true/%d", TerminalModeShowCursor))
	expect(t, "\x1b[4h", fmt.Sprintf("setmode 4/false/%d", TerminalModeInsert))
	expect(t, "\x1b[?1000;1006h",
		fmt.Sprintf("setmode 1000/true/%d", TerminalModeReportMouseClicks),
		fmt.Sprintf("setmode 1006/true/%d", TerminalModeSGRMouse),
	)
	// Unrecognised modes still flow through with their raw number.
	expect(t, "\x1b[?2022h", "setmode 2022/true/0")
}

func TestDecoderDecrqm(t *testing.T) {
	expect(t, "\x1b[?2022$p", "reportmode 2022/true/0")
	expect(t, "\x1b[?25$p", fmt.Sprintf("reportmode 25/true/%d", TerminalModeShowCursor))
	expect(t, "\x1b[4$p", fmt.Sprintf("reportmode 4/false/%d", TerminalModeInsert))
}

func TestDecoderSgrColors(t *testing.T) {
	fg := int(CharAttributeForeground)
	tests := []struct {
		input string
		want  []string
	}{
		{"\x1b[m", []string{"attr 0"}},
		{"\x1b[0m", []string{"attr 0"}},
		{"\x1b[1;31m", []string{fmt.Sprintf("attr %d", CharAttributeBold), fmt.Sprintf("attr %d named(1)", fg)}},
		{"\x1b[38;5;120m", []string{fmt.Sprintf("attr %d idx(120)", fg)}},
		{"\x1b[38;2;10;20;30m", []string{fmt.Sprintf("attr %d rgb(10,20,30)", fg)}},
		{"\x1b[38:2::10:20:30m", []string{fmt.Sprintf("attr %d rgb(10,20,30)", fg)}},
		{"\x1b[38:2:10:20:30m", []string{fmt.Sprintf("attr %d rgb(10,20,30)", fg)}},
		{"\x1b[38:5:200m", []string{fmt.Sprintf("attr %d idx(200)", fg)}},
		{"\x1b[4:3m", []string{fmt.Sprintf("attr %d", CharAttributeCurlyUnderline)}},
		{"\x1b[58:2::1:2:3m", []string{fmt.Sprintf("attr %d rgb(1,2,3)", CharAttributeUnderlineColor)}},
		{"\x1b[48;5;17;1m", []string{
			fmt.Sprintf("attr %d idx(17)", CharAttributeBackground),
			fmt.Sprintf("attr %d", CharAttributeBold),
		}},
	}
	for _, tt := range tests {
		got := decode(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("decode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDecoderOsc(t *testing.T) {
	expect(t, "\x1b]2;hello world\x07", "title hello world")
	expect(t, "\x1b]0;with;semicolon\x07", "title with;semicolon")
	expect(t, "\x1b]7;file://host/tmp\x1b\\", "cwd file://host/tmp")
	expect(t, "\x1b]8;id=x;https://example.com\x07", "hyperlink x https://example.com")
	expect(t, "\x1b]8;;\x07", "hyperlink nil")
	expect(t, "\x1b]4;1;rgb:ff/00/00\x07", "setcolor 1 #ff0000")
	expect(t, "\x1b]10;#123456\x07", "setcolor 256 #123456")
	expect(t, "\x1b]9;build done\x07", `notify "" "build done"`)
	expect(t, "\x1b]777;notify;title;body\x07", `notify "title" "body"`)
	expect(t, "\x1b]1337;SetUserVar=foo=YmFy\x07", "uservar foo=bar")
	expect(t, "\x1b]133;A\x07", "prompt 0 -1")
	expect(t, "\x1b]133;D;2\x07", "prompt 3 2")
}

func TestDecoderDcs(t *testing.T) {
	expect(t, "\x1bP$qm\x1b\\", "decrqss m")
	expect(t, "\x1bP0;1q#0;2;0;0;0-\x1b\\", `sixel [[0] [1]] "#0;2;0;0;0-"`)
}

func TestDecoderEsc(t *testing.T) {
	expect(t, "\x1b7\x1b8", "save", "restore")
	expect(t, "\x1bM", "ri")
	expect(t, "\x1bE", "cr", "linefeed")
	expect(t, "\x1bD", "linefeed")
}

func TestDecoderRepeat(t *testing.T) {
	expect(t, "x\x1b[3b", "input x", "input x", "input x", "input x")
}

func TestDecoderCursorStyle(t *testing.T) {
	expect(t, "\x1b[ q", "cursorstyle 0")
	expect(t, "\x1b[4 q", "cursorstyle 3")
}

func TestDecoderUnknownIsNoop(t *testing.T) {
	// Unknown CSI and OSC sequences must not disturb surrounding output.
	expect(t, "a\x1b[99zb\x1b]7777;x\x07c", "input a", "input b", "input c")
}
