package vte

import (
	"fmt"
	"reflect"
	"testing"
)

// recorder captures parser events as printable strings for comparison.
type recorder struct {
	events []string
}

func (r *recorder) Print(ru rune)   { r.events = append(r.events, fmt.Sprintf("print %q", ru)) }
func (r *recorder) Execute(b byte)  { r.events = append(r.events, fmt.Sprintf("execute %#x", b)) }
func (r *recorder) Put(b byte)      { r.events = append(r.events, fmt.Sprintf("put %#x", b)) }
func (r *recorder) Unhook()         { r.events = append(r.events, "unhook") }
func (r *recorder) SosDispatch(d []byte) { r.events = append(r.events, fmt.Sprintf("sos %q", d)) }
func (r *recorder) PmDispatch(d []byte)  { r.events = append(r.events, fmt.Sprintf("pm %q", d)) }
func (r *recorder) ApcDispatch(d []byte) { r.events = append(r.events, fmt.Sprintf("apc %q", d)) }

func (r *recorder) CsiDispatch(params [][]uint16, intermediates []byte, ignore bool, final byte) {
	r.events = append(r.events, fmt.Sprintf("csi %v %q %v %c", params, intermediates, ignore, final))
}

func (r *recorder) EscDispatch(intermediates []byte, ignore bool, final byte) {
	r.events = append(r.events, fmt.Sprintf("esc %q %v %c", intermediates, ignore, final))
}

func (r *recorder) Hook(params [][]uint16, intermediates []byte, ignore bool, final byte) {
	r.events = append(r.events, fmt.Sprintf("hook %v %q %v %c", params, intermediates, ignore, final))
}

func (r *recorder) OscDispatch(params [][]byte, bellTerminated bool) {
	r.events = append(r.events, fmt.Sprintf("osc %q %v", params, bellTerminated))
}

func record(input string) []string {
	rec := &recorder{}
	NewParser().Advance(rec, []byte(input))
	return rec.events
}

func TestParserPrint(t *testing.T) {
	got := record("hi")
	want := []string{`print 'h'`, `print 'i'`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserExecute(t *testing.T) {
	got := record("a\r\n")
	want := []string{`print 'a'`, "execute 0xd", "execute 0xa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserCsiParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "\x1b[1;2H", "csi [[1] [2]] \"\" false H"},
		{"empty params default to zero", "\x1b[;m", "csi [[0] [0]] \"\" false m"},
		{"no params", "\x1b[m", "csi [] \"\" false m"},
		{"private leader", "\x1b[?1049h", "csi [[1049]] \"?\" false h"},
		{"subparams keep position", "\x1b[38:2::10:20:30m", "csi [[38 2 0 10 20 30]] \"\" false m"},
		{"semicolon form stays split", "\x1b[38;2;10;20;30m", "csi [[38] [2] [10] [20] [30]] \"\" false m"},
		{"intermediate", "\x1b[?2026$p", "csi [[2026]] \"?$\" false p"},
		{"value clamped", "\x1b[99999999d", "csi [[65535]] \"\" false d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := record(tt.input)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("got %v, want [%s]", got, tt.want)
			}
		})
	}
}

func TestParserEscDispatch(t *testing.T) {
	got := record("\x1b(B\x1b7")
	want := []string{`esc "(" false B`, `esc "" false 7`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserOsc(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bel terminated", "\x1b]0;title\x07", `osc ["0" "title"] true`},
		{"st terminated", "\x1b]0;title\x1b\\", `osc ["0" "title"] false`},
		{"empty", "\x1b]\x07", `osc [""] true`},
		{"hyperlink fields", "\x1b]8;id=x;https://example.com\x07", `osc ["8" "id=x" "https://example.com"] true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := record(tt.input)
			// ST termination also dispatches the trailing ESC \.
			if len(got) == 0 || got[0] != tt.want {
				t.Errorf("got %v, want first event %s", got, tt.want)
			}
		})
	}
}

func TestParserOscCancelled(t *testing.T) {
	got := record("\x1b]0;title\x18x")
	want := []string{"execute 0x18", `print 'x'`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserOscTruncation(t *testing.T) {
	input := "\x1b]0;"
	for i := 0; i < MaxOscLength+100; i++ {
		input += "x"
	}
	input += "\x07"

	got := record(input)
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	rec := &recorder{}
	parser := NewParser()
	parser.Advance(rec, []byte(input))
	if len(parser.oscRaw) != MaxOscLength {
		t.Errorf("expected buffer capped at %d, got %d", MaxOscLength, len(parser.oscRaw))
	}
}

func TestParserDcs(t *testing.T) {
	got := record("\x1bP1$qm\x1b\\")
	want := []string{
		`hook [[1]] "$" false q`,
		"put 0x6d",
		"unhook",
		`esc "" false \`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParserApc(t *testing.T) {
	got := record("\x1b_Gi=1\x1b\\")
	if len(got) == 0 || got[0] != `apc "Gi=1"` {
		t.Errorf("got %v, want first event apc \"Gi=1\"", got)
	}
}

func TestParserUtf8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two byte", "é", []string{`print 'é'`}},
		{"three byte", "中", []string{`print '中'`}},
		{"four byte", "😀", []string{`print '😀'`}},
		{"stray continuation", "\x80a", []string{`print '�'`, `print 'a'`}},
		{"truncated sequence", "\xe4\xb8a", []string{`print '�'`, `print 'a'`}},
		{"overlong rejected", "\xc0\xafa", []string{`print '�'`, `print '�'`, `print 'a'`}},
		{"surrogate rejected", "\xed\xa0\x80a", []string{`print '�'`, `print '�'`, `print '�'`, `print 'a'`}},
		{"interrupted by escape", "\xe4\x1b[m", []string{`print '�'`, `csi [] "" false m`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := record(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestParserChunking verifies that chunk boundaries never change the event
// stream: the same input split at every position yields identical events.
func TestParserChunking(t *testing.T) {
	input := []byte("a\x1b[31;1mred\x1b]0;ti;tle\x07中😀\x1bP0;1|data\x1b\\plain\r\n\x1b[?1049h")

	whole := &recorder{}
	NewParser().Advance(whole, input)

	for split := 1; split < len(input); split++ {
		chunked := &recorder{}
		parser := NewParser()
		parser.Advance(chunked, input[:split])
		parser.Advance(chunked, input[split:])

		if !reflect.DeepEqual(chunked.events, whole.events) {
			t.Fatalf("split at %d diverged:\n got %v\nwant %v", split, chunked.events, whole.events)
		}
	}
}

func TestParserChunkingEveryByte(t *testing.T) {
	input := []byte("\x1b[38:2::10:20:30mX\x1b]8;;https://example.com\x1b\\Y")

	whole := &recorder{}
	NewParser().Advance(whole, input)

	chunked := &recorder{}
	parser := NewParser()
	for _, b := range input {
		parser.Advance(chunked, []byte{b})
	}

	if !reflect.DeepEqual(chunked.events, whole.events) {
		t.Fatalf("byte-at-a-time diverged:\n got %v\nwant %v", chunked.events, whole.events)
	}
}

func TestParserIntermediateOverflow(t *testing.T) {
	got := record("\x1b[!!!!!x")
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %v", got)
	}
	want := `csi [] "!!!!" true x`
	if got[0] != want {
		t.Errorf("got %s, want %s", got[0], want)
	}
}

func TestParserControlInsideCsi(t *testing.T) {
	// C0 controls execute without aborting the sequence.
	got := record("\x1b[1\x082J")
	want := []string{"execute 0x8", `csi [[12]] "" false J`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
