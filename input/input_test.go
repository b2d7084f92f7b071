package input

import (
	"bytes"
	"testing"
)

func TestKeyArrows(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		key   Key
		mods  Modifiers
		modes Modes
		want  string
	}{
		{KeyUp, 0, Modes{}, "\x1b[A"},
		{KeyDown, 0, Modes{}, "\x1b[B"},
		{KeyRight, 0, Modes{}, "\x1b[C"},
		{KeyLeft, 0, Modes{}, "\x1b[D"},
		{KeyUp, 0, Modes{ApplicationCursorKeys: true}, "\x1bOA"},
		{KeyUp, ModShift, Modes{}, "\x1b[1;2A"},
		{KeyLeft, ModControl, Modes{ApplicationCursorKeys: true}, "\x1b[1;5D"},
	}

	for _, tt := range tests {
		if got := e.Key(tt.key, tt.mods, tt.modes); !bytes.Equal(got, []byte(tt.want)) {
			t.Errorf("Key(%d, %d) = %q, want %q", tt.key, tt.mods, got, tt.want)
		}
	}
}

func TestKeyEditingAndFunction(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		key  Key
		mods Modifiers
		want string
	}{
		{KeyHome, 0, "\x1b[H"},
		{KeyEnd, 0, "\x1b[F"},
		{KeyInsert, 0, "\x1b[2~"},
		{KeyDelete, 0, "\x1b[3~"},
		{KeyPageUp, 0, "\x1b[5~"},
		{KeyPageDown, 0, "\x1b[6~"},
		{KeyPageUp, ModShift, "\x1b[5;2~"},
		{KeyF1, 0, "\x1bOP"},
		{KeyF4, 0, "\x1bOS"},
		{KeyF5, 0, "\x1b[15~"},
		{KeyF12, 0, "\x1b[24~"},
		{KeyF1, ModControl, "\x1b[1;5P"},
		{KeyTab, 0, "\t"},
		{KeyTab, ModShift, "\x1b[Z"},
		{KeyEnter, 0, "\r"},
		{KeyBackspace, 0, "\x7f"},
		{KeyBackspace, ModAlt, "\x1b\x7f"},
		{KeyEscape, 0, "\x1b"},
	}

	for _, tt := range tests {
		if got := e.Key(tt.key, tt.mods, Modes{}); !bytes.Equal(got, []byte(tt.want)) {
			t.Errorf("Key(%d, %d) = %q, want %q", tt.key, tt.mods, got, tt.want)
		}
	}
}

func TestKeyKeypadApplicationMode(t *testing.T) {
	e := NewEncoder()

	if got := e.Key(KeyKeypad5, 0, Modes{}); !bytes.Equal(got, []byte("5")) {
		t.Errorf("numeric keypad = %q, want '5'", got)
	}
	if got := e.Key(KeyKeypad5, 0, Modes{ApplicationKeypad: true}); !bytes.Equal(got, []byte("\x1bOu")) {
		t.Errorf("application keypad = %q, want SS3 u", got)
	}
	if got := e.Key(KeyKeypadEnter, 0, Modes{ApplicationKeypad: true}); !bytes.Equal(got, []byte("\x1bOM")) {
		t.Errorf("application keypad enter = %q, want SS3 M", got)
	}
}

func TestTextEncoding(t *testing.T) {
	e := NewEncoder()

	if got := e.Text('a', 0, Modes{}); !bytes.Equal(got, []byte("a")) {
		t.Errorf("plain = %q", got)
	}
	if got := e.Text('a', ModControl, Modes{}); !bytes.Equal(got, []byte{0x01}) {
		t.Errorf("ctrl-a = %q", got)
	}
	if got := e.Text('c', ModControl|ModAlt, Modes{}); !bytes.Equal(got, []byte{0x1b, 0x03}) {
		t.Errorf("ctrl-alt-c = %q", got)
	}
	if got := e.Text('x', ModAlt, Modes{}); !bytes.Equal(got, []byte("\x1bx")) {
		t.Errorf("alt-x = %q", got)
	}
	if got := e.Text('é', 0, Modes{}); !bytes.Equal(got, []byte("é")) {
		t.Errorf("utf8 = %q", got)
	}
}

func TestTextModifyOtherKeys(t *testing.T) {
	e := NewEncoder()

	got := e.Text('a', ModControl, Modes{ModifyOtherKeys: 2})
	want := "\x1b[27;5;97~"
	if !bytes.Equal(got, []byte(want)) {
		t.Errorf("modifyOtherKeys = %q, want %q", got, want)
	}
}

// TestMouseSGR: with 1006+1003 active, a left press at cell (11, 3) reports
// CSI < 0 ; 12 ; 4 M and its release CSI < 0 ; 12 ; 4 m.
func TestMouseSGR(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseAnyMotion: true, MouseSGR: true}

	press := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseLeft, Row: 3, Col: 11}, modes)
	if !bytes.Equal(press, []byte("\x1b[<0;12;4M")) {
		t.Errorf("press = %q, want \\x1b[<0;12;4M", press)
	}

	release := e.Mouse(MouseEvent{Kind: MouseRelease, Button: MouseLeft, Row: 3, Col: 11}, modes)
	if !bytes.Equal(release, []byte("\x1b[<0;12;4m")) {
		t.Errorf("release = %q, want \\x1b[<0;12;4m", release)
	}
}

func TestMouseLegacyEncoding(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseClicks: true}

	press := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseLeft, Row: 0, Col: 0}, modes)
	want := []byte{0x1b, '[', 'M', 32, 33, 33}
	if !bytes.Equal(press, want) {
		t.Errorf("press = %v, want %v", press, want)
	}

	// Legacy encoding folds releases into button 3.
	release := e.Mouse(MouseEvent{Kind: MouseRelease, Button: MouseLeft, Row: 0, Col: 0}, modes)
	want = []byte{0x1b, '[', 'M', 35, 33, 33}
	if !bytes.Equal(release, want) {
		t.Errorf("release = %v, want %v", release, want)
	}
}

func TestMouseUrxvtEncoding(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseClicks: true, MouseUrxvt: true}

	press := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseRight, Row: 9, Col: 4}, modes)
	if !bytes.Equal(press, []byte("\x1b[34;5;10M")) {
		t.Errorf("urxvt press = %q", press)
	}
}

func TestMouseWheel(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseClicks: true, MouseSGR: true}

	up := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseWheelUp, Row: 0, Col: 0}, modes)
	if !bytes.Equal(up, []byte("\x1b[<64;1;1M")) {
		t.Errorf("wheel up = %q", up)
	}
}

func TestMouseMotionFiltering(t *testing.T) {
	e := NewEncoder()

	// 1000: no motion at all.
	modes := Modes{MouseClicks: true, MouseSGR: true}
	if got := e.Mouse(MouseEvent{Kind: MouseMotion, Row: 1, Col: 1}, modes); got != nil {
		t.Errorf("clicks-only motion = %q, want none", got)
	}

	// 1002: motion only while a button is held.
	e = NewEncoder()
	modes = Modes{MouseButtonMotion: true, MouseSGR: true}
	if got := e.Mouse(MouseEvent{Kind: MouseMotion, Button: MouseLeft, Row: 1, Col: 1}, modes); got != nil {
		t.Errorf("unpressed motion = %q, want none", got)
	}
	e.Mouse(MouseEvent{Kind: MousePress, Button: MouseLeft, Row: 1, Col: 1}, modes)
	got := e.Mouse(MouseEvent{Kind: MouseMotion, Button: MouseLeft, Row: 1, Col: 2}, modes)
	if !bytes.Equal(got, []byte("\x1b[<32;3;2M")) {
		t.Errorf("held motion = %q, want \\x1b[<32;3;2M", got)
	}

	// Motion within the same cell reports once.
	if again := e.Mouse(MouseEvent{Kind: MouseMotion, Button: MouseLeft, Row: 1, Col: 2}, modes); again != nil {
		t.Errorf("same-cell motion = %q, want none", again)
	}
}

func TestMouseAnyMotionWithoutButton(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseAnyMotion: true, MouseSGR: true}

	got := e.Mouse(MouseEvent{Kind: MouseMotion, Button: MouseLeft, Row: 0, Col: 5}, modes)
	// No button held: the no-button motion code 35 is reported.
	if !bytes.Equal(got, []byte("\x1b[<35;6;1M")) {
		t.Errorf("any-motion = %q, want \\x1b[<35;6;1M", got)
	}
}

func TestMouseX10PressOnly(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseX10: true}

	press := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseLeft, Row: 0, Col: 0}, modes)
	if press == nil {
		t.Fatal("expected X10 press report")
	}
	release := e.Mouse(MouseEvent{Kind: MouseRelease, Button: MouseLeft, Row: 0, Col: 0}, modes)
	if release != nil {
		t.Errorf("X10 release = %q, want none", release)
	}
}

func TestMouseDisabled(t *testing.T) {
	e := NewEncoder()

	if got := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseLeft}, Modes{}); got != nil {
		t.Errorf("expected no report with mouse modes off, got %q", got)
	}
}

func TestMouseModifierBits(t *testing.T) {
	e := NewEncoder()
	modes := Modes{MouseClicks: true, MouseSGR: true}

	got := e.Mouse(MouseEvent{
		Kind:      MousePress,
		Button:    MouseLeft,
		Modifiers: ModShift | ModControl,
		Row:       0,
		Col:       0,
	}, modes)
	if !bytes.Equal(got, []byte("\x1b[<20;1;1M")) {
		t.Errorf("modified press = %q, want \\x1b[<20;1;1M", got)
	}
}

func TestAlternateScrollWheel(t *testing.T) {
	e := NewEncoder()
	modes := Modes{AlternateScroll: true, AlternateScreen: true}

	up := e.Mouse(MouseEvent{Kind: MousePress, Button: MouseWheelUp}, modes)
	if !bytes.Equal(up, []byte("\x1b[A")) {
		t.Errorf("alternate scroll up = %q, want arrow", up)
	}
}

func TestFocusReporting(t *testing.T) {
	e := NewEncoder()

	if got := e.Focus(true, Modes{}); got != nil {
		t.Errorf("focus with reporting off = %q", got)
	}
	if got := e.Focus(true, Modes{FocusReporting: true}); !bytes.Equal(got, []byte("\x1b[I")) {
		t.Errorf("focus in = %q", got)
	}
	if got := e.Focus(false, Modes{FocusReporting: true}); !bytes.Equal(got, []byte("\x1b[O")) {
		t.Errorf("focus out = %q", got)
	}
}

func TestPaste(t *testing.T) {
	e := NewEncoder()

	if got := e.Paste("hello\nworld", Modes{}); !bytes.Equal(got, []byte("hello\rworld")) {
		t.Errorf("plain paste = %q", got)
	}

	got := e.Paste("data", Modes{BracketedPaste: true})
	if !bytes.Equal(got, []byte("\x1b[200~data\x1b[201~")) {
		t.Errorf("bracketed paste = %q", got)
	}

	// An embedded end marker cannot break out of the bracket.
	got = e.Paste("a\x1b[201~b", Modes{BracketedPaste: true})
	if !bytes.Equal(got, []byte("\x1b[200~ab\x1b[201~")) {
		t.Errorf("sanitised paste = %q", got)
	}
}
