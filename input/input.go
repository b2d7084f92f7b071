// Package input encodes key, character, mouse, focus, and paste events into
// the bytes a terminal application expects, honouring the live mode set
// (application cursor keys, application keypad, mouse protocols, bracketed
// paste, focus reporting, modifyOtherKeys).
//
// The encoder is pure with respect to the screen: it never touches the grid.
// The only state it keeps is the last reported mouse cell and the set of
// buttons currently held, which the mouse protocols themselves require.
package input

import (
	"fmt"
	"strings"
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModControl
	ModMeta
)

// xtermCode returns the xterm modifier parameter (1 + bitmask), or 0 when no
// modifier is held.
func (m Modifiers) xtermCode() int {
	if m == 0 {
		return 0
	}
	code := 1
	if m&ModShift != 0 {
		code += 1
	}
	if m&ModAlt != 0 {
		code += 2
	}
	if m&ModControl != 0 {
		code += 4
	}
	if m&ModMeta != 0 {
		code += 8
	}
	return code
}

// Key identifies a non-character key.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyKeypadEnter
	KeyKeypad0
	KeyKeypad1
	KeyKeypad2
	KeyKeypad3
	KeyKeypad4
	KeyKeypad5
	KeyKeypad6
	KeyKeypad7
	KeyKeypad8
	KeyKeypad9
	KeyKeypadDecimal
	KeyKeypadDivide
	KeyKeypadMultiply
	KeyKeypadMinus
	KeyKeypadPlus
)

// MouseButton identifies which button an event refers to.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEventKind classifies a mouse event.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is one pointer event in cell coordinates (0-based).
type MouseEvent struct {
	Kind      MouseEventKind
	Button    MouseButton
	Modifiers Modifiers
	Row       int
	Col       int
}

// Modes is the snapshot of terminal modes the encoder consults. The terminal
// session builds one from its live mode set before encoding each event.
type Modes struct {
	ApplicationCursorKeys bool // DECCKM
	ApplicationKeypad     bool // DECPAM

	MouseX10          bool // mode 9: presses only
	MouseClicks       bool // mode 1000: press/release
	MouseButtonMotion bool // mode 1002: motion while a button is held
	MouseAnyMotion    bool // mode 1003: all motion

	MouseUTF8  bool // mode 1005 coordinate encoding
	MouseSGR   bool // mode 1006 coordinate encoding
	MouseUrxvt bool // mode 1015 coordinate encoding

	FocusReporting  bool // mode 1004
	BracketedPaste  bool // mode 2004
	AlternateScroll bool // mode 1007
	AlternateScreen bool
	LineFeedNewLine bool // LNM

	ModifyOtherKeys int // xterm modifyOtherKeys level 0-2
}

// Encoder translates events to bytes. The zero value is ready for use.
type Encoder struct {
	// Mouse protocol state: which buttons are held and the last cell a
	// motion event was reported for.
	buttonsDown map[MouseButton]bool
	lastRow     int
	lastCol     int
	haveLast    bool
}

// NewEncoder returns a ready encoder.
func NewEncoder() *Encoder {
	return &Encoder{buttonsDown: make(map[MouseButton]bool)}
}

// --- Keys ---

// Key encodes a special key press. Returns nil when the key produces no
// bytes under the given modes.
func (e *Encoder) Key(key Key, mods Modifiers, modes Modes) []byte {
	switch key {
	case KeyUp, KeyDown, KeyRight, KeyLeft:
		return cursorKey(key, mods, modes.ApplicationCursorKeys)

	case KeyHome:
		return editKeyNamed('H', mods, modes.ApplicationCursorKeys)
	case KeyEnd:
		return editKeyNamed('F', mods, modes.ApplicationCursorKeys)

	case KeyInsert:
		return tildeKey(2, mods)
	case KeyDelete:
		return tildeKey(3, mods)
	case KeyPageUp:
		return tildeKey(5, mods)
	case KeyPageDown:
		return tildeKey(6, mods)

	case KeyBackspace:
		if mods&ModAlt != 0 {
			return []byte{0x1b, 0x7f}
		}
		if mods&ModControl != 0 {
			return []byte{0x08}
		}
		return []byte{0x7f}

	case KeyTab:
		if mods&ModShift != 0 {
			return []byte("\x1b[Z")
		}
		return []byte{'\t'}

	case KeyEnter:
		if modes.LineFeedNewLine {
			return []byte("\r\n")
		}
		return []byte{'\r'}

	case KeyEscape:
		return []byte{0x1b}

	case KeyF1, KeyF2, KeyF3, KeyF4:
		final := byte('P' + key - KeyF1)
		if code := mods.xtermCode(); code != 0 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", code, final))
		}
		return []byte{0x1b, 'O', final}

	case KeyF5:
		return tildeKey(15, mods)
	case KeyF6:
		return tildeKey(17, mods)
	case KeyF7:
		return tildeKey(18, mods)
	case KeyF8:
		return tildeKey(19, mods)
	case KeyF9:
		return tildeKey(20, mods)
	case KeyF10:
		return tildeKey(21, mods)
	case KeyF11:
		return tildeKey(23, mods)
	case KeyF12:
		return tildeKey(24, mods)
	}

	if b, ok := keypadKey(key, modes.ApplicationKeypad, modes.LineFeedNewLine); ok {
		return b
	}

	return nil
}

func cursorKey(key Key, mods Modifiers, application bool) []byte {
	var final byte
	switch key {
	case KeyUp:
		final = 'A'
	case KeyDown:
		final = 'B'
	case KeyRight:
		final = 'C'
	case KeyLeft:
		final = 'D'
	}

	if code := mods.xtermCode(); code != 0 {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", code, final))
	}
	if application {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

// editKeyNamed encodes Home/End style keys with a letter final.
func editKeyNamed(final byte, mods Modifiers, application bool) []byte {
	if code := mods.xtermCode(); code != 0 {
		return []byte(fmt.Sprintf("\x1b[1;%d%c", code, final))
	}
	if application {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

func tildeKey(number int, mods Modifiers) []byte {
	if code := mods.xtermCode(); code != 0 {
		return []byte(fmt.Sprintf("\x1b[%d;%d~", number, code))
	}
	return []byte(fmt.Sprintf("\x1b[%d~", number))
}

// keypadKey encodes numeric keypad keys, which switch to SS3 sequences in
// application keypad mode (DECPAM).
func keypadKey(key Key, application, lnm bool) ([]byte, bool) {
	if key < KeyKeypadEnter || key > KeyKeypadPlus {
		return nil, false
	}

	if !application {
		switch key {
		case KeyKeypadEnter:
			if lnm {
				return []byte("\r\n"), true
			}
			return []byte{'\r'}, true
		case KeyKeypadDecimal:
			return []byte{'.'}, true
		case KeyKeypadDivide:
			return []byte{'/'}, true
		case KeyKeypadMultiply:
			return []byte{'*'}, true
		case KeyKeypadMinus:
			return []byte{'-'}, true
		case KeyKeypadPlus:
			return []byte{'+'}, true
		default:
			return []byte{byte('0' + key - KeyKeypad0)}, true
		}
	}

	var final byte
	switch key {
	case KeyKeypadEnter:
		final = 'M'
	case KeyKeypadDecimal:
		final = 'n'
	case KeyKeypadDivide:
		final = 'o'
	case KeyKeypadMultiply:
		final = 'j'
	case KeyKeypadMinus:
		final = 'm'
	case KeyKeypadPlus:
		final = 'k'
	default:
		final = byte('p' + key - KeyKeypad0)
	}
	return []byte{0x1b, 'O', final}, true
}

// --- Characters ---

// Text encodes a character event: a printable rune with its modifiers.
func (e *Encoder) Text(r rune, mods Modifiers, modes Modes) []byte {
	// modifyOtherKeys level 2 reports modified printables as CSI 27 triples.
	if modes.ModifyOtherKeys >= 2 && mods&(ModControl|ModAlt|ModMeta) != 0 {
		return []byte(fmt.Sprintf("\x1b[27;%d;%d~", mods.xtermCode(), r))
	}

	var out []byte

	if mods&ModAlt != 0 {
		out = append(out, 0x1b)
	}

	if mods&ModControl != 0 {
		if ctrl, ok := controlByte(r); ok {
			return append(out, ctrl)
		}
		if modes.ModifyOtherKeys >= 1 {
			return []byte(fmt.Sprintf("\x1b[27;%d;%d~", mods.xtermCode(), r))
		}
	}

	return append(out, []byte(string(r))...)
}

// controlByte maps a rune to its control character.
func controlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r - 'a' + 1), true
	case r >= 'A' && r <= 'Z':
		return byte(r - 'A' + 1), true
	case r == ' ', r == '@':
		return 0, true
	case r == '[':
		return 0x1b, true
	case r == '\\':
		return 0x1c, true
	case r == ']':
		return 0x1d, true
	case r == '^':
		return 0x1e, true
	case r == '_', r == '/':
		return 0x1f, true
	case r == '?':
		return 0x7f, true
	}
	return 0, false
}

// --- Mouse ---

// Mouse encodes a pointer event, or nil when the active protocol does not
// report it (wrong event class, duplicate motion cell, X10 release, ...).
func (e *Encoder) Mouse(ev MouseEvent, modes Modes) []byte {
	// Wheel on the alternate screen maps to arrow keys when alternate
	// scroll mode is on and no mouse protocol claims the event.
	if modes.AlternateScroll && modes.AlternateScreen && !mouseReportingActive(modes) {
		switch ev.Button {
		case MouseWheelUp:
			return cursorKey(KeyUp, 0, modes.ApplicationCursorKeys)
		case MouseWheelDown:
			return cursorKey(KeyDown, 0, modes.ApplicationCursorKeys)
		}
	}

	if !mouseReportingActive(modes) {
		return nil
	}

	if !e.shouldReport(ev, modes) {
		return nil
	}
	held := e.anyButtonDown()
	e.trackButtons(ev)

	button := mouseButtonCode(ev, modes, held)
	return encodeMouseBytes(ev, button, modes)
}

func mouseReportingActive(modes Modes) bool {
	return modes.MouseX10 || modes.MouseClicks || modes.MouseButtonMotion || modes.MouseAnyMotion
}

// shouldReport applies the event-class filter of the active protocol.
func (e *Encoder) shouldReport(ev MouseEvent, modes Modes) bool {
	switch ev.Kind {
	case MousePress:
		return true
	case MouseRelease:
		// X10 reports presses only.
		return !modes.MouseX10 || modes.MouseClicks || modes.MouseButtonMotion || modes.MouseAnyMotion
	case MouseMotion:
		if !modes.MouseAnyMotion && !modes.MouseButtonMotion {
			return false
		}
		if modes.MouseButtonMotion && !modes.MouseAnyMotion && !e.anyButtonDown() {
			return false
		}
		// Motion is reported once per cell.
		if e.haveLast && e.lastRow == ev.Row && e.lastCol == ev.Col {
			return false
		}
		return true
	}
	return false
}

func (e *Encoder) anyButtonDown() bool {
	for _, down := range e.buttonsDown {
		if down {
			return true
		}
	}
	return false
}

func (e *Encoder) trackButtons(ev MouseEvent) {
	if e.buttonsDown == nil {
		e.buttonsDown = make(map[MouseButton]bool)
	}
	switch ev.Kind {
	case MousePress:
		if ev.Button != MouseWheelUp && ev.Button != MouseWheelDown {
			e.buttonsDown[ev.Button] = true
		}
	case MouseRelease:
		delete(e.buttonsDown, ev.Button)
	}
	e.lastRow, e.lastCol = ev.Row, ev.Col
	e.haveLast = true
}

// mouseButtonCode builds the button value with motion and modifier bits.
// held reports whether any button was down when the event arrived.
func mouseButtonCode(ev MouseEvent, modes Modes, held bool) int {
	var code int
	switch ev.Button {
	case MouseLeft:
		code = 0
	case MouseMiddle:
		code = 1
	case MouseRight:
		code = 2
	case MouseWheelUp:
		code = 64
	case MouseWheelDown:
		code = 65
	}

	if ev.Kind == MouseMotion {
		if held {
			code += 32
		} else {
			code = 32 + 3 // motion with no button held
		}
	}

	// Non-SGR encodings fold the release into button 3.
	if ev.Kind == MouseRelease && !modes.MouseSGR {
		code = 3
	}

	if ev.Modifiers&ModShift != 0 {
		code += 4
	}
	if ev.Modifiers&ModAlt != 0 {
		code += 8
	}
	if ev.Modifiers&ModControl != 0 {
		code += 16
	}
	return code
}

// encodeMouseBytes renders the report in the active coordinate encoding.
func encodeMouseBytes(ev MouseEvent, button int, modes Modes) []byte {
	col := ev.Col + 1
	row := ev.Row + 1

	switch {
	case modes.MouseSGR:
		final := byte('M')
		if ev.Kind == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", button, col, row, final))

	case modes.MouseUrxvt:
		return []byte(fmt.Sprintf("\x1b[%d;%d;%dM", button+32, col, row))

	case modes.MouseUTF8:
		out := []byte{0x1b, '[', 'M'}
		out = append(out, utf8MouseCoord(button+32)...)
		out = append(out, utf8MouseCoord(col+32)...)
		out = append(out, utf8MouseCoord(row+32)...)
		return out

	default:
		// Legacy single-byte coordinates cap at 223.
		if col+32 > 255 || row+32 > 255 {
			return nil
		}
		return []byte{0x1b, '[', 'M', byte(button + 32), byte(col + 32), byte(row + 32)}
	}
}

// utf8MouseCoord encodes one 1005-mode coordinate (UTF-8, max 2015).
func utf8MouseCoord(v int) []byte {
	if v > 2015+32 {
		v = 2015 + 32
	}
	return []byte(string(rune(v)))
}

// --- Focus ---

// Focus encodes a focus change, or nil when focus reporting is off.
func (e *Encoder) Focus(in bool, modes Modes) []byte {
	if !modes.FocusReporting {
		return nil
	}
	if in {
		return []byte("\x1b[I")
	}
	return []byte("\x1b[O")
}

// --- Paste ---

// Paste encodes pasted text. Bracketed paste wraps the data and strips any
// embedded end marker so the application cannot be escaped; newlines
// normalise to carriage returns either way.
func (e *Encoder) Paste(text string, modes Modes) []byte {
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\n", "\r")

	if !modes.BracketedPaste {
		return []byte(text)
	}

	text = strings.ReplaceAll(text, "\x1b[201~", "")
	out := make([]byte, 0, len(text)+12)
	out = append(out, []byte("\x1b[200~")...)
	out = append(out, []byte(text)...)
	out = append(out, []byte("\x1b[201~")...)
	return out
}
