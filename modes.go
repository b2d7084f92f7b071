package contour

import "github.com/markusbkk/contour/ansi"

// TerminalMode is a bitmask of terminal behavior flags.
// Multiple modes can be active simultaneously.
type TerminalMode uint32

const (
	// ModeCursorKeys enables application cursor key mode (DECCKM).
	ModeCursorKeys TerminalMode = 1 << iota
	// ModeColumnMode enables 132-column mode (DECCOLM); unsupported, reported permanently reset.
	ModeColumnMode
	// ModeInsert enables insert mode (characters shift right instead of overwrite).
	ModeInsert
	// ModeOrigin enables origin mode (cursor positioning relative to scroll region).
	ModeOrigin
	// ModeLineWrap enables automatic line wrapping at column boundaries (DECAWM).
	ModeLineWrap
	// ModeBlinkingCursor enables blinking cursor.
	ModeBlinkingCursor
	// ModeLineFeedNewLine makes line feed also move to column 0.
	ModeLineFeedNewLine
	// ModeShowCursor makes the cursor visible (DECTCEM).
	ModeShowCursor
	// ModeReportMouseX10 enables X10 press-only mouse reporting.
	ModeReportMouseX10
	// ModeReportMouseClicks enables mouse press/release reporting.
	ModeReportMouseClicks
	// ModeReportCellMouseMotion enables motion reporting while a button is held.
	ModeReportCellMouseMotion
	// ModeReportAllMouseMotion enables reporting of all mouse motion events.
	ModeReportAllMouseMotion
	// ModeReportFocusInOut enables focus in/out event reporting.
	ModeReportFocusInOut
	// ModeUTF8Mouse enables UTF-8 mouse coordinate encoding.
	ModeUTF8Mouse
	// ModeSGRMouse enables SGR mouse coordinate encoding.
	ModeSGRMouse
	// ModeUrxvtMouse enables URXVT decimal mouse coordinate encoding.
	ModeUrxvtMouse
	// ModeAlternateScroll maps wheel events to arrow keys on the alternate screen.
	ModeAlternateScroll
	// ModeUrgencyHints enables urgency hints on bell.
	ModeUrgencyHints
	// ModeAlternateScreen switches to the alternate buffer without cursor save (47/1047).
	ModeAlternateScreen
	// ModeSaveRestoreCursor saves/restores the cursor (1048).
	ModeSaveRestoreCursor
	// ModeSwapScreenAndSetRestoreCursor swaps to alternate screen and saves cursor (1049).
	// When unset, restores primary screen and cursor position.
	ModeSwapScreenAndSetRestoreCursor
	// ModeBracketedPaste enables bracketed paste mode.
	ModeBracketedPaste
	// ModeKeypadApplication enables application keypad mode (DECPAM).
	ModeKeypadApplication
)

// defaultModes is the mode set after reset.
const defaultModes = ModeLineWrap | ModeShowCursor

// modeFromAnsi maps a recognised wire mode to the internal bitmask.
func modeFromAnsi(mode ansi.TerminalMode) (TerminalMode, bool) {
	switch mode {
	case ansi.TerminalModeCursorKeys:
		return ModeCursorKeys, true
	case ansi.TerminalModeColumnMode:
		return ModeColumnMode, true
	case ansi.TerminalModeInsert:
		return ModeInsert, true
	case ansi.TerminalModeOrigin:
		return ModeOrigin, true
	case ansi.TerminalModeLineWrap:
		return ModeLineWrap, true
	case ansi.TerminalModeBlinkingCursor:
		return ModeBlinkingCursor, true
	case ansi.TerminalModeLineFeedNewLine:
		return ModeLineFeedNewLine, true
	case ansi.TerminalModeShowCursor:
		return ModeShowCursor, true
	case ansi.TerminalModeReportMouseX10:
		return ModeReportMouseX10, true
	case ansi.TerminalModeReportMouseClicks:
		return ModeReportMouseClicks, true
	case ansi.TerminalModeReportCellMouseMotion:
		return ModeReportCellMouseMotion, true
	case ansi.TerminalModeReportAllMouseMotion:
		return ModeReportAllMouseMotion, true
	case ansi.TerminalModeReportFocusInOut:
		return ModeReportFocusInOut, true
	case ansi.TerminalModeUTF8Mouse:
		return ModeUTF8Mouse, true
	case ansi.TerminalModeSGRMouse:
		return ModeSGRMouse, true
	case ansi.TerminalModeUrxvtMouse:
		return ModeUrxvtMouse, true
	case ansi.TerminalModeAlternateScroll:
		return ModeAlternateScroll, true
	case ansi.TerminalModeUrgencyHints:
		return ModeUrgencyHints, true
	case ansi.TerminalModeAlternateScreen:
		return ModeAlternateScreen, true
	case ansi.TerminalModeSaveRestoreCursor:
		return ModeSaveRestoreCursor, true
	case ansi.TerminalModeSwapScreenAndSetRestoreCursor:
		return ModeSwapScreenAndSetRestoreCursor, true
	case ansi.TerminalModeBracketedPaste:
		return ModeBracketedPaste, true
	}
	return 0, false
}

// ModeValue is the DECRQM answer for one mode.
type ModeValue int

const (
	// ModeValueNotRecognized means the terminal does not know the mode.
	ModeValueNotRecognized ModeValue = 0
	// ModeValueSet means the mode is currently enabled.
	ModeValueSet ModeValue = 1
	// ModeValueReset means the mode is currently disabled.
	ModeValueReset ModeValue = 2
	// ModeValuePermanentlySet means the mode is always on.
	ModeValuePermanentlySet ModeValue = 3
	// ModeValuePermanentlyReset means the mode is always off.
	ModeValuePermanentlyReset ModeValue = 4
)

// CursorPhase is the combined visibility and blink state of the cursor.
type CursorPhase int

const (
	// CursorPhaseSteady is a visible, non-blinking cursor.
	CursorPhaseSteady CursorPhase = iota
	// CursorPhaseBlinkOn is a blinking cursor in its visible half-period.
	CursorPhaseBlinkOn
	// CursorPhaseBlinkOff is a blinking cursor in its hidden half-period.
	CursorPhaseBlinkOff
	// CursorPhaseHidden is a cursor hidden via DECTCEM.
	CursorPhaseHidden
)
