package ansi

import "image/color"

// LineClearMode selects which part of the current line EL erases.
type LineClearMode int

const (
	LineClearModeRight LineClearMode = iota
	LineClearModeLeft
	LineClearModeAll
)

// ClearMode selects which part of the screen ED erases.
type ClearMode int

const (
	ClearModeBelow ClearMode = iota
	ClearModeAbove
	ClearModeAll
	ClearModeSaved
)

// TabulationClearMode selects which tab stops TBC removes.
type TabulationClearMode int

const (
	TabulationClearModeCurrent TabulationClearMode = iota
	TabulationClearModeAll
)

// CursorStyle is the DECSCUSR shape parameter.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Charset selects the character encoding variant designated into a slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex selects one of the four designation slots (G0-G3).
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// KeyboardMode is the kitty keyboard protocol flag set.
type KeyboardMode uint8

const (
	KeyboardModeNoMode                 KeyboardMode = 0
	KeyboardModeDisambiguateEscCodes   KeyboardMode = 1
	KeyboardModeReportEventTypes       KeyboardMode = 2
	KeyboardModeReportAlternateKeys    KeyboardMode = 4
	KeyboardModeReportAllKeysAsEscCodes KeyboardMode = 8
	KeyboardModeReportAssociatedText   KeyboardMode = 16
)

// KeyboardModeBehavior is how CSI = flags ; behavior u updates the mode stack top.
type KeyboardModeBehavior int

const (
	KeyboardModeBehaviorReplace KeyboardModeBehavior = iota
	KeyboardModeBehaviorUnion
	KeyboardModeBehaviorDifference
)

// ModifyOtherKeys is the xterm modifyOtherKeys level (0-2).
type ModifyOtherKeys int

// Hyperlink is an OSC 8 target.
type Hyperlink struct {
	ID  string
	URI string
}

// TerminalMode names the modes this interpreter recognises. The wire number
// and private marker travel alongside in [Mode] so that unrecognised modes
// can still be reported through DECRQM.
type TerminalMode int

const (
	TerminalModeUnknown TerminalMode = iota
	TerminalModeCursorKeys
	TerminalModeColumnMode
	TerminalModeInsert
	TerminalModeOrigin
	TerminalModeLineWrap
	TerminalModeBlinkingCursor
	TerminalModeLineFeedNewLine
	TerminalModeShowCursor
	TerminalModeReportMouseX10
	TerminalModeReportMouseClicks
	TerminalModeReportCellMouseMotion
	TerminalModeReportAllMouseMotion
	TerminalModeReportFocusInOut
	TerminalModeUTF8Mouse
	TerminalModeSGRMouse
	TerminalModeUrxvtMouse
	TerminalModeAlternateScroll
	TerminalModeUrgencyHints
	TerminalModeAlternateScreen
	TerminalModeSaveRestoreCursor
	TerminalModeSwapScreenAndSetRestoreCursor
	TerminalModeBracketedPaste
)

// Mode is a mode request as it appeared on the wire.
type Mode struct {
	// Raw is the untranslated mode number.
	Raw int
	// Private is true for DEC private modes (CSI ? prefix).
	Private bool
	// Mode is the recognised mode, or TerminalModeUnknown.
	Mode TerminalMode
}

// ansiModes and decModes map ANSI and DEC private mode numbers to the
// recognised mode set.
var ansiModes = map[int]TerminalMode{
	4:  TerminalModeInsert,
	20: TerminalModeLineFeedNewLine,
}

var decModes = map[int]TerminalMode{
	1:    TerminalModeCursorKeys,
	3:    TerminalModeColumnMode,
	6:    TerminalModeOrigin,
	7:    TerminalModeLineWrap,
	9:    TerminalModeReportMouseX10,
	12:   TerminalModeBlinkingCursor,
	25:   TerminalModeShowCursor,
	47:   TerminalModeAlternateScreen,
	1000: TerminalModeReportMouseClicks,
	1002: TerminalModeReportCellMouseMotion,
	1003: TerminalModeReportAllMouseMotion,
	1004: TerminalModeReportFocusInOut,
	1005: TerminalModeUTF8Mouse,
	1006: TerminalModeSGRMouse,
	1007: TerminalModeAlternateScroll,
	1015: TerminalModeUrxvtMouse,
	1042: TerminalModeUrgencyHints,
	1047: TerminalModeAlternateScreen,
	1048: TerminalModeSaveRestoreCursor,
	1049: TerminalModeSwapScreenAndSetRestoreCursor,
	2004: TerminalModeBracketedPaste,
}

// LookupMode resolves a wire mode number to a Mode record.
func LookupMode(raw int, private bool) Mode {
	table := ansiModes
	if private {
		table = decModes
	}
	mode, ok := table[raw]
	if !ok {
		mode = TerminalModeUnknown
	}
	return Mode{Raw: raw, Private: private, Mode: mode}
}

// CharAttribute is one SGR attribute kind.
type CharAttribute int

const (
	CharAttributeReset CharAttribute = iota
	CharAttributeBold
	CharAttributeDim
	CharAttributeItalic
	CharAttributeUnderline
	CharAttributeDoubleUnderline
	CharAttributeCurlyUnderline
	CharAttributeDottedUnderline
	CharAttributeDashedUnderline
	CharAttributeBlinkSlow
	CharAttributeBlinkFast
	CharAttributeReverse
	CharAttributeHidden
	CharAttributeStrike
	CharAttributeOverline
	CharAttributeCancelBold
	CharAttributeCancelBoldDim
	CharAttributeCancelItalic
	CharAttributeCancelUnderline
	CharAttributeCancelBlink
	CharAttributeCancelReverse
	CharAttributeCancelHidden
	CharAttributeCancelStrike
	CharAttributeCancelOverline
	CharAttributeForeground
	CharAttributeBackground
	CharAttributeUnderlineColor
)

// Rgb is a direct 24-bit colour.
type Rgb struct {
	R, G, B uint8
}

// IndexedColor references one of the 256 palette slots.
type IndexedColor struct {
	Index uint8
}

// NamedColor references a colour by semantic name: 0-15 are the standard and
// bright ANSI colours, 256+ the terminal defaults.
type NamedColor int

const (
	NamedColorForeground       NamedColor = 256
	NamedColorBackground       NamedColor = 257
	NamedColorCursor           NamedColor = 258
	NamedColorBrightForeground NamedColor = 267
	NamedColorDimForeground    NamedColor = 268
)

// TerminalCharAttribute carries one SGR attribute with its optional colour
// payload. Exactly one of the colour fields is set for colour attributes.
type TerminalCharAttribute struct {
	Attr         CharAttribute
	RGBColor     *Rgb
	IndexedColor *IndexedColor
	NamedColor   *NamedColor
}

// Handler executes decoded control functions. The Decoder calls handler
// methods in input order; one sequence may produce several calls (an SGR
// list, NEL, REP, OSC 104).
type Handler interface {
	// ApplicationCommandReceived handles an APC payload.
	ApplicationCommandReceived(data []byte)
	// Backspace moves the cursor one column left.
	Backspace()
	// Bell rings the terminal bell.
	Bell()
	// CarriageReturn moves the cursor to column 0.
	CarriageReturn()
	// CellSizePixels reports the cell size in pixels (CSI 16 t).
	CellSizePixels()
	// ClearLine erases part of the current line (EL).
	ClearLine(mode LineClearMode)
	// ClearScreen erases part of the screen (ED).
	ClearScreen(mode ClearMode)
	// ClearTabs removes tab stops (TBC).
	ClearTabs(mode TabulationClearMode)
	// ClipboardLoad answers an OSC 52 clipboard query.
	ClipboardLoad(clipboard byte, terminator string)
	// ClipboardStore writes OSC 52 clipboard data.
	ClipboardStore(clipboard byte, data []byte)
	// ConfigureCharset designates a charset into a slot (SCS).
	ConfigureCharset(index CharsetIndex, charset Charset)
	// Decaln fills the screen with 'E' (DECALN).
	Decaln()
	// DeleteChars removes n characters at the cursor (DCH).
	DeleteChars(n int)
	// DeleteLines removes n lines at the cursor (DL).
	DeleteLines(n int)
	// DesktopNotification posts a notification (OSC 9 / OSC 777).
	DesktopNotification(title, body string)
	// DeviceStatus answers DSR.
	DeviceStatus(n int)
	// EraseChars blanks n characters at the cursor (ECH).
	EraseChars(n int)
	// Goto moves the cursor to 0-based (row, col) (CUP).
	Goto(row, col int)
	// GotoCol moves the cursor to a 0-based column (CHA/HPA).
	GotoCol(col int)
	// GotoLine moves the cursor to a 0-based row (VPA).
	GotoLine(row int)
	// HorizontalTabSet sets a tab stop at the cursor (HTS).
	HorizontalTabSet()
	// IdentifyTerminal answers DA; b is the leader byte or 0.
	IdentifyTerminal(b byte)
	// Input writes one printable character.
	Input(r rune)
	// InsertBlank inserts n blank cells (ICH).
	InsertBlank(n int)
	// InsertBlankLines inserts n blank lines (IL).
	InsertBlankLines(n int)
	// LineFeed moves the cursor down, scrolling at the margin.
	LineFeed()
	// MoveBackward moves the cursor n columns left (CUB).
	MoveBackward(n int)
	// MoveBackwardTabs moves back n tab stops (CBT).
	MoveBackwardTabs(n int)
	// MoveDown moves the cursor n rows down (CUD).
	MoveDown(n int)
	// MoveDownCr moves n rows down to column 0 (CNL).
	MoveDownCr(n int)
	// MoveForward moves the cursor n columns right (CUF).
	MoveForward(n int)
	// MoveForwardTabs moves forward n tab stops (CHT).
	MoveForwardTabs(n int)
	// MoveUp moves the cursor n rows up (CUU).
	MoveUp(n int)
	// MoveUpCr moves n rows up to column 0 (CPL).
	MoveUpCr(n int)
	// PopKeyboardMode removes n keyboard protocol stack entries.
	PopKeyboardMode(n int)
	// PopTitle restores the title from the stack (CSI 23 t).
	PopTitle()
	// PrivacyMessageReceived handles a PM payload.
	PrivacyMessageReceived(data []byte)
	// PushKeyboardMode pushes a keyboard protocol mode.
	PushKeyboardMode(mode KeyboardMode)
	// PushTitle saves the title to the stack (CSI 22 t).
	PushTitle()
	// ReportKeyboardMode answers CSI ? u.
	ReportKeyboardMode()
	// ReportMode answers DECRQM for the given mode request.
	ReportMode(mode Mode)
	// ReportModifyOtherKeys answers CSI ? 4 m queries.
	ReportModifyOtherKeys()
	// RequestStatusString answers DECRQSS with the given request payload.
	RequestStatusString(req string)
	// ResetColor removes the palette override at index i (OSC 104/110/111/112).
	ResetColor(i int)
	// ResetState performs a full reset (RIS) or soft reset (DECSTR).
	ResetState()
	// RestoreCursorPosition restores the saved cursor (DECRC).
	RestoreCursorPosition()
	// ReverseIndex moves up, scrolling at the top margin (RI).
	ReverseIndex()
	// SaveCursorPosition saves the cursor (DECSC).
	SaveCursorPosition()
	// ScrollDown scrolls the region down n lines (SD).
	ScrollDown(n int)
	// ScrollUp scrolls the region up n lines (SU).
	ScrollUp(n int)
	// SemanticPromptMark records an OSC 133 shell integration mark.
	SemanticPromptMark(mark SemanticPromptMark, exitCode int)
	// SetActiveCharset maps GL to slot n (SI/SO/LS2/LS3).
	SetActiveCharset(n int)
	// SetColor overrides palette index with a colour (OSC 4/10/11/12).
	SetColor(index int, c color.Color)
	// SetCursorStyle changes the cursor shape (DECSCUSR).
	SetCursorStyle(style CursorStyle)
	// SetDynamicColor answers a colour query; prefix is echoed in the reply.
	SetDynamicColor(prefix string, index int, terminator string)
	// SetHyperlink sets the active hyperlink; nil closes it (OSC 8).
	SetHyperlink(h *Hyperlink)
	// SetKeyboardMode updates the keyboard protocol stack top.
	SetKeyboardMode(mode KeyboardMode, behavior KeyboardModeBehavior)
	// SetKeypadApplicationMode enables DECPAM.
	SetKeypadApplicationMode()
	// SetMode enables a terminal mode (SM/DECSET).
	SetMode(mode Mode)
	// SetModifyOtherKeys sets the xterm modifyOtherKeys level.
	SetModifyOtherKeys(modify ModifyOtherKeys)
	// SetScrollingRegion sets the 1-based scroll margins (DECSTBM);
	// bottom 0 means the last line.
	SetScrollingRegion(top, bottom int)
	// SetTerminalCharAttribute applies one SGR attribute.
	SetTerminalCharAttribute(attr TerminalCharAttribute)
	// SetTitle changes the window title (OSC 0/2).
	SetTitle(title string)
	// SetWorkingDirectory records the OSC 7 working directory.
	SetWorkingDirectory(uri string)
	// SetUserVar records an OSC 1337 SetUserVar value.
	SetUserVar(name, value string)
	// SixelReceived delivers a complete Sixel data stream.
	SixelReceived(params [][]uint16, data []byte)
	// StartOfStringReceived handles an SOS payload.
	StartOfStringReceived(data []byte)
	// Substitute replaces the character at the cursor (SUB).
	Substitute()
	// Tab advances n tab stops (HT).
	Tab(n int)
	// TextAreaSizeChars reports the text area size in cells (CSI 18 t).
	TextAreaSizeChars()
	// TextAreaSizePixels reports the text area size in pixels (CSI 14 t).
	TextAreaSizePixels()
	// UnsetKeypadApplicationMode disables DECPAM.
	UnsetKeypadApplicationMode()
	// UnsetMode disables a terminal mode (RM/DECRST).
	UnsetMode(mode Mode)
}

// SemanticPromptMark is an OSC 133 shell integration mark kind.
type SemanticPromptMark int

const (
	// SemanticPromptMarkPromptStart marks the start of a prompt (OSC 133;A).
	SemanticPromptMarkPromptStart SemanticPromptMark = iota
	// SemanticPromptMarkCommandStart marks the start of user input (OSC 133;B).
	SemanticPromptMarkCommandStart
	// SemanticPromptMarkOutputStart marks the start of command output (OSC 133;C).
	SemanticPromptMarkOutputStart
	// SemanticPromptMarkCommandEnd marks command completion (OSC 133;D).
	SemanticPromptMarkCommandEnd
)
