package ansi

// csiKey identifies one CSI control function. Sequences with more than one
// intermediate are not recognised.
type csiKey struct {
	leader       byte
	intermediate byte
	final        byte
}

// csiTable is the dispatch table for CSI control functions, keyed by
// (leader, intermediate, final) and populated once at init.
var csiTable map[csiKey]func(*Decoder, *Sequence)

func (d *Decoder) dispatchCsi(seq *Sequence) {
	var intermediate byte
	if len(seq.Intermediates) > 1 {
		d.unknown(seq)
		return
	}
	if len(seq.Intermediates) == 1 {
		intermediate = seq.Intermediates[0]
	}

	fn, ok := csiTable[csiKey{seq.Leader, intermediate, seq.Final}]
	if !ok {
		d.unknown(seq)
		return
	}
	fn(d, seq)
}

func init() {
	csiTable = map[csiKey]func(*Decoder, *Sequence){
		{0, 0, '@'}: func(d *Decoder, s *Sequence) { d.handler.InsertBlank(s.Param(0, 1)) },
		{0, 0, 'A'}: func(d *Decoder, s *Sequence) { d.handler.MoveUp(s.Param(0, 1)) },
		{0, 0, 'B'}: func(d *Decoder, s *Sequence) { d.handler.MoveDown(s.Param(0, 1)) },
		{0, 0, 'C'}: func(d *Decoder, s *Sequence) { d.handler.MoveForward(s.Param(0, 1)) },
		{0, 0, 'D'}: func(d *Decoder, s *Sequence) { d.handler.MoveBackward(s.Param(0, 1)) },
		{0, 0, 'E'}: func(d *Decoder, s *Sequence) { d.handler.MoveDownCr(s.Param(0, 1)) },
		{0, 0, 'F'}: func(d *Decoder, s *Sequence) { d.handler.MoveUpCr(s.Param(0, 1)) },
		{0, 0, 'G'}: func(d *Decoder, s *Sequence) { d.handler.GotoCol(s.Param(0, 1) - 1) },
		{0, 0, '`'}: func(d *Decoder, s *Sequence) { d.handler.GotoCol(s.Param(0, 1) - 1) },
		{0, 0, 'H'}: csiGoto,
		{0, 0, 'f'}: csiGoto,
		{0, 0, 'I'}: func(d *Decoder, s *Sequence) { d.handler.MoveForwardTabs(s.Param(0, 1)) },
		{0, 0, 'J'}: csiClearScreen,
		{'?', 0, 'J'}: csiClearScreen,
		{0, 0, 'K'}: csiClearLine,
		{'?', 0, 'K'}: csiClearLine,
		{0, 0, 'L'}: func(d *Decoder, s *Sequence) { d.handler.InsertBlankLines(s.Param(0, 1)) },
		{0, 0, 'M'}: func(d *Decoder, s *Sequence) { d.handler.DeleteLines(s.Param(0, 1)) },
		{0, 0, 'P'}: func(d *Decoder, s *Sequence) { d.handler.DeleteChars(s.Param(0, 1)) },
		{0, 0, 'S'}: func(d *Decoder, s *Sequence) { d.handler.ScrollUp(s.Param(0, 1)) },
		{0, 0, 'T'}: csiScrollDown,
		{0, 0, 'X'}: func(d *Decoder, s *Sequence) { d.handler.EraseChars(s.Param(0, 1)) },
		{0, 0, 'Z'}: func(d *Decoder, s *Sequence) { d.handler.MoveBackwardTabs(s.Param(0, 1)) },
		{0, 0, 'a'}: func(d *Decoder, s *Sequence) { d.handler.MoveForward(s.Param(0, 1)) },
		{0, 0, 'b'}: csiRepeat,
		{0, 0, 'c'}: func(d *Decoder, s *Sequence) { d.handler.IdentifyTerminal(0) },
		{'>', 0, 'c'}: func(d *Decoder, s *Sequence) { d.handler.IdentifyTerminal('>') },
		{'=', 0, 'c'}: func(d *Decoder, s *Sequence) { d.handler.IdentifyTerminal('=') },
		{0, 0, 'd'}: func(d *Decoder, s *Sequence) { d.handler.GotoLine(s.Param(0, 1) - 1) },
		{0, 0, 'e'}: func(d *Decoder, s *Sequence) { d.handler.MoveDown(s.Param(0, 1)) },
		{0, 0, 'g'}: csiClearTabs,
		{0, 0, 'h'}: csiSetMode,
		{'?', 0, 'h'}: csiSetMode,
		{0, 0, 'l'}: csiUnsetMode,
		{'?', 0, 'l'}: csiUnsetMode,
		{0, 0, 'm'}: csiSgr,
		{'>', 0, 'm'}: csiModifyOtherKeys,
		{0, 0, 'n'}: func(d *Decoder, s *Sequence) { d.handler.DeviceStatus(s.ParamOrZero(0)) },
		{'?', 0, 'n'}: func(d *Decoder, s *Sequence) { d.handler.DeviceStatus(s.ParamOrZero(0)) },
		{'?', '$', 'p'}: func(d *Decoder, s *Sequence) { d.handler.ReportMode(LookupMode(s.ParamOrZero(0), true)) },
		{0, '$', 'p'}:   func(d *Decoder, s *Sequence) { d.handler.ReportMode(LookupMode(s.ParamOrZero(0), false)) },
		{0, '!', 'p'}:   func(d *Decoder, s *Sequence) { d.handler.ResetState() },
		{0, ' ', 'q'}:   csiCursorStyle,
		{0, 0, 'r'}: func(d *Decoder, s *Sequence) {
			d.handler.SetScrollingRegion(s.Param(0, 1), s.ParamOrZero(1))
		},
		{0, 0, 's'}: func(d *Decoder, s *Sequence) { d.handler.SaveCursorPosition() },
		{0, 0, 't'}: csiWindowOps,
		{0, 0, 'u'}: func(d *Decoder, s *Sequence) { d.handler.RestoreCursorPosition() },
		{'=', 0, 'u'}: func(d *Decoder, s *Sequence) {
			d.handler.SetKeyboardMode(
				KeyboardMode(s.ParamOrZero(0)),
				KeyboardModeBehavior(s.Param(1, 1)),
			)
		},
		{'>', 0, 'u'}: func(d *Decoder, s *Sequence) { d.handler.PushKeyboardMode(KeyboardMode(s.ParamOrZero(0))) },
		{'<', 0, 'u'}: func(d *Decoder, s *Sequence) { d.handler.PopKeyboardMode(s.Param(0, 1)) },
		{'?', 0, 'u'}: func(d *Decoder, s *Sequence) { d.handler.ReportKeyboardMode() },
	}
}

func csiGoto(d *Decoder, s *Sequence) {
	d.handler.Goto(s.Param(0, 1)-1, s.Param(1, 1)-1)
}

func csiClearScreen(d *Decoder, s *Sequence) {
	switch s.ParamOrZero(0) {
	case 0:
		d.handler.ClearScreen(ClearModeBelow)
	case 1:
		d.handler.ClearScreen(ClearModeAbove)
	case 2:
		d.handler.ClearScreen(ClearModeAll)
	case 3:
		d.handler.ClearScreen(ClearModeSaved)
	}
}

func csiClearLine(d *Decoder, s *Sequence) {
	switch s.ParamOrZero(0) {
	case 0:
		d.handler.ClearLine(LineClearModeRight)
	case 1:
		d.handler.ClearLine(LineClearModeLeft)
	case 2:
		d.handler.ClearLine(LineClearModeAll)
	}
}

func csiClearTabs(d *Decoder, s *Sequence) {
	switch s.ParamOrZero(0) {
	case 0:
		d.handler.ClearTabs(TabulationClearModeCurrent)
	case 3:
		d.handler.ClearTabs(TabulationClearModeAll)
	}
}

// csiScrollDown handles SD. The five-parameter form is the obsolete xterm
// mouse-tracking initiator and is dropped.
func csiScrollDown(d *Decoder, s *Sequence) {
	if len(s.Params) > 1 {
		d.unknown(s)
		return
	}
	d.handler.ScrollDown(s.Param(0, 1))
}

func csiSetMode(d *Decoder, s *Sequence) {
	private := s.Leader == '?'
	for i := range s.Params {
		d.handler.SetMode(LookupMode(s.ParamOrZero(i), private))
	}
}

func csiUnsetMode(d *Decoder, s *Sequence) {
	private := s.Leader == '?'
	for i := range s.Params {
		d.handler.UnsetMode(LookupMode(s.ParamOrZero(i), private))
	}
}

func csiCursorStyle(d *Decoder, s *Sequence) {
	n := s.ParamOrZero(0)
	if n > int(CursorStyleSteadyBar)+1 {
		d.unknown(s)
		return
	}
	// 0 and 1 both select the blinking block.
	if n > 0 {
		n--
	}
	d.handler.SetCursorStyle(CursorStyle(n))
}

func csiModifyOtherKeys(d *Decoder, s *Sequence) {
	// CSI > 4 ; level m
	if s.ParamOrZero(0) != 4 {
		d.unknown(s)
		return
	}
	d.handler.SetModifyOtherKeys(ModifyOtherKeys(s.ParamOrZero(1)))
}

func csiWindowOps(d *Decoder, s *Sequence) {
	switch s.ParamOrZero(0) {
	case 14:
		d.handler.TextAreaSizePixels()
	case 16:
		d.handler.CellSizePixels()
	case 18:
		d.handler.TextAreaSizeChars()
	case 22:
		d.handler.PushTitle()
	case 23:
		d.handler.PopTitle()
	default:
		d.unknown(s)
	}
}

// csiRepeat handles REP: repeat the preceding graphic character n times.
func csiRepeat(d *Decoder, s *Sequence) {
	if d.lastPrinted == 0 {
		return
	}
	n := s.Param(0, 1)
	for i := 0; i < n; i++ {
		d.handler.Input(d.lastPrinted)
	}
}
