package ansi

func (d *Decoder) dispatchEsc(seq *Sequence) {
	if len(seq.Intermediates) == 0 {
		switch seq.Final {
		case '7':
			d.handler.SaveCursorPosition()
		case '8':
			d.handler.RestoreCursorPosition()
		case 'D': // IND
			d.handler.LineFeed()
		case 'E': // NEL
			d.handler.CarriageReturn()
			d.handler.LineFeed()
		case 'H': // HTS
			d.handler.HorizontalTabSet()
		case 'M': // RI
			d.handler.ReverseIndex()
		case 'Z': // DECID
			d.handler.IdentifyTerminal(0)
		case 'c': // RIS
			d.handler.ResetState()
		case 'n': // LS2
			d.handler.SetActiveCharset(2)
		case 'o': // LS3
			d.handler.SetActiveCharset(3)
		case '=':
			d.handler.SetKeypadApplicationMode()
		case '>':
			d.handler.UnsetKeypadApplicationMode()
		case '\\': // ST, already consumed as a string terminator
		default:
			d.unknown(seq)
		}
		return
	}

	switch seq.Intermediates[0] {
	case '(', ')', '*', '+':
		index := CharsetIndex(seq.Intermediates[0] - '(')
		switch seq.Final {
		case 'B':
			d.handler.ConfigureCharset(index, CharsetASCII)
		case '0':
			d.handler.ConfigureCharset(index, CharsetLineDrawing)
		default:
			// Unsupported charsets fall back to ASCII.
			d.handler.ConfigureCharset(index, CharsetASCII)
		}
	case '#':
		if seq.Final == '8' {
			d.handler.Decaln()
			return
		}
		d.unknown(seq)
	default:
		d.unknown(seq)
	}
}
