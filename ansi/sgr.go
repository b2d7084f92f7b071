package ansi

// csiSgr translates an SGR parameter list into attribute calls. Colon
// sub-parameters arrive grouped, so 38:2::10:20:30 and 38;2;10;20;30 both
// resolve without ambiguity.
func csiSgr(d *Decoder, s *Sequence) {
	if len(s.Params) == 0 {
		d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeReset})
		return
	}

	for i := 0; i < len(s.Params); i++ {
		group := s.Params[i]
		code := 0
		if len(group) > 0 {
			code = int(group[0])
		}

		switch code {
		case 38, 48, 58:
			attr := colorTarget(code)
			if len(group) > 1 {
				// Colon form: the colour spec is in this group's sub-parameters.
				if c := parseExtendedColor(group[1:]); c != nil {
					c.Attr = attr
					d.handler.SetTerminalCharAttribute(*c)
				}
				continue
			}
			// Semicolon form: the colour spec occupies the following groups.
			spec, consumed := flattenGroups(s.Params[i+1:])
			c := parseSemicolonColor(spec)
			if c == nil {
				return
			}
			c.Attr = attr
			d.handler.SetTerminalCharAttribute(*c)
			i += consumed

		case 4:
			// Underline; 4:x sub-parameters select the style.
			style := 1
			if len(group) > 1 {
				style = int(group[1])
			}
			switch style {
			case 0:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCancelUnderline})
			case 1:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeUnderline})
			case 2:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDoubleUnderline})
			case 3:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeCurlyUnderline})
			case 4:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDottedUnderline})
			case 5:
				d.handler.SetTerminalCharAttribute(TerminalCharAttribute{Attr: CharAttributeDashedUnderline})
			}

		default:
			if attr, ok := sgrSimple(code); ok {
				d.handler.SetTerminalCharAttribute(attr)
			}
		}
	}
}

func colorTarget(code int) CharAttribute {
	switch code {
	case 38:
		return CharAttributeForeground
	case 48:
		return CharAttributeBackground
	default:
		return CharAttributeUnderlineColor
	}
}

// flattenGroups collects the leading single-value groups into a flat spec.
// Returns the values and how many groups were consumed.
func flattenGroups(groups [][]uint16) ([]uint16, int) {
	spec := make([]uint16, 0, 5)
	needed := 0
	for i, g := range groups {
		if len(g) != 1 {
			return spec, i
		}
		spec = append(spec, g[0])
		if i == 0 {
			switch g[0] {
			case 2:
				needed = 4 // 2;r;g;b
			case 5:
				needed = 2 // 5;idx
			default:
				return spec, 1
			}
		}
		if len(spec) == needed {
			return spec, len(spec)
		}
	}
	return spec, len(groups)
}

// parseSemicolonColor parses "2;r;g;b" or "5;idx" from flattened values.
func parseSemicolonColor(spec []uint16) *TerminalCharAttribute {
	if len(spec) == 0 {
		return nil
	}
	switch spec[0] {
	case 2:
		if len(spec) < 4 {
			return nil
		}
		return &TerminalCharAttribute{RGBColor: &Rgb{
			R: uint8(min16(spec[1], 255)),
			G: uint8(min16(spec[2], 255)),
			B: uint8(min16(spec[3], 255)),
		}}
	case 5:
		if len(spec) < 2 {
			return nil
		}
		return &TerminalCharAttribute{IndexedColor: &IndexedColor{Index: uint8(min16(spec[1], 255))}}
	}
	return nil
}

// parseExtendedColor parses the colon form. ITU-T T.416 allows an empty
// colourspace slot, so both 2:r:g:b and 2::r:g:b are accepted.
func parseExtendedColor(sub []uint16) *TerminalCharAttribute {
	if len(sub) == 0 {
		return nil
	}
	switch sub[0] {
	case 2:
		rgb := sub[1:]
		if len(rgb) >= 4 {
			// First slot is the colourspace id; skip it.
			rgb = rgb[1:]
		}
		if len(rgb) < 3 {
			return nil
		}
		return &TerminalCharAttribute{RGBColor: &Rgb{
			R: uint8(min16(rgb[0], 255)),
			G: uint8(min16(rgb[1], 255)),
			B: uint8(min16(rgb[2], 255)),
		}}
	case 5:
		if len(sub) < 2 {
			return nil
		}
		return &TerminalCharAttribute{IndexedColor: &IndexedColor{Index: uint8(min16(sub[1], 255))}}
	}
	return nil
}

func min16(v uint16, max uint16) uint16 {
	if v > max {
		return max
	}
	return v
}

// sgrSimple maps the non-colour-spec SGR codes.
func sgrSimple(code int) (TerminalCharAttribute, bool) {
	named := func(n NamedColor, attr CharAttribute) (TerminalCharAttribute, bool) {
		return TerminalCharAttribute{Attr: attr, NamedColor: &n}, true
	}

	switch {
	case code == 0:
		return TerminalCharAttribute{Attr: CharAttributeReset}, true
	case code == 1:
		return TerminalCharAttribute{Attr: CharAttributeBold}, true
	case code == 2:
		return TerminalCharAttribute{Attr: CharAttributeDim}, true
	case code == 3:
		return TerminalCharAttribute{Attr: CharAttributeItalic}, true
	case code == 5:
		return TerminalCharAttribute{Attr: CharAttributeBlinkSlow}, true
	case code == 6:
		return TerminalCharAttribute{Attr: CharAttributeBlinkFast}, true
	case code == 7:
		return TerminalCharAttribute{Attr: CharAttributeReverse}, true
	case code == 8:
		return TerminalCharAttribute{Attr: CharAttributeHidden}, true
	case code == 9:
		return TerminalCharAttribute{Attr: CharAttributeStrike}, true
	case code == 21:
		return TerminalCharAttribute{Attr: CharAttributeDoubleUnderline}, true
	case code == 22:
		return TerminalCharAttribute{Attr: CharAttributeCancelBoldDim}, true
	case code == 23:
		return TerminalCharAttribute{Attr: CharAttributeCancelItalic}, true
	case code == 24:
		return TerminalCharAttribute{Attr: CharAttributeCancelUnderline}, true
	case code == 25:
		return TerminalCharAttribute{Attr: CharAttributeCancelBlink}, true
	case code == 27:
		return TerminalCharAttribute{Attr: CharAttributeCancelReverse}, true
	case code == 28:
		return TerminalCharAttribute{Attr: CharAttributeCancelHidden}, true
	case code == 29:
		return TerminalCharAttribute{Attr: CharAttributeCancelStrike}, true
	case code == 53:
		return TerminalCharAttribute{Attr: CharAttributeOverline}, true
	case code == 55:
		return TerminalCharAttribute{Attr: CharAttributeCancelOverline}, true
	case code >= 30 && code <= 37:
		return named(NamedColor(code-30), CharAttributeForeground)
	case code == 39:
		return named(NamedColorForeground, CharAttributeForeground)
	case code >= 40 && code <= 47:
		return named(NamedColor(code-40), CharAttributeBackground)
	case code == 49:
		return named(NamedColorBackground, CharAttributeBackground)
	case code == 59:
		return TerminalCharAttribute{Attr: CharAttributeUnderlineColor}, true
	case code >= 90 && code <= 97:
		return named(NamedColor(code-90+8), CharAttributeForeground)
	case code >= 100 && code <= 107:
		return named(NamedColor(code-100+8), CharAttributeBackground)
	}
	return TerminalCharAttribute{}, false
}
