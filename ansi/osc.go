package ansi

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"strconv"
	"strings"
)

// oscTerminator returns the terminator to echo in query responses, so a
// BEL-terminated query is answered with BEL and an ST-terminated one with ST.
func oscTerminator(bellTerminated bool) string {
	if bellTerminated {
		return "\x07"
	}
	return "\x1b\\"
}

func (d *Decoder) dispatchOsc(params [][]byte, bellTerminated bool) {
	if len(params) == 0 || len(params[0]) == 0 {
		return
	}

	code, err := strconv.Atoi(string(params[0]))
	if err != nil {
		d.unknown(&Sequence{Category: CategoryOsc, Data: params[0]})
		return
	}
	terminator := oscTerminator(bellTerminated)

	switch code {
	case 0, 2: // window title (0 also sets the icon name, which we fold in)
		if len(params) > 1 {
			d.handler.SetTitle(string(joinFields(params[1:])))
		}
	case 1: // icon name only; ignored

	case 4: // set or query palette colours, in index/spec pairs
		for i := 1; i+1 < len(params); i += 2 {
			index, err := strconv.Atoi(string(params[i]))
			if err != nil || index < 0 || index > 255 {
				continue
			}
			spec := string(params[i+1])
			if spec == "?" {
				d.handler.SetDynamicColor("4;"+strconv.Itoa(index), index, terminator)
				continue
			}
			if c, ok := parseColorSpec(spec); ok {
				d.handler.SetColor(index, c)
			}
		}

	case 7:
		if len(params) > 1 {
			d.handler.SetWorkingDirectory(string(params[1]))
		}

	case 8:
		d.oscHyperlink(params)

	case 9: // iTerm2 / ConEmu notification
		if len(params) > 1 {
			d.handler.DesktopNotification("", string(joinFields(params[1:])))
		}

	case 10, 11, 12:
		index := 256 + (code - 10) // foreground, background, cursor
		if len(params) > 1 {
			spec := string(params[1])
			if spec == "?" {
				d.handler.SetDynamicColor(strconv.Itoa(code), index, terminator)
				return
			}
			if c, ok := parseColorSpec(spec); ok {
				d.handler.SetColor(index, c)
			}
		}

	case 52:
		d.oscClipboard(params, terminator)

	case 104: // reset palette colours
		if len(params) == 1 {
			for i := 0; i < 256; i++ {
				d.handler.ResetColor(i)
			}
			return
		}
		for _, field := range params[1:] {
			if index, err := strconv.Atoi(string(field)); err == nil && index >= 0 && index < 256 {
				d.handler.ResetColor(index)
			}
		}

	case 110:
		d.handler.ResetColor(256)
	case 111:
		d.handler.ResetColor(257)
	case 112:
		d.handler.ResetColor(258)

	case 133:
		d.oscSemanticPrompt(params)

	case 777: // urxvt extension: 777;notify;title;body
		if len(params) >= 2 && string(params[1]) == "notify" {
			title, body := "", ""
			if len(params) > 2 {
				title = string(params[2])
			}
			if len(params) > 3 {
				body = string(joinFields(params[3:]))
			}
			d.handler.DesktopNotification(title, body)
		}

	case 1337: // iTerm2 extensions; only SetUserVar is recognised
		if len(params) > 1 {
			key, value, ok := strings.Cut(string(params[1]), "=")
			if ok && key == "SetUserVar" {
				name, encoded, _ := strings.Cut(value, "=")
				decoded, err := base64.StdEncoding.DecodeString(encoded)
				if err == nil {
					d.handler.SetUserVar(name, string(decoded))
				}
				return
			}
		}
		d.unknown(&Sequence{Category: CategoryOsc, Data: joinFields(params)})

	default:
		d.unknown(&Sequence{Category: CategoryOsc, Data: params[0]})
	}
}

// oscHyperlink handles OSC 8 ; params ; URI. An empty URI closes the link.
func (d *Decoder) oscHyperlink(params [][]byte) {
	if len(params) < 3 {
		d.handler.SetHyperlink(nil)
		return
	}

	// A URI may itself contain semicolons; re-join everything after the
	// params field.
	uri := string(joinFields(params[2:]))
	if uri == "" {
		d.handler.SetHyperlink(nil)
		return
	}

	var id string
	for _, kv := range strings.Split(string(params[1]), ":") {
		if k, v, ok := strings.Cut(kv, "="); ok && k == "id" {
			id = v
		}
	}
	d.handler.SetHyperlink(&Hyperlink{ID: id, URI: uri})
}

func (d *Decoder) oscClipboard(params [][]byte, terminator string) {
	clipboard := byte('c')
	if len(params) > 1 && len(params[1]) > 0 {
		clipboard = params[1][0]
	}
	if len(params) < 3 {
		return
	}

	payload := string(params[2])
	if payload == "?" {
		d.handler.ClipboardLoad(clipboard, terminator)
		return
	}
	if decoded, err := base64.StdEncoding.DecodeString(payload); err == nil {
		d.handler.ClipboardStore(clipboard, decoded)
	}
}

func (d *Decoder) oscSemanticPrompt(params [][]byte) {
	if len(params) < 2 || len(params[1]) == 0 {
		return
	}

	exitCode := -1
	switch params[1][0] {
	case 'A':
		d.handler.SemanticPromptMark(SemanticPromptMarkPromptStart, exitCode)
	case 'B':
		d.handler.SemanticPromptMark(SemanticPromptMarkCommandStart, exitCode)
	case 'C':
		d.handler.SemanticPromptMark(SemanticPromptMarkOutputStart, exitCode)
	case 'D':
		if len(params) > 2 {
			if n, err := strconv.Atoi(string(params[2])); err == nil {
				exitCode = n
			}
		}
		d.handler.SemanticPromptMark(SemanticPromptMarkCommandEnd, exitCode)
	}
}

// joinFields restores the original byte run of semicolon-separated fields.
func joinFields(fields [][]byte) []byte {
	return bytes.Join(fields, []byte{';'})
}

// parseColorSpec parses the XParseColor forms used by OSC 4/10/11/12:
// "rgb:RR/GG/BB" (1-4 hex digits per channel) and "#RRGGBB".
func parseColorSpec(spec string) (color.Color, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		channels := strings.Split(spec[4:], "/")
		if len(channels) != 3 {
			return nil, false
		}
		var out [3]uint8
		for i, ch := range channels {
			if len(ch) == 0 || len(ch) > 4 {
				return nil, false
			}
			v, err := strconv.ParseUint(ch, 16, 16)
			if err != nil {
				return nil, false
			}
			// Scale to 8 bits from however many digits were given.
			bits := uint(4 * len(ch))
			out[i] = uint8(v * 255 / ((1 << bits) - 1))
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 255}, true
	}

	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return nil, false
		}
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, true
	}

	return nil, false
}
