package ansi

import (
	"fmt"
	"strings"
)

// Category classifies a control sequence by its introducer.
type Category uint8

const (
	CategoryC0 Category = iota
	CategoryEsc
	CategoryCsi
	CategoryOsc
	CategoryDcs
)

func (c Category) String() string {
	switch c {
	case CategoryC0:
		return "C0"
	case CategoryEsc:
		return "ESC"
	case CategoryCsi:
		return "CSI"
	case CategoryOsc:
		return "OSC"
	case CategoryDcs:
		return "DCS"
	default:
		return "?"
	}
}

// Sequence is one decoded control function as it appeared on the wire:
// category, optional leader (private marker byte), intermediates, parameters
// with sub-parameters, final byte, and the payload for string sequences.
type Sequence struct {
	Category      Category
	Leader        byte
	Intermediates []byte
	Params        [][]uint16
	Final         byte
	Data          []byte
}

// Param returns the first value of parameter group i, or def when the group
// is absent or zero. VT parameters treat 0 and missing alike.
func (s *Sequence) Param(i, def int) int {
	if i >= len(s.Params) || len(s.Params[i]) == 0 || s.Params[i][0] == 0 {
		return def
	}
	return int(s.Params[i][0])
}

// ParamOrZero returns the first value of parameter group i, or 0 when absent.
func (s *Sequence) ParamOrZero(i int) int {
	if i >= len(s.Params) || len(s.Params[i]) == 0 {
		return 0
	}
	return int(s.Params[i][0])
}

// String renders the sequence in a compact, loggable form.
func (s *Sequence) String() string {
	var b strings.Builder
	b.WriteString(s.Category.String())
	if s.Leader != 0 {
		fmt.Fprintf(&b, " %c", s.Leader)
	}
	for i, group := range s.Params {
		if i == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteByte(';')
		}
		for j, v := range group {
			if j > 0 {
				b.WriteByte(':')
			}
			fmt.Fprintf(&b, "%d", v)
		}
	}
	if len(s.Intermediates) > 0 {
		fmt.Fprintf(&b, " %s", s.Intermediates)
	}
	if s.Final != 0 {
		fmt.Fprintf(&b, " %c", s.Final)
	}
	return b.String()
}
