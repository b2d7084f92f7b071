package ansi

// dcsKind routes DCS payload bytes collected between Hook and Unhook.
type dcsKind int

const (
	dcsNone dcsKind = iota
	dcsSixel
	dcsStatusRequest
	dcsIgnored
)

// maxDcsLength bounds retained DCS payload. Sixel streams are the largest
// legitimate consumer; anything beyond the cap is dropped while the sequence
// is still consumed cleanly.
const maxDcsLength = 4 * 1024 * 1024

// Hook begins a DCS sequence.
func (d *Decoder) Hook(params [][]uint16, intermediates []byte, ignore bool, final byte) {
	d.dcsData = d.dcsData[:0]
	d.dcsParams = nil
	d.dcs = dcsIgnored
	if ignore {
		return
	}

	leader, rest := splitLeader(intermediates)
	var intermediate byte
	if len(rest) > 0 {
		intermediate = rest[0]
	}

	switch {
	case leader == 0 && intermediate == 0 && final == 'q':
		// Sixel. Parameters are part of the image header.
		d.dcs = dcsSixel
		d.dcsParams = copyParams(params)
	case leader == 0 && intermediate == '$' && final == 'q':
		d.dcs = dcsStatusRequest
	case leader == 0 && intermediate == 0 && final == 'p':
		// ReGIS; consumed and dropped.
		d.dcs = dcsIgnored
	default:
		d.unknown(&Sequence{
			Category:      CategoryDcs,
			Leader:        leader,
			Intermediates: rest,
			Params:        params,
			Final:         final,
		})
	}
}

// Put accumulates one DCS payload byte.
func (d *Decoder) Put(b byte) {
	if d.dcs == dcsIgnored || len(d.dcsData) >= maxDcsLength {
		return
	}
	d.dcsData = append(d.dcsData, b)
}

// Unhook completes a DCS sequence and dispatches the collected payload.
func (d *Decoder) Unhook() {
	switch d.dcs {
	case dcsSixel:
		d.handler.SixelReceived(d.dcsParams, d.dcsData)
	case dcsStatusRequest:
		d.handler.RequestStatusString(string(d.dcsData))
	}
	d.dcs = dcsNone
	d.dcsData = d.dcsData[:0]
	d.dcsParams = nil
}

// copyParams detaches parameter groups from the parser's reusable storage.
func copyParams(params [][]uint16) [][]uint16 {
	if len(params) == 0 {
		return nil
	}
	out := make([][]uint16, len(params))
	for i, group := range params {
		out[i] = append([]uint16(nil), group...)
	}
	return out
}
