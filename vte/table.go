package vte

// Parser states, per the VT500-series parser.
type state uint8

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateOscString
	stateSosPmApcString

	stateCount
)

// Per-byte actions. Entry/exit behaviour (clear, hook, unhook, osc start/end)
// is handled at the transition points in parser.go.
type action uint8

const (
	actNone action = iota
	actIgnore
	actPrint
	actExecute
	actCollect
	actParam
	actEscDispatch
	actCsiDispatch
	actHook
	actPut
	actStrPut
)

// keep is a sentinel next-state meaning "stay in the current state".
const keep = stateCount

// table maps (state, 7-bit byte) to a packed action and next state.
var table [stateCount][128]uint16

func pack(a action, s state) uint16 { return uint16(a)<<8 | uint16(s) }

func unpack(v uint16) (action, state) { return action(v >> 8), state(v & 0xff) }

// fill assigns one entry for every byte in [lo, hi].
func fill(s state, lo, hi byte, a action, next state) {
	for b := int(lo); b <= int(hi); b++ {
		table[s][b] = pack(a, next)
	}
}

// fillExecute installs the C0 handling shared by the ground, escape, and CSI
// states: controls run immediately without disturbing the sequence. ESC, CAN,
// and SUB are handled by the anywhere rules in parser.go before the table is
// consulted.
func fillExecute(s state) {
	fill(s, 0x00, 0x17, actExecute, keep)
	fill(s, 0x19, 0x19, actExecute, keep)
	fill(s, 0x1c, 0x1f, actExecute, keep)
}

func init() {
	// Ground. Bytes >= 0x80 never reach the table; the UTF-8 sub-state in
	// parser.go consumes them.
	fillExecute(stateGround)
	fill(stateGround, 0x20, 0x7e, actPrint, keep)
	fill(stateGround, 0x7f, 0x7f, actIgnore, keep)

	// Escape.
	fillExecute(stateEscape)
	fill(stateEscape, 0x20, 0x2f, actCollect, stateEscapeIntermediate)
	fill(stateEscape, 0x30, 0x7e, actEscDispatch, stateGround)
	fill(stateEscape, 0x50, 0x50, actNone, stateDcsEntry) // ESC P
	fill(stateEscape, 0x58, 0x58, actNone, stateSosPmApcString)
	fill(stateEscape, 0x5b, 0x5b, actNone, stateCsiEntry) // ESC [
	fill(stateEscape, 0x5d, 0x5d, actNone, stateOscString)
	fill(stateEscape, 0x5e, 0x5f, actNone, stateSosPmApcString)
	fill(stateEscape, 0x7f, 0x7f, actIgnore, keep)

	fillExecute(stateEscapeIntermediate)
	fill(stateEscapeIntermediate, 0x20, 0x2f, actCollect, keep)
	fill(stateEscapeIntermediate, 0x30, 0x7e, actEscDispatch, stateGround)
	fill(stateEscapeIntermediate, 0x7f, 0x7f, actIgnore, keep)

	// CSI.
	fillExecute(stateCsiEntry)
	fill(stateCsiEntry, 0x20, 0x2f, actCollect, stateCsiIntermediate)
	fill(stateCsiEntry, 0x30, 0x3b, actParam, stateCsiParam)
	fill(stateCsiEntry, 0x3c, 0x3f, actCollect, stateCsiParam)
	fill(stateCsiEntry, 0x40, 0x7e, actCsiDispatch, stateGround)
	fill(stateCsiEntry, 0x7f, 0x7f, actIgnore, keep)

	fillExecute(stateCsiParam)
	fill(stateCsiParam, 0x20, 0x2f, actCollect, stateCsiIntermediate)
	fill(stateCsiParam, 0x30, 0x3b, actParam, keep)
	fill(stateCsiParam, 0x3c, 0x3f, actIgnore, stateCsiIgnore)
	fill(stateCsiParam, 0x40, 0x7e, actCsiDispatch, stateGround)
	fill(stateCsiParam, 0x7f, 0x7f, actIgnore, keep)

	fillExecute(stateCsiIntermediate)
	fill(stateCsiIntermediate, 0x20, 0x2f, actCollect, keep)
	fill(stateCsiIntermediate, 0x30, 0x3f, actIgnore, stateCsiIgnore)
	fill(stateCsiIntermediate, 0x40, 0x7e, actCsiDispatch, stateGround)
	fill(stateCsiIntermediate, 0x7f, 0x7f, actIgnore, keep)

	fillExecute(stateCsiIgnore)
	fill(stateCsiIgnore, 0x20, 0x3f, actIgnore, keep)
	fill(stateCsiIgnore, 0x40, 0x7e, actIgnore, stateGround)
	fill(stateCsiIgnore, 0x7f, 0x7f, actIgnore, keep)

	// DCS. Controls are swallowed rather than executed.
	fill(stateDcsEntry, 0x00, 0x1f, actIgnore, keep)
	fill(stateDcsEntry, 0x20, 0x2f, actCollect, stateDcsIntermediate)
	fill(stateDcsEntry, 0x30, 0x3b, actParam, stateDcsParam)
	fill(stateDcsEntry, 0x3c, 0x3f, actCollect, stateDcsParam)
	fill(stateDcsEntry, 0x40, 0x7e, actHook, stateDcsPassthrough)
	fill(stateDcsEntry, 0x7f, 0x7f, actIgnore, keep)

	fill(stateDcsParam, 0x00, 0x1f, actIgnore, keep)
	fill(stateDcsParam, 0x20, 0x2f, actCollect, stateDcsIntermediate)
	fill(stateDcsParam, 0x30, 0x3b, actParam, keep)
	fill(stateDcsParam, 0x3c, 0x3f, actIgnore, stateDcsIgnore)
	fill(stateDcsParam, 0x40, 0x7e, actHook, stateDcsPassthrough)
	fill(stateDcsParam, 0x7f, 0x7f, actIgnore, keep)

	fill(stateDcsIntermediate, 0x00, 0x1f, actIgnore, keep)
	fill(stateDcsIntermediate, 0x20, 0x2f, actCollect, keep)
	fill(stateDcsIntermediate, 0x30, 0x3f, actIgnore, stateDcsIgnore)
	fill(stateDcsIntermediate, 0x40, 0x7e, actHook, stateDcsPassthrough)
	fill(stateDcsIntermediate, 0x7f, 0x7f, actIgnore, keep)

	fill(stateDcsPassthrough, 0x00, 0x7e, actPut, keep)
	fill(stateDcsPassthrough, 0x7f, 0x7f, actIgnore, keep)

	fill(stateDcsIgnore, 0x00, 0x7f, actIgnore, keep)

	// OSC. BEL termination is an anywhere rule in parser.go.
	fill(stateOscString, 0x00, 0x1f, actIgnore, keep)
	fill(stateOscString, 0x20, 0x7f, actStrPut, keep)

	fill(stateSosPmApcString, 0x00, 0x1f, actIgnore, keep)
	fill(stateSosPmApcString, 0x20, 0x7f, actStrPut, keep)
}
