package vte

// Performer receives the events produced by the parser, in the order the
// input bytes produce them.
//
// Params are grouped the way they appear on the wire: each top-level group is
// one semicolon-separated parameter, and entries within a group beyond the
// first are its colon-separated sub-parameters. `CSI 38;2;10;20;30 m` arrives
// as five groups while `CSI 38:2::10:20:30 m` arrives as one group of six.
type Performer interface {
	// Print draws a character to the screen.
	Print(r rune)

	// Execute runs a C0 or C1 control function.
	Execute(b byte)

	// CsiDispatch is called when a CSI sequence is complete. When ignore is
	// true the sequence exceeded the parameter or intermediate limits and
	// should be discarded.
	CsiDispatch(params [][]uint16, intermediates []byte, ignore bool, final byte)

	// EscDispatch is called when an ESC sequence is complete.
	EscDispatch(intermediates []byte, ignore bool, final byte)

	// Hook is called when a DCS sequence begins, before any payload bytes.
	Hook(params [][]uint16, intermediates []byte, ignore bool, final byte)

	// Put delivers one DCS payload byte.
	Put(b byte)

	// Unhook is called when a DCS sequence ends.
	Unhook()

	// OscDispatch is called when an OSC string is complete. Params are the
	// semicolon-separated raw fields; bellTerminated is true when the string
	// ended with BEL rather than ST.
	OscDispatch(params [][]byte, bellTerminated bool)

	// SosDispatch delivers the payload of a Start Of String sequence.
	SosDispatch(data []byte)

	// PmDispatch delivers the payload of a Privacy Message sequence.
	PmDispatch(data []byte)

	// ApcDispatch delivers the payload of an Application Program Command.
	ApcDispatch(data []byte)
}

// NoopPerformer discards all events. Embed it to implement only part of the
// Performer interface.
type NoopPerformer struct{}

func (NoopPerformer) Print(rune)                                  {}
func (NoopPerformer) Execute(byte)                                {}
func (NoopPerformer) CsiDispatch([][]uint16, []byte, bool, byte)  {}
func (NoopPerformer) EscDispatch([]byte, bool, byte)              {}
func (NoopPerformer) Hook([][]uint16, []byte, bool, byte)         {}
func (NoopPerformer) Put(byte)                                    {}
func (NoopPerformer) Unhook()                                     {}
func (NoopPerformer) OscDispatch([][]byte, bool)                  {}
func (NoopPerformer) SosDispatch([]byte)                          {}
func (NoopPerformer) PmDispatch([]byte)                           {}
func (NoopPerformer) ApcDispatch([]byte)                          {}

var _ Performer = NoopPerformer{}
