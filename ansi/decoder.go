package ansi

import (
	"log/slog"

	"github.com/markusbkk/contour/vte"
)

// Decoder feeds bytes through the VT parser and turns dispatched sequences
// into Handler calls. It implements io.Writer so PTY output can be copied
// straight into it.
type Decoder struct {
	handler Handler
	parser  *vte.Parser
	logger  *slog.Logger

	// In-flight DCS state between Hook and Unhook.
	dcs       dcsKind
	dcsParams [][]uint16
	dcsData   []byte

	// Last printed character, for REP.
	lastPrinted rune

	// Sequences already logged as unknown, so each unrecognised form is
	// reported once rather than per occurrence.
	logged map[string]struct{}
}

var _ vte.Performer = (*Decoder)(nil)

// NewDecoder creates a decoder that drives the given handler.
func NewDecoder(handler Handler) *Decoder {
	return &Decoder{
		handler: handler,
		parser:  vte.NewParser(),
		logger:  slog.Default(),
		logged:  make(map[string]struct{}),
	}
}

// SetLogger replaces the logger used for unknown-sequence diagnostics.
func (d *Decoder) SetLogger(logger *slog.Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// Write parses a chunk of terminal output. It never fails; malformed input
// degrades to logged no-ops. Implements io.Writer.
func (d *Decoder) Write(p []byte) (int, error) {
	d.parser.Advance(d, p)
	return len(p), nil
}

// maxLoggedSequences bounds the once-per-form log memory, so hostile input
// cannot grow it without limit.
const maxLoggedSequences = 256

// unknown logs an unrecognised sequence once per distinct form.
func (d *Decoder) unknown(seq *Sequence) {
	if len(d.logged) >= maxLoggedSequences {
		return
	}
	key := seq.String()
	if _, ok := d.logged[key]; ok {
		return
	}
	d.logged[key] = struct{}{}
	d.logger.Debug("unhandled terminal sequence", "seq", key)
}

// Print passes a decoded character through to the handler.
func (d *Decoder) Print(r rune) {
	d.lastPrinted = r
	d.handler.Input(r)
}

// Execute runs a C0 control.
func (d *Decoder) Execute(b byte) {
	switch b {
	case 0x07: // BEL
		d.handler.Bell()
	case 0x08: // BS
		d.handler.Backspace()
	case 0x09: // HT
		d.handler.Tab(1)
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		d.handler.LineFeed()
	case 0x0d: // CR
		d.handler.CarriageReturn()
	case 0x0e: // SO: GL = G1
		d.handler.SetActiveCharset(1)
	case 0x0f: // SI: GL = G0
		d.handler.SetActiveCharset(0)
	case 0x1a: // SUB
		d.handler.Substitute()
	case 0x00, 0x18: // NUL, CAN
	default:
		seq := &Sequence{Category: CategoryC0, Final: b}
		d.unknown(seq)
	}
}

// splitLeader separates a private-marker leader byte (0x3C-0x3F, collected
// first) from the true intermediates (0x20-0x2F).
func splitLeader(intermediates []byte) (leader byte, rest []byte) {
	if len(intermediates) > 0 && intermediates[0] >= 0x3c && intermediates[0] <= 0x3f {
		return intermediates[0], intermediates[1:]
	}
	return 0, intermediates
}

// CsiDispatch routes a complete CSI sequence.
func (d *Decoder) CsiDispatch(params [][]uint16, intermediates []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	leader, rest := splitLeader(intermediates)
	seq := &Sequence{
		Category:      CategoryCsi,
		Leader:        leader,
		Intermediates: rest,
		Params:        params,
		Final:         final,
	}
	d.dispatchCsi(seq)
}

// EscDispatch routes a complete ESC sequence.
func (d *Decoder) EscDispatch(intermediates []byte, ignore bool, final byte) {
	if ignore {
		return
	}
	seq := &Sequence{
		Category:      CategoryEsc,
		Intermediates: intermediates,
		Final:         final,
	}
	d.dispatchEsc(seq)
}

// OscDispatch routes a complete OSC string.
func (d *Decoder) OscDispatch(params [][]byte, bellTerminated bool) {
	d.dispatchOsc(params, bellTerminated)
}

// SosDispatch forwards an SOS payload.
func (d *Decoder) SosDispatch(data []byte) {
	d.handler.StartOfStringReceived(data)
}

// PmDispatch forwards a PM payload.
func (d *Decoder) PmDispatch(data []byte) {
	d.handler.PrivacyMessageReceived(data)
}

// ApcDispatch forwards an APC payload.
func (d *Decoder) ApcDispatch(data []byte) {
	d.handler.ApplicationCommandReceived(data)
}
