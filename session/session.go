// Package session drives one PTY through one terminal: a reader goroutine
// pumps child output into the parser, user input flows through a mailbox
// drained at loop boundaries, and renderers take immutable snapshots.
//
// Concurrency model: the I/O goroutine is the only writer to the screen;
// the renderer thread reads it only through snapshots taken under the same
// screen lock. Input producers never touch the screen — they enqueue bytes
// into the mailbox. The only blocking points are the PTY read, the PTY
// write, and the screen lock.
package session

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"syscall"

	"github.com/markusbkk/contour"
	"github.com/markusbkk/contour/input"
)

// readBufferSize is the pinned read buffer for PTY output.
const readBufferSize = 64 * 1024

// mailboxCapacity bounds queued input writes before backpressure.
const mailboxCapacity = 256

// ErrBackpressure is returned when the input mailbox is full because the
// child is not consuming input.
var ErrBackpressure = errors.New("session: input queue full")

// ErrClosed is returned when input is sent to a terminated session.
var ErrClosed = errors.New("session: closed")

// Option configures a Session.
type Option func(*Session)

// WithTerminal supplies a preconfigured terminal instead of the default.
func WithTerminal(term *contour.Terminal) Option {
	return func(s *Session) {
		s.term = term
	}
}

// WithOnClosed registers the one-shot callback fired when the PTY reaches
// end of file or a fatal error; code is the child exit status when known,
// -1 otherwise.
func WithOnClosed(fn func(code int)) Option {
	return func(s *Session) {
		s.onClosed = fn
	}
}

// WithLogger routes session diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session owns a PTY, a terminal, and the goroutines pumping between them.
type Session struct {
	term    *contour.Terminal
	pty     Pty
	encoder *input.Encoder
	logger  *slog.Logger

	// mailbox carries encoded input bytes to the I/O loop.
	mailbox chan []byte

	// terminating is closed to stop the I/O loop at its next boundary.
	terminating chan struct{}
	termOnce    sync.Once

	onClosed   func(code int)
	closedOnce sync.Once

	wg   sync.WaitGroup
	done chan struct{}
}

// Start wires a session around an already running PTY and begins pumping.
func Start(p Pty, opts ...Option) *Session {
	s := &Session{
		pty:         p,
		encoder:     input.NewEncoder(),
		logger:      slog.Default(),
		mailbox:     make(chan []byte, mailboxCapacity),
		terminating: make(chan struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.term == nil {
		s.term = contour.New()
	}
	// Terminal responses (DSR, DA, ...) route back into the child.
	s.term.SetResponseProvider(writerFunc(s.enqueue))

	s.wg.Add(1)
	go s.ioLoop()

	return s
}

// writerFunc adapts the mailbox enqueue to io.Writer for the terminal's
// response provider.
type writerFunc func([]byte) error

func (f writerFunc) Write(p []byte) (int, error) {
	data := append([]byte(nil), p...)
	if err := f(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Terminal returns the screen model. Safe for concurrent use; renderers
// should prefer Snapshot.
func (s *Session) Terminal() *contour.Terminal {
	return s.term
}

// Snapshot returns a coherent view of the visible region for rendering.
func (s *Session) Snapshot(detail contour.SnapshotDetail) *contour.Snapshot {
	return s.term.Snapshot(detail)
}

// ioLoop is the I/O goroutine: it applies child output and drains queued
// input, in that order, one chunk at a time. Input is never applied in the
// middle of parsing a chunk.
func (s *Session) ioLoop() {
	defer s.wg.Done()
	defer close(s.done)

	output := make(chan []byte)
	readErr := make(chan error, 1)

	// Reader: blocking reads on a pinned buffer, retried on EINTR/EAGAIN.
	go func() {
		buf := make([]byte, readBufferSize)
		for {
			n, err := s.pty.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case output <- chunk:
				case <-s.terminating:
					return
				}
			}
			if err != nil {
				if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
					continue
				}
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-s.terminating:
			return

		case chunk := <-output:
			// All bytes of one read apply before any queued input.
			s.term.Write(chunk)
			s.drainMailbox()

		case data := <-s.mailbox:
			if !s.writePty(data) {
				return
			}

		case err := <-readErr:
			// EOF and EIO mean the child side is gone.
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("pty read ended", "err", err)
			}
			s.fireClosed(s.pty.Wait())
			return
		}
	}
}

// drainMailbox flushes queued input at a loop boundary.
func (s *Session) drainMailbox() {
	for {
		select {
		case data := <-s.mailbox:
			if !s.writePty(data) {
				return
			}
		default:
			return
		}
	}
}

// writePty performs one blocking PTY write, retrying short writes and EINTR.
func (s *Session) writePty(data []byte) bool {
	for len(data) > 0 {
		select {
		case <-s.terminating:
			// In-flight writes are abandoned on termination.
			return false
		default:
		}

		n, err := s.pty.Write(data)
		data = data[n:]
		if err != nil {
			if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
				continue
			}
			s.logger.Debug("pty write failed", "err", err)
			return false
		}
	}
	return true
}

// enqueue places encoded bytes into the mailbox without blocking.
func (s *Session) enqueue(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	select {
	case <-s.terminating:
		return ErrClosed
	default:
	}

	select {
	case s.mailbox <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

// Write queues raw input bytes for the child. Implements io.Writer; a full
// mailbox surfaces ErrBackpressure instead of blocking the caller.
func (s *Session) Write(p []byte) (int, error) {
	data := append([]byte(nil), p...)
	if err := s.enqueue(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// SendKey encodes a special key press under the live modes and queues it.
func (s *Session) SendKey(key input.Key, mods input.Modifiers) error {
	return s.enqueue(s.encoder.Key(key, mods, s.term.InputModes()))
}

// SendText encodes a character event and queues it.
func (s *Session) SendText(r rune, mods input.Modifiers) error {
	return s.enqueue(s.encoder.Text(r, mods, s.term.InputModes()))
}

// SendMouse encodes a pointer event and queues it when the active mouse
// protocol reports it.
func (s *Session) SendMouse(ev input.MouseEvent) error {
	return s.enqueue(s.encoder.Mouse(ev, s.term.InputModes()))
}

// SendFocus encodes a focus change and queues it when focus reporting is on.
func (s *Session) SendFocus(in bool) error {
	return s.enqueue(s.encoder.Focus(in, s.term.InputModes()))
}

// SendPaste encodes pasted text, bracketed when the mode is on, and queues it.
func (s *Session) SendPaste(text string) error {
	return s.enqueue(s.encoder.Paste(text, s.term.InputModes()))
}

// Resize propagates a new geometry to both the PTY and the screen model.
func (s *Session) Resize(rows, cols, pixelWidth, pixelHeight int) error {
	s.term.Resize(rows, cols)
	return s.pty.Resize(rows, cols, pixelWidth, pixelHeight)
}

// fireClosed runs the one-shot closed callback.
func (s *Session) fireClosed(code int) {
	s.closedOnce.Do(func() {
		if s.onClosed != nil {
			s.onClosed(code)
		}
	})
}

// Close terminates the session: the I/O loop exits at its next boundary
// after a best-effort PTY wake (closing the PTY unblocks the reader).
// Snapshots already handed out remain valid.
func (s *Session) Close() error {
	s.termOnce.Do(func() {
		close(s.terminating)
	})
	err := s.pty.Close()
	s.wg.Wait()
	return err
}

// Wait blocks until the I/O loop has exited.
func (s *Session) Wait() {
	<-s.done
}
