package session

import (
	"os"
	"os/exec"

	"github.com/creack/pty"
)

// Pty is the byte-stream endpoint a session drives: an opaque bidirectional
// channel with an attached child process.
type Pty interface {
	// Read blocks for the next chunk of child output.
	Read(p []byte) (int, error)
	// Write sends input bytes to the child.
	Write(p []byte) (int, error)
	// Resize propagates a new geometry; pixel sizes may be zero.
	Resize(rows, cols, pixelWidth, pixelHeight int) error
	// Close tears the endpoint down, waking any blocked Read.
	Close() error
	// Wait blocks until the child exits and returns its exit code.
	Wait() int
}

// commandPty runs a child process on a Unix pseudo-terminal.
type commandPty struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

// StartCommand launches cmd on a new PTY with the given initial size.
// The environment gets TERM/COLORTERM defaults unless the caller set them.
func StartCommand(cmd *exec.Cmd, rows, cols int) (Pty, error) {
	if cmd.Env == nil {
		cmd.Env = append(os.Environ(),
			"TERM=xterm-256color",
			"COLORTERM=truecolor",
		)
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}

	return &commandPty{cmd: cmd, ptmx: ptmx}, nil
}

func (p *commandPty) Read(b []byte) (int, error) {
	return p.ptmx.Read(b)
}

func (p *commandPty) Write(b []byte) (int, error) {
	return p.ptmx.Write(b)
}

func (p *commandPty) Resize(rows, cols, pixelWidth, pixelHeight int) error {
	return pty.Setsize(p.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
		X:    uint16(pixelWidth),
		Y:    uint16(pixelHeight),
	})
}

func (p *commandPty) Close() error {
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	return p.ptmx.Close()
}

func (p *commandPty) Wait() int {
	err := p.cmd.Wait()
	if err == nil {
		return 0
	}
	if exit, ok := err.(*exec.ExitError); ok {
		return exit.ExitCode()
	}
	return -1
}
