// Package contour is a terminal emulator core: it consumes a byte stream
// from a PTY and maintains a structured, renderable model of a character
// display. There is no renderer in here — a GPU (or any other) renderer is a
// consumer of the immutable snapshots this package produces.
//
// # Architecture
//
// The module is layered leaves-first:
//
//   - [github.com/markusbkk/contour/vte]: the VT500-series parser state
//     machine. Bytes in, events out, no interpretation.
//   - [github.com/markusbkk/contour/ansi]: sequence decoding. Builds typed
//     control functions from parser events and dispatches them to a Handler.
//   - contour (this package): the screen model. [Terminal] implements
//     ansi.Handler against a grid of [Cell] values with scrollback,
//     selection, search, hyperlinks, and images.
//   - [github.com/markusbkk/contour/input]: encodes key, mouse, focus, and
//     paste events into bytes for the PTY, honouring the live mode set.
//   - [github.com/markusbkk/contour/session]: owns the PTY and the reader
//     loop, wiring everything together.
//
// # Quick Start
//
// Create a terminal and write escape sequences to it:
//
//	term := contour.New()
//	term.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(term.String()) // "Hello World!"
//
// Terminal implements [io.Writer], so PTY output can be copied straight in:
//
//	cmd := exec.Command("ls", "-la", "--color")
//	cmd.Stdout = term
//	cmd.Run()
//
// # Dual Screens
//
// Terminal maintains two screens:
//
//   - Primary: normal mode, with optional scrollback storage and line reflow
//     on resize.
//   - Alternate: used by full-screen applications (vim, less, htop), no
//     scrollback, crop-and-pad resize.
//
// Applications switch screens via the DEC private modes 47, 1047, and 1049.
// Check which one is active with [Terminal.IsAlternateScreen].
//
// # Cells and Attributes
//
// Each cell stores a character cluster (base rune plus bounded combining
// marks), colors, attribute flags, and an interned hyperlink id:
//
//	cell := term.Cell(row, col)
//	if cell != nil {
//	    fmt.Printf("Cluster: %s\n", cell.Cluster())
//	    fmt.Printf("Bold: %v\n", cell.HasFlag(contour.CellFlagBold))
//	}
//
// Colors use Go's [image/color] interface: named colors, the 256-color
// palette, and 24-bit RGB.
//
// # Scrollback
//
// Lines scrolled off the top of the primary screen go to a
// [ScrollbackProvider]. The built-in [MemoryScrollback] keeps a bounded ring
// and stores uniformly-styled lines in a compact text form:
//
//	storage := contour.NewMemoryScrollback(10000)
//	term := contour.New(contour.WithScrollback(storage))
//
// # Selection and Search
//
// Selections come in linear, rectangular, wordwise, and full-line variants
// and are anchored to absolute line ids, so they stay put while the grid
// scrolls. Any write that touches a selected cell clears the selection.
//
//	term.StartSelection(contour.SelectionLinear, 0, 0)
//	term.UpdateSelection(2, 10)
//	text := term.GetSelectedText()
//
// # Snapshots
//
// [Terminal.Snapshot] captures a coherent view of the visible region for a
// renderer; [Terminal.Screenshot] is a reference consumer that rasterises a
// snapshot to a PNG-ready image.
//
// # Thread Safety
//
// All Terminal methods are safe for concurrent use. The internal lock is the
// screen lock from the session's concurrency model: the I/O goroutine
// mutates under it, renderers take snapshots under it, and nothing else
// blocks while holding it.
package contour
