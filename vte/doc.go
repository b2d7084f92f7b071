// Package vte implements the DEC ANSI-compatible parser state machine
// described by Paul Williams' VT500-series parser.
//
// The parser consumes raw bytes from a PTY in arbitrary chunks and emits
// events to a [Performer]. It carries no interpretation of its own: CSI
// parameters are collected, UTF-8 is decoded, and string payloads (OSC, DCS,
// SOS, PM, APC) are buffered, but assigning meaning to a dispatched sequence
// is the caller's job.
//
//	parser := vte.NewParser()
//	parser.Advance(performer, ptyBytes)
//
// Feeding the same bytes in any chunking yields the same event sequence;
// partial escape sequences and partial UTF-8 code points survive across
// Advance calls.
package vte
