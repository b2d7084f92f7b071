package contour

import (
	"strings"

	"github.com/markusbkk/contour/ansi"
)

// PromptMark stores information about a semantic prompt mark (OSC 133).
// Used for prompt-based navigation in scrollback.
type PromptMark struct {
	// Type is the mark type (prompt start, command start, output start, command end).
	Type ansi.SemanticPromptMark
	// Row is the absolute row position (scrollback length plus page row at
	// the time the mark arrived).
	Row int
	// ExitCode is the command exit code (only valid for command-end marks, -1 otherwise).
	ExitCode int
}

// SemanticPromptHandler handles semantic prompt events (OSC 133).
type SemanticPromptHandler interface {
	// OnMark is called when a semantic prompt mark is received.
	OnMark(mark ansi.SemanticPromptMark, exitCode int)
}

// NoopSemanticPrompt ignores all semantic prompt events.
type NoopSemanticPrompt struct{}

func (NoopSemanticPrompt) OnMark(mark ansi.SemanticPromptMark, exitCode int) {}

var _ SemanticPromptHandler = (*NoopSemanticPrompt)(nil)

func (t *Terminal) semanticPromptMarkInternal(mark ansi.SemanticPromptMark, exitCode int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	absoluteRow := t.primaryBuffer.ScrollbackLen() + t.cursor.Row

	t.promptMarks = append(t.promptMarks, PromptMark{
		Type:     mark,
		Row:      absoluteRow,
		ExitCode: exitCode,
	})

	if t.semanticPromptHandler != nil {
		t.semanticPromptHandler.OnMark(mark, exitCode)
	}
}

// PromptMarks returns all recorded prompt marks.
func (t *Terminal) PromptMarks() []PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	marks := make([]PromptMark, len(t.promptMarks))
	copy(marks, t.promptMarks)
	return marks
}

// PromptMarkCount returns the number of recorded prompt marks.
func (t *Terminal) PromptMarkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.promptMarks)
}

// ClearPromptMarks removes all recorded prompt marks.
func (t *Terminal) ClearPromptMarks() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptMarks = nil
}

// NextPromptRow returns the absolute row of the next prompt mark after the given absolute row.
// Returns -1 if no next prompt exists.
// If markType is not -1, only marks of that type qualify.
func (t *Terminal) NextPromptRow(currentAbsRow int, markType ansi.SemanticPromptMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, mark := range t.promptMarks {
		if mark.Row > currentAbsRow {
			if markType == -1 || mark.Type == markType {
				return mark.Row
			}
		}
	}
	return -1
}

// PrevPromptRow returns the absolute row of the previous prompt mark before the given absolute row.
// Returns -1 if no previous prompt exists.
// If markType is not -1, only marks of that type qualify.
func (t *Terminal) PrevPromptRow(currentAbsRow int, markType ansi.SemanticPromptMark) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := t.promptMarks[i]
		if mark.Row < currentAbsRow {
			if markType == -1 || mark.Type == markType {
				return mark.Row
			}
		}
	}
	return -1
}

// GetPromptMarkAt returns the prompt mark at the given absolute row, or nil if none exists.
func (t *Terminal) GetPromptMarkAt(absRow int) *PromptMark {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.promptMarks {
		if t.promptMarks[i].Row == absRow {
			mark := t.promptMarks[i]
			return &mark
		}
	}
	return nil
}

// SetSemanticPromptHandler sets the semantic prompt handler at runtime.
func (t *Terminal) SetSemanticPromptHandler(p SemanticPromptHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.semanticPromptHandler = p
}

// ViewportRowToAbsolute converts a page row to an absolute row id.
func (t *Terminal) ViewportRowToAbsolute(row int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryBuffer.ScrollbackLen() + row
}

// AbsoluteRowToViewport converts an absolute row id back to a page row.
// Returns -1 when the row lives in scrollback.
func (t *Terminal) AbsoluteRowToViewport(absRow int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	row := absRow - t.primaryBuffer.ScrollbackLen()
	if row < 0 || row >= t.rows {
		return -1
	}
	return row
}

// GetLastCommandOutput returns the output of the last executed command: the
// text between the last output-start (C) mark and the last command-end (D)
// mark. Returns empty string if no complete command output is available.
func (t *Terminal) GetLastCommandOutput() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.promptMarks) == 0 {
		return ""
	}

	var lastOutput, lastEnd *PromptMark
	for i := len(t.promptMarks) - 1; i >= 0; i-- {
		mark := &t.promptMarks[i]
		if lastEnd == nil && mark.Type == ansi.SemanticPromptMarkCommandEnd {
			lastEnd = mark
		}
		if lastOutput == nil && mark.Type == ansi.SemanticPromptMarkOutputStart {
			lastOutput = mark
		}
		if lastOutput != nil && lastEnd != nil {
			if lastOutput.Row < lastEnd.Row {
				break
			}
			lastOutput, lastEnd = nil, nil
		}
	}

	if lastOutput == nil || lastEnd == nil {
		return ""
	}

	return t.extractTextBetweenRows(lastOutput.Row, lastEnd.Row)
}

// extractTextBetweenRows extracts text from startRow (inclusive) to endRow
// (exclusive), both absolute, trimming trailing empty lines.
func (t *Terminal) extractTextBetweenRows(startRow, endRow int) string {
	var lines []string
	for abs := startRow; abs < endRow; abs++ {
		cells := t.absoluteLine(abs)
		if cells == nil {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, cellsToString(cells))
	}

	lastNonEmpty := -1
	for i, line := range lines {
		if line != "" {
			lastNonEmpty = i
		}
	}
	if lastNonEmpty < 0 {
		return ""
	}

	return strings.Join(lines[:lastNonEmpty+1], "\n")
}
