package contour

import (
	"testing"

	"github.com/markusbkk/contour/ansi"
)

func TestSemanticPromptMarks(t *testing.T) {
	term := New(WithSize(10, 40))

	term.WriteString("\x1b]133;A\x07$ ")
	term.WriteString("\x1b]133;B\x07make\r\n")
	term.WriteString("\x1b]133;C\x07building...\r\ndone\r\n")
	term.WriteString("\x1b]133;D;0\x07")

	marks := term.PromptMarks()
	if len(marks) != 4 {
		t.Fatalf("expected 4 marks, got %d", len(marks))
	}
	if marks[0].Type != ansi.SemanticPromptMarkPromptStart {
		t.Errorf("unexpected first mark %v", marks[0].Type)
	}
	if marks[3].Type != ansi.SemanticPromptMarkCommandEnd || marks[3].ExitCode != 0 {
		t.Errorf("unexpected end mark %+v", marks[3])
	}
}

func TestSemanticPromptNavigation(t *testing.T) {
	term := New(WithSize(10, 40))

	term.WriteString("\x1b]133;A\x07$ one\r\n")
	term.WriteString("\x1b]133;A\x07$ two\r\n")

	first := term.PromptMarks()[0].Row
	second := term.PromptMarks()[1].Row

	if got := term.NextPromptRow(first, ansi.SemanticPromptMarkPromptStart); got != second {
		t.Errorf("expected next prompt %d, got %d", second, got)
	}
	if got := term.PrevPromptRow(second, ansi.SemanticPromptMarkPromptStart); got != first {
		t.Errorf("expected prev prompt %d, got %d", first, got)
	}
	if got := term.NextPromptRow(second, -1); got != -1 {
		t.Errorf("expected no next prompt, got %d", got)
	}
}

func TestGetLastCommandOutput(t *testing.T) {
	term := New(WithSize(10, 40))

	term.WriteString("\x1b]133;A\x07$ \x1b]133;B\x07ls\r\n")
	term.WriteString("\x1b]133;C\x07file1\r\nfile2\r\n")
	term.WriteString("\x1b]133;D;0\x07")

	// The output region spans from the C mark row to the D mark row.
	if got := term.GetLastCommandOutput(); got != "file1\nfile2" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestSemanticPromptHandlerNotified(t *testing.T) {
	var seen []ansi.SemanticPromptMark
	handler := promptRecorder{marks: &seen}
	term := New(WithSize(10, 40), WithSemanticPrompt(handler))

	term.WriteString("\x1b]133;A\x07\x1b]133;D;1\x07")

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(seen))
	}
	if seen[1] != ansi.SemanticPromptMarkCommandEnd {
		t.Errorf("unexpected mark %v", seen[1])
	}
}

type promptRecorder struct {
	marks *[]ansi.SemanticPromptMark
}

func (p promptRecorder) OnMark(mark ansi.SemanticPromptMark, exitCode int) {
	*p.marks = append(*p.marks, mark)
}
