// Package diagnostics formats and accumulates compile-phase errors over a
// closed set of error kinds, one per distinct validation failure.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"

	"github.com/btouchard/condor/internal/token"
)

// Kind is the closed set of diagnostic categories.
type Kind string

const (
	IllegalToken    Kind = "ILLEGAL_TOKEN"
	Expected        Kind = "EXPECTED" // Message/Expected carry the specific production
	InvalidImport   Kind = "INVALID_IMPORT"
	NotImplemented  Kind = "NOT_IMPLEMENTED"
	Undefined       Kind = "UNDEFINED"
	DuplicateMember Kind = "DUPLICATE_MEMBER"
	TypeMismatch    Kind = "TYPE_MISMATCH"
	InvalidCast     Kind = "INVALID_CAST"
	Internal        Kind = "INTERNAL"
)

// Phase names the compile stage that raised the error, printed as a
// prefix ("Parser Error:" / "Semantic Error:" / "Runtime Error:").
type Phase string

const (
	PhaseParser   Phase = "Parser"
	PhaseSemantic Phase = "Semantic"
	PhaseRuntime  Phase = "Runtime"
)

// SourceError is one diagnostic: a kind, a position, a human message, and
// the phase that produced it.
type SourceError struct {
	Kind     Kind
	Phase    Phase
	Pos      token.Position
	Message  string
	Expected string // set for Kind == Expected
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Pos)
}

// New builds a SourceError from a kind, phase, position and an already
// formatted message.
func New(kind Kind, phase Phase, pos token.Position, message string) *SourceError {
	return &SourceError{Kind: kind, Phase: phase, Pos: pos, Message: message}
}

// ExpectedErr builds an EXPECTED_* diagnostic: the message names what was
// expected and what was found instead.
func ExpectedErr(phase Phase, pos token.Position, expected string, got token.Type, gotLiteral string) *SourceError {
	return &SourceError{
		Kind:     Expected,
		Phase:    phase,
		Pos:      pos,
		Expected: expected,
		Message:  fmt.Sprintf("expected %s, got %s (%q)", expected, got, gotLiteral),
	}
}

// List accumulates a script's diagnostics for one compile phase. It wraps
// *multierror.Error so HasErrors()/Error() compose cleanly across
// independent per-item failures.
type List struct {
	merr *multierror.Error
}

func (l *List) Add(e *SourceError) {
	l.merr = multierror.Append(l.merr, e)
}

func (l *List) HasErrors() bool {
	return l.merr.ErrorOrNil() != nil
}

func (l *List) Errors() []*SourceError {
	if l.merr == nil {
		return nil
	}
	out := make([]*SourceError, 0, len(l.merr.Errors))
	for _, e := range l.merr.Errors {
		if se, ok := e.(*SourceError); ok {
			out = append(out, se)
		}
	}
	return out
}

func (l *List) Error() string {
	if l.merr == nil {
		return ""
	}
	return l.merr.Error()
}

// Format renders one diagnostic in this layout:
//
//	"<row>:<col> - <message> - \n\t<absPath>\n\n<sourceExcerpt>"
//
// sourceExcerpt reproduces the offending and previous source lines (tabs
// rendered as spaces) followed by a caret on the next line, padded by col
// spaces and wrapped in ANSI green via github.com/fatih/color.
func Format(e *SourceError, source, absPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d - %s - \n\t%s\n\n", e.Pos.Line, e.Pos.Column, e.Message, absPath)
	b.WriteString(sourceExcerpt(source, e.Pos.Line, e.Pos.Column))
	return b.String()
}

func sourceExcerpt(source string, row, col int) string {
	lines := strings.Split(source, "\n")

	var b strings.Builder
	for i, line := range lines {
		lineNo := i + 1
		if lineNo == row-1 || lineNo == row {
			b.WriteString(strings.ReplaceAll(line, "\t", " "))
			b.WriteString("\n")
		} else if lineNo > row {
			break
		}
	}

	for i := 0; i < col; i++ {
		b.WriteByte(' ')
	}
	caret := color.New(color.FgGreen, color.Bold).Sprint("^")
	b.WriteString(caret)
	b.WriteString("\n")
	return b.String()
}

// PhasePrefix renders the "Parser Error:" / "Semantic Error:" / "Runtime
// Error:" line printed ahead of a formatted diagnostic.
func PhasePrefix(phase Phase) string {
	return fmt.Sprintf("%s Error:", phase)
}
