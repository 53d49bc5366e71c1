package watch

import (
	"fmt"
	"io"
	"time"

	"github.com/tanglin/bufyaml/validate"
)

// Formatter receives validation lifecycle output. Implementations are
// driven from a single goroutine.
type Formatter interface {
	// Start announces the set of files under consideration.
	Start(paths []string) error
	// Event reports one validation lifecycle step.
	Event(e Event) error
	// Summary reports session totals once no more events will come.
	Summary(r *Result) error
}

// PlainFormatter writes line-per-event output suitable for pipes and
// logs. With styling enabled the status badges are colored.
type PlainFormatter struct {
	w      io.Writer
	styles *Styles
}

// NewPlainFormatter creates a plain formatter. styled turns on lipgloss
// badges; keep it off when writing to a pipe.
func NewPlainFormatter(w io.Writer, styled bool) *PlainFormatter {
	f := &PlainFormatter{w: w}
	if styled {
		f.styles = DefaultStyles()
	}

	return f
}

// Start implements Formatter. Plain output has no header.
func (f *PlainFormatter) Start([]string) error {
	return nil
}

// Event implements Formatter.
func (f *PlainFormatter) Event(e Event) error {
	switch e.Action {
	case ActionValidate:
		return nil

	case ActionPass:
		_, err := fmt.Fprintf(f.w, "%s %s%s (%s)\n",
			f.badge("ok  ", stylePass), e.Path, f.warningNote(e), formatElapsed(e.Elapsed))
		if err != nil {
			return err
		}

		return f.printDiagnostics(e)

	case ActionFail:
		_, err := fmt.Fprintf(f.w, "%s %s (%s)\n",
			f.badge("FAIL", styleFail), e.Path, formatElapsed(e.Elapsed))
		if err != nil {
			return err
		}

		return f.printDiagnostics(e)

	case ActionError:
		_, err := fmt.Fprintf(f.w, "%s %s: %v\n", f.badge("ERR ", styleFail), e.Path, e.Err)

		return err
	}

	return nil
}

// Summary implements Formatter.
func (f *PlainFormatter) Summary(r *Result) error {
	if r.Ok() {
		_, err := fmt.Fprintf(f.w, "%s %d passed\n", f.badge("PASS", stylePass), r.Passed)

		return err
	}

	_, err := fmt.Fprintf(f.w, "%s %d passed, %d failed, %d errors\n",
		f.badge("FAIL", styleFail), r.Passed, r.Failed, r.Errors)

	return err
}

func (f *PlainFormatter) printDiagnostics(e Event) error {
	for _, d := range e.Diagnostics {
		_, err := fmt.Fprintf(f.w, "    %s:%d:%d: %s\n", d.Path, d.StartLine, d.StartColumn, d.Message)
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *PlainFormatter) warningNote(e Event) string {
	_, warnings := validate.Count(e.Diagnostics)
	if warnings == 0 {
		return ""
	}

	return fmt.Sprintf(", %d warnings", warnings)
}

type badgeStyle int

const (
	stylePass badgeStyle = iota
	styleFail
)

func (f *PlainFormatter) badge(text string, style badgeStyle) string {
	if f.styles == nil {
		return text
	}

	switch style {
	case stylePass:
		return f.styles.Pass.Render(text)
	case styleFail:
		return f.styles.Fail.Render(text)
	}

	return text
}

func formatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
