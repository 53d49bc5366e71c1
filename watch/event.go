// Package watch revalidates buf config files as they change on disk,
// reporting results through pluggable formatters.
package watch

import (
	"time"

	"github.com/tanglin/bufyaml/validate"
)

// Action identifies what happened to a config file.
type Action string

// Actions emitted by the watcher.
const (
	// ActionValidate marks the start of a validation run.
	ActionValidate Action = "validate"
	// ActionPass marks a run with no error-severity findings.
	ActionPass Action = "pass"
	// ActionFail marks a run with at least one error-severity finding.
	ActionFail Action = "fail"
	// ActionError marks a run the validator could not complete.
	ActionError Action = "error"
)

// Event is one step in a config file's validation lifecycle.
type Event struct {
	Time        time.Time
	Action      Action
	Path        string
	Elapsed     time.Duration
	Diagnostics []validate.Diagnostic
	Err         error
}

// NewEvent classifies a finished validation run into an event.
// Warnings alone do not fail a run; they ride along on a pass.
func NewEvent(path string, diags []validate.Diagnostic, err error, elapsed time.Duration) Event {
	e := Event{
		Time:        time.Now(),
		Path:        path,
		Elapsed:     elapsed,
		Diagnostics: diags,
		Err:         err,
	}

	switch errs, _ := validate.Count(diags); {
	case err != nil:
		e.Action = ActionError
	case errs > 0:
		e.Action = ActionFail
	default:
		e.Action = ActionPass
	}

	return e
}

// Result accumulates run outcomes across a session.
type Result struct {
	Runs   int
	Passed int
	Failed int
	Errors int

	// Finding totals across all runs, the env for fail-if expressions.
	FindingErrors   int
	FindingWarnings int

	started time.Time
	elapsed time.Duration
}

// NewResult starts an empty result with the clock running.
func NewResult() *Result {
	return &Result{started: time.Now()}
}

// Add records a finished run. ActionValidate events are progress, not
// outcomes, and are ignored.
func (r *Result) Add(e Event) {
	switch e.Action {
	case ActionValidate:
		return
	case ActionPass:
		r.Passed++
	case ActionFail:
		r.Failed++
	case ActionError:
		r.Errors++
	}

	r.Runs++

	errs, warnings := validate.Count(e.Diagnostics)
	r.FindingErrors += errs
	r.FindingWarnings += warnings
}

// Finish stops the clock.
func (r *Result) Finish() {
	r.elapsed = time.Since(r.started)
}

// Ok reports whether every recorded run passed.
func (r *Result) Ok() bool {
	return r.Failed == 0 && r.Errors == 0
}

// Elapsed returns the session duration after Finish.
func (r *Result) Elapsed() time.Duration {
	return r.elapsed
}
