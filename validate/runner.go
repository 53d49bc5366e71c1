// Package validate shells out to an external config validator and
// turns its JSON output into diagnostics. Runs are rate limited and
// cached by content hash so editor keystrokes do not fan out into
// process spawns.
package validate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tanglin/bufyaml"
)

var (
	// ErrRateLimited reports a run skipped by the limiter; callers keep
	// their previous diagnostics.
	ErrRateLimited = errors.New("validate: rate limited")

	// ErrValidatorUnavailable reports that the configured binary could
	// not be found on PATH.
	ErrValidatorUnavailable = errors.New("validate: validator not found")
)

// Severity classifies a diagnostic for reporting.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// Diagnostic is one finding from the validator, in its JSON line
// format.
type Diagnostic struct {
	Path        string `json:"path"`
	StartLine   int    `json:"start_line"`
	StartColumn int    `json:"start_column"`
	EndLine     int    `json:"end_line"`
	EndColumn   int    `json:"end_column"`
	Type        string `json:"type"`
	Message     string `json:"message"`
}

// Severity maps the validator's finding type: compile failures are
// errors, everything else is a rule warning.
func (d Diagnostic) Severity() Severity {
	if d.Type == "COMPILE" {
		return SeverityError
	}

	return SeverityWarning
}

// Runner invokes the external validator.
type Runner struct {
	bin     string
	args    []string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewRunner builds a Runner from tool settings. Zero-valued settings
// fall back to the buf CLI with its JSON error format.
func NewRunner(cfg bufyaml.ValidatorConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	bin := cfg.Bin
	if bin == "" {
		bin = "buf"
	}

	args := cfg.Args
	if len(args) == 0 {
		args = []string{"lint", "--error-format=json"}
	}

	return &Runner{
		bin:     bin,
		args:    args,
		timeout: cfg.Timeout(),
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 2),
		logger:  logger,
	}
}

// Run executes the validator against one file, feeding content on
// stdin, and parses its diagnostic lines. A non-zero exit with
// parseable output is a normal lint failure, not an error. When the
// limiter has no ready slot the run is dropped with ErrRateLimited.
func (r *Runner) Run(ctx context.Context, path string, content []byte) ([]Diagnostic, error) {
	if !r.limiter.Allow() {
		return nil, ErrRateLimited
	}

	return r.run(ctx, path, content)
}

// RunWait is Run for batch callers: instead of dropping when the
// limiter is exhausted it waits for a slot or for the context.
func (r *Runner) RunWait(ctx context.Context, path string, content []byte) ([]Diagnostic, error) {
	err := r.limiter.Wait(ctx)
	if err != nil {
		return nil, err
	}

	return r.run(ctx, path, content)
}

func (r *Runner) run(ctx context.Context, path string, content []byte) ([]Diagnostic, error) {
	if _, err := exec.LookPath(r.bin); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrValidatorUnavailable, r.bin)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string(nil), r.args...), path)
	cmd := exec.CommandContext(ctx, r.bin, args...)
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()

	diags, parseErr := parseDiagnostics(stdout.Bytes())

	r.logger.Debug("validator run",
		zap.String("path", path),
		zap.Duration("took", time.Since(start)),
		zap.Int("diagnostics", len(diags)))

	if runErr != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("validate %s: %w", path, ctx.Err())
		}

		var exitErr *exec.ExitError

		// The validator exits non-zero when it finds problems; that is
		// a result, not a failure. Exit 100 is the lint-failure code.
		if errors.As(runErr, &exitErr) && (len(diags) > 0 || exitErr.ExitCode() == 100) {
			return diags, nil
		}

		return nil, fmt.Errorf("validate %s: %w: %s", path, runErr, stderr.String())
	}

	if parseErr != nil {
		return nil, fmt.Errorf("validate %s: %w", path, parseErr)
	}

	return diags, nil
}

// Count tallies diagnostics by severity.
func Count(diags []Diagnostic) (errs, warnings int) {
	for _, d := range diags {
		if d.Severity() == SeverityError {
			errs++
		} else {
			warnings++
		}
	}

	return errs, warnings
}

// parseDiagnostics reads one JSON object per line, the validator's
// machine format. Blank lines are skipped; anything unparseable fails
// the whole read.
func parseDiagnostics(out []byte) ([]Diagnostic, error) {
	var diags []Diagnostic

	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}

		var d Diagnostic
		if err := json.Unmarshal(line, &d); err != nil {
			return nil, fmt.Errorf("parse diagnostic %q: %w", line, err)
		}

		diags = append(diags, d)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return diags, nil
}
