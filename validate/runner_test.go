package validate_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/validate"
)

const diagnosticLine = `{"path":"buf.gen.yaml","start_line":3,"start_column":5,"end_line":3,"end_column":12,"type":"COMPILE","message":"unknown key"}`

// scriptRunner builds a Runner whose validator is an inline shell
// script.
func scriptRunner(script string) *validate.Runner {
	return validate.NewRunner(bufyaml.ValidatorConfig{
		Bin:  "sh",
		Args: []string{"-c", script},
	}, nil)
}

func TestRunnerParsesDiagnostics(t *testing.T) {
	t.Parallel()

	r := scriptRunner(`echo '` + diagnosticLine + `'`)

	diags, err := r.Run(context.Background(), "buf.gen.yaml", []byte("version: v1alpha\n"))
	require.NoError(t, err)
	require.Len(t, diags, 1)

	assert.Equal(t, "buf.gen.yaml", diags[0].Path)
	assert.Equal(t, 3, diags[0].StartLine)
	assert.Equal(t, 5, diags[0].StartColumn)
	assert.Equal(t, "COMPILE", diags[0].Type)
	assert.Equal(t, "unknown key", diags[0].Message)
	assert.Equal(t, validate.SeverityError, diags[0].Severity())
}

func TestRunnerLintFailureExit(t *testing.T) {
	t.Parallel()

	r := scriptRunner(`echo '` + diagnosticLine + `'; exit 100`)

	diags, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	require.NoError(t, err)
	assert.Len(t, diags, 1)
}

func TestRunnerCleanExitNoFindings(t *testing.T) {
	t.Parallel()

	r := scriptRunner(`true`)

	diags, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestRunnerFailureWithoutOutput(t *testing.T) {
	t.Parallel()

	r := scriptRunner(`echo 'usage: nope' >&2; exit 1`)

	_, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: nope")
}

func TestRunnerTimeout(t *testing.T) {
	t.Parallel()

	r := validate.NewRunner(bufyaml.ValidatorConfig{
		Bin:       "sh",
		Args:      []string{"-c", "sleep 5"},
		TimeoutMS: 50,
	}, nil)

	_, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunnerValidatorMissing(t *testing.T) {
	t.Parallel()

	r := validate.NewRunner(bufyaml.ValidatorConfig{
		Bin: "bufyaml-validator-that-does-not-exist",
	}, nil)

	_, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	assert.ErrorIs(t, err, validate.ErrValidatorUnavailable)
}

func TestRunnerMalformedOutput(t *testing.T) {
	t.Parallel()

	r := scriptRunner(`echo 'not json'`)

	_, err := r.Run(context.Background(), "buf.gen.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse diagnostic")
}

func TestRunnerDropsWhenExhausted(t *testing.T) {
	t.Parallel()

	// A missing binary keeps permitted calls instant, so the burst is
	// spent well inside the refill interval.
	r := validate.NewRunner(bufyaml.ValidatorConfig{
		Bin: "bufyaml-validator-that-does-not-exist",
	}, nil)

	dropped := 0

	for range 6 {
		_, err := r.Run(context.Background(), "buf.gen.yaml", nil)
		if errors.Is(err, validate.ErrRateLimited) {
			dropped++
		}
	}

	assert.Positive(t, dropped)
}

func TestRunnerWaitPacesBatch(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "runs")
	r := scriptRunner(`echo run >> ` + marker)

	for range 4 {
		_, err := r.RunWait(context.Background(), "buf.gen.yaml", nil)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "run"))
}

func TestSeverity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, validate.SeverityError, validate.Diagnostic{Type: "COMPILE"}.Severity())
	assert.Equal(t, validate.SeverityWarning, validate.Diagnostic{Type: "FIELD_LOWER_SNAKE_CASE"}.Severity())
}

func TestCount(t *testing.T) {
	t.Parallel()

	errs, warnings := validate.Count([]validate.Diagnostic{
		{Type: "COMPILE"},
		{Type: "COMPILE"},
		{Type: "SERVICE_SUFFIX"},
	})

	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warnings)
}
