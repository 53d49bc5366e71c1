package complete_test

import (
	"strings"
	"testing"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/analysis"
	"github.com/tanglin/bufyaml/complete"
)

// renderAtEnd resolves the context at the end of text and renders one
// suggestion picked by label.
func renderAtEnd(t *testing.T, text, label string) complete.Plan {
	t.Helper()

	analyzer := analysis.NewAnalyzer(nil)
	ctx := analyzer.Resolve(text, len(text))

	for _, s := range complete.Suggest(analyzer.Schema(), ctx) {
		if s.Label == label {
			return complete.Render(analyzer.Schema(), ctx, s)
		}
	}

	t.Fatalf("no suggestion %q at end of %q", label, text)

	return complete.Plan{}
}

func apply(text string, p complete.Plan) string {
	return text[:p.Start] + p.Text + text[p.End:]
}

func TestRenderStringKeyKeepsCaretInQuotes(t *testing.T) {
	t.Parallel()

	schema := bufyaml.DefaultSchema()

	for _, indent := range []int{0, 2, 4} {
		text := strings.Repeat(" ", indent)

		ctx := analysis.Context{
			KeyPath:           bufyaml.MustParsePath("generate.plugins[]"),
			InSequenceMapping: true,
			Line: analysis.Line{
				Text:   text,
				Indent: indent,
				Blank:  true,
			},
		}

		plan := complete.Render(schema, ctx, complete.Suggestion{
			Label: "out",
			Kind:  bufyaml.ValueKindString,
		})

		got := apply(text, plan)

		if n := strings.Count(got, `out: ""`); n != 1 {
			t.Errorf("indent %d: %q contains %d out fragments, want 1", indent, got, n)
		}

		if plan.Caret <= 0 || plan.Caret >= len(got) ||
			got[plan.Caret-1] != '"' || got[plan.Caret] != '"' {
			t.Errorf("indent %d: caret %d not inside quotes of %q", indent, plan.Caret, got)
		}
	}
}

func TestRenderKeyKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		label     string
		want      string
		caretNear string
	}{
		{
			name:  "map key opens an indented block",
			text:  "",
			label: "generate",
			want:  "generate:\n  ",
		},
		{
			name:  "array key opens an item stub",
			text:  "generate:\n  ",
			label: "plugins",
			want:  "generate:\n  plugins:\n    - ",
		},
		{
			name:      "string key renders empty quotes",
			text:      "generate:\n  plugins:\n    - remote: buf.build/protocolbuffers/go\n      ",
			label:     "out",
			want:      "generate:\n  plugins:\n    - remote: buf.build/protocolbuffers/go\n      out: \"\"",
			caretNear: "out: \"",
		},
		{
			name:  "boolean key renders a default literal",
			text:  "generate:\n  plugins:\n    - remote: buf.build/protocolbuffers/go\n      ",
			label: "with_imports",
			want:  "generate:\n  plugins:\n    - remote: buf.build/protocolbuffers/go\n      with_imports: false",
		},
		{
			name:  "enum key renders its default value",
			text:  "",
			label: "version",
			want:  "version: v1alpha",
		},
		{
			name:      "fresh plugin item gets a dash prefix",
			text:      "generate:\n  plugins:\n    ",
			label:     "remote",
			want:      "generate:\n  plugins:\n    - remote: \"\"",
			caretNear: "remote: \"",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			plan := renderAtEnd(t, test.text, test.label)
			got := apply(test.text, plan)

			if got != test.want {
				t.Errorf("applied text = %q, want %q", got, test.want)
			}

			if test.caretNear != "" {
				want := strings.Index(got, test.caretNear) + len(test.caretNear)
				if plan.Caret != want {
					t.Errorf("caret = %d, want %d (after %q)", plan.Caret, want, test.caretNear)
				}
			} else if plan.Caret != len(got) {
				t.Errorf("caret = %d, want end %d", plan.Caret, len(got))
			}
		})
	}
}

func TestRenderScaffolds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		label     string
		want      string
		caretNear string
	}{
		{
			name:  "directory scaffold replaces the bare dash",
			text:  "generate:\n  inputs:\n    - ",
			label: "directory",
			want: "generate:\n" +
				"  inputs:\n" +
				"    - directory:\n" +
				"        path: \"\"\n" +
				"        root: \"\"",
			caretNear: "path: \"",
		},
		{
			name:  "git_repo scaffold fills its shape",
			text:  "generate:\n  inputs:\n    - ",
			label: "git_repo",
			want: "generate:\n" +
				"  inputs:\n" +
				"    - git_repo:\n" +
				"        url: \"\"\n" +
				"        sub_directory: \"\"\n" +
				"        root: \"\"",
			caretNear: "url: \"",
		},
		{
			name:  "command scaffold opens a sequence stub",
			text:  "generate:\n  plugins:\n    ",
			label: "command",
			want: "generate:\n" +
				"  plugins:\n" +
				"    - command:\n" +
				"        - ",
		},
		{
			name:  "mashed dash is normalized",
			text:  "generate:\n  inputs:\n    -",
			label: "directory",
			want: "generate:\n" +
				"  inputs:\n" +
				"    - directory:\n" +
				"        path: \"\"\n" +
				"        root: \"\"",
			caretNear: "path: \"",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			plan := renderAtEnd(t, test.text, test.label)
			got := apply(test.text, plan)

			if got != test.want {
				t.Errorf("applied text = %q, want %q", got, test.want)
			}

			if test.caretNear != "" {
				want := strings.Index(got, test.caretNear) + len(test.caretNear)
				if plan.Caret != want {
					t.Errorf("caret = %d, want %d (after %q)", plan.Caret, want, test.caretNear)
				}
			} else if plan.Caret != len(got) {
				t.Errorf("caret = %d, want end %d", plan.Caret, len(got))
			}
		})
	}
}

func TestRenderValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		label     string
		want      string
		caretNear string
	}{
		{
			name:  "enum literal inserts verbatim",
			text:  "version: ",
			label: "v1alpha",
			want:  "version: v1alpha",
		},
		{
			name:  "array template opens an item line",
			text:  "lint:\n  use: ",
			label: "array",
			want:  "lint:\n  use: \n    - ",
		},
		{
			name:      "url template seeds the scheme",
			text:      "generate:\n  inputs:\n    - git_repo:\n        url: ",
			label:     "url",
			want:      "generate:\n  inputs:\n    - git_repo:\n        url: \"https://\"",
			caretNear: "https://",
		},
		{
			name:  "partial enum value is replaced",
			text:  "version: v1al",
			label: "v1alpha",
			want:  "version: v1alpha",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			plan := renderAtEnd(t, test.text, test.label)
			got := apply(test.text, plan)

			if got != test.want {
				t.Errorf("applied text = %q, want %q", got, test.want)
			}

			if test.caretNear != "" {
				want := strings.Index(got, test.caretNear) + len(test.caretNear)
				if plan.Caret != want {
					t.Errorf("caret = %d, want %d (after %q)", plan.Caret, want, test.caretNear)
				}
			} else if plan.Caret != len(got) {
				t.Errorf("caret = %d, want end %d", plan.Caret, len(got))
			}
		})
	}
}

func TestRenderScalarSequenceItem(t *testing.T) {
	t.Parallel()

	plan := renderAtEnd(t, "deps:\n", "string")
	got := apply("deps:\n", plan)

	want := "deps:\n- \"\""
	if got != want {
		t.Errorf("applied text = %q, want %q", got, want)
	}

	if got[plan.Caret-1] != '"' || got[plan.Caret] != '"' {
		t.Errorf("caret %d not inside quotes of %q", plan.Caret, got)
	}
}
