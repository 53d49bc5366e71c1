package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/analysis"
	"github.com/tanglin/bufyaml/complete"
)

var (
	errNoInput     = errors.New("no input (use --file with --line/--column, or --path)")
	errNoPosition  = errors.New("no position given (use --line and --column)")
	errBadPosition = errors.New("position out of range")
	errUnknownPath = errors.New("unknown schema path")
)

func completeCommand() *cli.Command {
	return &cli.Command{
		Name:      "complete",
		Usage:     "Print completion candidates for a cursor position",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "config file to complete in ('-' for stdin)",
			},
			&cli.IntFlag{
				Name:    "line",
				Aliases: []string{"l"},
				Usage:   "cursor line (1-based)",
			},
			&cli.IntFlag{
				Name:    "column",
				Aliases: []string{"c"},
				Usage:   "cursor column (1-based)",
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "describe a schema path instead (e.g. generate.plugins[])",
			},
		},
		Action: runComplete,
	}
}

func runComplete(_ context.Context, cmd *cli.Command) error {
	if p := cmd.String("path"); p != "" {
		return describePath(p)
	}

	file := cmd.String("file")
	if file == "" {
		return errNoInput
	}

	line := int(cmd.Int("line"))
	column := int(cmd.Int("column"))

	if line < 1 || column < 1 {
		return errNoPosition
	}

	var (
		data []byte
		err  error
	)

	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
	}

	if err != nil {
		return err
	}

	text := string(data)

	offset, err := offsetAt(text, line, column)
	if err != nil {
		return fmt.Errorf("%s:%d:%d: %w", file, line, column, err)
	}

	schema := schemaForText(text)
	resolved := analysis.NewAnalyzer(schema).Resolve(text, offset)

	mode := "key"
	if resolved.IsValue {
		mode = "value"
	}

	fmt.Printf("%s %s\n", pathLabel(resolved.Path()), mode)

	for _, s := range complete.Suggest(schema, resolved) {
		if s.Kind != "" {
			fmt.Printf("%-20s %s\n", s.Label, s.Kind)
		} else {
			fmt.Println(s.Label)
		}
	}

	return nil
}

// describePath prints what the schema knows about one path.
func describePath(raw string) error {
	p, err := bufyaml.ParsePath(raw)
	if err != nil {
		return err
	}

	schema := bufyaml.DefaultSchema()

	if !schema.Known(p) {
		return fmt.Errorf("%s: %w", p, errUnknownPath)
	}

	fmt.Printf("kind: %s\n", schema.KindOf(p))

	if doc := schema.Doc(p); doc != "" {
		fmt.Printf("doc: %s\n", doc)
	}

	if keys, ok := schema.Keys(p); ok {
		fmt.Printf("keys: %s\n", strings.Join(keys, " "))
	}

	if values := schema.EnumValues(p); len(values) > 0 {
		fmt.Printf("values: %s\n", strings.Join(values, " "))
	}

	return nil
}

func pathLabel(p bufyaml.Path) string {
	if p.Empty() {
		return "."
	}

	return p.String()
}

// schemaForText picks the schema from the document's declared version
// line, falling back to the default for unknown or missing versions.
func schemaForText(text string) *bufyaml.Schema {
	for _, line := range strings.Split(text, "\n") {
		rest, ok := strings.CutPrefix(line, "version:")
		if !ok {
			continue
		}

		schema, err := bufyaml.SchemaFor(strings.Trim(strings.TrimSpace(rest), `"'`))
		if err != nil {
			break
		}

		return schema
	}

	return bufyaml.DefaultSchema()
}

// offsetAt converts a 1-based line and column to a byte offset. The
// column may sit one past the end of the line (the append position).
func offsetAt(text string, line, column int) (int, error) {
	off := 0

	for cur := 1; cur < line; cur++ {
		nl := strings.IndexByte(text[off:], '\n')
		if nl < 0 {
			return 0, errBadPosition
		}

		off += nl + 1
	}

	lineEnd := len(text)
	if nl := strings.IndexByte(text[off:], '\n'); nl >= 0 {
		lineEnd = off + nl
	}

	if off+column-1 > lineEnd {
		return 0, errBadPosition
	}

	return off + column - 1, nil
}
