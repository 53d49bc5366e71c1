package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/expr-lang/expr"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/validate"
	"github.com/tanglin/bufyaml/watch"
)

var (
	errNoValidator = errors.New("no validator configured (set validator.bin in .bufyaml.yaml or use --bin)")
	errExprNotBool = errors.New("--fail-if must evaluate to a boolean")
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate buf config files once and exit",
		ArgsUsage: "[files or directories...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "settings file (overrides discovery)",
			},
			&cli.StringFlag{
				Name:  "bin",
				Usage: "validator binary (overrides config)",
			},
			&cli.StringFlag{
				Name:  "fail-if",
				Usage: "fail when this expression is true (e.g. 'warnings > 0')",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	files, _, err := watch.Targets(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return watch.ErrNoConfigs
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if bin := cmd.String("bin"); bin != "" {
		cfg.Validator.Bin = bin
	}

	if !cfg.Validator.Enabled() {
		return errNoValidator
	}

	validator := validate.NewValidator(cfg.Validator, nil)
	formatter := watch.NewPlainFormatter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	result := watch.NewResult()

	for _, file := range files {
		start := time.Now()

		content, err := os.ReadFile(file) //nolint:gosec // G304: file path from user input is expected
		if err != nil {
			ev := watch.NewEvent(file, nil, err, time.Since(start))
			result.Add(ev)

			if err := formatter.Event(ev); err != nil {
				return err
			}

			continue
		}

		diags, err := validator.ValidateWait(ctx, file, content)

		ev := watch.NewEvent(file, diags, err, time.Since(start))
		result.Add(ev)

		if err := formatter.Event(ev); err != nil {
			return err
		}
	}

	result.Finish()

	err = formatter.Summary(result)
	if err != nil {
		return err
	}

	if failIf := cmd.String("fail-if"); failIf != "" {
		triggered, err := evalFailIf(failIf, map[string]any{
			"errors":   result.FindingErrors,
			"warnings": result.FindingWarnings,
			"files":    len(files),
		})
		if err != nil {
			return err
		}

		if triggered {
			fmt.Fprintf(os.Stderr, "fail-if triggered: %s\n", failIf)

			return cli.Exit("", 1)
		}
	}

	if !result.Ok() {
		return cli.Exit("", 1)
	}

	return nil
}

// evalFailIf evaluates a --fail-if expression against the run totals.
func evalFailIf(exprStr string, env map[string]any) (bool, error) {
	program, err := expr.Compile(exprStr, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("compile --fail-if %q: %w", exprStr, err)
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate --fail-if %q: %w", exprStr, err)
	}

	triggered, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", errExprNotBool, exprStr, output)
	}

	return triggered, nil
}

// loadSettings loads tool settings from --config, or discovers them
// from the working directory. Running without settings is fine.
func loadSettings(cmd *cli.Command) (bufyaml.Config, error) {
	if path := cmd.String("config"); path != "" {
		cfg, err := bufyaml.LoadConfigFile(path)
		if err != nil {
			return bufyaml.Config{}, err
		}

		return *cfg, nil
	}

	cfg, err := bufyaml.LoadConfig(".")
	if errors.Is(err, bufyaml.ErrConfigNotFound) {
		return bufyaml.Config{}, nil
	}

	if err != nil {
		return bufyaml.Config{}, err
	}

	return *cfg, nil
}
