package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/tanglin/bufyaml/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Revalidate buf config files as they change",
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
			&cli.IntFlag{
				Name:  "debounce",
				Usage: "debounce window in milliseconds (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "line output instead of the interactive view",
			},
		},
		Action: runWatch,
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	if bin := cmd.String("bin"); bin != "" {
		cfg.Validator.Bin = bin
	}

	if d := int(cmd.Int("debounce")); d > 0 {
		cfg.Watch.DebounceMS = d
	}

	if !cfg.Validator.Enabled() {
		return errNoValidator
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var formatter watch.Formatter

	if isatty.IsTerminal(os.Stdout.Fd()) && !cmd.Bool("plain") {
		tui := watch.NewTUIFormatter(os.Stdout)

		// Quitting the TUI ends the watch.
		go func() {
			tui.Wait()
			stop()
		}()

		formatter = tui
	} else {
		formatter = watch.NewPlainFormatter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	}

	return watch.New(cfg, formatter, nil).Watch(ctx, args)
}
