package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tanglin/bufyaml"
	"github.com/tanglin/bufyaml/validate"
)

// ErrNoConfigs is returned when the arguments expand to no config files.
var ErrNoConfigs = errors.New("no buf config files found")

// targetNames are the basenames recognized as buf configs.
var targetNames = []string{"buf.yaml", "buf.gen.yaml", "buf.work.yaml"}

func isTargetName(path string) bool {
	return slices.Contains(targetNames, filepath.Base(path))
}

// Targets expands file and directory arguments into the config files to
// validate and the directories to watch. Directories are walked for
// recognized config names; explicitly named files are taken as-is.
func Targets(args []string) (files, dirs []string, err error) {
	seenFile := make(map[string]bool)
	seenDir := make(map[string]bool)

	addDir := func(dir string) {
		dir = filepath.Clean(dir)
		if !seenDir[dir] {
			seenDir[dir] = true
			dirs = append(dirs, dir)
		}
	}

	addFile := func(file string) {
		file = filepath.Clean(file)
		if !seenFile[file] {
			seenFile[file] = true
			files = append(files, file)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}

		if !info.IsDir() {
			addFile(arg)
			addDir(filepath.Dir(arg))

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				// Dot directories hold no buf configs and would flood
				// the watcher with event sources.
				if strings.HasPrefix(d.Name(), ".") && filepath.Clean(path) != filepath.Clean(arg) {
					return fs.SkipDir
				}

				addDir(path)

				return nil
			}

			if isTargetName(path) {
				addFile(path)
			}

			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}

	return files, dirs, nil
}

// Watcher revalidates config files as they change.
type Watcher struct {
	validator *validate.Validator
	formatter Formatter
	debounce  time.Duration
	logger    *zap.Logger
}

// New wires a watcher from tool settings.
func New(cfg bufyaml.Config, formatter Formatter, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		validator: validate.NewValidator(cfg.Validator, logger),
		formatter: formatter,
		debounce:  cfg.Watch.Debounce(),
		logger:    logger,
	}
}

// Watch validates the targets once, then revalidates on file writes
// until the context is canceled. Writes to recognized config names
// under the watched directories are picked up as they appear.
func (w *Watcher) Watch(ctx context.Context, args []string) error {
	files, dirs, err := Targets(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoConfigs
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	defer func() { _ = fw.Close() }()

	for _, dir := range dirs {
		err := fw.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	err = w.formatter.Start(files)
	if err != nil {
		return err
	}

	w.logger.Info("watching",
		zap.Int("files", len(files)),
		zap.Int("dirs", len(dirs)))

	result := NewResult()

	for _, f := range files {
		w.runOne(ctx, f, result)
	}

	known := make(map[string]bool, len(files))
	for _, f := range files {
		known[f] = true
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
		fire    = make(chan string, 64)
	)

	// Collapse bursts of writes to the same file into one run.
	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()

		if t, ok := pending[path]; ok {
			t.Stop()
		}

		pending[path] = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()

			select {
			case fire <- path:
			case <-ctx.Done():
			}
		})
	}

	defer func() {
		mu.Lock()
		defer mu.Unlock()

		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			result.Finish()

			return w.formatter.Summary(result)

		case ev, ok := <-fw.Events:
			if !ok {
				result.Finish()

				return w.formatter.Summary(result)
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			path := filepath.Clean(ev.Name)
			if !known[path] && !isTargetName(path) {
				continue
			}

			known[path] = true

			schedule(path)

		case err, ok := <-fw.Errors:
			if !ok {
				result.Finish()

				return w.formatter.Summary(result)
			}

			w.logger.Warn("watch error", zap.Error(err))

		case path := <-fire:
			w.runOne(ctx, path, result)
		}
	}
}

// runOne validates a single file and reports the outcome.
func (w *Watcher) runOne(ctx context.Context, path string, result *Result) {
	_ = w.formatter.Event(Event{Time: time.Now(), Action: ActionValidate, Path: path})

	start := time.Now()

	var diags []validate.Diagnostic

	content, err := os.ReadFile(path) //nolint:gosec // G304: paths come from user arguments
	if err == nil {
		diags, err = w.validator.ValidateWait(ctx, path, content)
	}

	// A run killed by shutdown is not an outcome.
	if err != nil && ctx.Err() != nil {
		return
	}

	e := NewEvent(path, diags, err, time.Since(start))
	result.Add(e)
	_ = w.formatter.Event(e)
}
