//nolint:testpackage // Tests need access to internal types
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/tanglin/bufyaml"
)

// recordingFormatter captures everything the watcher reports so tests
// can assert on it after the fact.
type recordingFormatter struct {
	mu      sync.Mutex
	started []string
	events  []Event
	result  *Result
}

func (f *recordingFormatter) Start(paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.started = append([]string(nil), paths...)

	return nil
}

func (f *recordingFormatter) Event(e Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, e)

	return nil
}

func (f *recordingFormatter) Summary(r *Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.result = r

	return nil
}

// terminal returns the events that describe a finished run.
func (f *recordingFormatter) terminal() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Event

	for _, e := range f.events {
		if e.Action != ActionValidate {
			out = append(out, e)
		}
	}

	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("condition not met within 5s")
}

func TestTargets(t *testing.T) {
	dir := t.TempDir()

	for _, sub := range []string{"sub", ".git"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			t.Fatal(err)
		}
	}

	for _, name := range []string{"buf.yaml", "notes.yaml", filepath.Join("sub", "buf.gen.yaml"), filepath.Join(".git", "buf.yaml")} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("version: v1alpha\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, dirs, err := Targets([]string{dir})
	if err != nil {
		t.Fatalf("Targets() error = %v", err)
	}

	wantFiles := []string{filepath.Join(dir, "buf.yaml"), filepath.Join(dir, "sub", "buf.gen.yaml")}
	if !slices.Equal(files, wantFiles) {
		t.Errorf("files = %v, want %v", files, wantFiles)
	}

	wantDirs := []string{dir, filepath.Join(dir, "sub")}
	if !slices.Equal(dirs, wantDirs) {
		t.Errorf("dirs = %v, want %v", dirs, wantDirs)
	}

	// An explicitly named file is taken as-is, recognized name or not.
	files, dirs, err = Targets([]string{filepath.Join(dir, "notes.yaml")})
	if err != nil {
		t.Fatalf("Targets() error = %v", err)
	}

	if !slices.Equal(files, []string{filepath.Join(dir, "notes.yaml")}) {
		t.Errorf("explicit files = %v", files)
	}

	if !slices.Equal(dirs, []string{dir}) {
		t.Errorf("explicit dirs = %v", dirs)
	}

	// A file named both ways is listed once.
	files, _, err = Targets([]string{dir, filepath.Join(dir, "buf.yaml")})
	if err != nil {
		t.Fatalf("Targets() error = %v", err)
	}

	if !slices.Equal(files, wantFiles) {
		t.Errorf("deduped files = %v, want %v", files, wantFiles)
	}
}

func TestTargets_Missing(t *testing.T) {
	_, _, err := Targets([]string{filepath.Join(t.TempDir(), "absent")})
	if err == nil {
		t.Error("want error for missing argument")
	}
}

func TestWatcher_NoConfigs(t *testing.T) {
	w := New(bufyaml.Config{}, &recordingFormatter{}, nil)

	err := w.Watch(context.Background(), []string{t.TempDir()})
	if !errors.Is(err, ErrNoConfigs) {
		t.Errorf("Watch() error = %v, want ErrNoConfigs", err)
	}
}

func TestWatcher_Revalidates(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buf.gen.yaml")

	if err := os.WriteFile(cfgPath, []byte("version: v1alpha\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	f := &recordingFormatter{}
	w := New(bufyaml.Config{
		Validator: bufyaml.ValidatorConfig{Bin: "sh", Args: []string{"-c", "true"}},
		Watch:     bufyaml.WatchConfig{DebounceMS: 10},
	}, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- w.Watch(ctx, []string{dir}) }()

	waitFor(t, func() bool { return len(f.terminal()) >= 1 })

	first := f.terminal()[0]
	if first.Action != ActionPass {
		t.Fatalf("initial run = %q, want %q", first.Action, ActionPass)
	}

	if first.Path != cfgPath {
		t.Errorf("initial path = %q, want %q", first.Path, cfgPath)
	}

	if err := os.WriteFile(cfgPath, []byte("version: v1alpha\ndeps: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(f.terminal()) >= 2 })

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !slices.Equal(f.started, []string{cfgPath}) {
		t.Errorf("Start paths = %v, want [%s]", f.started, cfgPath)
	}

	if f.result == nil {
		t.Fatal("Summary not called")
	}

	if f.result.Runs < 2 {
		t.Errorf("Runs = %d, want >= 2", f.result.Runs)
	}

	if !f.result.Ok() {
		t.Errorf("result not ok: %+v", f.result)
	}
}

func TestWatcher_ReportsFindings(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "buf.gen.yaml")

	if err := os.WriteFile(cfgPath, []byte("version: v1alpha\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	script := `echo '{"path":"buf.gen.yaml","start_line":3,"start_column":5,"end_line":3,"end_column":9,"type":"COMPILE","message":"unknown key"}'; exit 100`

	f := &recordingFormatter{}
	w := New(bufyaml.Config{
		Validator: bufyaml.ValidatorConfig{Bin: "sh", Args: []string{"-c", script}},
	}, f, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)

	go func() { done <- w.Watch(ctx, []string{dir}) }()

	waitFor(t, func() bool { return len(f.terminal()) >= 1 })

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	ev := f.terminal()[0]
	if ev.Action != ActionFail {
		t.Fatalf("Action = %q, want %q", ev.Action, ActionFail)
	}

	if len(ev.Diagnostics) != 1 || ev.Diagnostics[0].Message != "unknown key" {
		t.Errorf("Diagnostics = %+v", ev.Diagnostics)
	}

	if ev.Diagnostics[0].Type != "COMPILE" {
		t.Errorf("Type = %q, want COMPILE", ev.Diagnostics[0].Type)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.result == nil {
		t.Fatal("Summary not called")
	}

	if f.result.Failed != 1 || f.result.FindingErrors != 1 {
		t.Errorf("Failed/FindingErrors = %d/%d, want 1/1", f.result.Failed, f.result.FindingErrors)
	}

	if f.result.Ok() {
		t.Error("result should not be ok")
	}
}
