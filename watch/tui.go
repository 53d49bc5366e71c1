package watch

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/tanglin/bufyaml/validate"
)

// TUIFormatter implements Formatter with an animated terminal UI.
type TUIFormatter struct {
	program  *tea.Program
	model    *tuiModel
	w        io.Writer
	mu       sync.Mutex
	started  chan struct{}
	finished bool
}

// NewTUIFormatter creates a TUI formatter. The program starts on Start.
func NewTUIFormatter(w io.Writer) *TUIFormatter {
	return &TUIFormatter{
		w:       w,
		started: make(chan struct{}),
	}
}

// Start seeds the file list and launches the interactive program.
func (t *TUIFormatter) Start(paths []string) error {
	t.model = newTUIModel(paths)

	opts := []tea.ProgramOption{
		tea.WithOutput(t.w),
		tea.WithoutSignalHandler(),
		tea.WithAltScreen(), // animation stays out of scrollback
	}

	// Only use input if we have a TTY
	if f, ok := t.w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		opts = append(opts, tea.WithInput(nil))
	}

	t.program = tea.NewProgram(t.model, opts...)
	close(t.started)

	go func() {
		_, _ = t.program.Run()
	}()

	// Give the program a moment to initialize
	time.Sleep(20 * time.Millisecond)

	return nil
}

// Event sends a validation step to the TUI.
func (t *TUIFormatter) Event(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.finished || t.program == nil {
		return nil
	}

	t.program.Send(eventMsg(e))

	return nil
}

// Summary shuts the program down and renders the final static output.
func (t *TUIFormatter) Summary(r *Result) error {
	t.mu.Lock()
	t.finished = true
	program := t.program
	t.mu.Unlock()

	if program == nil {
		return nil
	}

	program.Send(doneMsg{result: r})
	program.Wait()

	// The TUI used the alternate screen, so exiting it returns us to
	// the main screen with clean scrollback.
	_, err := io.WriteString(os.Stdout, t.model.FinalView()+"\n")

	return err
}

// Wait blocks until the interactive program exits, typically on ESC.
func (t *TUIFormatter) Wait() {
	<-t.started
	t.program.Wait()
}

// fileState tracks where a config file is in its validation lifecycle.
type fileState int

const (
	filePending fileState = iota
	fileValidating
	filePass
	fileFail
	fileError
)

type fileEntry struct {
	path     string
	state    fileState
	elapsed  time.Duration
	errs     int
	warnings int
	err      error
}

// Messages.
type (
	eventMsg Event
	doneMsg  struct{ result *Result }
)

// tuiModel is the bubbletea model for the watch UI.
type tuiModel struct {
	styles  *Styles
	spinner spinner.Model

	files []*fileEntry
	idx   map[string]*fileEntry

	width  int
	height int

	startTime   time.Time
	finalResult *Result
	isDone      bool
}

func newTUIModel(paths []string) *tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: SpinnerFrames(),
		FPS:    time.Second / 10,
	}
	s.Style = DefaultStyles().Running

	files := make([]*fileEntry, 0, len(paths))
	idx := make(map[string]*fileEntry, len(paths))

	for _, p := range paths {
		entry := &fileEntry{path: p}
		files = append(files, entry)
		idx[p] = entry
	}

	return &tuiModel{
		styles:    DefaultStyles(),
		spinner:   s,
		files:     files,
		idx:       idx,
		width:     80,
		height:    24,
		startTime: time.Now(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn // bubbletea.Model interface required by tea.Program
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case spinner.TickMsg:
		if !m.isDone {
			var cmd tea.Cmd

			m.spinner, cmd = m.spinner.Update(msg)

			return m, cmd
		}

	case eventMsg:
		m.handleEvent(Event(msg))

	case doneMsg:
		m.isDone = true
		m.finalResult = msg.result

		return m, tea.Quit
	}

	return m, nil
}

func (m *tuiModel) handleEvent(e Event) { //nolint:funcorder
	entry, ok := m.idx[e.Path]
	if !ok {
		// A config that appeared after startup.
		entry = &fileEntry{path: e.Path}
		m.files = append(m.files, entry)
		m.idx[e.Path] = entry
	}

	switch e.Action {
	case ActionValidate:
		entry.state = fileValidating

	case ActionPass:
		entry.state = filePass
		entry.elapsed = e.Elapsed
		entry.errs, entry.warnings = validate.Count(e.Diagnostics)

	case ActionFail:
		entry.state = fileFail
		entry.elapsed = e.Elapsed
		entry.errs, entry.warnings = validate.Count(e.Diagnostics)

	case ActionError:
		entry.state = fileError
		entry.elapsed = e.Elapsed
		entry.err = e.Err
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for _, entry := range m.files {
		b.WriteString(m.renderFile(entry, false))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCounts())
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("  Press ESC or q to quit"))
	b.WriteString("\n")

	return b.String()
}

// FinalView renders the complete output for printing after the TUI
// exits: no spinner, no key hint.
func (m *tuiModel) FinalView() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for _, entry := range m.files {
		b.WriteString(m.renderFile(entry, true))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCounts())

	return b.String()
}

func (m *tuiModel) renderHeader() string {
	logo := m.styles.Bold.Render("bufyaml")
	subtitle := m.styles.Dim.Render(" watch")

	var status string

	switch {
	case m.isDone && m.finalResult != nil && !m.finalResult.Ok():
		status = m.styles.Fail.Render("FAIL")
	case m.isDone:
		status = m.styles.Pass.Render("PASS")
	default:
		validating := m.countValidating()
		if validating > 0 {
			status = m.styles.Running.Render(fmt.Sprintf("validating %d", validating))
		} else {
			status = m.styles.Dim.Render("watching")
		}
	}

	return fmt.Sprintf("%s%s  %s", logo, subtitle, status)
}

func (m *tuiModel) countValidating() int {
	count := 0

	for _, entry := range m.files {
		if entry.state == fileValidating {
			count++
		}
	}

	return count
}

func (m *tuiModel) renderFile(entry *fileEntry, static bool) string {
	var symbol, note string

	switch entry.state {
	case filePending:
		symbol = m.styles.Dim.Render(m.styles.SymbolPending)

	case fileValidating:
		if static {
			symbol = m.styles.Dim.Render(m.styles.SymbolPending)
		} else {
			symbol = m.spinner.View()
		}

	case filePass:
		symbol = m.styles.Pass.Render(m.styles.SymbolPass)
		note = m.styles.Duration.Render(fmt.Sprintf(" (%s)", formatElapsed(entry.elapsed)))

		if entry.warnings > 0 {
			note += m.styles.Warn.Render(fmt.Sprintf("  %d warnings", entry.warnings))
		}

	case fileFail:
		symbol = m.styles.Fail.Render(m.styles.SymbolFail)
		note = m.styles.Fail.Render(fmt.Sprintf("  %d errors", entry.errs))

		if entry.warnings > 0 {
			note += m.styles.Warn.Render(fmt.Sprintf(", %d warnings", entry.warnings))
		}

	case fileError:
		symbol = m.styles.Fail.Render(m.styles.SymbolFail)
		note = m.styles.Muted.Render(fmt.Sprintf("  %v", entry.err))
	}

	return fmt.Sprintf("  %s %s%s", symbol, m.styles.Path.Render(entry.path), note)
}

func (m *tuiModel) renderCounts() string {
	var passed, failed, errored int

	for _, entry := range m.files {
		switch entry.state {
		case filePass:
			passed++
		case fileFail:
			failed++
		case fileError:
			errored++
		case filePending, fileValidating:
		}
	}

	line := fmt.Sprintf("  %d passed, %d failed, %d errors", passed, failed, errored)

	if m.finalResult != nil {
		line += fmt.Sprintf(" (%d runs)", m.finalResult.Runs)
	}

	return m.styles.Muted.Render(line)
}
