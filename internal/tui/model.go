// Package tui is the interactive editor: a slot selector, a code editor that
// saves on every change, a run action and a read-only output pane.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/codeslots/internal/runner"
	"github.com/itsmostafa/codeslots/internal/slots"
)

// outputMode is the display state of the output pane. It does not change
// when the slot changes.
type outputMode int

const (
	outputIdle outputMode = iota
	outputRunning
	outputSuccess
	outputError
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusSlot
)

type statusKind int

const (
	statusNone statusKind = iota
	statusSaved
	statusLoaded
	statusReloaded
	statusFailed
)

// Options configures the editor
type Options struct {
	Manager *slots.Manager
	Engine  runner.Engine
	// Logger receives save failures; nil discards
	Logger *slog.Logger
	// InitialSlot is loaded on start; out of range falls back to slot 1
	InitialSlot     int
	ShowLineNumbers bool
	// Changes signals that the slot document changed on disk; nil disables reloading
	Changes <-chan struct{}
}

// runResultMsg carries a finished run back to Update. seq ties it to the
// run request so a cancelled run cannot overwrite a newer one.
type runResultMsg struct {
	seq    int
	result *runner.Result
}

// documentChangedMsg reports a change to the slot document on disk
type documentChangedMsg struct{}

// Model is the bubbletea model of the editor
type Model struct {
	manager *slots.Manager
	engine  runner.Engine
	logger  *slog.Logger
	changes <-chan struct{}

	keys      keyMap
	help      help.Model
	slotInput textinput.Model
	editor    textarea.Model
	output    viewport.Model
	// source is the current slot's stored code behind the editor text
	source sourceText

	focus      focusArea
	status     string
	statusKind statusKind

	mode      outputMode
	result    *runner.Result
	cancelRun context.CancelFunc
	runSeq    int

	width    int
	height   int
	quitting bool
}

// New creates the editor and loads the initial slot
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = len(strconv.Itoa(slots.MaxSlot))
	ti.Width = ti.CharLimit + 1

	ta := textarea.New()
	ta.Placeholder = "Write code here..."
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.ShowLineNumbers = opts.ShowLineNumbers
	ta.Focus()

	m := Model{
		manager:   opts.Manager,
		engine:    opts.Engine,
		logger:    logger.With("component", "tui"),
		changes:   opts.Changes,
		keys:      defaultKeyMap(),
		help:      help.New(),
		slotInput: ti,
		editor:    ta,
		output:    viewport.New(80, 8),
		focus:     focusEditor,
		mode:      outputIdle,
	}

	initial := opts.InitialSlot
	if !slots.ValidSlot(initial) {
		initial = slots.MinSlot
	}
	m.selectSlot(initial)

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForChange(m.changes))
}

// waitForChange blocks until the next document change. It yields nothing
// once changes is closed.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return documentChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case runResultMsg:
		if msg.seq != m.runSeq || m.mode != outputRunning {
			return m, nil
		}
		m.finishRun(msg.result)
		return m, nil

	case documentChangedMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stopRun()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Run):
		cmd := m.startRun()
		return m, cmd

	case key.Matches(msg, m.keys.Cancel):
		if m.mode == outputRunning {
			m.stopRun()
			return m, nil
		}
		if m.focus == focusSlot {
			m.resetSlotInput()
			cmd := m.focusEditor()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.FocusSlot):
		cmd := m.focusSlotInput()
		return m, cmd

	case key.Matches(msg, m.keys.NextSlot):
		m.selectSlot(min(m.manager.Current()+1, slots.MaxSlot))
		return m, nil

	case key.Matches(msg, m.keys.PrevSlot):
		m.selectSlot(max(m.manager.Current()-1, slots.MinSlot))
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.output.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.output.PageDown()
		return m, nil

	case m.focus == focusEditor && key.Matches(msg, m.keys.Indent):
		before := m.editor.Value()
		m.editor.InsertString(string(tabSpaces))
		m.edited(before)
		return m, nil
	}

	if m.focus == focusSlot && key.Matches(msg, m.keys.Confirm) {
		m.confirmSlotInput()
		cmd := m.focusEditor()
		return m, cmd
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused widget and saves the editor
// text when the message changed it.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.focus == focusSlot {
		m.slotInput, cmd = m.slotInput.Update(msg)
		return m, cmd
	}

	before := m.editor.Value()
	m.editor, cmd = m.editor.Update(msg)
	m.edited(before)
	return m, cmd
}

// edited saves the editor text if it differs from before. The change is
// spliced into the stored code so characters the editor cannot show
// survive edits elsewhere.
func (m *Model) edited(before string) {
	after := m.editor.Value()
	if after == before {
		return
	}

	next, ok := m.source.splice(after)
	if !ok {
		m.logger.Debug("editor text replaces stored code", "slot", m.manager.Current())
	}
	m.source = next
	m.save(next.code)
}

// loadEditor shows code in the editor without saving it
func (m *Model) loadEditor(code string) {
	m.source = newSourceText(code)
	m.editor.SetValue(m.source.Display())
}

func (m *Model) save(code string) {
	if err := m.manager.SetCurrent(code); err != nil {
		m.logger.Error("save failed", "slot", m.manager.Current(), "error", err)
		m.setStatus(statusFailed, fmt.Sprintf("Save failed: %v", err))
		return
	}
	m.setStatus(statusSaved, "Saved")
}

// selectSlot loads slot n into the editor. Invalid numbers are ignored.
func (m *Model) selectSlot(n int) {
	code, ok := m.manager.SelectSlot(n)
	if !ok {
		m.resetSlotInput()
		return
	}
	m.loadEditor(code)
	m.resetSlotInput()
	m.setStatus(statusLoaded, fmt.Sprintf("Loaded Slot %d", n))
}

// reload picks up edits made by another process. Saves from this editor
// happen on the same goroutine, so the document read here is never older
// than the editor text.
func (m *Model) reload() {
	changed, err := m.manager.Reload()
	if err != nil {
		m.logger.Warn("ignoring unreadable slot document", "error", err)
		return
	}
	if !changed {
		return
	}

	n := m.manager.Current()
	m.loadEditor(m.manager.CurrentCode())
	m.setStatus(statusReloaded, fmt.Sprintf("Reloaded Slot %d", n))
	m.logger.Info("slot changed on disk", "slot", n)
}

func (m *Model) confirmSlotInput() {
	code, ok := m.manager.SelectInput(m.slotInput.Value())
	if !ok {
		m.resetSlotInput()
		return
	}
	n := m.manager.Current()
	m.loadEditor(code)
	m.resetSlotInput()
	m.setStatus(statusLoaded, fmt.Sprintf("Loaded Slot %d", n))
}

func (m *Model) resetSlotInput() {
	m.slotInput.SetValue(strconv.Itoa(m.manager.Current()))
	m.slotInput.CursorEnd()
}

func (m *Model) focusSlotInput() tea.Cmd {
	m.focus = focusSlot
	m.editor.Blur()
	m.slotInput.CursorEnd()
	return m.slotInput.Focus()
}

func (m *Model) focusEditor() tea.Cmd {
	m.focus = focusEditor
	m.slotInput.Blur()
	return m.editor.Focus()
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

// startRun clears the output pane and runs the editor text off the UI
// goroutine. A request while a run is in flight is dropped.
func (m *Model) startRun() tea.Cmd {
	if m.mode == outputRunning {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	m.runSeq++
	m.mode = outputRunning
	m.result = nil
	m.output.SetContent("")
	m.output.GotoTop()

	name := m.engine.Language().FileName(m.manager.Current())
	return runSnippet(ctx, m.engine, m.runSeq, name, m.source.code)
}

func runSnippet(ctx context.Context, engine runner.Engine, seq int, name, code string) tea.Cmd {
	return func() tea.Msg {
		return runResultMsg{seq: seq, result: engine.Run(ctx, name, code)}
	}
}

func (m *Model) finishRun(res *runner.Result) {
	m.stopRun()
	m.result = res
	if res.Failed {
		m.mode = outputError
	} else {
		m.mode = outputSuccess
	}
	m.renderOutput()
	m.output.GotoTop()
}

// stopRun cancels the in-flight run, if any. The engine still reports back
// with a cancellation trace, which finishRun displays.
func (m *Model) stopRun() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
}

func (m *Model) renderOutput() {
	if m.result == nil {
		m.output.SetContent("")
		return
	}

	style := outputStyle
	if m.result.Failed {
		style = traceStyle
	}
	if m.output.Width > 0 {
		style = style.Width(m.output.Width)
	}

	text := m.result.Text()
	if m.result.Truncated {
		text += "\n" + dimStyle.Render("[output truncated]")
	}
	m.output.SetContent(style.Render(text))
}

// layout splits the screen between the editor and the output pane,
// giving the editor two thirds.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	frameW, frameH := paneStyle.GetFrameSize()
	innerW := max(m.width-frameW, 10)
	m.editor.SetWidth(innerW)
	m.output.Width = innerW
	m.help.Width = m.width

	// header, two labels and the help view
	chrome := 3 + lipgloss.Height(m.help.View(m.keys)) + 2*frameH
	avail := max(m.height-chrome, 4)
	editorH := max(avail*2/3, 2)
	m.editor.SetHeight(editorH)
	m.output.Height = max(avail-editorH, 2)

	m.renderOutput()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Code Editor:"))
	b.WriteString("\n")
	editorPane := paneStyle
	if m.focus == focusEditor {
		editorPane = focusedPaneStyle
	}
	b.WriteString(editorPane.Render(m.editor.View()))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Output:"))
	if m.mode == outputRunning {
		b.WriteString(" " + runningStyle.Render("running... (esc to stop)"))
	} else if m.result != nil {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%s in %s", shortID(m.result.RunID), m.result.Duration.Round(time.Millisecond))))
	}
	b.WriteString("\n")
	outputPane := paneStyle
	if m.mode == outputError {
		outputPane = errorPaneStyle
	}
	b.WriteString(outputPane.Render(m.output.View()))
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderHeader() string {
	slotLabel := dimStyle.Render(fmt.Sprintf("Slot (%d-%d):", slots.MinSlot, slots.MaxSlot))
	if m.focus == focusSlot {
		slotLabel = titleStyle.Render(fmt.Sprintf("Slot (%d-%d):", slots.MinSlot, slots.MaxSlot))
	}

	var status string
	switch m.statusKind {
	case statusSaved:
		status = savedStyle.Render(m.status)
	case statusLoaded, statusReloaded:
		status = loadedStyle.Render(m.status)
	case statusFailed:
		status = failedStyle.Render(m.status)
	}

	lang := dimStyle.Render(string(m.engine.Language()))
	run := runButtonStyle.Render("▶ Run (ctrl+r)")

	return lipgloss.JoinHorizontal(lipgloss.Center,
		slotLabel, " ", m.slotInput.View(), "  ", lang, "  ", status, "  ", run)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Run starts the editor in the alternate screen and blocks until it quits
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.stopRun()
	}
	return err
}
