// Package ui provides the Bubble Tea terminal front end for the annotator.
// It translates keystrokes into store commands and paints the prompt panel;
// all domain rules live behind the store.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appsave "github.com/acustudio/acu-annotator/internal/app"
	"github.com/acustudio/acu-annotator/internal/config"
	"github.com/acustudio/acu-annotator/internal/registry"
	"github.com/acustudio/acu-annotator/internal/state"
)

const (
	tickInterval    = 500 * time.Millisecond
	defaultToastTTL = 2 * time.Second
	shortToastTTL   = 800 * time.Millisecond
	zoomStep        = 1.1
)

// Options configures the UI.
type Options struct {
	Store    *state.Store
	Registry *registry.Registry
	Saver    *appsave.Saver
	Config   *config.Config
}

// toast is a transient status message with an expiry.
type toast struct {
	message string
	expires time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	store    *state.Store
	registry *registry.Registry
	saver    *appsave.Saver
	cfg      *config.Config

	// UI state
	keys        keyMap
	styles      styles
	width       int
	height      int
	ready       bool
	tokenBuffer string
	tokenActive bool
	toasts      []toast

	// Autosave state
	lastAutosaveTry time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	return Model{
		store:           opts.Store,
		registry:        opts.Registry,
		saver:           opts.Saver,
		cfg:             opts.Config,
		keys:            DefaultKeyMap(),
		styles:          defaultStyles(),
		lastAutosaveTry: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case saveResultMsg:
		if msg.err != nil {
			m.toast(msg.err.Error(), defaultToastTTL)
		} else {
			m.toast("Saved "+filepath.Base(msg.path), defaultToastTTL)
		}
		return m, nil

	case autosaveResultMsg:
		if msg.err != nil {
			m.toast("Autosave failed: "+msg.err.Error(), defaultToastTTL)
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input with global keys first, then the
// bindings for the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.store.State()
	editing := st.Mode == state.ModeFieldEditing && st.Editing != nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Save):
		return m, saveCmd(m.saver)

	case key.Matches(msg, m.keys.Undo):
		m.store.Undo()
		return m, nil

	case key.Matches(msg, m.keys.Redo):
		m.store.Redo()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.applyAndToastPage(state.NavPage{Delta: -1})
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.applyAndToastPage(state.NavPage{Delta: +1})
		return m, nil

	case key.Matches(msg, m.keys.PrevSec):
		m.apply(state.PrevSection{})
		m.toastActiveSection()
		return m, nil

	case key.Matches(msg, m.keys.NextSec):
		m.apply(state.NextSection{})
		m.toastActiveSection()
		return m, nil

	case key.Matches(msg, m.keys.ZoomOff) && !editing:
		m.applyZoom(1.0)
		return m, nil
	}

	if editing {
		return m.handleEditingKey(msg)
	}
	return m.handleSectionKey(msg, st)
}

// handleEditingKey processes keys while a component draft is open.
func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.apply(state.NextField{})
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.apply(state.PrevField{})
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.apply(state.CommitComponent{})
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.apply(state.CancelDraft{})
		m.toast("Canceled draft", shortToastTTL)
		return m, nil
	}

	if ch := printableRune(msg); ch != "" {
		m.apply(state.SetFieldValue{Value: ch, AutoAdvance: true})
	}
	return m, nil
}

// handleSectionKey processes keys while no draft is open: token entry,
// section creation and zoom.
func (m Model) handleSectionKey(msg tea.KeyMsg, st state.AppState) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		if m.tokenActive {
			m.submitToken()
		} else {
			m.createSection(st)
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearTok):
		m.tokenBuffer = ""
		m.tokenActive = false
		return m, nil

	case m.tokenActive && key.Matches(msg, m.keys.Backspace):
		m.tokenBuffer = m.tokenBuffer[:len(m.tokenBuffer)-1]
		if m.tokenBuffer == "" {
			m.tokenActive = false
		}
		return m, nil

	case key.Matches(msg, m.keys.ZoomIn):
		m.applyZoom(st.PDF.Zoom * zoomStep)
		return m, nil

	case key.Matches(msg, m.keys.ZoomOut):
		m.applyZoom(st.PDF.Zoom / zoomStep)
		return m, nil
	}

	if ch := printableRune(msg); ch != "" {
		m.tokenBuffer += ch
		m.tokenActive = true
	}
	return m, nil
}

// handleTick prunes expired toasts and triggers autosave when due.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if t.expires.After(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept

	cmds := []tea.Cmd{tickCmd()}
	if m.cfg != nil && m.cfg.AutosaveEnabled &&
		now.Sub(m.lastAutosaveTry) >= time.Duration(m.cfg.AutosaveSeconds)*time.Second {
		m.lastAutosaveTry = now
		cmds = append(cmds, autosaveCmd(m.saver))
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	st := m.store.State()
	hud := buildHUD(st, m.registry, m.tokenBuffer, m.tokenActive, m.toastMessages())

	var b strings.Builder
	for _, msg := range hud.Toasts {
		b.WriteString(m.styles.Toast.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString(m.renderCanvas(st, len(hud.Toasts)))
	b.WriteString("\n")
	b.WriteString(m.renderPanel(hud))
	return b.String()
}

// renderCanvas fills the space above the panel. Terminal cells cannot show
// the page image, so it paints the document identity instead.
func (m Model) renderCanvas(st state.AppState, toastLines int) string {
	body := "No PDF open"
	if st.PDF.Path != "" {
		body = fmt.Sprintf("%s  (page %d of %d)", filepath.Base(st.PDF.Path), st.PDF.Page+1, st.PDF.PageCount)
	}

	height := m.height - panelHeight - toastLines - 1
	if height < 1 {
		height = 1
	}
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, m.styles.Canvas.Render(body))
}

const panelHeight = 6

func (m Model) renderPanel(hud HudModel) string {
	var lines []string
	lines = append(lines, m.styles.Title.Render(hud.Title))

	if len(hud.Fields) > 0 {
		chips := make([]string, 0, len(hud.Fields))
		for _, chip := range hud.Fields {
			label := chip.Name + " = " + chip.Value
			if chip.Active {
				chips = append(chips, m.styles.ActiveChip.Render(label))
			} else {
				chips = append(chips, m.styles.Chip.Render(label))
			}
		}
		lines = append(lines, strings.Join(chips, " "))
	}
	if len(hud.Hints) > 0 {
		lines = append(lines, m.styles.Hint.Render("Hints: "+strings.Join(hud.Hints, " • ")))
	}
	if hud.TokenUI != "" {
		lines = append(lines, m.styles.Token.Render(hud.TokenUI))
	}
	lines = append(lines, m.styles.Foot.Render(hud.Foot))

	panel := m.styles.Panel.Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
}

// apply dispatches a command and surfaces any reducer error as a toast.
func (m *Model) apply(cmd state.Command) {
	if _, err := m.store.Apply(cmd); err != nil {
		m.toast(err.Error(), defaultToastTTL)
	}
}

func (m *Model) applyAndToastPage(cmd state.Command) {
	m.apply(cmd)
	st := m.store.State()
	pageCount := st.PDF.PageCount
	if pageCount < 1 {
		pageCount = 1
	}
	m.toast(fmt.Sprintf("Page %d/%d", st.PDF.Page+1, pageCount), shortToastTTL)
}

func (m *Model) applyZoom(zoom float64) {
	m.apply(state.SetZoom{Zoom: zoom})
	m.toast(fmt.Sprintf("Zoom %d%%", int(m.store.State().PDF.Zoom*100)), shortToastTTL)
}

func (m *Model) toastActiveSection() {
	st := m.store.State()
	if sec := st.ActiveSection(); sec != nil {
		m.toast(fmt.Sprintf("Section S%d", sec.Number), shortToastTTL)
	}
}

func (m *Model) submitToken() {
	tok := strings.TrimSpace(m.tokenBuffer)
	m.tokenBuffer = ""
	m.tokenActive = false
	if tok == "" {
		return
	}
	if _, err := m.store.Apply(state.StartComponent{Token: tok}); err != nil {
		m.toast(fmt.Sprintf("Unknown component '%s'", tok), defaultToastTTL)
	}
}

func (m *Model) createSection(st state.AppState) {
	number := 1
	if n := len(st.Sections); n > 0 {
		number = st.Sections[n-1].Number + 1
	}
	name := fmt.Sprintf("S%d", number)
	m.apply(state.NewSection{Name: name})
	m.tokenBuffer = ""
	m.tokenActive = false
	m.toast("New section: "+name, shortToastTTL)
}

func (m *Model) toast(message string, ttl time.Duration) {
	m.toasts = append(m.toasts, toast{message: message, expires: time.Now().Add(ttl)})
}

func (m Model) toastMessages() []string {
	now := time.Now()
	var out []string
	for _, t := range m.toasts {
		if t.expires.After(now) {
			out = append(out, t.message)
		}
	}
	return out
}

// printableRune returns the single printable character a key press carries,
// or empty for control and navigation keys.
func printableRune(msg tea.KeyMsg) string {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return ""
	}
	ch := strings.TrimSpace(string(msg.Runes))
	return ch
}

// Messages

type tickMsg time.Time

type saveResultMsg struct {
	path string
	err  error
}

type autosaveResultMsg struct {
	path string
	err  error
}

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func saveCmd(saver *appsave.Saver) tea.Cmd {
	return func() tea.Msg {
		path, err := saver.Save()
		return saveResultMsg{path: path, err: err}
	}
}

func autosaveCmd(saver *appsave.Saver) tea.Cmd {
	return func() tea.Msg {
		path, err := saver.Autosave()
		return autosaveResultMsg{path: path, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
