package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tanker-run/internal/registry"
	"github.com/vovakirdan/tanker-run/internal/replay"
	"github.com/vovakirdan/tanker-run/internal/storage"
)

// maxRuns is how many journal rows the browser loads.
const maxRuns = 100

// ReplaysKeyMap defines the key bindings for the replay journal.
type ReplaysKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Verify key.Binding
	Delete key.Binding
	Next   key.Binding
	Prev   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplaysKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Verify, k.Delete, k.Next, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplaysKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Verify, k.Delete, k.Back, k.Quit},
	}
}

// DefaultReplaysKeyMap returns default key bindings.
func DefaultReplaysKeyMap() ReplaysKeyMap {
	return ReplaysKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Verify: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "verify"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next vehicle"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev vehicle"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplaysModel browses the run journal and re-verifies stored replays.
type ReplaysModel struct {
	env       Env
	filters   []string // "" means every vehicle
	filter    int
	runs      []storage.RunEntry
	table     table.Model
	help      help.Model
	keys      ReplaysKeyMap
	status    string
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewReplaysModel creates the journal browser.
func NewReplaysModel(env Env) ReplaysModel {
	env = env.withDefaults()

	filters := []string{""}
	for _, v := range registry.List() {
		filters = append(filters, v.ID)
	}

	m := ReplaysModel{
		env:     env,
		filters: filters,
		help:    help.New(),
		keys:    DefaultReplaysKeyMap(),
		width:   env.Runtime.ScreenW,
		height:  env.Runtime.ScreenH,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *ReplaysModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Vehicle", Width: 8},
		{Title: "Outcome", Width: 10},
		{Title: "Distance", Width: 9},
		{Title: "Lives", Width: 6},
		{Title: "Ticks", Width: 7},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the journal for the current filter.
func (m *ReplaysModel) load() {
	m.runs = nil
	if m.env.Store == nil {
		m.status = "no run journal open"
	} else if runs, err := m.env.Store.ListRuns(m.filters[m.filter], maxRuns); err != nil {
		m.status = "load failed: " + err.Error()
	} else {
		m.runs = runs
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			strconv.FormatInt(r.ID, 10),
			r.Vehicle,
			strings.ReplaceAll(r.Phase, "_", " "),
			strconv.Itoa(r.Distance),
			strconv.Itoa(r.Lives),
			strconv.FormatUint(r.Ticks, 10),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m ReplaysModel) current() (storage.RunEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.runs) {
		return storage.RunEntry{}, false
	}
	return m.runs[i], true
}

// verify re-simulates the selected run and reports whether it matches.
func (m *ReplaysModel) verify() {
	entry, ok := m.current()
	if !ok {
		return
	}
	full, err := m.env.Store.LoadRun(entry.ID)
	if err != nil {
		m.status = fmt.Sprintf("run %d: %v", entry.ID, err)
		return
	}
	rep, err := replay.Decode(full.Replay)
	if err != nil {
		m.status = fmt.Sprintf("run %d: %v", entry.ID, err)
		return
	}

	s, err := replay.Verify(rep)
	switch {
	case errors.Is(err, replay.ErrMismatch):
		m.status = fmt.Sprintf("run %d diverged: %v", entry.ID, err)
	case err != nil:
		m.status = fmt.Sprintf("run %d: %v", entry.ID, err)
	default:
		m.status = fmt.Sprintf("run %d verified: %s at %d after %d ticks",
			entry.ID, s.Phase, s.Distance, s.Tick)
	}
}

func (m *ReplaysModel) remove() {
	entry, ok := m.current()
	if !ok {
		return
	}
	if err := m.env.Store.DeleteRun(entry.ID); err != nil {
		m.status = fmt.Sprintf("run %d: %v", entry.ID, err)
		return
	}
	m.load()
	m.status = fmt.Sprintf("run %d deleted", entry.ID)
}

// Init initializes the replays model.
func (m ReplaysModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the journal browser.
func (m ReplaysModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.filter = (m.filter + 1) % len(m.filters)
			m.status = ""
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.filter = (m.filter + len(m.filters) - 1) % len(m.filters)
			m.status = ""
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Verify):
			m.verify()
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			m.remove()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the journal.
func (m ReplaysModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "RUN JOURNAL - all vehicles"
	if v := m.filters[m.filter]; v != "" {
		title = "RUN JOURNAL - " + v
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if len(m.runs) == 0 {
		b.WriteString(tableStyle.Render("No runs yet. Finish a delivery to fill the journal."))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(" " + m.status + "\n")
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// IsQuitting returns true if user requested to quit.
func (m ReplaysModel) IsQuitting() bool {
	return m.quitting
}

// GoingBack returns true if user pressed back.
func (m ReplaysModel) GoingBack() bool {
	return m.goingBack
}

// Status returns the last verify or delete message.
func (m ReplaysModel) Status() string {
	return m.status
}

// RunReplays runs the journal browser on its own.
func RunReplays(env Env) error {
	p := tea.NewProgram(replaysApp{NewReplaysModel(env)}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// replaysApp exits the program when the browser goes back.
type replaysApp struct {
	ReplaysModel
}

func (a replaysApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.ReplaysModel.Update(msg)
	if m, ok := next.(ReplaysModel); ok {
		a.ReplaysModel = m
	}
	if a.GoingBack() {
		return a, tea.Quit
	}
	return a, cmd
}
