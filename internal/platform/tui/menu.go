package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/registry"
)

// MenuItem represents a selectable vehicle.
type MenuItem struct {
	Vehicle string
	Title   string
	Detail  string
	Runs    int
}

type menuStage int

const (
	stageStart menuStage = iota
	stageSelect
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// MenuModel is the start screen followed by the vehicle picker.
type MenuModel struct {
	items       []MenuItem
	stage       menuStage
	cursor      int
	width       int
	height      int
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *MenuItem
	openReplays bool
}

// NewMenuModel lists the registered vehicles with their journal counts.
func NewMenuModel(env Env) MenuModel {
	env = env.withDefaults()

	counts := map[string]int{}
	if env.Store != nil {
		c, err := env.Store.CountRuns()
		if err != nil {
			env.Logger.Warn("count runs", "err", err)
		} else {
			counts = c
		}
	}

	vehicles := registry.List()
	items := make([]MenuItem, 0, len(vehicles))
	for _, v := range vehicles {
		item := MenuItem{Vehicle: v.ID, Title: v.Title, Runs: counts[v.ID]}
		if vc, err := env.Config.Vehicle(v.ID); err == nil {
			item.Detail = describe(vc)
		}
		items = append(items, item)
	}

	return MenuModel{
		items:  items,
		width:  env.Runtime.ScreenW,
		height: env.Runtime.ScreenH,
		keys:   DefaultMenuKeyMap(),
		help:   help.New(),
	}
}

// describe summarizes how a vehicle plays.
func describe(vc config.VehicleConfig) string {
	parts := make([]string, 0, 3)
	if vc.Steering == config.SteeringPosition {
		parts = append(parts, "shifts on the road")
	} else {
		parts = append(parts, "left/right sets speed")
	}
	if vc.Lives {
		parts = append(parts, "has lives")
	} else {
		parts = append(parts, "one hit ends it")
	}
	if vc.GasMode == config.GasDock {
		parts = append(parts, "station waits")
	}
	return strings.Join(parts, ", ")
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Replays):
		m.openReplays = true
		return m, nil
	}

	if m.stage == stageStart {
		if key.Matches(msg, m.keys.Select) {
			m.stage = stageSelect
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.stage = stageStart

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("T A N K E R   R U N"), m.width))
	b.WriteString("\n\n")

	if m.stage == stageStart {
		b.WriteString(centerText("Haul the cargo to the gas station. Dodge the heat.", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText("Press Enter to start", m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(menuDimStyle.Render("Tab: replays  |  Q: quit"), m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(centerText("Choose your vehicle", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %-12s %s", item.Title, menuDimStyle.Render(item.Detail))
		if item.Runs > 0 {
			line += menuDimStyle.Render(fmt.Sprintf("  (%d runs)", item.Runs))
		}
		if i == m.cursor {
			line = menuCursorStyle.Render("> ") + line[2:]
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen vehicle, or nil if none was chosen.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsReplays returns true if user asked for the replay journal.
func (m MenuModel) WantsReplays() bool {
	return m.openReplays
}

// centerText centers text within width, measuring its printed cells.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
