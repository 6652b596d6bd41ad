package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// SessionModel manages the full flow: start screen, vehicle select, game and
// journal, then back again. It is the top-level model for local menus and
// SSH sessions.
type SessionModel struct {
	ctx      context.Context
	env      Env
	menu     MenuModel
	game     *GameModel
	replays  *ReplaysModel
	quitting bool
}

// NewSessionModel creates a new session model. Runs started from it stop
// when ctx is done.
func NewSessionModel(ctx context.Context, env Env) SessionModel {
	env = env.withDefaults()
	return SessionModel{
		ctx:  ctx,
		env:  env,
		menu: NewMenuModel(env),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.env.Runtime.ScreenW = wsm.Width
		m.env.Runtime.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.replays != nil:
		return m.updateReplays(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsReplays():
		replays := NewReplaysModel(m.env)
		m.replays = &replays
		return m, replays.Init()

	case m.menu.Selected() != nil:
		vehicle := m.menu.Selected().Vehicle
		game, err := NewGameModel(m.ctx, m.env, vehicle)
		if err != nil {
			// Only registered vehicles are listed, so this means a
			// broken registration.
			m.env.Logger.Error("start run", "vehicle", vehicle, "err", err)
			m.menu = NewMenuModel(m.env)
			return m, nil
		}
		m.game = &game
		return m, game.Init()
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(GameModel); ok {
		m.game = &game
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game = nil
		m.menu = NewMenuModel(m.env)
		m.menu.stage = stageSelect
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) updateReplays(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.replays.Update(msg)
	if replays, ok := next.(ReplaysModel); ok {
		m.replays = &replays
	}

	if m.replays.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.replays.GoingBack() {
		m.replays = nil
		m.menu = NewMenuModel(m.env)
		return m, m.menu.Init()
	}

	return m, cmd
}

// Close stops a run still in progress.
func (m SessionModel) Close() {
	if m.game != nil {
		m.game.stop()
	}
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.game != nil:
		return m.game.View()
	case m.replays != nil:
		return m.replays.View()
	}
	return m.menu.View()
}

// RunSession runs the interactive flow in the local terminal.
func RunSession(ctx context.Context, env Env) error {
	p := tea.NewProgram(NewSessionModel(ctx, env), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if m, ok := final.(SessionModel); ok {
		m.Close()
	}
	return err
}
