package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tanker-run/internal/audio"
	"github.com/vovakirdan/tanker-run/internal/config"
	"github.com/vovakirdan/tanker-run/internal/core"
	"github.com/vovakirdan/tanker-run/internal/games/delivery"
	"github.com/vovakirdan/tanker-run/internal/registry"
	"github.com/vovakirdan/tanker-run/internal/replay"
	"github.com/vovakirdan/tanker-run/internal/session"
	"github.com/vovakirdan/tanker-run/internal/storage"
)

// Env carries what every screen needs. Store and Audio are optional.
type Env struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store
	Audio   *audio.Engine
	Logger  *log.Logger

	// Ticks replaces the simulation wall clock when set.
	Ticks <-chan time.Time
}

func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	if e.Audio == nil {
		e.Audio = audio.New(nil, e.Logger)
	}
	if e.Runtime.ScreenW == 0 || e.Runtime.ScreenH == 0 {
		rt := core.DefaultConfig()
		e.Runtime.ScreenW, e.Runtime.ScreenH = rt.ScreenW, rt.ScreenH
	}
	if d := e.Config.Timing.TickDuration(); d > 0 {
		e.Runtime.TickDuration = d
	}
	return e
}

// journal returns the finish hook that stores a run and its replay.
func (e Env) journal() func(delivery.Snapshot, replay.Replay) {
	return func(s delivery.Snapshot, rep replay.Replay) {
		if e.Store == nil {
			return
		}
		data, err := replay.Encode(rep)
		if err != nil {
			e.Logger.Warn("encode replay", "vehicle", rep.Vehicle, "err", err)
			return
		}
		id, err := e.Store.SaveRun(storage.RunEntry{
			Vehicle:  rep.Vehicle,
			Seed:     rep.Seed,
			Phase:    rep.Outcome.Phase,
			Distance: rep.Outcome.Distance,
			Lives:    rep.Outcome.Lives,
			Ticks:    rep.Outcome.Ticks,
			Replay:   data,
		})
		if err != nil {
			e.Logger.Warn("save run", "vehicle", rep.Vehicle, "err", err)
			return
		}
		e.Logger.Info("run saved", "id", id, "vehicle", rep.Vehicle, "phase", s.Phase)
	}
}

// GameModel drives one vehicle's session and draws its snapshots.
type GameModel struct {
	env        Env
	run        *session.Run
	view       uint64
	screen     *core.Screen
	snap       delivery.Snapshot
	keys       GameKeyMap
	help       help.Model
	exitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates the vehicle's game and starts its session.
// The session runs until the model quits or goes back to the menu.
func NewGameModel(ctx context.Context, env Env, vehicle string) (GameModel, error) {
	env = env.withDefaults()

	g, err := registry.Create(vehicle)
	if err != nil {
		return GameModel{}, err
	}
	sim, ok := g.(session.Simulation)
	if !ok {
		return GameModel{}, fmt.Errorf("tui: %s cannot run in a session", vehicle)
	}

	rt := env.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	run := session.Start(ctx, sim, rt, session.Options{
		Ticks:    env.Ticks,
		Logger:   env.Logger,
		OnEvents: env.Audio.HandleEvents,
		OnFinish: env.journal(),
	})
	env.Audio.Start()

	return GameModel{
		env:    env,
		run:    run,
		view:   nextView(),
		screen: core.NewScreen(rt.ScreenW, rt.ScreenH-1),
		snap:   run.Snapshot(),
		keys:   DefaultGameKeyMap(),
		help:   help.New(),
	}, nil
}

// Init starts the frame loop.
func (m GameModel) Init() tea.Cmd {
	return frameCmd(m.view)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case FrameMsg:
		if msg.view != m.view || m.quitting || m.backToMenu {
			return m, nil
		}
		m.snap = m.run.Snapshot()
		return m, frameCmd(m.view)
	}

	return m, nil
}

// handleKey forwards intents to the session. Quit always works; going back
// to the menu only once the run ended or while it is paused.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if key.Matches(msg, m.keys.Mute) {
		muted := m.env.Audio.ToggleMute()
		m.env.Logger.Debug("mute toggled", "muted", muted)
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionNone:
		return m, nil

	case core.ActionQuit:
		m.stop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		snap := m.run.Snapshot()
		if !snap.Ended() && !snap.Paused {
			return m, nil
		}
		m.stop()
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
		return m, nil

	default:
		m.run.OnInput(a)
		return m, nil
	}
}

func (m GameModel) stop() {
	m.run.Stop()
	m.env.Audio.Close()
}

// saveScreenshot writes the current frame as plain text.
func (m GameModel) saveScreenshot() {
	delivery.Draw(m.screen, m.snap)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".tanker-run", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.snap.Vehicle, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the latest snapshot and a help line.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	delivery.Draw(m.screen, m.snap)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Snapshot returns the snapshot shown by the last frame.
func (m GameModel) Snapshot() delivery.Snapshot {
	return m.snap
}

// IsQuitting returns true if the user quit.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user asked for the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single vehicle; going back to the menu exits.
func Run(ctx context.Context, env Env, vehicle string) error {
	model, err := NewGameModel(ctx, env, vehicle)
	if err != nil {
		return err
	}
	model.exitOnBack = true
	defer model.stop()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
