package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tanker-run/internal/core"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGameKeyMapAction(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionMoveUp},
		{"w", runes("w"), core.ActionMoveUp},
		{"arrow down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionMoveDown},
		{"s", runes("s"), core.ActionMoveDown},
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionMoveLeft},
		{"a", runes("a"), core.ActionMoveLeft},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight},
		{"d", runes("d"), core.ActionMoveRight},
		{"plus", runes("+"), core.ActionAccelerate},
		{"equals", runes("="), core.ActionAccelerate},
		{"minus", runes("-"), core.ActionDecelerate},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionFire},
		{"f", runes("f"), core.ActionFire},
		{"p", runes("p"), core.ActionPause},
		{"r", runes("r"), core.ActionRestart},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack},
		{"b", runes("b"), core.ActionBack},
		{"q", runes("q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runes("z"), core.ActionNone},
		{"mute has no intent", runes("m"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestKeyMapsHaveHelp(t *testing.T) {
	if got := len(DefaultGameKeyMap().ShortHelp()); got == 0 {
		t.Error("game short help is empty")
	}
	for _, group := range DefaultGameKeyMap().FullHelp() {
		for _, b := range group {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("binding %v has no help text", b.Keys())
			}
		}
	}
	if got := len(DefaultMenuKeyMap().FullHelp()[0]); got != len(DefaultMenuKeyMap().ShortHelp()) {
		t.Errorf("menu full help has %d bindings, expected the short help's", got)
	}
}
