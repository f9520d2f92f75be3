package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
	"github.com/vovakirdan/brick-arena/internal/games/breakout"
	"github.com/vovakirdan/brick-arena/internal/storage"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "arena.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func normalDifficulty() config.Difficulty {
	return config.DefaultBreakoutConfig().Resolve(quietLogger())
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"q quits", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{"a", runeKey('a'), core.ActionLeft, false},
		{"h", runeKey('h'), core.ActionLeft, false},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight, false},
		{"d", runeKey('d'), core.ActionRight, false},
		{"l", runeKey('l'), core.ActionRight, false},
		{"p pauses", runeKey('p'), core.ActionPause, false},
		{"r restarts", runeKey('r'), core.ActionRestart, false},
		{"esc goes back", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"enter confirms", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"unbound", runeKey('x'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey('k'), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('b'), MenuActionBack},
		{runeKey('q'), MenuActionQuit},
		{runeKey('x'), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}

func TestPainterWithoutColorMatchesPlainText(t *testing.T) {
	s := core.NewScreen(12, 3)
	s.DrawTextColored(1, 0, "SCORE", core.ColorBrightWhite)
	s.SetColored(4, 1, '█', core.ColorRed)
	s.SetColored(5, 1, '█', core.ColorRed)
	s.DrawText(0, 2, "plain")

	r := lipgloss.NewRenderer(io.Discard)
	got := NewPainter(r).Render(s)
	if got != s.String() {
		t.Errorf("Render() without color support:\n%q\nexpected\n%q", got, s.String())
	}
}

func TestScoreTabs(t *testing.T) {
	cfg := config.DefaultBreakoutConfig()
	tabs := ScoreTabs(cfg)
	if len(tabs) != 2*len(cfg.Tiers) {
		t.Fatalf("got %d tabs, expected %d", len(tabs), 2*len(cfg.Tiers))
	}
	if tabs[0].GameID != "breakout/easy" {
		t.Errorf("first tab = %q", tabs[0].GameID)
	}
	last := tabs[len(tabs)-1]
	if !strings.HasSuffix(last.GameID, "+zen") || !strings.Contains(last.Title, "zen") {
		t.Errorf("last tab should be a zen variant, got %+v", last)
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(nil, config.DefaultBreakoutConfig(), "", 80, 24, quietLogger())
	if len(m.items) != 4 {
		t.Fatalf("expected one entry per tier, got %d", len(m.items))
	}

	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(MenuModel)
	sel := m.Selected()
	if sel == nil || sel.Tier != "normal" || sel.Resume {
		t.Fatalf("Selected() = %+v, expected normal", sel)
	}

	model, _ = m.Update(runeKey('z'))
	m = model.(MenuModel)
	if !m.NeverLose() || !m.Difficulty("normal").NeverLoseBall {
		t.Error("z should toggle never-lose mode")
	}
	if !strings.Contains(m.View(), "Never lose the ball: on") {
		t.Error("view should show the zen toggle")
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !model.(MenuModel).WantsScoreboard() {
		t.Error("tab should open the scoreboard")
	}
}

func TestMenuOffersResume(t *testing.T) {
	store := openStore(t)
	cfg := config.DefaultBreakoutConfig()
	m := NewMenuModel(store, cfg, "alice", 80, 24, quietLogger())

	g := breakout.New(m.Difficulty("hard"), breakout.WithLogger(quietLogger()))
	if err := store.SaveGame(SaveKey("alice", m.Difficulty("hard")), "breakout/hard", g.Save()); err != nil {
		t.Fatal(err)
	}

	m = NewMenuModel(store, cfg, "alice", 80, 24, quietLogger())
	if len(m.items) != 5 || !m.items[0].Resume || m.items[0].Tier != "hard" {
		t.Fatalf("expected a resume entry first, got %+v", m.items)
	}

	other := NewMenuModel(store, cfg, "bob", 80, 24, quietLogger())
	if len(other.items) != 4 {
		t.Errorf("saves must not leak between owners, got %+v", other.items)
	}
}

func TestGameModelQuitStoresGame(t *testing.T) {
	store := openStore(t)
	diff := normalDifficulty()
	gm := NewGameModel(store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, GameOptions{
		Difficulty: diff,
		Logger:     quietLogger(),
	})

	model, cmd := gm.Update(runeKey('q'))
	if cmd == nil || !model.(GameModel).IsQuitting() {
		t.Fatal("q should quit")
	}
	if !store.HasSavedGame(SaveKey("", diff)) {
		t.Error("quitting mid-game should leave a resumable save")
	}
}

func TestGameModelResume(t *testing.T) {
	store := openStore(t)
	diff := normalDifficulty()

	g := breakout.New(diff, breakout.WithLogger(quietLogger()))
	st := g.Save()
	st.Score = 1234
	st.Lives = 1
	if err := store.SaveGame(SaveKey("", diff), diff.GameID(), st); err != nil {
		t.Fatal(err)
	}

	gm := NewGameModel(store, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, GameOptions{
		Difficulty: diff,
		Resume:     true,
		Logger:     quietLogger(),
	})
	defer gm.Close()

	status := gm.Status()
	if status.Score != 1234 || status.Lives != 1 {
		t.Errorf("resumed status = %+v", status)
	}
}

func TestGameModelKeysMovePaddle(t *testing.T) {
	gm := NewGameModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, GameOptions{
		Difficulty: normalDifficulty(),
		KeyStep:    50,
		Logger:     quietLogger(),
	})
	defer gm.Close()

	start := gm.runner.Frame().PaddleX
	model, _ := gm.Update(tea.KeyMsg{Type: tea.KeyRight})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRight})
	want := start + 100
	if got := model.(GameModel).paddle; got != want {
		t.Fatalf("paddle target = %v, expected %v", got, want)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if gm.runner.Frame().PaddleX == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("published paddle never reached %v, last %v", want, gm.runner.Frame().PaddleX)
}

func TestGameModelBackToMenu(t *testing.T) {
	gm := NewGameModel(nil, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, GameOptions{
		Difficulty: normalDifficulty(),
		Logger:     quietLogger(),
	})
	model, _ := gm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	back := model.(GameModel)
	if !back.BackToMenu() || back.IsQuitting() {
		t.Error("esc should return to the menu without quitting")
	}
	if _, cmd := back.Update(TickMsg(time.Now())); cmd != nil {
		t.Error("a closed game should stop ticking")
	}
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	sm := NewSessionModel(store, SessionOptions{
		Config:  config.DefaultBreakoutConfig(),
		Runtime: core.RuntimeConfig{ScreenW: 80, ScreenH: 24},
		Logger:  quietLogger(),
	})

	model, _ := sm.Update(tea.KeyMsg{Type: tea.KeyTab})
	sm = model.(SessionModel)
	if sm.screen != screenScores {
		t.Fatalf("tab should open scores, screen = %v", sm.screen)
	}
	model, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	sm = model.(SessionModel)
	if sm.screen != screenMenu {
		t.Fatalf("esc should return to the menu, screen = %v", sm.screen)
	}

	model, cmd := sm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sm = model.(SessionModel)
	if sm.screen != screenGame || sm.game == nil || cmd == nil {
		t.Fatal("enter should start a game")
	}
	if !strings.Contains(sm.View(), "SCORE") {
		t.Error("game view should show the HUD")
	}

	model, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	sm = model.(SessionModel)
	if sm.screen != screenMenu || sm.game != nil {
		t.Fatal("esc in game should return to the menu")
	}
	if !sm.menu.items[0].Resume {
		t.Error("the abandoned game should be offered for resume")
	}
}

// runnerFor wraps a game whose snapshot store already holds its state.
func runnerFor(t *testing.T, diff config.Difficulty, finished bool, score int) *breakout.Runner {
	t.Helper()
	g := breakout.New(diff, breakout.WithLogger(quietLogger()))
	st := g.Save()
	st.Score = score
	if finished {
		st.Phase = breakout.PhaseLost
		st.Message = breakout.MessageLost
		st.Lives = 0
	}
	if err := g.Restore(st); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	r := breakout.NewRunner(g, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, nil)
	r.Saves().Save(g.Save())
	return r
}

func TestRecordFinalUsesSaveStore(t *testing.T) {
	store := openStore(t)
	diff := normalDifficulty()

	live := GameModel{runner: runnerFor(t, diff, false, 300), store: store, diff: diff, logger: quietLogger()}
	live.recordFinal()
	if live.scoreSaved {
		t.Error("a game in progress has no final score")
	}

	done := GameModel{runner: runnerFor(t, diff, true, 900), store: store, diff: diff, logger: quietLogger()}
	done.recordFinal()
	done.recordFinal()

	scores, err := store.TopScores(diff.GameID(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 || scores[0].Score != 900 {
		t.Errorf("TopScores() = %+v, expected a single 900", scores)
	}
}

func TestPersistFollowsSaveStore(t *testing.T) {
	store := openStore(t)
	diff := normalDifficulty()
	key := SaveKey("carol", diff)

	persist(runnerFor(t, diff, false, 450), store, key, diff, quietLogger())
	st, err := store.LoadGame(key)
	if err != nil {
		t.Fatalf("unfinished game should be stored: %v", err)
	}
	if st.Score != 450 {
		t.Errorf("stored score = %d, expected 450", st.Score)
	}

	persist(runnerFor(t, diff, true, 450), store, key, diff, quietLogger())
	if store.HasSavedGame(key) {
		t.Error("finished game should clear the slot")
	}
}
