package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
	"github.com/vovakirdan/brick-arena/internal/games/breakout"
	"github.com/vovakirdan/brick-arena/internal/storage"
)

// SessionOptions configure a menu -> game -> menu session.
type SessionOptions struct {
	Config  config.BreakoutConfig
	Runtime core.RuntimeConfig
	Owner   string // Saved-game owner, empty for the local player
	Sound   breakout.SoundPlayer
	Logger  *log.Logger
	Painter *Painter
	Context context.Context
}

type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenGame
	screenScores
)

// SessionModel manages the full arena session flow: menu, game and
// scoreboard. It is the top-level model for both local play and SSH.
type SessionModel struct {
	store    *storage.Store
	opts     SessionOptions
	width    int
	height   int
	screen   sessionScreen
	menu     MenuModel
	game     *GameModel
	scores   ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session that starts on the menu.
func NewSessionModel(store *storage.Store, opts SessionOptions) SessionModel {
	opts.Runtime = opts.Runtime.Normalize()
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	m := SessionModel{
		store:  store,
		opts:   opts,
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.menu = m.newMenu(opts.Config.NeverLoseBall)
	return m
}

func (m SessionModel) newMenu(neverLose bool) MenuModel {
	base := m.opts.Config
	base.NeverLoseBall = neverLose
	return NewMenuModel(m.store, base, m.opts.Owner, m.width, m.height, m.opts.Logger)
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsScoreboard():
		m.scores = NewScoreboardModel(m.store, ScoreTabs(m.opts.Config), m.width, m.height)
		m.screen = screenScores
		return m, m.scores.Init()

	case m.menu.Selected() != nil:
		return m.startGame(*m.menu.Selected())
	}
	return m, cmd
}

// startGame creates the game for a menu entry.
func (m SessionModel) startGame(item MenuItem) (tea.Model, tea.Cmd) {
	var sound breakout.SoundPlayer
	if m.opts.Config.SoundEnabled {
		sound = m.opts.Sound
	}
	rt := m.opts.Runtime
	rt.ScreenW, rt.ScreenH = m.width, m.height

	gm := NewGameModel(m.store, rt, GameOptions{
		Difficulty: m.menu.Difficulty(item.Tier),
		Timing:     m.opts.Config.Timing,
		KeyStep:    m.opts.Config.Paddle.KeyStep,
		Resume:     item.Resume,
		Owner:      m.opts.Owner,
		Sound:      sound,
		Logger:     m.opts.Logger,
		Painter:    m.opts.Painter,
		Context:    m.opts.Context,
	})
	m.game = &gm
	m.screen = screenGame
	m.opts.Logger.Info("game started", "owner", m.opts.Owner, "tier", item.Tier, "resume", item.Resume)
	return m, gm.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = &gameModel
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.game.BackToMenu():
		m.game = nil
		m.screen = screenMenu
		m.menu = m.newMenu(m.menu.NeverLose())
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateScores handles updates on the scoreboard.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scores.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scores = sb
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.scores.IsGoingBack():
		m.screen = screenMenu
		m.menu = m.newMenu(m.menu.NeverLose())
		return m, m.menu.Init()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.scores.View()
	default:
		return m.menu.View()
	}
}

// Close stops a game left running, storing it for resume.
func (m SessionModel) Close() {
	if m.game != nil {
		m.game.Close()
	}
}

// RunSession runs the menu-driven session in the local terminal.
func RunSession(store *storage.Store, opts SessionOptions) error {
	p := tea.NewProgram(
		NewSessionModel(store, opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	final, err := p.Run()
	if sm, ok := final.(SessionModel); ok {
		sm.Close()
	}
	return err
}
