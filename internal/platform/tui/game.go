package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/core"
	"github.com/vovakirdan/brick-arena/internal/games/breakout"
	"github.com/vovakirdan/brick-arena/internal/storage"
)

// DefaultScreenshotDir is where ctrl+s writes frame dumps.
const DefaultScreenshotDir = "~/.arena/screenshots"

// keyHold is how long keyboard steps keep accumulating locally before the
// paddle position is re-read from the published frame.
const keyHold = 100 * time.Millisecond

// GameOptions describe one game to start.
type GameOptions struct {
	Difficulty config.Difficulty
	Timing     config.TimingConfig
	KeyStep    float64 // Arena units per key press
	Resume     bool    // Restore the stored game for this difficulty if there is one
	Owner      string  // Separates saved games of different SSH users
	Sound      breakout.SoundPlayer
	Logger     *log.Logger
	Painter    *Painter
	// Context bounds the simulation goroutine, e.g. an SSH session.
	Context       context.Context
	ScreenshotDir string
}

// SaveKey is the saved-game slot for a difficulty and owner.
func SaveKey(owner string, diff config.Difficulty) string {
	if owner == "" {
		return diff.Fingerprint()
	}
	return owner + "|" + diff.Fingerprint()
}

// runState is shared by every copy of a GameModel.
type runState struct {
	cancel context.CancelFunc
	done   chan error
	once   sync.Once
	err    error
}

// stop cancels the simulation and waits for its final save.
func (r *runState) stop() error {
	r.once.Do(func() {
		r.cancel()
		r.err = <-r.done
	})
	return r.err
}

// GameModel is the Bubble Tea model for one running game.
type GameModel struct {
	runner  *breakout.Runner
	run     *runState
	store   *storage.Store
	painter *Painter
	keys    *KeyMapper
	logger  *log.Logger
	diff    config.Difficulty

	tickRate      int
	keyStep       float64
	paddle        float64 // Paddle target in arena units
	lastMove      time.Time
	screenshotDir string

	scoreSaved bool
	quitting   bool
	backToMenu bool
}

// NewGameModel creates the game and starts its simulation goroutine.
// Call Close (or quit through the model) to stop it.
func NewGameModel(store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	cfg = cfg.Normalize()
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	gameOpts := []breakout.Option{breakout.WithLogger(logger), breakout.WithSound(opts.Sound)}
	if opts.Timing.MaxFrameDelta > 0 {
		gameOpts = append(gameOpts, breakout.WithTiming(opts.Timing))
	}
	g := breakout.New(opts.Difficulty, gameOpts...)

	saveKey := SaveKey(opts.Owner, opts.Difficulty)
	if opts.Resume && store != nil {
		resume(g, store, saveKey, logger)
	}

	runner := breakout.NewRunner(g, cfg, nil)
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	rs := &runState{cancel: cancel, done: make(chan error, 1)}
	go func() {
		err := runner.Run(ctx)
		persist(runner, store, saveKey, opts.Difficulty, logger)
		rs.done <- err
	}()

	keyStep := opts.KeyStep
	if keyStep <= 0 {
		keyStep = config.DefaultBreakoutConfig().Paddle.KeyStep
	}
	painter := opts.Painter
	if painter == nil {
		painter = defaultPainter
	}
	shots := opts.ScreenshotDir
	if shots == "" {
		shots = DefaultScreenshotDir
	}

	return GameModel{
		runner:        runner,
		run:           rs,
		store:         store,
		painter:       painter,
		keys:          NewKeyMapper(),
		logger:        logger,
		diff:          opts.Difficulty,
		tickRate:      cfg.TickRate,
		keyStep:       keyStep,
		paddle:        g.PaddleX(),
		screenshotDir: shots,
	}
}

// resume restores the stored game into g. Missing or finished saves start
// fresh.
func resume(g *breakout.Game, store *storage.Store, key string, logger *log.Logger) {
	st, err := store.LoadGame(key)
	if err != nil {
		logger.Debug("no saved game to resume", "error", err)
		return
	}
	if st.Phase.Over() {
		return
	}
	if err := g.Restore(st); err != nil {
		logger.Warn("saved game rejected, starting fresh", "error", err)
		g.NewGame()
		return
	}
	logger.Info("resumed saved game", "score", st.Score, "lives", st.Lives)
}

// persist writes the runner's last snapshot to the database. Finished
// games clear the slot so the menu stops offering them.
func persist(r *breakout.Runner, store *storage.Store, key string, diff config.Difficulty, logger *log.Logger) {
	if store == nil {
		return
	}
	saves := r.Saves()
	if !saves.CanResume() {
		if err := store.DeleteGame(key); err != nil {
			logger.Warn("could not clear saved game", "error", err)
		}
		return
	}
	st, ok := saves.Load()
	if !ok {
		return
	}
	if err := store.SaveGame(key, diff.GameID(), st); err != nil {
		logger.Warn("could not store saved game", "error", err)
	}
}

// Init starts the redraw loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.WindowSizeMsg:
		m.runner.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}

	over := m.runner.Frame().Status.Phase.Over()
	switch action {
	case core.ActionLeft:
		m.nudge(-m.keyStep)
	case core.ActionRight:
		m.nudge(m.keyStep)
	case core.ActionPause:
		if !over {
			m.runner.TogglePause()
		}
	case core.ActionRestart, core.ActionConfirm:
		if over {
			m.recordFinal()
			m.runner.NewGame()
		}
	case core.ActionBack:
		m.backToMenu = true
		m.Close()
	}
	return m, nil
}

func (m *GameModel) nudge(dx float64) {
	m.moveTo(m.paddle + dx)
}

func (m *GameModel) moveTo(x float64) {
	m.paddle = core.ClampF(x, 0, breakout.ArenaWidth)
	m.lastMove = time.Now()
	m.runner.MovePaddle(m.paddle)
}

// handleMouse follows the pointer column across the arena.
func (m *GameModel) handleMouse(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return
	}
	v := m.runner.Frame().View
	if v.Empty() || !v.Cells().Contains(msg.X, msg.Y) {
		return
	}
	m.moveTo(v.ArenaX(msg.X))
}

// handleTick syncs with the published frame and records finished games.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	frame := m.runner.Frame()

	if now.Sub(m.lastMove) > keyHold {
		m.paddle = frame.PaddleX
	}

	// A frame from before a restart may still be over, so the flag only
	// resets once a live frame has been seen.
	if !frame.Status.Phase.Over() {
		m.scoreSaved = false
	} else {
		m.recordFinal()
	}

	return m, tickCmd(m.tickRate)
}

// recordFinal records the finished game's score once per game.
func (m *GameModel) recordFinal() {
	if m.scoreSaved {
		return
	}
	score, ok := m.runner.Saves().FinalScore()
	if !ok {
		return
	}
	m.scoreSaved = true
	m.recordScore(score)
}

func (m GameModel) recordScore(score int) {
	if m.store == nil || score <= 0 {
		return
	}
	if _, err := m.store.SaveScore(m.diff.GameID(), score); err != nil {
		m.logger.Warn("could not save score", "error", err)
		return
	}
	m.logger.Info("score recorded", "game", m.diff.GameID(), "score", score)
}

// saveScreenshot writes the current frame as plain text.
func (m GameModel) saveScreenshot() (string, error) {
	dir := m.screenshotDir
	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, dir[1:])
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("breakout-%s_%s.txt", m.diff.Tier.Name, timestamp)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.runner.Frame().Screen.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// View renders the latest published frame.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	return m.painter.Render(m.runner.Frame().Screen)
}

// Close stops the simulation and stores the game. It is safe to call more
// than once.
func (m GameModel) Close() {
	if err := m.run.stop(); err != nil {
		m.logger.Warn("runner stopped with error", "error", err)
	}
}

// Status returns the summary of the latest frame.
func (m GameModel) Status() breakout.Status {
	return m.runner.Frame().Status
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game in the terminal until the player quits.
func Run(store *storage.Store, cfg core.RuntimeConfig, opts GameOptions) error {
	model := NewGameModel(store, cfg, opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
