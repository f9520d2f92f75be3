package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/brick-arena/internal/config"
	"github.com/vovakirdan/brick-arena/internal/storage"
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Tier   string
	Title  string
	Resume bool // Continue the stored game instead of starting fresh
}

// MenuModel is the Bubble Tea model for the difficulty picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	store          *storage.Store
	base           config.BreakoutConfig
	owner          string
	neverLose      bool
	logger         *log.Logger
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem // Set when user selects an entry
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. owner scopes saved games the same
// way GameOptions.Owner does.
func NewMenuModel(store *storage.Store, base config.BreakoutConfig, owner string, width, height int, logger *log.Logger) MenuModel {
	if logger == nil {
		logger = log.Default()
	}
	m := MenuModel{
		width:     width,
		height:    height,
		store:     store,
		base:      base,
		owner:     owner,
		neverLose: base.NeverLoseBall,
		logger:    logger,
		keyMapper: NewKeyMapper(),
	}
	m.items = m.buildItems()
	return m
}

// buildItems lists a resume entry for each tier with an unfinished game,
// then every tier.
func (m MenuModel) buildItems() []MenuItem {
	names := m.base.TierNames()
	items := make([]MenuItem, 0, 2*len(names))
	if m.store != nil {
		for _, name := range names {
			if m.store.HasSavedGame(SaveKey(m.owner, m.Difficulty(name))) {
				items = append(items, MenuItem{Tier: name, Title: "Resume " + tierTitle(name), Resume: true})
			}
		}
	}
	for _, name := range names {
		items = append(items, MenuItem{Tier: name, Title: tierTitle(name)})
	}
	return items
}

// Difficulty resolves the knobs for tier with the menu's zen setting.
func (m MenuModel) Difficulty(tier string) config.Difficulty {
	c := m.base
	c.Difficulty = tier
	c.NeverLoseBall = m.neverLose
	return c.Resolve(m.logger)
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
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "z" {
		m.neverLose = !m.neverLose
		m.items = m.buildItems()
		m.cursor = max(0, min(m.cursor, len(m.items)-1))
		return m, nil
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  B R I C K   A R E N A  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a difficulty", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := cursor + item.Title
		if m.store != nil && !item.Resume {
			if high, err := m.store.HighScore(m.Difficulty(item.Tier).GameID()); err == nil && high > 0 {
				line += fmt.Sprintf("  (best %d)", high)
			}
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	zen := "off"
	if m.neverLose {
		zen = "on"
	}
	b.WriteString("\n")
	b.WriteString(centerText("Never lose the ball: "+zen, m.width))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Z: Zen  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// NeverLose reports the zen toggle.
func (m MenuModel) NeverLose() bool {
	return m.neverLose
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// tierTitle capitalizes a tier name for display.
func tierTitle(name string) string {
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
