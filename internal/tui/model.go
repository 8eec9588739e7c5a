package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mlrig/internal/config"
	"mlrig/internal/hardware"
	"mlrig/internal/logging"
	"mlrig/internal/power"
	"mlrig/internal/profile"
)

// Model is the main TUI model
type Model struct {
	cfg       config.Config
	logger    *logging.Logger
	facts     hardware.Facts
	prof      profile.Profile
	menuItems []MenuItem
	cursor    int

	screen      Screen
	powerCursor int
	status      string

	width  int
	height int
}

// NewModel creates a new TUI model. Detection runs once up front so the
// hardware screen renders without a visible probe delay.
func NewModel(cfg config.Config, logger *logging.Logger) Model {
	detector := hardware.NewDetector(logger, cfg.ProbeTimeout())
	facts := detector.Detect(context.Background())
	if cfg.Overrides.GPUVendor != "" {
		facts.GPUVendor = hardware.Vendor(cfg.Overrides.GPUVendor)
	}

	prof := profile.Select(facts)
	if cfg.Overrides.Precision != "" {
		prof = prof.WithPrecision(profile.Precision(cfg.Overrides.Precision))
	}
	prof = prof.WithGovernor(profile.GovernorFor(profile.PowerMode(cfg.PowerMode), facts))

	return Model{
		cfg:       cfg,
		logger:    logger,
		facts:     facts,
		prof:      prof,
		menuItems: DefaultMenuItems(),
		screen:    ScreenMenu,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenMenu:
		return m.handleMenuKey(key)
	case ScreenPower:
		return m.handlePowerKey(key)
	default:
		switch key {
		case "q", "esc":
			m.screen = ScreenMenu
			m.status = ""
			return m, nil
		}
	}
	return m, nil
}

func (m Model) handleMenuKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.menuItems)-1 {
			m.cursor++
		}
	case "enter":
		m.screen = m.menuItems[m.cursor].Screen
		m.status = ""
	default:
		for _, item := range m.menuItems {
			if key == item.Key {
				m.screen = item.Screen
				m.status = ""
				break
			}
		}
	}
	return m, nil
}

func (m Model) handlePowerKey(key string) (tea.Model, tea.Cmd) {
	modes := PowerModeItems()
	switch key {
	case "q", "esc":
		m.screen = ScreenMenu
		m.status = ""
	case "up", "k":
		if m.powerCursor > 0 {
			m.powerCursor--
		}
	case "down", "j":
		if m.powerCursor < len(modes)-1 {
			m.powerCursor++
		}
	case "enter":
		mode := profile.PowerMode(modes[m.powerCursor])
		tuner := power.NewTuner(m.cfg, m.facts, nil, m.logger)
		gov, err := tuner.Tune(context.Background(), mode, false)
		if err != nil {
			m.status = fmt.Sprintf("Failed to write boot config: %v", err)
		} else {
			m.prof = m.prof.WithGovernor(gov)
			m.status = fmt.Sprintf("Boot config written for %s (%s). Run 'mlrig tune %s --apply' to activate now.", mode, gov, mode)
		}
	}
	return m, nil
}

// View renders the current screen
func (m Model) View() string {
	switch m.screen {
	case ScreenHardware:
		return m.renderHardwareScreen()
	case ScreenInstall:
		return m.renderInstallScreen()
	case ScreenPower:
		return m.renderPowerScreen()
	case ScreenHelp:
		return m.renderHelpScreen()
	default:
		return m.renderMenu()
	}
}
