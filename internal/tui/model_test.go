package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mlrig/internal/config"
	"mlrig/internal/hardware"
	"mlrig/internal/logging"
	"mlrig/internal/profile"
)

// testModel builds a model without running hardware probes
func testModel() Model {
	facts := hardware.Facts{
		GPUVendor: hardware.VendorNVIDIA,
		GPUName:   "NVIDIA GeForce RTX 4090",
		VRAMMB:    24576,
		DistroID:  hardware.DistroArch,
		Tools:     []hardware.Tool{hardware.ToolFFmpeg, hardware.ToolNvidiaSMI},
	}
	prof := profile.Select(facts)
	return Model{
		cfg:       config.DefaultConfig(),
		logger:    logging.NewLogger(logging.LevelError),
		facts:     facts,
		prof:      prof,
		menuItems: DefaultMenuItems(),
		screen:    ScreenMenu,
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestModel_NavigateDown(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(Model)

	if m.cursor != 1 {
		t.Errorf("Expected cursor 1, got %d", m.cursor)
	}
}

func TestModel_NavigateUp_StopsAtTop(t *testing.T) {
	m := testModel()
	m.cursor = 0

	updated, _ := m.Update(keyMsg("up"))
	m = updated.(Model)

	if m.cursor != 0 {
		t.Errorf("Expected cursor 0, got %d", m.cursor)
	}
}

func TestModel_SelectByEnter(t *testing.T) {
	m := testModel()
	m.cursor = 0

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.screen != ScreenHardware {
		t.Errorf("Expected hardware screen, got %s", m.screen)
	}
}

func TestModel_SelectByKey(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(keyMsg("3"))
	m = updated.(Model)

	if m.screen != ScreenPower {
		t.Errorf("Expected power screen, got %s", m.screen)
	}
}

func TestModel_EscReturnsToMenu(t *testing.T) {
	m := testModel()
	m.screen = ScreenHelp
	m.status = "stale"

	updated, _ := m.Update(keyMsg("esc"))
	m = updated.(Model)

	if m.screen != ScreenMenu {
		t.Errorf("Expected menu screen, got %s", m.screen)
	}
	if m.status != "" {
		t.Errorf("Expected status cleared, got %q", m.status)
	}
}

func TestModel_QuitFromMenu(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(keyMsg("q"))

	if cmd == nil {
		t.Fatal("Expected quit command, got nil")
	}
}

func TestView_MenuListsAllItems(t *testing.T) {
	m := testModel()

	view := m.View()

	for _, item := range DefaultMenuItems() {
		if !strings.Contains(view, item.Label) {
			t.Errorf("Expected menu to contain %q", item.Label)
		}
	}
}

func TestView_HardwareScreenShowsFactsAndProfile(t *testing.T) {
	m := testModel()
	m.screen = ScreenHardware

	view := m.View()

	for _, want := range []string{"NVIDIA GeForce RTX 4090", "fp16", "cuda", "200"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected hardware screen to contain %q", want)
		}
	}
}

func TestView_PowerScreenMarksConfiguredMode(t *testing.T) {
	m := testModel()
	m.screen = ScreenPower

	view := m.View()

	if !strings.Contains(view, "balanced (configured)") {
		t.Error("Expected configured power mode to be marked")
	}
}

func TestFormatVRAM(t *testing.T) {
	if got := formatVRAM(0); got != "-" {
		t.Errorf("Expected '-' for zero VRAM, got %q", got)
	}
	if got := formatVRAM(24576); got != "24 GiB" {
		t.Errorf("Expected '24 GiB', got %q", got)
	}
}
