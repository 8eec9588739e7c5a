package tui

// Screen represents different TUI screens
type Screen string

const (
	// ScreenMenu is the main menu screen
	ScreenMenu Screen = "menu"
	// ScreenHardware shows the detected facts and derived profile
	ScreenHardware Screen = "hardware"
	// ScreenInstall shows install guidance
	ScreenInstall Screen = "install"
	// ScreenPower selects and persists a power mode
	ScreenPower Screen = "power"
	// ScreenHelp shows help overlay
	ScreenHelp Screen = "help"
)

// MenuItem represents a menu item
type MenuItem struct {
	Key         string // Number key or letter
	Label       string // Display label
	Description string // Short description
	Screen      Screen // Target screen
}

// DefaultMenuItems returns the default main menu items
func DefaultMenuItems() []MenuItem {
	return []MenuItem{
		{Key: "1", Label: "Hardware", Description: "View detected hardware and the derived profile", Screen: ScreenHardware},
		{Key: "2", Label: "Install", Description: "Install the upscaler or web UI", Screen: ScreenInstall},
		{Key: "3", Label: "Power", Description: "Select a power mode and persist the governor", Screen: ScreenPower},
		{Key: "?", Label: "Help", Description: "Show help", Screen: ScreenHelp},
	}
}

// PowerModeItems lists the selectable power modes in menu order
func PowerModeItems() []string {
	return []string{"performance", "balanced", "powersave"}
}
