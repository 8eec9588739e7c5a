package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"mlrig/internal/hardware"
)

// renderMenu renders the main menu screen
func (m Model) renderMenu() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	menuItemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	menuItemSelectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")).PaddingLeft(2)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("mlrig — Main Menu"))
	b.WriteString("\n\n")

	for i, item := range m.menuItems {
		prefix := fmt.Sprintf("[%s] ", item.Key)

		var itemText string
		if i == m.cursor {
			itemText = menuItemSelectedStyle.Render(prefix + item.Label)
		} else {
			itemText = menuItemStyle.Render(prefix + item.Label)
		}

		b.WriteString(itemText)
		b.WriteString("\n")
		b.WriteString(descStyle.Render(item.Description))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Navigate: ↑/↓ or keys | Select: Enter | Quit: q"))
	b.WriteString("\n")

	return b.String()
}

// renderHardwareScreen renders the detected facts and the derived profile
func (m Model) renderHardwareScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Hardware Report"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Detected"))
	b.WriteString("\n")
	writeRow(&b, labelStyle, valueStyle, "GPU vendor", string(m.facts.GPUVendor))
	writeRow(&b, labelStyle, valueStyle, "GPU model", orDash(m.facts.GPUName))
	writeRow(&b, labelStyle, valueStyle, "VRAM", formatVRAM(m.facts.VRAMMB))
	writeRow(&b, labelStyle, valueStyle, "Distro", string(m.facts.DistroID))
	writeRow(&b, labelStyle, valueStyle, "Tools", formatTools(m.facts.Tools))

	b.WriteString(sectionStyle.Render("Derived Profile"))
	b.WriteString("\n")
	writeRow(&b, labelStyle, valueStyle, "Precision", string(m.prof.Precision))
	writeRow(&b, labelStyle, valueStyle, "Device mode", string(m.prof.DeviceMode))
	writeRow(&b, labelStyle, valueStyle, "Tile size", fmt.Sprintf("%d", m.prof.TileSize))
	writeRow(&b, labelStyle, valueStyle, "Launch args", orDash(strings.Join(m.prof.LaunchArgs, " ")))
	writeRow(&b, labelStyle, valueStyle, "Governor", string(m.prof.Governor))

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press Esc to return to menu, 'q' to quit"))
	b.WriteString("\n")

	return b.String()
}

// renderInstallScreen points at the CLI install commands. Installs can
// take minutes and stream tool output, which does not fit the TUI.
func (m Model) renderInstallScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).MarginTop(1)
	cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af")).Bold(true).PaddingLeft(2)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(2)

	b.WriteString(titleStyle.Render("Install"))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render("Installs run from the command line so tool output stays visible:"))
	b.WriteString("\n\n")
	b.WriteString(cmdStyle.Render("mlrig install upscaler"))
	b.WriteString("\n")
	b.WriteString(cmdStyle.Render("mlrig install webui"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(fmt.Sprintf("Targets install under %s using the profile shown on the hardware screen.", m.cfg.InstallRoot)))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press Esc to return to menu, 'q' to quit"))
	b.WriteString("\n")

	return b.String()
}

// renderPowerScreen renders the power mode selection screen
func (m Model) renderPowerScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	itemSelectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#00d7ff")).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700")).MarginTop(1)
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(1)

	b.WriteString(titleStyle.Render("Power Mode"))
	b.WriteString("\n\n")

	for i, mode := range PowerModeItems() {
		line := "  " + mode
		if mode == m.cfg.PowerMode {
			line += " (configured)"
		}
		if i == m.powerCursor {
			b.WriteString(itemSelectedStyle.Render(line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("Navigate: ↑/↓ | Write boot config: Enter | Back: Esc | Quit: q"))
	b.WriteString("\n")

	return b.String()
}

// renderHelpScreen renders the help screen
func (m Model) renderHelpScreen() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff")).MarginBottom(1)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87d7af")).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafff")).MarginTop(2)

	b.WriteString(titleStyle.Render("Help — Keyboard Shortcuts"))
	b.WriteString("\n\n")

	shortcuts := []struct{ key, desc string }{
		{"1-3, ?      ", "Quick menu selection by key"},
		{"↑ / ↓       ", "Navigate items"},
		{"Enter       ", "Select highlighted item"},
		{"Esc         ", "Return to main menu"},
		{"q / Ctrl+C  ", "Quit mlrig"},
	}
	for _, s := range shortcuts {
		b.WriteString(keyStyle.Render(s.key))
		b.WriteString(descStyle.Render(s.desc))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("Press Esc to return to menu"))
	b.WriteString("\n")

	return b.String()
}

func writeRow(b *strings.Builder, labelStyle, valueStyle lipgloss.Style, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-12s", label)))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func formatVRAM(mb int) string {
	if mb <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(mb) * 1024 * 1024)
}

func formatTools(tools []hardware.Tool) string {
	if len(tools) == 0 {
		return "-"
	}
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
