package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"mlrig/internal/config"
	"mlrig/internal/diag"
	"mlrig/internal/fsutil"
	"mlrig/internal/hardware"
	"mlrig/internal/installer"
	"mlrig/internal/logging"
	"mlrig/internal/power"
	"mlrig/internal/profile"
	"mlrig/internal/tui"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) <= 1 {
		runTUI()
		return
	}

	command := strings.ToLower(os.Args[1])
	if handler, ok := commandHandlers()[command]; ok {
		handler()
		return
	}

	fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
	printUsage()
	os.Exit(1)
}

func commandHandlers() map[string]func() {
	return map[string]func(){
		"detect":  runDetect,
		"profile": runProfile,
		"install": runInstall,
		"tune":    runTune,
		"config":  runConfig,
		"diag":    runDiag,
		"version": runVersion,
		"help":    printUsage,
		"--help":  printUsage,
		"-h":      printUsage,
	}
}

// loadConfig loads the merged configuration or exits with a message
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds a logger honoring the configured level and format
func newLogger(cfg config.Config) *logging.Logger {
	level := logging.Level(cfg.Logging.Level)
	if cfg.Logging.Format == string(logging.FormatText) {
		return logging.NewTextLogger(level)
	}
	return logging.NewLogger(level)
}

// detectFacts probes hardware and applies the configured vendor override
func detectFacts(ctx context.Context, cfg config.Config, logger *logging.Logger) hardware.Facts {
	detector := hardware.NewDetector(logger, cfg.ProbeTimeout())
	facts := detector.Detect(ctx)
	if cfg.Overrides.GPUVendor != "" {
		facts.GPUVendor = hardware.Vendor(cfg.Overrides.GPUVendor)
	}
	return facts
}

// deriveProfile selects a profile for the facts and applies precision
// override and the configured power mode
func deriveProfile(cfg config.Config, facts hardware.Facts) profile.Profile {
	prof := profile.Select(facts)
	if cfg.Overrides.Precision != "" {
		prof = prof.WithPrecision(profile.Precision(cfg.Overrides.Precision))
	}
	return prof.WithGovernor(profile.GovernorFor(profile.PowerMode(cfg.PowerMode), facts))
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

func runTUI() {
	cfg := loadConfig()
	logger := newLogger(cfg)

	logger.Info("app.started", "Application started", map[string]interface{}{
		"version": version,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})

	p := tea.NewProgram(tui.NewModel(cfg, logger))
	if _, err := p.Run(); err != nil {
		logger.Error("app.error", "Application error", map[string]interface{}{
			"error": err.Error(),
		})
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	logger.Info("app.exited", "Application exited", map[string]interface{}{
		"ts": time.Now().UTC().Format(time.RFC3339),
	})
}

// runDetect probes hardware and prints the facts
func runDetect() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	args := os.Args[2:]

	facts := detectFacts(context.Background(), cfg, logger)

	if hasFlag(args, "--json") {
		data, err := json.MarshalIndent(facts, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode facts: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		printFactsTable(facts)
	}

	if hasFlag(args, "--save") {
		stateDir := fsutil.GetStateDir(fsutil.DefaultStateDir)
		if err := fsutil.EnsureDirectory(stateDir); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create state directory: %v\n", err)
			os.Exit(1)
		}
		reportPath := filepath.Join(stateDir, "hardware_report.json")
		if err := hardware.SaveReport(facts, reportPath, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", reportPath)
	}
}

func printFactsTable(facts hardware.Facts) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Property", "Value"})
	table.SetAutoFormatHeaders(false)

	vram := "-"
	if facts.VRAMMB > 0 {
		vram = humanize.IBytes(uint64(facts.VRAMMB) * 1024 * 1024)
	}
	gpuName := facts.GPUName
	if gpuName == "" {
		gpuName = "-"
	}
	tools := make([]string, len(facts.Tools))
	for i, tool := range facts.Tools {
		tools[i] = string(tool)
	}

	table.Append([]string{"GPU Vendor", string(facts.GPUVendor)})
	table.Append([]string{"GPU Model", gpuName})
	table.Append([]string{"VRAM", vram})
	table.Append([]string{"Distro", string(facts.DistroID)})
	table.Append([]string{"Tools", strings.Join(tools, ", ")})
	table.Append([]string{"Governors", strings.Join(facts.Governors, ", ")})
	table.Render()
}

// runProfile prints the profile derived from the detected hardware
func runProfile() {
	cfg := loadConfig()
	logger := newLogger(cfg)

	facts := detectFacts(context.Background(), cfg, logger)
	prof := deriveProfile(cfg, facts)

	if hasFlag(os.Args[2:], "--json") {
		data, err := json.MarshalIndent(prof, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode profile: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Precision:   %s\n", prof.Precision)
	fmt.Printf("Device mode: %s\n", prof.DeviceMode)
	fmt.Printf("Tile size:   %d\n", prof.TileSize)
	fmt.Printf("Launch args: %s\n", strings.Join(prof.LaunchArgs, " "))
	fmt.Printf("Governor:    %s\n", prof.Governor)
}

// runInstall installs an upscaler or web UI target
func runInstall() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	args := os.Args[2:]

	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Fprintf(os.Stderr, "Usage: mlrig install <upscaler|webui> [--yes]\n")
		os.Exit(1)
	}

	target := installer.Target(strings.ToLower(args[0]))
	if target != installer.TargetUpscaler && target != installer.TargetWebUI {
		fmt.Fprintf(os.Stderr, "Unknown install target: %s\n", args[0])
		fmt.Fprintf(os.Stderr, "Valid targets: upscaler, webui\n")
		os.Exit(1)
	}

	facts := detectFacts(context.Background(), cfg, logger)
	prof := deriveProfile(cfg, facts)

	var confirm installer.Confirmer
	if hasFlag(args, "--yes") {
		confirm = installer.AutoConfirmer{}
	} else {
		confirm = installer.NewStdinConfirmer(os.Stdin, os.Stdout)
	}

	inst := installer.New(cfg, prof, logger)
	fmt.Printf("Installing %s to %s (%s, %s)\n", target, inst.InstallDir(target), prof.Precision, prof.DeviceMode)

	if err := inst.Install(context.Background(), target, confirm); err != nil {
		if errors.Is(err, installer.ErrDeclined) {
			fmt.Println("Installation cancelled.")
			return
		}
		fmt.Fprintf(os.Stderr, "Installation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ %s installed\n", target)
}

// runTune writes the cpupower boot config and optionally applies the
// governor immediately
func runTune() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	args := os.Args[2:]

	mode := profile.PowerMode(cfg.PowerMode)
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		mode = profile.PowerMode(strings.ToLower(args[0]))
	}
	switch mode {
	case profile.PowerPerformance, profile.PowerBalanced, profile.PowerPowersave:
	default:
		fmt.Fprintf(os.Stderr, "Unknown power mode: %s\n", mode)
		fmt.Fprintf(os.Stderr, "Valid modes: performance, balanced, powersave\n")
		os.Exit(1)
	}

	apply := hasFlag(args, "--apply")
	ctx := context.Background()

	facts := detectFacts(ctx, cfg, logger)

	var units power.UnitManager
	if apply && facts.HasTool(hardware.ToolSystemd) {
		manager, err := power.NewDBusUnitManager(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: systemd connection failed, boot service not enabled: %v\n", err)
		} else {
			units = manager
			defer manager.Close()
		}
	}

	tuner := power.NewTuner(cfg, facts, units, logger)
	governor, err := tuner.Tune(ctx, mode, apply)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tuning failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Boot config written for %s (governor %s)\n", mode, governor)
	if !apply {
		fmt.Println("Run with --apply to set the governor now and enable the boot service.")
	}
}

// runDiag creates a diagnostic ZIP with the hardware report, redacted
// config and generated artifacts
func runDiag() {
	cfg := loadConfig()
	logger := newLogger(cfg)
	args := os.Args[2:]

	diagConfig := diag.NewConfig(version, cfg.OutputDir, config.SystemConfigPath())
	for i, arg := range args {
		switch arg {
		case "--output":
			if i+1 < len(args) {
				diagConfig.OutputPath = args[i+1]
			}
		case "--no-artifacts":
			diagConfig.IncludeArtifacts = false
		case "--no-config":
			diagConfig.IncludeConfig = false
		}
	}

	facts := detectFacts(context.Background(), cfg, logger)

	packager := diag.NewPackager(diagConfig, logger)
	outputPath, err := packager.CreatePackage(facts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create diagnostic package: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Diagnostic package created: %s\n", outputPath)
}

func runConfig() {
	logger := logging.NewLogger(logging.LevelInfo)

	if len(os.Args) < 3 {
		// Bare "config" shows the effective merged configuration
		runConfigTest(logger)
		return
	}

	subcommand := strings.ToLower(os.Args[2])

	switch subcommand {
	case "test":
		runConfigTest(logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", subcommand)
		fmt.Fprintf(os.Stderr, "Valid subcommands: test\n")
		os.Exit(1)
	}
}

// runConfigTest validates configuration file(s)
func runConfigTest(logger *logging.Logger) {
	var cfg config.Config
	var configErr error

	if len(os.Args) > 3 {
		path := os.Args[3]
		fmt.Printf("Testing configuration file: %s\n", path)
		cfg, configErr = config.LoadFrom(path)
	} else {
		fmt.Println("Testing configuration (system + user merge):")
		fmt.Printf("  System config: %s\n", config.SystemConfigPath())
		if userPath := config.UserConfigPath(); userPath != "" {
			fmt.Printf("  User config:   %s\n", userPath)
		}
		fmt.Println()

		cfg, configErr = config.Load()
	}

	if configErr != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration validation FAILED:\n")
		fmt.Fprintf(os.Stderr, "   %v\n", configErr)

		logger.Error("config.validation.error", "Configuration validation failed", map[string]interface{}{
			"error": configErr.Error(),
		})
		os.Exit(1)
	}

	fmt.Println("✓ Configuration is VALID")
	fmt.Println()
	fmt.Println("Configuration Summary:")
	fmt.Printf("  Output Dir:     %s\n", cfg.OutputDir)
	fmt.Printf("  Install Root:   %s\n", cfg.InstallRoot)
	fmt.Printf("  Power Mode:     %s\n", cfg.PowerMode)
	fmt.Printf("  Probe Timeout:  %ds\n", cfg.ProbeTimeoutSeconds)
	fmt.Printf("  Log Level:      %s\n", cfg.Logging.Level)
	fmt.Printf("  Log Format:     %s\n", cfg.Logging.Format)

	logger.Info("config.validation.ok", "Configuration validation passed", map[string]interface{}{
		"power_mode": cfg.PowerMode,
	})
}

func runVersion() {
	fmt.Printf("mlrig version %s\n", version)
}

// printUsage displays usage information
func printUsage() {
	fmt.Printf(`mlrig - ML Rig Provisioning Tool (version %s)

Usage:
  mlrig                            Start the interactive TUI (default)
  mlrig detect [--json] [--save]   Probe GPU, distro and tool availability
  mlrig profile [--json]           Show the profile derived from detected hardware
  mlrig install <upscaler|webui> [--yes]  Install a target with generated launchers
  mlrig tune [mode] [--apply]      Write cpupower boot config (performance, balanced, powersave)
  mlrig config [test [path]]       Show effective config or test a config file
  mlrig diag [--output path] [--no-artifacts] [--no-config]  Create diagnostic package (ZIP)
  mlrig version                    Print version information
  mlrig help                       Show this help message

Detection degrades gracefully: missing tools or probes downgrade the
profile instead of failing. Overrides in the config file pin vendor or
precision for headless provisioning.
`, version)
}
