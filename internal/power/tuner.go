package power

import (
	"context"
	"fmt"

	"mlrig/internal/config"
	"mlrig/internal/hardware"
	"mlrig/internal/logging"
	"mlrig/internal/profile"
	"mlrig/internal/render"
)

// Tuner resolves a power mode to a CPU governor, persists the boot
// configuration and optionally applies the governor to the running system.
// Rendering failures abort; apply failures degrade to warnings because the
// persisted file still takes effect on the next boot.
type Tuner struct {
	cfg    config.Config
	facts  hardware.Facts
	runner hardware.CommandRunner
	units  UnitManager
	logger *logging.Logger
}

// NewTuner creates a tuner backed by the host toolchain. The unit manager
// may be nil when no system bus is available.
func NewTuner(cfg config.Config, facts hardware.Facts, units UnitManager, logger *logging.Logger) *Tuner {
	return &Tuner{
		cfg:    cfg,
		facts:  facts,
		runner: hardware.NewExecRunner(),
		units:  units,
		logger: logger,
	}
}

// NewTunerWithRunner creates a tuner with a custom command runner (for testing)
func NewTunerWithRunner(cfg config.Config, facts hardware.Facts, runner hardware.CommandRunner, units UnitManager, logger *logging.Logger) *Tuner {
	t := NewTuner(cfg, facts, units, logger)
	t.runner = runner
	return t
}

// Tune resolves the governor for the mode, writes the boot-persistence file
// and, when apply is set, switches the running system over.
func (t *Tuner) Tune(ctx context.Context, mode profile.PowerMode, apply bool) (profile.Governor, error) {
	governor := profile.GovernorFor(mode, t.facts)

	t.logger.Info("tune.start", "Tuning power mode", map[string]interface{}{
		"mode":     string(mode),
		"governor": string(governor),
	})

	renderer := render.NewRenderer(t.cfg.OutputDir, t.logger)
	fields := render.Fields{"governor": string(governor)}
	if err := renderer.Render(render.CPUPowerConfig, fields); err != nil {
		return governor, fmt.Errorf("tune %s: %w", mode, err)
	}

	if apply {
		t.applyGovernor(ctx, governor)
		t.enableBootService(ctx)
	}

	return governor, nil
}

// applyGovernor switches the running system via cpupower
func (t *Tuner) applyGovernor(ctx context.Context, governor profile.Governor) {
	if !t.facts.HasTool(hardware.ToolCPUPower) {
		t.logger.Warn("tune.apply.skipped", "cpupower not available, governor persisted for next boot only", nil)
		return
	}

	if _, err := t.runner.Run(ctx, "cpupower", "frequency-set", "-g", string(governor)); err != nil {
		t.logger.Warn("tune.apply.failed", "Could not set governor on running system", map[string]interface{}{
			"governor": string(governor),
			"error":    err.Error(),
		})
		return
	}

	t.logger.Info("tune.applied", "Governor applied to running system", map[string]interface{}{
		"governor": string(governor),
	})
}

// enableBootService enables and starts the cpupower unit so the persisted
// governor survives reboots
func (t *Tuner) enableBootService(ctx context.Context) {
	if !t.facts.HasTool(hardware.ToolSystemd) || t.units == nil {
		t.logger.Warn("tune.service.skipped", "systemd not available, skipping boot service", nil)
		return
	}

	if err := t.units.EnableUnit(ctx, cpupowerUnit); err != nil {
		t.logger.Warn("tune.service.enable_failed", "Could not enable cpupower service", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	if err := t.units.StartUnit(ctx, cpupowerUnit); err != nil {
		t.logger.Warn("tune.service.start_failed", "Could not start cpupower service", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	t.logger.Info("tune.service.enabled", "cpupower service enabled", nil)
}
