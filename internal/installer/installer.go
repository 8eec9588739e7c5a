package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mlrig/internal/config"
	"mlrig/internal/fsutil"
	"mlrig/internal/hardware"
	"mlrig/internal/logging"
	"mlrig/internal/profile"
	"mlrig/internal/render"
)

// Target names an installable application tree
type Target string

const (
	// TargetUpscaler is the image/video upscaler working tree.
	TargetUpscaler Target = "upscaler"
	// TargetWebUI is the web front-end working tree.
	TargetWebUI Target = "webui"
)

// ErrDeclined is returned when the user rejects the confirmation prompt.
// It is a clean early exit, not a failure.
var ErrDeclined = errors.New("installation declined")

// Installer provisions an application tree and renders the profile-derived
// artifacts into it. Provisioning steps (clone, venv) are external
// collaborators: their failures degrade to warnings, while rendering
// failures abort the run.
type Installer struct {
	cfg    config.Config
	prof   profile.Profile
	runner hardware.CommandRunner
	logger *logging.Logger
}

// New creates an installer backed by the host toolchain
func New(cfg config.Config, prof profile.Profile, logger *logging.Logger) *Installer {
	return &Installer{
		cfg:    cfg,
		prof:   prof,
		runner: hardware.NewExecRunner(),
		logger: logger,
	}
}

// NewWithRunner creates an installer with a custom command runner (for testing)
func NewWithRunner(cfg config.Config, prof profile.Profile, runner hardware.CommandRunner, logger *logging.Logger) *Installer {
	return &Installer{
		cfg:    cfg,
		prof:   prof,
		runner: runner,
		logger: logger,
	}
}

// InstallDir returns the working tree path for a target
func (i *Installer) InstallDir(target Target) string {
	return filepath.Join(i.cfg.InstallRoot, string(target))
}

// Install runs the full installation flow for a target: confirmation,
// provisioning, artifact rendering.
func (i *Installer) Install(ctx context.Context, target Target, confirm Confirmer) error {
	dir := i.InstallDir(target)

	ok, err := confirm.Confirm(fmt.Sprintf("Install %s into %s?", target, dir))
	if err != nil {
		return fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		i.logger.Info("install.declined", "Installation declined by user", map[string]interface{}{
			"target": string(target),
		})
		return ErrDeclined
	}

	i.logger.Info("install.start", fmt.Sprintf("Installing %s", target), map[string]interface{}{
		"target": string(target),
		"dir":    dir,
	})

	if err := fsutil.EnsureDirectory(dir); err != nil {
		return fmt.Errorf("install %s: %w", target, err)
	}

	i.provision(ctx, target, dir)

	if err := i.renderArtifacts(target, dir); err != nil {
		return fmt.Errorf("install %s: %w", target, err)
	}

	i.logger.Info("install.done", fmt.Sprintf("%s installed", target), map[string]interface{}{
		"target": string(target),
		"dir":    dir,
	})

	return nil
}

// provision clones the upstream tree and creates the venv. Both steps are
// best-effort: a missing git or python degrades with a warning, and the
// generated artifacts are written regardless.
func (i *Installer) provision(ctx context.Context, target Target, dir string) {
	repo := i.repoFor(target)

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		i.logger.Debug("install.clone.skip", "Working tree already cloned", map[string]interface{}{
			"dir": dir,
		})
	} else if _, err := i.runner.Run(ctx, "git", "clone", "--depth", "1", repo, dir); err != nil {
		i.logger.Warn("install.clone.failed", "Could not clone upstream repository", map[string]interface{}{
			"repo":  repo,
			"error": err.Error(),
		})
	}

	venvDir := filepath.Join(dir, "venv")
	if _, err := os.Stat(venvDir); err == nil {
		i.logger.Debug("install.venv.skip", "Virtual environment already present", map[string]interface{}{
			"dir": venvDir,
		})
	} else if _, err := i.runner.Run(ctx, i.cfg.Install.PythonBin, "-m", "venv", venvDir); err != nil {
		i.logger.Warn("install.venv.failed", "Could not create virtual environment", map[string]interface{}{
			"python": i.cfg.Install.PythonBin,
			"error":  err.Error(),
		})
	}
}

func (i *Installer) repoFor(target Target) string {
	if target == TargetWebUI {
		return i.cfg.Install.WebUIRepo
	}
	return i.cfg.Install.UpscalerRepo
}

// renderArtifacts writes the generated entry points for the target.
// Rendering failures are fatal: a half-configured tree is unsafe to launch.
func (i *Installer) renderArtifacts(target Target, dir string) error {
	renderer := render.NewRenderer(dir, i.logger)
	fields := render.ProfileFields(i.prof).Merge(render.Fields{
		"install_dir": dir,
	})

	switch target {
	case TargetWebUI:
		return renderer.Render(render.WebUILauncher, fields)
	default:
		return renderer.Render(render.UpscalerLauncher, fields)
	}
}
