package config

import "time"

// Config represents the complete mlrig configuration
type Config struct {
	OutputDir           string          `yaml:"output_dir"`
	InstallRoot         string          `yaml:"install_root"`
	PowerMode           string          `yaml:"power_mode"`
	ProbeTimeoutSeconds int             `yaml:"probe_timeout_seconds"`
	Install             InstallConfig   `yaml:"install"`
	Overrides           OverridesConfig `yaml:"overrides"`
	Logging             LoggingConfig   `yaml:"logging"`
}

// ProbeTimeout returns the per-probe deadline as a duration
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// InstallConfig represents upstream repository and interpreter settings
// consumed by the install orchestration
type InstallConfig struct {
	UpscalerRepo string `yaml:"upscaler_repo"`
	WebUIRepo    string `yaml:"webui_repo"`
	PythonBin    string `yaml:"python_bin"`
}

// OverridesConfig allows forcing detection results, mainly for headless
// provisioning where probing is undesirable. Empty values mean "detect".
type OverridesConfig struct {
	GPUVendor string `yaml:"gpu_vendor"`
	Precision string `yaml:"precision"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
