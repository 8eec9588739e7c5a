package config

import (
	"fmt"
)

// Power mode names accepted by the tuner.
const (
	PowerModePerformance = "performance"
	PowerModeBalanced    = "balanced"
	PowerModePowersave   = "powersave"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validatePowerMode()...)
	errors = append(errors, c.validateProbeTimeout()...)
	errors = append(errors, c.validateOverrides()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validatePowerMode() []ValidationError {
	validModes := []string{PowerModePerformance, PowerModeBalanced, PowerModePowersave}
	if contains(validModes, c.PowerMode) {
		return nil
	}

	return []ValidationError{{
		Path:    "power_mode",
		Message: fmt.Sprintf("must be one of %v, got '%s'", validModes, c.PowerMode),
	}}
}

func (c *Config) validateProbeTimeout() []ValidationError {
	if c.ProbeTimeoutSeconds >= 1 && c.ProbeTimeoutSeconds <= 120 {
		return nil
	}

	return []ValidationError{{
		Path:    "probe_timeout_seconds",
		Message: fmt.Sprintf("must be between 1 and 120, got %d", c.ProbeTimeoutSeconds),
	}}
}

func (c *Config) validateOverrides() []ValidationError {
	var errors []ValidationError

	validVendors := []string{"", "nvidia", "amd", "intel", "none"}
	if !contains(validVendors, c.Overrides.GPUVendor) {
		errors = append(errors, ValidationError{
			Path:    "overrides.gpu_vendor",
			Message: fmt.Sprintf("must be one of %v or empty, got '%s'", validVendors[1:], c.Overrides.GPUVendor),
		})
	}

	validPrecisions := []string{"", "fp16", "fp32"}
	if !contains(validPrecisions, c.Overrides.Precision) {
		errors = append(errors, ValidationError{
			Path:    "overrides.precision",
			Message: fmt.Sprintf("must be one of %v or empty, got '%s'", validPrecisions[1:], c.Overrides.Precision),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
