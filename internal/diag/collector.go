package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mlrig/internal/hardware"
	"mlrig/internal/logging"
)

// Collector gathers diagnostic artifacts
type Collector struct {
	config   *Config
	redactor *Redactor
	logger   *logging.Logger
}

// NewCollector creates a new diagnostic collector
func NewCollector(config *Config, logger *logging.Logger) *Collector {
	return &Collector{
		config:   config,
		redactor: NewRedactor(),
		logger:   logger,
	}
}

// CollectArtifacts gathers the generated launcher and boot config files.
// Shell artifacts pass through the redactor since they export environment
// variables.
func (c *Collector) CollectArtifacts() (map[string][]byte, error) {
	if !c.config.IncludeArtifacts {
		return nil, nil
	}

	files := make(map[string][]byte)

	if _, err := os.Stat(c.config.ArtifactDir); os.IsNotExist(err) {
		c.logger.Warn("diag.collect.artifacts.missing", "Artifact directory not found", map[string]interface{}{
			"path": c.config.ArtifactDir,
		})
		return files, nil
	}

	err := filepath.Walk(c.config.ArtifactDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			c.logger.Warn("diag.collect.artifacts.walk_error", "Error accessing file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}
		if info.IsDir() {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			c.logger.Warn("diag.collect.artifacts.read_error", "Failed to read artifact", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}

		relPath, err := filepath.Rel(c.config.ArtifactDir, path)
		if err != nil {
			relPath = filepath.Base(path)
		}

		files["artifacts/"+relPath] = []byte(c.redactor.Redact(string(content)))
		return nil
	})

	if err != nil {
		return files, fmt.Errorf("failed to walk artifact directory: %w", err)
	}

	c.logger.Info("diag.collect.artifacts.complete", "Artifact collection complete", map[string]interface{}{
		"file_count": len(files),
	})

	return files, nil
}

// CollectConfig gathers and redacts the configuration file
func (c *Collector) CollectConfig() (map[string][]byte, error) {
	if !c.config.IncludeConfig {
		return nil, nil
	}

	files := make(map[string][]byte)

	if _, err := os.Stat(c.config.ConfigPath); os.IsNotExist(err) {
		c.logger.Warn("diag.collect.config.missing", "Config file not found", map[string]interface{}{
			"path": c.config.ConfigPath,
		})
		return files, nil
	}

	content, err := os.ReadFile(c.config.ConfigPath)
	if err != nil {
		return files, fmt.Errorf("failed to read config: %w", err)
	}

	files["config/config.yaml"] = []byte(c.redactor.Redact(string(content)))

	c.logger.Info("diag.collect.config.complete", "Config collection complete", map[string]interface{}{
		"redacted": true,
	})

	return files, nil
}

// CollectHardware serializes the detected facts into the package
func (c *Collector) CollectHardware(facts hardware.Facts) (map[string][]byte, error) {
	files := make(map[string][]byte)

	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return files, fmt.Errorf("failed to marshal hardware facts: %w", err)
	}
	files["hardware_report.json"] = data

	return files, nil
}

// CollectSystemInfo gathers host and version information
func (c *Collector) CollectSystemInfo() (map[string][]byte, error) {
	files := make(map[string][]byte)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	sysInfo := map[string]interface{}{
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"host":          hostname,
		"mlrig_version": c.config.Version,
	}

	sysInfoJSON, err := json.MarshalIndent(sysInfo, "", "  ")
	if err != nil {
		return files, fmt.Errorf("failed to marshal system info: %w", err)
	}

	files["system_info.json"] = sysInfoJSON

	return files, nil
}

// CalculateSHA256 computes SHA256 hash of data
func CalculateSHA256(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
