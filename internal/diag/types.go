package diag

import "time"

// Manifest represents the diagnostic package manifest
type Manifest struct {
	Timestamp    string         `json:"timestamp"`
	Host         string         `json:"host"`
	MlrigVersion string         `json:"mlrig_version"`
	Files        []ManifestFile `json:"files"`
}

// ManifestFile represents a file in the diagnostic package
type ManifestFile struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SHA256    string `json:"sha256"`
}

// Config configures diagnostic collection
type Config struct {
	ArtifactDir      string
	ConfigPath       string
	OutputPath       string
	IncludeArtifacts bool
	IncludeConfig    bool
	Version          string
}

// NewConfig creates a default diagnostic config. ArtifactDir should be
// the renderer output directory so generated launchers end up in the
// package alongside the hardware report.
func NewConfig(version, artifactDir, configPath string) *Config {
	return &Config{
		ArtifactDir:      artifactDir,
		ConfigPath:       configPath,
		OutputPath:       generateOutputPath(),
		IncludeArtifacts: true,
		IncludeConfig:    true,
		Version:          version,
	}
}

func generateOutputPath() string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	return "mlrig-diag-" + timestamp + ".zip"
}
