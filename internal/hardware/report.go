package hardware

import (
	"encoding/json"
	"fmt"
	"os"

	"mlrig/internal/logging"
)

// SaveReport persists a facts record as indented JSON, for diagnostics and
// for feeding headless provisioning runs.
func SaveReport(facts Facts, path string, logger *logging.Logger) error {
	data, err := json.MarshalIndent(facts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal hardware report: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write hardware report: %w", err)
	}

	if logger != nil {
		logger.Info("detect.report.saved", "Hardware report saved", map[string]interface{}{
			"path": path,
		})
	}

	return nil
}
