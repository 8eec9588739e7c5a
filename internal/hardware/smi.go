package hardware

import (
	"context"
	"strconv"
	"strings"
)

// genericNvidiaName is reported when nvidia-smi answers but prints no usable name.
const genericNvidiaName = "NVIDIA GPU"

// nvidiaSMIResult holds the parsed output of a successful nvidia-smi query
type nvidiaSMIResult struct {
	Name   string
	VRAMMB int
}

// queryNvidiaSMI probes nvidia-smi for the first GPU's name and total memory.
// Returns nil when the tool is absent, fails or prints nothing parseable.
func queryNvidiaSMI(ctx context.Context, runner CommandRunner) *nvidiaSMIResult {
	output, err := runner.Run(ctx, "nvidia-smi",
		"--query-gpu=name,memory.total",
		"--format=csv,noheader,nounits")
	if err != nil {
		return nil
	}

	stdout := strings.TrimSpace(output)
	if stdout == "" {
		// The tool ran but reported no GPUs; treat as a present NVIDIA stack
		// with an unknown device.
		return &nvidiaSMIResult{Name: genericNvidiaName}
	}

	// nvidia-smi separates CSV fields with ", "; only the first GPU matters here
	line := strings.TrimSpace(strings.Split(stdout, "\n")[0])
	parts := strings.Split(line, ", ")

	result := &nvidiaSMIResult{Name: genericNvidiaName}
	if name := strings.TrimSpace(parts[0]); name != "" {
		result.Name = name
	}

	if len(parts) >= 2 {
		if mb, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil && mb > 0 {
			result.VRAMMB = int(mb)
		}
	}

	return result
}

// queryROCmVRAM probes rocm-smi for total VRAM in megabytes.
// Returns 0 when the tool is absent or its output is not parseable.
func queryROCmVRAM(ctx context.Context, runner CommandRunner) int {
	output, err := runner.Run(ctx, "rocm-smi", "--showmeminfo", "vram")
	if err != nil {
		return 0
	}

	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "Total Memory") && !strings.Contains(line, "VRAM Total") {
			continue
		}
		for _, field := range strings.Fields(line) {
			val, err := strconv.ParseUint(field, 10, 64)
			if err != nil {
				continue
			}
			switch {
			case val > 1_000_000_000:
				// bytes
				return int(val / (1024 * 1024))
			case val > 1_000_000:
				// kilobytes
				return int(val / 1024)
			default:
				// already megabytes
				return int(val)
			}
		}
	}

	return 0
}
