package profile

import (
	"mlrig/internal/hardware"
)

// Launch argument tiers for the web pipeline, keyed by available VRAM.
// Unknown VRAM (0) gets no flags: the selector makes no assumption.
var (
	lowVRAMArgs  = []string{"--lowvram"}
	midVRAMArgs  = []string{"--medvram"}
	highVRAMArgs = []string{"--xformers"}
)

// Select derives a Profile from a hardware Facts record.
// It is total over the facts domain and performs no I/O: the vendor table
// always matches (the cpu rule catches intel and none), and every VRAM
// value maps to exactly one launch-argument tier.
func Select(facts hardware.Facts) Profile {
	p := Profile{}

	for _, rule := range vendorRules {
		if rule.matches(facts) {
			rule.apply(&p)
			break
		}
	}

	if p.DeviceMode == DeviceCUDA {
		p.TileSize = tileSizeGPU
	} else {
		p.TileSize = tileSizeCPU
	}

	p.LaunchArgs = launchArgsForVRAM(facts.VRAMMB)

	return p
}

// launchArgsForVRAM maps VRAM in megabytes to a launch-argument tier.
// Boundaries are 4096 and 8192 MB; 0 means unknown and yields no flags.
func launchArgsForVRAM(vramMB int) []string {
	switch {
	case vramMB <= 0:
		return []string{}
	case vramMB < LowVRAMThresholdMB:
		return append([]string{}, lowVRAMArgs...)
	case vramMB < HighVRAMThresholdMB:
		return append([]string{}, midVRAMArgs...)
	default:
		return append([]string{}, highVRAMArgs...)
	}
}

// GovernorFor maps a power mode to a scaling governor. Balanced prefers
// schedutil and falls back to ondemand on kernels that lack it. The choice
// never depends on GPU facts, only on the governor inventory.
func GovernorFor(mode PowerMode, facts hardware.Facts) Governor {
	switch mode {
	case PowerPerformance:
		return GovernorPerformance
	case PowerPowersave:
		return GovernorPowersave
	default:
		if facts.HasGovernor(string(GovernorSchedutil)) {
			return GovernorSchedutil
		}
		return GovernorOndemand
	}
}
