package profile

// Precision is the numeric width handed to the compute pipeline
type Precision string

const (
	// PrecisionFP16 enables half precision; faster, but corrupts output on
	// some NVIDIA models.
	PrecisionFP16 Precision = "fp16"
	// PrecisionFP32 is the safe full-precision default.
	PrecisionFP32 Precision = "fp32"
)

// DeviceMode selects the execution backend for the downstream pipeline
type DeviceMode string

const (
	DeviceCUDA DeviceMode = "cuda"
	DeviceROCm DeviceMode = "rocm"
	DeviceCPU  DeviceMode = "cpu"
)

// Governor is a kernel CPU frequency-scaling policy name
type Governor string

const (
	GovernorPerformance Governor = "performance"
	GovernorSchedutil   Governor = "schedutil"
	GovernorOndemand    Governor = "ondemand"
	GovernorPowersave   Governor = "powersave"
)

// PowerMode is the user-selected power preference the governor derives from
type PowerMode string

const (
	PowerPerformance PowerMode = "performance"
	PowerBalanced    PowerMode = "balanced"
	PowerPowersave   PowerMode = "powersave"
)

// Tile sizes bounding per-step memory use of the image pipeline.
const (
	tileSizeGPU = 200
	tileSizeCPU = 100
)

// VRAM thresholds (MB) for the launch-argument tiers.
const (
	LowVRAMThresholdMB  = 4096
	HighVRAMThresholdMB = 8192
)

// Profile is the configuration derived from a hardware Facts record.
// It is a pure function of the facts plus the chosen power mode: equal
// inputs always produce equal profiles.
type Profile struct {
	Precision  Precision  `json:"precision"`
	DeviceMode DeviceMode `json:"device_mode"`
	TileSize   int        `json:"tile_size"`
	LaunchArgs []string   `json:"launch_args"`
	Governor   Governor   `json:"governor,omitempty"`
}

// WithGovernor returns a copy of the profile with the governor set.
// The governor is independent of GPU facts and is attached separately
// from selection.
func (p Profile) WithGovernor(g Governor) Profile {
	p.Governor = g
	return p
}

// WithPrecision returns a copy with precision forced, used for config overrides
func (p Profile) WithPrecision(precision Precision) Profile {
	p.Precision = precision
	return p
}
