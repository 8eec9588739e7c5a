package profile

import (
	"strings"

	"mlrig/internal/hardware"
)

// problematicModelSubstrings lists NVIDIA model fragments known to produce
// corrupted output under fp16. The override is about correctness, not speed,
// so it outranks the default fp16 rule for NVIDIA.
var problematicModelSubstrings = []string{
	"GTX 16",
	"MX450",
	"MX550",
}

// vendorRule is one entry of the ordered precision/device decision table.
// Rules are evaluated top-down; the first match wins.
type vendorRule struct {
	name    string
	matches func(hardware.Facts) bool
	apply   func(*Profile)
}

// vendorRules resolves precision and device mode from the GPU facts.
// The table is ordered so the fp32 correctness override precedes the
// general NVIDIA fp16 rule.
var vendorRules = []vendorRule{
	{
		name: "nvidia-problematic-model",
		matches: func(f hardware.Facts) bool {
			return f.GPUVendor == hardware.VendorNVIDIA && isProblematicModel(f.GPUName)
		},
		apply: func(p *Profile) {
			p.Precision = PrecisionFP32
			p.DeviceMode = DeviceCUDA
		},
	},
	{
		name: "nvidia",
		matches: func(f hardware.Facts) bool {
			return f.GPUVendor == hardware.VendorNVIDIA
		},
		apply: func(p *Profile) {
			p.Precision = PrecisionFP16
			p.DeviceMode = DeviceCUDA
		},
	},
	{
		name: "amd",
		matches: func(f hardware.Facts) bool {
			return f.GPUVendor == hardware.VendorAMD
		},
		apply: func(p *Profile) {
			p.Precision = PrecisionFP32
			p.DeviceMode = DeviceROCm
		},
	},
	{
		name: "cpu",
		matches: func(f hardware.Facts) bool {
			return f.GPUVendor == hardware.VendorIntel || f.GPUVendor == hardware.VendorNone
		},
		apply: func(p *Profile) {
			p.Precision = PrecisionFP32
			p.DeviceMode = DeviceCPU
		},
	},
}

// isProblematicModel matches the GPU name against the known-bad list
func isProblematicModel(name string) bool {
	upper := strings.ToUpper(name)
	for _, fragment := range problematicModelSubstrings {
		if strings.Contains(upper, strings.ToUpper(fragment)) {
			return true
		}
	}
	return false
}
