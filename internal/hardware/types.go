package hardware

// Vendor identifies the GPU vendor class used for execution-mode selection
type Vendor string

const (
	// VendorNVIDIA indicates an NVIDIA GPU (CUDA-capable).
	VendorNVIDIA Vendor = "nvidia"
	// VendorAMD indicates an AMD GPU (ROCm-capable).
	VendorAMD Vendor = "amd"
	// VendorIntel indicates Intel graphics, treated as CPU execution here.
	VendorIntel Vendor = "intel"
	// VendorNone indicates no recognized GPU (CPU-only).
	VendorNone Vendor = "none"
)

// DistroID identifies the host distribution family
type DistroID string

const (
	DistroArch   DistroID = "arch"
	DistroUbuntu DistroID = "ubuntu"
	DistroDebian DistroID = "debian"
	DistroFedora DistroID = "fedora"
	DistroOther  DistroID = "other"
)

// Tool identifies an optional external tool probed at startup
type Tool string

const (
	ToolFFmpeg    Tool = "ffmpeg"
	ToolCPUPower  Tool = "cpupower"
	ToolNvidiaSMI Tool = "nvidia_smi"
	ToolSystemd   Tool = "systemd"
)

// Facts is the immutable hardware record produced once per run.
// Every field is a best-effort observation: absent tools degrade to
// zero values instead of failing detection.
type Facts struct {
	GPUVendor Vendor   `json:"gpu_vendor"`
	GPUName   string   `json:"gpu_name"`
	VRAMMB    int      `json:"vram_mb"`
	DistroID  DistroID `json:"distro_id"`
	Tools     []Tool   `json:"tooling_available"`
	Governors []string `json:"available_governors,omitempty"`
}

// HasTool reports whether the given tool was found during detection
func (f Facts) HasTool(tool Tool) bool {
	for _, t := range f.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// HasGovernor reports whether the kernel exposes the given scaling governor
func (f Facts) HasGovernor(name string) bool {
	for _, g := range f.Governors {
		if g == name {
			return true
		}
	}
	return false
}
