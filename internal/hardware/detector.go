package hardware

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"mlrig/internal/logging"
)

const (
	// defaultProbeTimeout bounds each external probe so a hung tool cannot
	// stall detection; a timeout is treated like a missing tool.
	defaultProbeTimeout = 10 * time.Second

	defaultGovernorsPath = "/sys/devices/system/cpu/cpu0/cpufreq/scaling_available_governors"
	defaultSystemdPath   = "/run/systemd/system"
)

// Detector assembles a Facts record from independent best-effort probes.
// Detection never fails: every probe degrades to a zero value on error.
type Detector struct {
	nvml          NVMLInterface
	runner        CommandRunner
	pci           PCIScanner
	distro        DistroProvider
	governorsPath string
	systemdPath   string
	probeTimeout  time.Duration
	logger        *logging.Logger
}

// NewDetector creates a detector backed by the real host probes
func NewDetector(logger *logging.Logger, probeTimeout time.Duration) *Detector {
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &Detector{
		nvml:          NewRealNVML(),
		runner:        NewExecRunner(),
		pci:           NewGHWScanner(),
		distro:        NewGopsutilDistro(),
		governorsPath: defaultGovernorsPath,
		systemdPath:   defaultSystemdPath,
		probeTimeout:  probeTimeout,
		logger:        logger,
	}
}

// Probes carries replacement probe implementations for testing
type Probes struct {
	NVML          NVMLInterface
	Runner        CommandRunner
	PCI           PCIScanner
	Distro        DistroProvider
	GovernorsPath string
	SystemdPath   string
}

// NewDetectorWithProbes creates a detector with custom probes (for testing)
func NewDetectorWithProbes(probes Probes, logger *logging.Logger) *Detector {
	d := NewDetector(logger, defaultProbeTimeout)
	if probes.NVML != nil {
		d.nvml = probes.NVML
	}
	if probes.Runner != nil {
		d.runner = probes.Runner
	}
	if probes.PCI != nil {
		d.pci = probes.PCI
	}
	if probes.Distro != nil {
		d.distro = probes.Distro
	}
	if probes.GovernorsPath != "" {
		d.governorsPath = probes.GovernorsPath
	}
	if probes.SystemdPath != "" {
		d.systemdPath = probes.SystemdPath
	}
	return d
}

// Detect runs all probes sequentially and returns the assembled facts
func (d *Detector) Detect(ctx context.Context) Facts {
	d.logger.Info("detect.start", "Starting hardware detection", nil)

	facts := Facts{
		GPUVendor: VendorNone,
		DistroID:  DistroOther,
	}

	d.detectGPU(ctx, &facts)
	d.detectDistro(ctx, &facts)
	d.detectTools(&facts)
	d.detectGovernors(&facts)

	d.logger.Info("detect.done", "Hardware detection complete", map[string]interface{}{
		"gpu_vendor": string(facts.GPUVendor),
		"gpu_name":   facts.GPUName,
		"vram_mb":    facts.VRAMMB,
		"distro":     string(facts.DistroID),
		"tools":      len(facts.Tools),
	})

	return facts
}

// detectGPU resolves vendor, name and VRAM in priority order:
// NVML, nvidia-smi, rocm-smi or AMD PCI device, Intel PCI device, none.
// Intel graphics are classified but never treated as an accelerator.
func (d *Detector) detectGPU(ctx context.Context, facts *Facts) {
	if d.detectNvidiaNVML(facts) {
		return
	}
	if d.detectNvidiaSMI(ctx, facts) {
		return
	}
	if d.detectAMD(ctx, facts) {
		return
	}
	if d.detectIntel(facts) {
		return
	}

	d.logger.Info("detect.gpu.none", "No supported GPU found, using CPU mode", nil)
}

func (d *Detector) detectNvidiaNVML(facts *Facts) bool {
	ret := d.nvml.Init()
	if ret != nvml.SUCCESS {
		d.logger.Debug("detect.nvml.unavailable", "NVML initialization failed", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
		return false
	}
	defer d.nvml.Shutdown()

	count, ret := d.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS || count == 0 {
		return false
	}

	facts.GPUVendor = VendorNVIDIA
	facts.GPUName = genericNvidiaName

	device, ret := d.nvml.DeviceGetHandleByIndex(0)
	if ret != nvml.SUCCESS {
		d.logger.Warn("detect.nvml.handle_failed", "Failed to get device handle", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
		return true
	}

	if name, ret := device.GetName(); ret == nvml.SUCCESS && strings.TrimSpace(name) != "" {
		facts.GPUName = strings.TrimSpace(name)
	}
	if memInfo, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
		facts.VRAMMB = int(memInfo.Total / (1024 * 1024))
	}

	d.logger.Info("detect.gpu.nvidia", "NVIDIA GPU detected via NVML", map[string]interface{}{
		"name":    facts.GPUName,
		"vram_mb": facts.VRAMMB,
	})
	return true
}

func (d *Detector) detectNvidiaSMI(ctx context.Context, facts *Facts) bool {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	result := queryNvidiaSMI(probeCtx, d.runner)
	if result == nil {
		return false
	}

	facts.GPUVendor = VendorNVIDIA
	facts.GPUName = result.Name
	facts.VRAMMB = result.VRAMMB

	d.logger.Info("detect.gpu.nvidia", "NVIDIA GPU detected via nvidia-smi", map[string]interface{}{
		"name":    facts.GPUName,
		"vram_mb": facts.VRAMMB,
	})
	return true
}

func (d *Detector) detectAMD(ctx context.Context, facts *Facts) bool {
	if _, err := d.runner.LookPath("rocm-smi"); err == nil {
		facts.GPUVendor = VendorAMD
		facts.GPUName = "AMD GPU"

		probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
		defer cancel()
		facts.VRAMMB = queryROCmVRAM(probeCtx, d.runner)

		d.logger.Info("detect.gpu.amd", "AMD GPU detected via rocm-smi", map[string]interface{}{
			"vram_mb": facts.VRAMMB,
		})
		return true
	}

	controllers, err := d.pci.VideoControllers()
	if err != nil {
		d.logger.Warn("detect.pci.failed", "PCI scan failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}

	for _, c := range controllers {
		if matchesAMD(c) {
			facts.GPUVendor = VendorAMD
			facts.GPUName = strings.TrimSpace(c.Product)
			if facts.GPUName == "" {
				facts.GPUName = "AMD GPU"
			}
			d.logger.Info("detect.gpu.amd", "AMD video controller found on PCI bus", map[string]interface{}{
				"name": facts.GPUName,
			})
			return true
		}
	}

	return false
}

func (d *Detector) detectIntel(facts *Facts) bool {
	controllers, err := d.pci.VideoControllers()
	if err != nil {
		return false
	}

	for _, c := range controllers {
		if matchesIntel(c) {
			facts.GPUVendor = VendorIntel
			facts.GPUName = strings.TrimSpace(c.Product)
			if facts.GPUName == "" {
				facts.GPUName = "Intel Graphics"
			}
			d.logger.Info("detect.gpu.intel", "Intel graphics found, will run in CPU mode", map[string]interface{}{
				"name": facts.GPUName,
			})
			return true
		}
	}

	return false
}

func (d *Detector) detectDistro(ctx context.Context, facts *Facts) {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	platform, err := d.distro.Platform(probeCtx)
	if err != nil {
		d.logger.Warn("detect.distro.failed", "Could not read OS identity, assuming 'other'", map[string]interface{}{
			"error": err.Error(),
		})
		facts.DistroID = DistroOther
		return
	}

	facts.DistroID = classifyDistro(platform)
	d.logger.Debug("detect.distro", "Distro resolved", map[string]interface{}{
		"platform": platform,
		"distro":   string(facts.DistroID),
	})
}

func (d *Detector) detectTools(facts *Facts) {
	binaries := []struct {
		tool   Tool
		binary string
	}{
		{ToolFFmpeg, "ffmpeg"},
		{ToolCPUPower, "cpupower"},
		{ToolNvidiaSMI, "nvidia-smi"},
	}

	for _, probe := range binaries {
		if _, err := d.runner.LookPath(probe.binary); err == nil {
			facts.Tools = append(facts.Tools, probe.tool)
		} else {
			d.logger.Debug("detect.tool.missing", "Optional tool not found", map[string]interface{}{
				"tool": string(probe.tool),
			})
		}
	}

	if info, err := os.Stat(d.systemdPath); err == nil && info.IsDir() {
		facts.Tools = append(facts.Tools, ToolSystemd)
	}
}

func (d *Detector) detectGovernors(facts *Facts) {
	data, err := os.ReadFile(d.governorsPath)
	if err != nil {
		d.logger.Debug("detect.governors.unavailable", "No cpufreq governor inventory", map[string]interface{}{
			"path": d.governorsPath,
		})
		return
	}

	facts.Governors = strings.Fields(string(data))
}
