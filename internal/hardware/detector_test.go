package hardware

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"mlrig/internal/logging"
)

// fakeRunner simulates external probe commands
type fakeRunner struct {
	outputs  map[string]string
	binaries map[string]bool
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		outputs:  make(map[string]string),
		binaries: make(map[string]bool),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if out, ok := f.outputs[key]; ok {
		return out, nil
	}
	if out, ok := f.outputs[name]; ok {
		return out, nil
	}
	return "", errors.New("command not found")
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.binaries[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

// fakePCI simulates the PCI bus scan
type fakePCI struct {
	controllers []VideoController
	err         error
}

func (f *fakePCI) VideoControllers() ([]VideoController, error) {
	return f.controllers, f.err
}

// fakeDistro simulates OS identity lookup
type fakeDistro struct {
	platform string
	err      error
}

func (f *fakeDistro) Platform(_ context.Context) (string, error) {
	return f.platform, f.err
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelError)
}

func failingNVML() *MockNVML {
	m := NewMockNVML()
	m.InitReturn = nvml.ERROR_LIBRARY_NOT_FOUND
	return m
}

func TestDetect_NvidiaViaNVML(t *testing.T) {
	mockNVML := NewMockNVML()
	mockNVML.DeviceCount = 1
	mockNVML.Devices = []MockDevice{
		{
			Name:             "NVIDIA GeForce RTX 4090",
			NameReturn:       nvml.SUCCESS,
			MemoryTotal:      24 * 1024 * 1024 * 1024,
			MemoryInfoReturn: nvml.SUCCESS,
		},
	}

	detector := NewDetectorWithProbes(Probes{
		NVML:   mockNVML,
		Runner: newFakeRunner(),
		PCI:    &fakePCI{},
		Distro: &fakeDistro{platform: "arch"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorNVIDIA {
		t.Errorf("Expected vendor nvidia, got %s", facts.GPUVendor)
	}
	if facts.GPUName != "NVIDIA GeForce RTX 4090" {
		t.Errorf("Unexpected GPU name: %s", facts.GPUName)
	}
	if facts.VRAMMB != 24576 {
		t.Errorf("Expected 24576 MB VRAM, got %d", facts.VRAMMB)
	}
	if facts.DistroID != DistroArch {
		t.Errorf("Expected arch distro, got %s", facts.DistroID)
	}
}

func TestDetect_NvidiaViaSMIFallback(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["nvidia-smi --query-gpu=name,memory.total --format=csv,noheader,nounits"] =
		"GeForce GTX 1660 SUPER, 6144\n"

	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: runner,
		PCI:    &fakePCI{},
		Distro: &fakeDistro{platform: "ubuntu"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorNVIDIA {
		t.Errorf("Expected vendor nvidia, got %s", facts.GPUVendor)
	}
	if facts.GPUName != "GeForce GTX 1660 SUPER" {
		t.Errorf("Unexpected GPU name: %s", facts.GPUName)
	}
	if facts.VRAMMB != 6144 {
		t.Errorf("Expected 6144 MB VRAM, got %d", facts.VRAMMB)
	}
}

func TestDetect_NvidiaSMIEmptyOutputUsesPlaceholder(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["nvidia-smi --query-gpu=name,memory.total --format=csv,noheader,nounits"] = "\n"

	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: runner,
		PCI:    &fakePCI{},
		Distro: &fakeDistro{platform: "debian"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorNVIDIA {
		t.Errorf("Expected vendor nvidia, got %s", facts.GPUVendor)
	}
	if facts.GPUName != genericNvidiaName {
		t.Errorf("Expected placeholder name, got %s", facts.GPUName)
	}
	if facts.VRAMMB != 0 {
		t.Errorf("Expected unknown VRAM, got %d", facts.VRAMMB)
	}
}

func TestDetect_AMDViaROCmSMI(t *testing.T) {
	runner := newFakeRunner()
	runner.binaries["rocm-smi"] = true
	runner.outputs["rocm-smi --showmeminfo vram"] = "GPU[0] : VRAM Total Memory (B): 17163091968\n"

	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: runner,
		PCI:    &fakePCI{},
		Distro: &fakeDistro{platform: "fedora"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorAMD {
		t.Errorf("Expected vendor amd, got %s", facts.GPUVendor)
	}
	if facts.VRAMMB != 16368 {
		t.Errorf("Expected 16368 MB VRAM, got %d", facts.VRAMMB)
	}
	if facts.DistroID != DistroFedora {
		t.Errorf("Expected fedora distro, got %s", facts.DistroID)
	}
}

func TestDetect_AMDViaPCIScan(t *testing.T) {
	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: newFakeRunner(),
		PCI: &fakePCI{controllers: []VideoController{
			{Vendor: "Advanced Micro Devices, Inc. [AMD/ATI]", Product: "Navi 31 [Radeon RX 7900 XTX]"},
		}},
		Distro: &fakeDistro{platform: "arch"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorAMD {
		t.Errorf("Expected vendor amd, got %s", facts.GPUVendor)
	}
	if facts.GPUName != "Navi 31 [Radeon RX 7900 XTX]" {
		t.Errorf("Unexpected GPU name: %s", facts.GPUName)
	}
	if facts.VRAMMB != 0 {
		t.Errorf("Expected unknown VRAM from PCI scan, got %d", facts.VRAMMB)
	}
}

func TestDetect_IntelViaPCIScan(t *testing.T) {
	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: newFakeRunner(),
		PCI: &fakePCI{controllers: []VideoController{
			{Vendor: "Intel Corporation", Product: "UHD Graphics 770"},
		}},
		Distro: &fakeDistro{platform: "ubuntu"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorIntel {
		t.Errorf("Expected vendor intel, got %s", facts.GPUVendor)
	}
}

func TestDetect_NoGPU(t *testing.T) {
	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: newFakeRunner(),
		PCI:    &fakePCI{},
		Distro: &fakeDistro{platform: "gentoo"},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorNone {
		t.Errorf("Expected vendor none, got %s", facts.GPUVendor)
	}
	if facts.VRAMMB != 0 {
		t.Errorf("Expected 0 VRAM, got %d", facts.VRAMMB)
	}
	if facts.DistroID != DistroOther {
		t.Errorf("Expected distro other for unrecognized platform, got %s", facts.DistroID)
	}
}

func TestDetect_PCIScanFailureDegradesGracefully(t *testing.T) {
	detector := NewDetectorWithProbes(Probes{
		NVML:   failingNVML(),
		Runner: newFakeRunner(),
		PCI:    &fakePCI{err: errors.New("no /sys access")},
		Distro: &fakeDistro{err: errors.New("no os-release")},
	}, testLogger())

	facts := detector.Detect(context.Background())

	if facts.GPUVendor != VendorNone {
		t.Errorf("Expected vendor none on probe failure, got %s", facts.GPUVendor)
	}
	if facts.DistroID != DistroOther {
		t.Errorf("Expected distro other on probe failure, got %s", facts.DistroID)
	}
}

func TestDetect_ToolAvailability(t *testing.T) {
	runner := newFakeRunner()
	runner.binaries["ffmpeg"] = true
	runner.binaries["cpupower"] = true

	systemdDir := t.TempDir()

	detector := NewDetectorWithProbes(Probes{
		NVML:        failingNVML(),
		Runner:      runner,
		PCI:         &fakePCI{},
		Distro:      &fakeDistro{platform: "arch"},
		SystemdPath: systemdDir,
	}, testLogger())

	facts := detector.Detect(context.Background())

	if !facts.HasTool(ToolFFmpeg) {
		t.Error("Expected ffmpeg to be detected")
	}
	if !facts.HasTool(ToolCPUPower) {
		t.Error("Expected cpupower to be detected")
	}
	if facts.HasTool(ToolNvidiaSMI) {
		t.Error("Did not expect nvidia-smi to be detected")
	}
	if !facts.HasTool(ToolSystemd) {
		t.Error("Expected systemd to be detected via run directory")
	}
}

func TestDetect_GovernorInventory(t *testing.T) {
	govPath := filepath.Join(t.TempDir(), "scaling_available_governors")
	if err := os.WriteFile(govPath, []byte("performance schedutil powersave\n"), 0o600); err != nil {
		t.Fatalf("Failed to write governor file: %v", err)
	}

	detector := NewDetectorWithProbes(Probes{
		NVML:          failingNVML(),
		Runner:        newFakeRunner(),
		PCI:           &fakePCI{},
		Distro:        &fakeDistro{platform: "arch"},
		GovernorsPath: govPath,
	}, testLogger())

	facts := detector.Detect(context.Background())

	if !facts.HasGovernor("schedutil") {
		t.Error("Expected schedutil governor to be available")
	}
	if facts.HasGovernor("ondemand") {
		t.Error("Did not expect ondemand governor")
	}
}

func TestClassifyDistro(t *testing.T) {
	tests := []struct {
		platform string
		want     DistroID
	}{
		{"arch", DistroArch},
		{"manjaro", DistroArch},
		{"ubuntu", DistroUbuntu},
		{"pop", DistroUbuntu},
		{"debian", DistroDebian},
		{"raspbian", DistroDebian},
		{"fedora", DistroFedora},
		{"opensuse", DistroOther},
		{"", DistroOther},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			if got := classifyDistro(tt.platform); got != tt.want {
				t.Errorf("classifyDistro(%q) = %s, want %s", tt.platform, got, tt.want)
			}
		})
	}
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hardware.json")
	facts := Facts{
		GPUVendor: VendorNVIDIA,
		GPUName:   "RTX 4090",
		VRAMMB:    24576,
		DistroID:  DistroArch,
		Tools:     []Tool{ToolFFmpeg, ToolNvidiaSMI},
	}

	if err := SaveReport(facts, path, testLogger()); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"gpu_vendor": "nvidia"`) {
		t.Errorf("Report missing vendor field: %s", data)
	}
}
