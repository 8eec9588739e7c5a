package profile

import (
	"reflect"
	"testing"

	"mlrig/internal/hardware"
)

func TestSelect_NvidiaDefaultsToFP16(t *testing.T) {
	facts := hardware.Facts{
		GPUVendor: hardware.VendorNVIDIA,
		GPUName:   "NVIDIA GeForce RTX 3080",
		VRAMMB:    10240,
	}

	p := Select(facts)

	if p.Precision != PrecisionFP16 {
		t.Errorf("Expected fp16 for NVIDIA, got %s", p.Precision)
	}
	if p.DeviceMode != DeviceCUDA {
		t.Errorf("Expected cuda device mode, got %s", p.DeviceMode)
	}
}

func TestSelect_ProblematicModelOverridesToFP32(t *testing.T) {
	tests := []string{
		"GeForce GTX 1660 SUPER",
		"NVIDIA GeForce GTX 1650",
		"GeForce MX450",
		"geforce gtx 1660 ti",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			facts := hardware.Facts{
				GPUVendor: hardware.VendorNVIDIA,
				GPUName:   name,
				VRAMMB:    6144,
			}

			p := Select(facts)

			if p.Precision != PrecisionFP32 {
				t.Errorf("Expected fp32 override for %q, got %s", name, p.Precision)
			}
			if p.DeviceMode != DeviceCUDA {
				t.Errorf("Override must keep cuda device mode, got %s", p.DeviceMode)
			}
		})
	}
}

func TestSelect_NonNvidiaAlwaysFP32(t *testing.T) {
	tests := []struct {
		vendor hardware.Vendor
		device DeviceMode
	}{
		{hardware.VendorAMD, DeviceROCm},
		{hardware.VendorIntel, DeviceCPU},
		{hardware.VendorNone, DeviceCPU},
	}

	for _, tt := range tests {
		t.Run(string(tt.vendor), func(t *testing.T) {
			p := Select(hardware.Facts{GPUVendor: tt.vendor})

			if p.Precision != PrecisionFP32 {
				t.Errorf("Expected fp32 for %s, got %s", tt.vendor, p.Precision)
			}
			if p.DeviceMode != tt.device {
				t.Errorf("Expected device %s for %s, got %s", tt.device, tt.vendor, p.DeviceMode)
			}
		})
	}
}

func TestSelect_TileSizeFollowsDeviceMode(t *testing.T) {
	cuda := Select(hardware.Facts{GPUVendor: hardware.VendorNVIDIA, GPUName: "RTX 4090"})
	if cuda.TileSize != 200 {
		t.Errorf("Expected tile size 200 for cuda, got %d", cuda.TileSize)
	}

	rocm := Select(hardware.Facts{GPUVendor: hardware.VendorAMD})
	if rocm.TileSize != 100 {
		t.Errorf("Expected tile size 100 for rocm, got %d", rocm.TileSize)
	}

	cpu := Select(hardware.Facts{GPUVendor: hardware.VendorNone})
	if cpu.TileSize != 100 {
		t.Errorf("Expected tile size 100 for cpu, got %d", cpu.TileSize)
	}
}

func TestSelect_LaunchArgTiersAreExhaustive(t *testing.T) {
	tests := []struct {
		vramMB int
		want   []string
	}{
		{0, []string{}},
		{1, []string{"--lowvram"}},
		{4095, []string{"--lowvram"}},
		{4096, []string{"--medvram"}},
		{8191, []string{"--medvram"}},
		{8192, []string{"--xformers"}},
		{24576, []string{"--xformers"}},
	}

	for _, tt := range tests {
		facts := hardware.Facts{GPUVendor: hardware.VendorNVIDIA, GPUName: "RTX", VRAMMB: tt.vramMB}
		p := Select(facts)
		if !reflect.DeepEqual(p.LaunchArgs, tt.want) {
			t.Errorf("vram=%d: LaunchArgs = %v, want %v", tt.vramMB, p.LaunchArgs, tt.want)
		}
	}
}

func TestSelect_IsPure(t *testing.T) {
	facts := hardware.Facts{
		GPUVendor: hardware.VendorNVIDIA,
		GPUName:   "GeForce GTX 1660 SUPER",
		VRAMMB:    6144,
	}

	first := Select(facts)
	second := Select(facts)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Select is not deterministic: %+v != %+v", first, second)
	}
}

func TestSelect_Scenario_GTX1660Super(t *testing.T) {
	facts := hardware.Facts{
		GPUVendor: hardware.VendorNVIDIA,
		GPUName:   "GeForce GTX 1660 SUPER",
		VRAMMB:    6144,
	}

	p := Select(facts)

	if p.Precision != PrecisionFP32 {
		t.Errorf("Expected fp32, got %s", p.Precision)
	}
	if p.DeviceMode != DeviceCUDA {
		t.Errorf("Expected cuda, got %s", p.DeviceMode)
	}
	if p.TileSize != 200 {
		t.Errorf("Expected tile 200, got %d", p.TileSize)
	}
	if !reflect.DeepEqual(p.LaunchArgs, []string{"--medvram"}) {
		t.Errorf("Expected medium-memory flags, got %v", p.LaunchArgs)
	}
}

func TestSelect_Scenario_RTX4090(t *testing.T) {
	facts := hardware.Facts{
		GPUVendor: hardware.VendorNVIDIA,
		GPUName:   "RTX 4090",
		VRAMMB:    24576,
	}

	p := Select(facts)

	if p.Precision != PrecisionFP16 {
		t.Errorf("Expected fp16, got %s", p.Precision)
	}
	if p.DeviceMode != DeviceCUDA {
		t.Errorf("Expected cuda, got %s", p.DeviceMode)
	}
	if p.TileSize != 200 {
		t.Errorf("Expected tile 200, got %d", p.TileSize)
	}
	if !reflect.DeepEqual(p.LaunchArgs, []string{"--xformers"}) {
		t.Errorf("Expected high-performance flag, got %v", p.LaunchArgs)
	}
}

func TestSelect_Scenario_CPUOnly(t *testing.T) {
	facts := hardware.Facts{GPUVendor: hardware.VendorNone}

	p := Select(facts)

	if p.Precision != PrecisionFP32 {
		t.Errorf("Expected fp32, got %s", p.Precision)
	}
	if p.DeviceMode != DeviceCPU {
		t.Errorf("Expected cpu, got %s", p.DeviceMode)
	}
	if p.TileSize != 100 {
		t.Errorf("Expected tile 100, got %d", p.TileSize)
	}
	if len(p.LaunchArgs) != 0 {
		t.Errorf("Expected no launch args, got %v", p.LaunchArgs)
	}
}

func TestGovernorFor(t *testing.T) {
	withSchedutil := hardware.Facts{Governors: []string{"performance", "schedutil", "powersave"}}
	withoutSchedutil := hardware.Facts{Governors: []string{"performance", "ondemand", "powersave"}}

	tests := []struct {
		name  string
		mode  PowerMode
		facts hardware.Facts
		want  Governor
	}{
		{"performance", PowerPerformance, withSchedutil, GovernorPerformance},
		{"powersave", PowerPowersave, withSchedutil, GovernorPowersave},
		{"balanced with schedutil", PowerBalanced, withSchedutil, GovernorSchedutil},
		{"balanced without schedutil", PowerBalanced, withoutSchedutil, GovernorOndemand},
		{"balanced with empty inventory", PowerBalanced, hardware.Facts{}, GovernorOndemand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GovernorFor(tt.mode, tt.facts); got != tt.want {
				t.Errorf("GovernorFor(%s) = %s, want %s", tt.mode, got, tt.want)
			}
		})
	}
}

func TestGovernorFor_IndependentOfGPUFacts(t *testing.T) {
	gpu := hardware.Facts{GPUVendor: hardware.VendorNVIDIA, GPUName: "RTX 4090", VRAMMB: 24576}
	cpu := hardware.Facts{GPUVendor: hardware.VendorNone}

	if GovernorFor(PowerPerformance, gpu) != GovernorFor(PowerPerformance, cpu) {
		t.Error("Governor selection must not depend on GPU facts")
	}
}

func TestWithGovernor_DoesNotMutateReceiver(t *testing.T) {
	p := Select(hardware.Facts{GPUVendor: hardware.VendorNone})
	q := p.WithGovernor(GovernorPerformance)

	if p.Governor != "" {
		t.Error("WithGovernor mutated the original profile")
	}
	if q.Governor != GovernorPerformance {
		t.Errorf("Expected governor performance, got %s", q.Governor)
	}
}
