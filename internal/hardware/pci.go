package hardware

import (
	"strings"

	"github.com/jaypipes/ghw"
)

// VideoController describes a PCI display device found during the bus scan
type VideoController struct {
	Vendor  string
	Product string
}

// PCIScanner abstracts the PCI bus scan so detection can be tested without
// access to /sys
type PCIScanner interface {
	// VideoControllers returns all PCI display-class devices
	VideoControllers() ([]VideoController, error)
}

// GHWScanner implements PCIScanner using the ghw library
type GHWScanner struct{}

// NewGHWScanner creates a scanner backed by ghw's PCI inventory
func NewGHWScanner() *GHWScanner {
	return &GHWScanner{}
}

// VideoControllers lists PCI devices whose class is a display controller
func (s *GHWScanner) VideoControllers() ([]VideoController, error) {
	info, err := ghw.PCI()
	if err != nil {
		return nil, err
	}

	var controllers []VideoController
	for _, device := range info.Devices {
		if device.Class == nil || !isDisplayClass(device.Class.Name) {
			continue
		}

		controller := VideoController{}
		if device.Vendor != nil {
			controller.Vendor = device.Vendor.Name
		}
		if device.Product != nil {
			controller.Product = device.Product.Name
		}
		controllers = append(controllers, controller)
	}

	return controllers, nil
}

func isDisplayClass(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "display") || strings.Contains(lower, "vga")
}

// matchesAMD reports whether a controller looks like an AMD video device
func matchesAMD(c VideoController) bool {
	text := strings.ToLower(c.Vendor + " " + c.Product)
	return strings.Contains(text, "amd") ||
		strings.Contains(text, "advanced micro devices") ||
		strings.Contains(text, "radeon") ||
		strings.Contains(text, "ati ")
}

// matchesIntel reports whether a controller looks like an Intel video device
func matchesIntel(c VideoController) bool {
	text := strings.ToLower(c.Vendor + " " + c.Product)
	return strings.Contains(text, "intel")
}
