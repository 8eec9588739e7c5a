package hardware

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// DistroProvider abstracts OS identity lookup for testing
type DistroProvider interface {
	// Platform returns the OS platform identifier (os-release ID)
	Platform(ctx context.Context) (string, error)
}

// GopsutilDistro implements DistroProvider using gopsutil's host inventory
type GopsutilDistro struct{}

// NewGopsutilDistro creates the default distro provider
func NewGopsutilDistro() *GopsutilDistro {
	return &GopsutilDistro{}
}

// Platform returns the host platform string from os-release
func (g *GopsutilDistro) Platform(ctx context.Context) (string, error) {
	platform, _, _, err := host.PlatformInformationWithContext(ctx)
	return platform, err
}

// classifyDistro maps a platform identifier to a DistroID.
// Unrecognized platforms fall through to DistroOther.
func classifyDistro(platform string) DistroID {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "arch", "archlinux", "manjaro", "endeavouros":
		return DistroArch
	case "ubuntu", "linuxmint", "pop":
		return DistroUbuntu
	case "debian", "raspbian":
		return DistroDebian
	case "fedora":
		return DistroFedora
	default:
		return DistroOther
	}
}
