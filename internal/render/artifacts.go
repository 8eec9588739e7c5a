package render

import (
	"mlrig/internal/fsutil"
	"mlrig/internal/profile"
)

// UpscalerLauncher is the generated launcher script for the upscaler tree.
// The activation, working-directory and exec sequence is fixed; only the
// profile values vary between hosts.
var UpscalerLauncher = Template{
	Name:       "upscaler-launcher",
	Language:   LangShell,
	OutputFile: "upscale.sh",
	Mode:       fsutil.DefaultScriptPermissions,
	Body: `#!/usr/bin/env bash
# Generated by mlrig. Regenerated on every install; do not edit.
set -euo pipefail

cd "{{install_dir}}"
source venv/bin/activate

export MLRIG_FP32={{use_fp32}}
exec python inference_realesrgan.py --tile {{tile_size}} "$@"
`,
}

// WebUILauncher is the generated web entry point. The consumer parses the
// half-precision boolean and the device-mode string, so both substitutions
// must be exact literals in Python syntax.
var WebUILauncher = Template{
	Name:       "webui-launcher",
	Language:   LangPython,
	OutputFile: "webui_launch.py",
	Mode:       fsutil.DefaultFilePermissions,
	Body: `# Generated by mlrig. Regenerated on every install; do not edit.

half_precision = {{use_half}}
device_mode = "{{device_mode}}"
tile_size = {{tile_size}}
commandline_args = "{{launch_args}}"

from launcher import run

run(
    half=half_precision,
    device=device_mode,
    tile=tile_size,
    extra_args=commandline_args.split(),
)
`,
}

// CPUPowerConfig is the boot-persistence file for the frequency governor.
// The governor value is single-quoted and both frequency bounds default
// to 0, matching what the cpupower service parses.
var CPUPowerConfig = Template{
	Name:       "cpupower-config",
	Language:   LangINI,
	OutputFile: "cpupower",
	Mode:       fsutil.DefaultFilePermissions,
	Body: `# Generated by mlrig. Regenerated on every tuning run; do not edit.
governor='{{governor}}'
min_freq="0"
max_freq="0"
`,
}

// ProfileFields maps a resolved profile to the renderer's field schema
func ProfileFields(p profile.Profile) Fields {
	return Fields{
		"use_half":    p.Precision == profile.PrecisionFP16,
		"use_fp32":    p.Precision == profile.PrecisionFP32,
		"device_mode": string(p.DeviceMode),
		"tile_size":   p.TileSize,
		"launch_args": p.LaunchArgs,
		"governor":    string(p.Governor),
	}
}
