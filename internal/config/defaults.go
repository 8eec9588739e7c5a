package config

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		OutputDir:           "/var/lib/mlrig/generated",
		InstallRoot:         "/opt/mlrig",
		PowerMode:           "balanced",
		ProbeTimeoutSeconds: 10,
		Install: InstallConfig{
			UpscalerRepo: "https://github.com/xinntao/Real-ESRGAN.git",
			WebUIRepo:    "https://github.com/AUTOMATIC1111/stable-diffusion-webui.git",
			PythonBin:    "python3",
		},
		Overrides: OverridesConfig{
			GPUVendor: "",
			Precision: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
