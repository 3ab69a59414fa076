package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/gamepanel/internal/panel"
)

//go:embed defaults/gamepanel.yaml
var defaultYAML []byte

// Default returns the built-in configuration, matching the embedded YAML.
func Default() Config {
	return Config{
		Panel: PanelConfig{
			Interval: panel.DefaultInterval,
		},
		Host: HostTea,
		Log: LogConfig{
			Level: "info",
			File:  "~/.gamepanel/gamepanel.log",
		},
		Storage: StorageConfig{
			Path: "~/.gamepanel/scores.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Screenshots: ScreenshotConfig{
			Dir: "~/.gamepanel/screenshots",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
