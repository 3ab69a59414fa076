// Package config provides YAML-based configuration for the gamepanel
// commands: panel size and interval, host choice, logging, storage, SSH
// serving and the spectator mirror.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the complete configuration.
type Config struct {
	Panel       PanelConfig      `yaml:"panel"`
	Host        string           `yaml:"host"`
	Log         LogConfig        `yaml:"log"`
	Storage     StorageConfig    `yaml:"storage"`
	SSH         SSHConfig        `yaml:"ssh"`
	Spectate    SpectateConfig   `yaml:"spectate"`
	Screenshots ScreenshotConfig `yaml:"screenshots"`
}

// PanelConfig sets up every game panel.
type PanelConfig struct {
	Width    int           `yaml:"width"`  // 0 = terminal width
	Height   int           `yaml:"height"` // 0 = terminal height
	Interval time.Duration `yaml:"interval"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StorageConfig locates the scores database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// SpectateConfig configures the WebSocket mirror.
type SpectateConfig struct {
	Address    string `yaml:"address"`
	AllowInput bool   `yaml:"allow_input"`
}

// ScreenshotConfig configures Ctrl+S screenshots.
type ScreenshotConfig struct {
	Dir string `yaml:"dir"`
}

// Hosts accepted in Config.Host.
const (
	HostTea   = "tea"
	HostTcell = "tcell"
)

// Validate checks values the commands cannot fall back from.
func (c Config) Validate() error {
	if c.Panel.Width < 0 || c.Panel.Height < 0 {
		return fmt.Errorf("config: panel size %dx%d is negative", c.Panel.Width, c.Panel.Height)
	}
	if c.Panel.Interval <= 0 {
		return fmt.Errorf("config: panel interval %v must be positive", c.Panel.Interval)
	}
	switch c.Host {
	case HostTea, HostTcell:
	default:
		return fmt.Errorf("config: unknown host %q (expected %q or %q)", c.Host, HostTea, HostTcell)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogLevel returns the configured level, or info if it does not parse.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
