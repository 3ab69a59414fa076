// gamepanel runs games built on the game panel in the terminal.
//
// Usage:
//
//	gamepanel list              - List available games
//	gamepanel play <game>       - Play a game
//	gamepanel menu              - Start menu to pick games interactively
//	gamepanel serve             - Start SSH server for remote play
//	gamepanel scores [game]     - Show high scores and recent sessions
//
// Global flags:
//
//	--config <path>      - Config file (default: search order)
//	--interval <dur>     - Loop interval (default: 50ms)
//	--width, --height    - Panel size in cells (default: terminal size)
//	--host <tea|tcell>   - Host for local play
//	--db <path>          - Scores database (default: ~/.gamepanel/scores.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamepanel/internal/config"

	// Import games to register them
	_ "github.com/vovakirdan/gamepanel/internal/games/bounce"
	_ "github.com/vovakirdan/gamepanel/internal/games/snake"
)

var (
	// Global flags
	flagConfig   string
	flagInterval time.Duration
	flagWidth    int
	flagHeight   int
	flagHost     string
	flagDBPath   string
	flagLogLevel string

	// Set up by loadConfig before any subcommand runs.
	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamepanel",
	Short: "Game panel - fixed-interval games in your terminal",
	Long: `gamepanel runs games built on a fixed-interval game panel:
update, render, present, sleep.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores and recent sessions

Examples:
  gamepanel list
  gamepanel play snake
  gamepanel play bounce --host tcell --interval 33ms
  gamepanel play snake --spectate :8080
  gamepanel serve --ssh :2222
  gamepanel scores snake`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().DurationVar(&flagInterval, "interval", 0, "Loop interval (e.g. 50ms)")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Panel width in cells (0 = terminal width)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Panel height in cells (0 = terminal height)")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "Host for local play: tea or tcell")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("interval") {
		loaded.Panel.Interval = flagInterval
	}
	if flags.Changed("width") {
		loaded.Panel.Width = flagWidth
	}
	if flags.Changed("height") {
		loaded.Panel.Height = flagHeight
	}
	if flags.Changed("host") {
		loaded.Host = flagHost
	}
	if flags.Changed("db") {
		loaded.Storage.Path = flagDBPath
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}

	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// consoleLogger logs to stderr, for commands that do not take over the
// terminal.
func consoleLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}

// fileLogger logs to the configured file while a full-screen host owns the
// terminal. Without a usable file, logs are dropped.
func fileLogger(prefix string) (*log.Logger, func()) {
	opts := log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	}

	if cfg.Log.File == "" {
		return log.NewWithOptions(io.Discard, opts), func() {}
	}

	path := config.ExpandHome(cfg.Log.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return log.NewWithOptions(io.Discard, opts), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.NewWithOptions(io.Discard, opts), func() {}
	}
	return log.NewWithOptions(f, opts), func() { f.Close() }
}
