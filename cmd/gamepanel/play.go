package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gamepanel/internal/config"
	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/platform/tui"
	termhost "github.com/vovakirdan/gamepanel/internal/platform/term"
	"github.com/vovakirdan/gamepanel/internal/platform/web"
	"github.com/vovakirdan/gamepanel/internal/registry"
	"github.com/vovakirdan/gamepanel/internal/storage"
)

// errPresentFailed marks a game that ended because its host could not
// present a frame.
var errPresentFailed = errors.New("presentation failed")

var (
	flagSpectate   string
	flagAllowInput bool
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls depend on the game. Every host supports:
  Ctrl+C     - Quit
  Ctrl+S     - Save a text screenshot (tea host)

With --spectate, the game is mirrored over WebSocket at ws://<addr>/ws and
the latest frame is served as text at http://<addr>/.

Examples:
  gamepanel play snake
  gamepanel play bounce --host tcell
  gamepanel play snake --interval 100ms --width 40 --height 20
  gamepanel play snake --spectate :8080 --allow-input`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Mirror the game over WebSocket on this address")
	playCmd.Flags().BoolVar(&flagAllowInput, "allow-input", false, "Accept key and mouse input from spectators")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := args[0]

	// Check if game exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'gamepanel list' to see available games.")
		os.Exit(1)
	}

	if cmd.Flags().Changed("spectate") {
		cfg.Spectate.Address = flagSpectate
	}
	if cmd.Flags().Changed("allow-input") {
		cfg.Spectate.AllowInput = flagAllowInput
	}

	logger, closeLog := fileLogger("gamepanel")
	store := openStore()

	err := playGame(gameID, store, logger)

	if store != nil {
		store.Close()
	}
	closeLog()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// openStore opens the scores database. Games still run without it.
func openStore() *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the configured panel size, filling zero dimensions
// from the terminal.
func terminalSize() (width, height int) {
	width, height = 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	if cfg.Panel.Width > 0 {
		width = cfg.Panel.Width
	}
	if cfg.Panel.Height > 0 {
		height = cfg.Panel.Height
	}
	return width, height
}

// localHost is a host that owns the terminal until run returns.
type localHost struct {
	host  panel.Host
	run   func() error
	fail  func(err error)
	close func()
}

func newLocalHost(gameID string, logger *log.Logger) (*localHost, error) {
	switch cfg.Host {
	case config.HostTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("cannot create terminal screen: %w", err)
		}
		h := termhost.NewHost(screen, termhost.WithLogger(logger))
		if err := h.Start(); err != nil {
			return nil, err
		}
		return &localHost{
			host:  h,
			run:   h.Run,
			fail:  func(error) { h.Stop() },
			close: h.Close,
		}, nil

	default:
		h := tui.NewHost(
			tui.WithHostLogger(logger),
			tui.WithScreenshots(config.ExpandHome(cfg.Screenshots.Dir), gameID),
		)
		return &localHost{
			host: h,
			run: func() error {
				return h.Run(tea.WithAltScreen(), tea.WithMouseCellMotion())
			},
			fail:  h.Fail,
			close: h.Close,
		}, nil
	}
}

// playGame runs one game on the configured host until the player quits,
// then records the result. A presentation failure is reported as
// errPresentFailed.
func playGame(gameID string, store *storage.Store, logger *log.Logger) error {
	local, err := newLocalHost(gameID, logger)
	if err != nil {
		return err
	}
	defer local.close()

	host := local.host
	if cfg.Spectate.Address != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		srv := web.NewServer(cfg.Spectate.Address, local.host, logger, cfg.Spectate.AllowInput)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		host = srv.Host()
	}

	fatal := make(chan error, 1)
	onFatal := func(err error) {
		select {
		case fatal <- err:
		default:
		}
		local.fail(err)
	}

	width, height := terminalSize()
	game, err := registry.Create(gameID, host,
		panel.WithSize(width, height),
		panel.WithInterval(cfg.Panel.Interval),
		panel.WithLogger(logger.With("game", gameID)),
		panel.WithFatal(onFatal),
	)
	if err != nil {
		return err
	}

	started := time.Now()
	game.StartGame()
	runErr := local.run()
	game.StopGame()
	game.Wait()

	reason := storage.EndStopped
	var fatalErr error
	select {
	case fatalErr = <-fatal:
		reason = storage.EndFatal
	default:
	}

	tui.SaveResult(store, logger, tui.Result{
		Game:      game,
		Host:      cfg.Host,
		Player:    os.Getenv("USER"),
		Started:   started,
		EndReason: reason,
	})
	logger.Info("game ended", "game", gameID, "score", game.Score(), "reason", reason)

	if fatalErr != nil {
		return fmt.Errorf("%w: %v", errPresentFailed, fatalErr)
	}
	if runErr != nil && !errors.Is(runErr, termhost.ErrClosed) {
		return runErr
	}
	return nil
}
