package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
	"github.com/vovakirdan/gamepanel/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.gamepanel/host_key.
	HostKeyPath string

	// DBPath is the path to the scores database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Interval is the frame interval of games started over SSH.
	Interval time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gamepanel/scores.db",
		IdleTimeout: 30 * time.Minute,
		Interval:    panel.DefaultInterval,
	}
}

// SSHServer serves the game menu over SSH, one Bubble Tea program per session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gamepanel-ssh",
		})
	}
	if cfg.Interval <= 0 {
		cfg.Interval = panel.DefaultInterval
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".gamepanel", "host_key")
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(SessionConfig{
		Store:    s.store,
		Logger:   s.logger.With("user", sshSession.User()),
		Player:   sshSession.User(),
		Interval: s.config.Interval,
		Width:    pty.Window.Width,
		Height:   pty.Window.Height,
	})

	// A dropped connection never delivers ctrl+c, so the running game is
	// stopped from here.
	go func() {
		<-sshSession.Context().Done()
		model.run.finish(storage.EndDisconnect)
	}()

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionConfig configures a SessionModel.
type SessionConfig struct {
	Store    *storage.Store
	Logger   *log.Logger
	Player   string
	Interval time.Duration
	Width    int
	Height   int
}

// gameRun tracks the game currently played in a session. It is shared by
// every copy of the session model and by the disconnect watcher.
type gameRun struct {
	mu      sync.Mutex
	game    registry.Game
	started time.Time
	fatal   bool
	cfg     SessionConfig
}

func (r *gameRun) start(game registry.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.game = game
	r.started = time.Now()
	r.fatal = false
	game.StartGame()
}

func (r *gameRun) markFatal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fatal = true
}

// finish stops the current game, if any, and records its result.
func (r *gameRun) finish(reason storage.EndReason) {
	r.mu.Lock()
	game := r.game
	started := r.started
	if r.fatal {
		reason = storage.EndFatal
	}
	r.game = nil
	r.mu.Unlock()

	if game == nil {
		return
	}
	game.StopGame()
	game.Wait()

	SaveResult(r.cfg.Store, r.cfg.Logger, Result{
		Game:      game,
		Host:      "ssh",
		Player:    r.cfg.Player,
		Started:   started,
		EndReason: reason,
	})
}

// SessionModel manages the full session flow: menu -> game -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	cfg       SessionConfig
	menu      MenuModel
	run       *gameRun
	gameModel tea.Model
	inGame    bool
	quitting  bool
	lastError string
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr)
	}
	menu := NewMenuModel(cfg.Width, cfg.Height)
	menu.embedded = true

	return SessionModel{
		cfg:  cfg,
		menu: menu,
		run:  &gameRun{cfg: cfg},
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Width = wsm.Width
		m.cfg.Height = wsm.Height
	}

	if _, ok := msg.(GameExitMsg); ok && m.inGame {
		m.run.finish(storage.EndStopped)
		m.inGame = false
		m.gameModel = nil
		m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height)
		m.menu.embedded = true
		return m, m.menu.Init()
	}

	if m.inGame && m.gameModel != nil {
		var cmd tea.Cmd
		m.gameModel, cmd = m.gameModel.Update(msg)
		return m, cmd
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}
	m.menu.selected = nil

	gameModel, err := m.startGame(selected.GameID)
	if err != nil {
		m.cfg.Logger.Error("cannot start game", "game", selected.GameID, "error", err)
		m.lastError = err.Error()
		return m, nil
	}

	m.lastError = ""
	m.gameModel = gameModel
	m.inGame = true
	return m, m.gameModel.Init()
}

// startGame creates the selected game on a fresh embedded host sized to
// the terminal. A present failure ends only this session's game.
func (m SessionModel) startGame(id string) (tea.Model, error) {
	logger := m.cfg.Logger.With("game", id)
	host := NewHost(Embedded(), WithHostLogger(logger))
	run := m.run

	game, err := registry.Create(id, host,
		panel.WithSize(m.cfg.Width, m.cfg.Height),
		panel.WithInterval(m.cfg.Interval),
		panel.WithLogger(logger),
		panel.WithFatal(func(err error) {
			run.markFatal()
			host.Fail(err)
		}),
	)
	if err != nil {
		return nil, err
	}

	run.start(game)
	return host.Model(), nil
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inGame && m.gameModel != nil {
		return m.gameModel.View()
	}

	view := m.menu.View()
	if m.lastError != "" {
		view += "\n" + centerText("error: "+m.lastError, m.cfg.Width) + "\n"
	}
	return view
}

// Result describes a finished game for SaveResult.
type Result struct {
	Game      registry.Game
	Host      string
	Player    string
	Started   time.Time
	EndReason storage.EndReason
}

// SaveResult records the game's score and session. A nil store is a no-op.
func SaveResult(store *storage.Store, logger *log.Logger, r Result) {
	if store == nil {
		return
	}

	score := r.Game.Score()
	if score > 0 {
		if _, err := store.SaveScore(r.Game.ID(), r.Player, score); err != nil {
			logger.Warn("could not save score", "game", r.Game.ID(), "error", err)
		}
	}

	_, err := store.SaveSession(storage.Session{
		GameID:    r.Game.ID(),
		Host:      r.Host,
		Player:    r.Player,
		Score:     score,
		Interval:  r.Game.Interval(),
		Duration:  time.Since(r.Started),
		EndReason: r.EndReason,
	})
	if err != nil {
		logger.Warn("could not save session", "game", r.Game.ID(), "error", err)
	}
}
