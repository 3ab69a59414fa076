// Package registry keeps the factories of every game built on the panel.
// Games register themselves in init() functions so hosts and commands can
// create them by ID without importing each game package directly.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/gamepanel/internal/panel"
)

// Game is a playable game: the panel's Game contract plus the lifecycle
// promoted from an embedded *panel.GamePanel and a little metadata.
type Game interface {
	panel.Game

	// ID returns a unique identifier (e.g. "snake"), used by the CLI and
	// score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Score returns the current score. Games without one return 0.
	Score() int

	StartGame()
	StopGame()
	IsRunning() bool
	Interval() time.Duration
	Wait()
}

// Factory creates a game that draws on host. Options are passed through to
// panel.New so callers control size, interval and logging.
type Factory func(host panel.Host, opts ...panel.Option) Game

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Panics if a game with the same ID is already registered.
func Register(id, title string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f
	titles[id] = title
}

// List returns all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a game by ID on the given host.
func Create(id string, host panel.Host, opts ...panel.Option) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(host, opts...), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Title returns the title of a registered game, or "" if unknown.
func Title(id string) string {
	mu.RLock()
	defer mu.RUnlock()
	return titles[id]
}
