package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamepanel/internal/core"
	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available games",
	Long: `Shows every game registered on the panel with the size, loop interval
and input hooks it gets under the current configuration.`,
	Run: runList,
}

func runList(cmd *cobra.Command, args []string) {
	opts := []panel.Option{
		panel.WithSize(cfg.Panel.Width, cfg.Panel.Height),
		panel.WithInterval(cfg.Panel.Interval),
	}
	if err := writeGameList(os.Stdout, registry.List(), opts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nHost: %s\n", cfg.Host)
	fmt.Println("Run 'gamepanel play <id>' to play a game.")
}

// writeGameList creates each game on a host that draws nowhere and reports
// what its panel was configured with. The games are never started.
func writeGameList(w io.Writer, games []registry.GameInfo, opts ...panel.Option) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games available.")
		return err
	}

	opts = append([]panel.Option{panel.WithLogger(log.New(io.Discard))}, opts...)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		Headers("ID", "Title", "Size", "Interval", "FPS", "Input")

	for _, info := range games {
		game, err := registry.Create(info.ID, listingHost{}, opts...)
		if err != nil {
			return err
		}

		size := "-"
		if s, ok := game.(interface{ PreferredSize() (int, int) }); ok {
			width, height := s.PreferredSize()
			size = fmt.Sprintf("%dx%d", width, height)
		}
		fps := "-"
		if f, ok := game.(interface{ FPS() int }); ok {
			fps = fmt.Sprint(f.FPS())
		}

		t.Row(info.ID, game.Title(), size, game.Interval().String(), fps, inputHooks(game))
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}

func inputHooks(game registry.Game) string {
	_, keys := game.(panel.KeyPressHandler)
	_, mouse := game.(panel.MouseDownHandler)
	switch {
	case keys && mouse:
		return "keys, mouse"
	case keys:
		return "keys"
	case mouse:
		return "mouse"
	}
	return "none"
}

// listingHost allocates buffers but shows nothing.
type listingHost struct{}

func (listingHost) CreateImage(width, height int) *core.Screen { return core.NewScreen(width, height) }
func (listingHost) Present(*core.Screen) error                 { return nil }
