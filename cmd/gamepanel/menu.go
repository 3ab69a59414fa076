package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamepanel/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a game picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a game.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select game
  Tab          - Scoreboard
  Q            - Quit

Examples:
  gamepanel menu
  gamepanel menu --interval 33ms
  gamepanel menu --db ./scores.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	logger, closeLog := fileLogger("gamepanel")
	defer closeLog()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()

	for {
		menuResult, err := tui.RunMenu(width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		width, height = menuResult.Width, menuResult.Height

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue
			}
			return
		}

		if menuResult.GameID == "" {
			return
		}

		if err := playGame(menuResult.GameID, store, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			if errors.Is(err, errPresentFailed) {
				closeLog()
				if store != nil {
					store.Close()
				}
				os.Exit(1)
			}
		}
	}
}
