package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamepanel/internal/registry"
	"github.com/vovakirdan/gamepanel/internal/storage"
)

var (
	flagClear    bool
	flagSessions int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and recent sessions",
	Long: `Display the top 10 high scores for the specified game, followed by
its recent play sessions. Without a game, recent sessions of every game
are listed.

Examples:
  gamepanel scores snake
  gamepanel scores snake --sessions 20
  gamepanel scores bounce --clear
  gamepanel scores`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores of the game")
	scoresCmd.Flags().IntVar(&flagSessions, "sessions", 5, "Number of recent sessions to show")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printSessions(store, "", flagSessions)
		return
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'gamepanel list' to see available games.")
		os.Exit(1)
	}
	title := registry.Title(gameID)

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared scores for %s.\n", title)
		return
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'gamepanel play %s' to set the first high score!\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "Rank", "Score", "Player", "Date")
		fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "----", "-----", "------", "----")

		for i, entry := range scores {
			player := entry.Player
			if player == "" {
				player = "-"
			}
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-10d  %-12s  %s\n", i+1, entry.Score, player, dateStr)
		}
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Average: %.1f  Scores: %d  Fatal: %d\n",
			stats.HighScore, stats.AvgScore, stats.GamesCount, stats.Fatal)
	}

	printSessions(store, gameID, flagSessions)
}

func printSessions(store *storage.Store, gameID string, limit int) {
	sessions, err := store.RecentSessions(gameID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Recent sessions:")
	if len(sessions) == 0 {
		fmt.Println("  none")
		return
	}

	fmt.Printf("  %-10s  %-6s  %-8s  %-8s  %-10s  %s\n", "Game", "Host", "Score", "Interval", "Duration", "End")
	for _, s := range sessions {
		fmt.Printf("  %-10s  %-6s  %-8d  %-8v  %-10v  %s\n",
			s.GameID, s.Host, s.Score, s.Interval, s.Duration.Round(100*time.Millisecond), s.EndReason)
	}
}
