package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created in nested directory")
	}
}

func TestStoreOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("snake", "", 10); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	high, err := store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 10 {
		t.Errorf("HighScore() = %d, expected 10", high)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saves := []struct {
		game   string
		player string
		score  int
	}{
		{"snake", "ann", 100},
		{"snake", "bob", 50},
		{"snake", "ann", 200},
		{"bounce", "", 500},
	}
	for _, s := range saves {
		if _, err := store.SaveScore(s.game, s.player, s.score); err != nil {
			t.Fatalf("SaveScore(%s, %d) failed: %v", s.game, s.score, err)
		}
	}

	scores, err := store.TopScores("snake", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(TopScores) = %d, expected 3", len(scores))
	}

	expected := []int{200, 100, 50}
	for i, want := range expected {
		if scores[i].Score != want {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, want)
		}
	}
	if scores[0].Player != "ann" {
		t.Errorf("scores[0].Player = %q, expected ann", scores[0].Player)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}

	bounce, err := store.TopScores("bounce", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(bounce) != 1 {
		t.Errorf("len(bounce scores) = %d, expected 1", len(bounce))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore("test", "", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(TopScores) = %d, expected 3", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("scores not in expected order: %v", scores)
	}

	scores, err = store.TopScores("test", 0)
	if err != nil {
		t.Fatalf("TopScores(0) failed: %v", err)
	}
	if len(scores) != 5 {
		t.Errorf("TopScores(0) returned %d, expected default limit to cover all 5", len(scores))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() on empty game = %d, expected 0", high)
	}

	store.SaveScore("snake", "", 100)
	store.SaveScore("snake", "", 300)
	store.SaveScore("snake", "", 200)

	high, err = store.HighScore("snake")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("HighScore() = %d, expected 300", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("snake", "", 100)
	store.SaveScore("snake", "", 200)
	store.SaveScore("bounce", "", 300)

	if err := store.ClearScores("snake"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	snake, _ := store.TopScores("snake", 10)
	if len(snake) != 0 {
		t.Errorf("len(snake scores) = %d after clear, expected 0", len(snake))
	}

	bounce, _ := store.TopScores("bounce", 10)
	if len(bounce) != 1 {
		t.Error("bounce scores should not be affected by clearing snake")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		store.SaveScore("test", "", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(scores) != 20 {
		t.Errorf("len(AllScores) = %d, expected 20", len(scores))
	}
}

func TestStoreSessions(t *testing.T) {
	store := openTestStore(t)

	sessions := []Session{
		{GameID: "snake", Host: "tea", Score: 7, Interval: 50 * time.Millisecond, Duration: 3 * time.Second, EndReason: EndStopped},
		{GameID: "bounce", Host: "tcell", Score: 2, Interval: 16 * time.Millisecond, Duration: time.Second, EndReason: EndFatal},
		{GameID: "snake", Host: "ssh", Player: "ann", Score: 12, Interval: 40 * time.Millisecond, Duration: 9 * time.Second, EndReason: EndDisconnect},
	}
	for _, s := range sessions {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	all, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(RecentSessions) = %d, expected 3", len(all))
	}
	if all[0].Player != "ann" || all[0].EndReason != EndDisconnect {
		t.Errorf("newest session = %+v, expected the ssh one", all[0])
	}
	if all[0].Interval != 40*time.Millisecond {
		t.Errorf("Interval = %v, expected 40ms", all[0].Interval)
	}
	if all[0].Duration != 9*time.Second {
		t.Errorf("Duration = %v, expected 9s", all[0].Duration)
	}

	snake, err := store.RecentSessions("snake", 10)
	if err != nil {
		t.Fatalf("RecentSessions(snake) failed: %v", err)
	}
	if len(snake) != 2 {
		t.Errorf("len(snake sessions) = %d, expected 2", len(snake))
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("bounce", "", 10)
	store.SaveScore("bounce", "", 30)
	store.SaveSession(Session{GameID: "bounce", Host: "tea", EndReason: EndFatal})
	store.SaveSession(Session{GameID: "bounce", Host: "tea", EndReason: EndStopped})

	stats, err := store.GetGameStats("bounce")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 {
		t.Errorf("GamesCount = %d, expected 2", stats.GamesCount)
	}
	if stats.HighScore != 30 {
		t.Errorf("HighScore = %d, expected 30", stats.HighScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %v, expected 20", stats.AvgScore)
	}
	if stats.Fatal != 1 {
		t.Errorf("Fatal = %d, expected 1", stats.Fatal)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed was not set")
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil {
		t.Fatalf("GetGameStats(nothing) failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("stats for unplayed game = %+v, expected zero values", empty)
	}
}
