package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/gamepanel/internal/panel"
	"github.com/vovakirdan/gamepanel/internal/registry"
)

func TestWriteGameList(t *testing.T) {
	var out bytes.Buffer
	games := []registry.GameInfo{
		{ID: "bounce", Title: "Bounce"},
		{ID: "snake", Title: "Snake"},
	}

	err := writeGameList(&out, games,
		panel.WithSize(40, 20),
		panel.WithInterval(100*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("writeGameList() failed: %v", err)
	}

	lines := strings.Split(out.String(), "\n")
	for _, want := range []struct{ id, title string }{{"bounce", "Bounce"}, {"snake", "Snake"}} {
		var row string
		for _, l := range lines {
			if strings.Contains(l, want.id) {
				row = l
				break
			}
		}
		if row == "" {
			t.Fatalf("no row for %s in:\n%s", want.id, out.String())
		}
		for _, field := range []string{want.title, "40x20", "100ms", "10", "keys, mouse"} {
			if !strings.Contains(row, field) {
				t.Errorf("%s row = %q, missing %q", want.id, row, field)
			}
		}
	}
}

func TestWriteGameListEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := writeGameList(&out, nil); err != nil {
		t.Fatalf("writeGameList() failed: %v", err)
	}
	if got := out.String(); got != "No games available.\n" {
		t.Errorf("output = %q, expected the empty message", got)
	}
}

func TestWriteGameListUnknownGame(t *testing.T) {
	var out bytes.Buffer
	err := writeGameList(&out, []registry.GameInfo{{ID: "nope", Title: "Nope"}})
	if err == nil {
		t.Error("writeGameList() should fail for an unregistered game")
	}
}
