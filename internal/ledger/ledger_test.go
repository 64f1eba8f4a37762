package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/luxbridge/milightd/internal/db"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database.DB)
}

func TestAppendAndRecent(t *testing.T) {
	l := newTestLedger(t)

	id, err := l.Append("living-room", 2, "set_color", map[string]any{"color": "red"}, 6)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if id == "" {
		t.Fatal("Append returned empty id")
	}
	if _, err := l.Append("hallway", 0, "off", nil, 3); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Recent returned %d entries, want 2", len(entries))
	}

	var colorEntry *Entry
	for _, e := range entries {
		if e.Operation == "set_color" {
			colorEntry = e
		}
	}
	if colorEntry == nil {
		t.Fatal("set_color entry not found")
	}
	if colorEntry.Gateway != "living-room" || colorEntry.Group != 2 || colorEntry.Frames != 6 {
		t.Errorf("unexpected entry: %+v", colorEntry)
	}
	if colorEntry.Args["color"] != "red" {
		t.Errorf("args = %v", colorEntry.Args)
	}
	if colorEntry.IssuedAt.IsZero() {
		t.Error("issued_at not recorded")
	}
}

func TestRecentByGateway(t *testing.T) {
	l := newTestLedger(t)

	for i := 0; i < 3; i++ {
		if _, err := l.Append("a", 1, "on", nil, 3); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := l.Append("b", 1, "off", nil, 3); err != nil {
		t.Fatal(err)
	}

	entries, err := l.RecentByGateway("a", 10)
	if err != nil {
		t.Fatalf("RecentByGateway: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries for gateway a, want 3", len(entries))
	}
	for _, e := range entries {
		if e.Gateway != "a" {
			t.Errorf("entry for gateway %q leaked into the filter", e.Gateway)
		}
	}
}

func TestCleanup(t *testing.T) {
	l := newTestLedger(t)
	if _, err := l.Append("a", 0, "on", nil, 3); err != nil {
		t.Fatal(err)
	}
	// A zero retention window expires everything written before now.
	time.Sleep(1100 * time.Millisecond)
	removed, err := l.Cleanup(0)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if removed != 1 {
		t.Errorf("Cleanup removed %d rows, want 1", removed)
	}
}
