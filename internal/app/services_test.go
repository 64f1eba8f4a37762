package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/luxbridge/milightd/internal/config"
	"github.com/luxbridge/milightd/internal/db"
	"github.com/luxbridge/milightd/internal/ledger"
)

func TestLedgerCleanupLoop(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	l := ledger.New(database.DB)

	if _, err := l.Append("living-room", 1, "on", nil, 3); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Zero retention expires everything older than now. Timestamps have
	// second precision, so let the entry age past the cutoff first.
	time.Sleep(1100 * time.Millisecond)

	s := &Services{
		cfg: &config.Config{
			Database: config.DatabaseConfig{
				CleanupInterval: config.Duration(20 * time.Millisecond),
				RetentionDays:   0,
			},
		},
		Ledger: l,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.runLedgerCleanup(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		entries, err := l.Recent(10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(entries) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("cleanup loop left %d entries after deadline", len(entries))
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
}
