package testsupport

import (
	"context"
	"testing"

	"sortbox/internal/config"
	"sortbox/internal/journal"
)

// MustOpenJournal opens the journal configured by cfg and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.JournalPath())
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// BeginRun opens a journal run for tests.
func BeginRun(t testing.TB, store *journal.Store, root string) string {
	t.Helper()

	id, err := store.BeginRun(context.Background(), root, false)
	if err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
	return id
}
