package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.uber.org/zap/zaptest"

	"worldupgrade/internal/config"
	"worldupgrade/internal/store"
	"worldupgrade/internal/tree"
)

func TestRunWrapsStoreOpenError(t *testing.T) {
	cfg := config.Default()
	cfg.Source = config.StoreConfig{Kind: "tape", Path: t.TempDir()}

	err := run(context.Background(), cfg, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected an error for an unknown source kind")
	}
	if !errors.Is(err, store.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "open source store: ") {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}

func TestRunReportsFailedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.log")
	logStore, err := store.OpenLogStore(path)
	if err != nil {
		t.Fatalf("open log store: %v", err)
	}
	broken := tree.Map(
		tree.Entry{Key: "DataVersion", Value: tree.Int(2730)},
		tree.Entry{Key: "Level", Value: tree.Map(
			tree.Entry{Key: "Status", Value: tree.String("full")},
			tree.Entry{Key: "Sections", Value: tree.String("broken")},
		)},
	)
	if err := logStore.Save(store.ChunkPos{X: 1, Z: 2}, broken); err != nil {
		t.Fatalf("save record: %v", err)
	}
	if err := logStore.Close(); err != nil {
		t.Fatalf("close log store: %v", err)
	}

	cfg := config.Default()
	cfg.Source = config.StoreConfig{Kind: store.KindLog, Path: path}
	cfg.Upgrade.Workers = 1

	err = run(context.Background(), cfg, zaptest.NewLogger(t))
	if err == nil {
		t.Fatalf("expected an error when a record fails")
	}
	if err.Error() != "1 of 1 records failed to upgrade" {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}
