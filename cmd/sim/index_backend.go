package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tilerts.ai/internal/persistence/indexdb"
)

func openRuntimeIndex(worldDir string, disableDB bool) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("TILERTS_INDEX_BACKEND")))
	switch backend {
	case "", "sqlite":
		return indexdb.OpenSQLite(filepath.Join(worldDir, "index", "world.sqlite"))
	case "none", "off", "disabled":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported TILERTS_INDEX_BACKEND: %s", backend)
	}
}

func reportIndex(idx *indexdb.SQLiteIndex, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := idx.Flush(ctx); err != nil {
		logger.Printf("index flush: %v", err)
		return
	}
	totals, err := idx.HarvestTotals(ctx)
	if err != nil {
		logger.Printf("index query: %v", err)
		return
	}
	for unit, byKind := range totals {
		logger.Printf("harvested %s: %v", unit, byKind)
	}
	if st := idx.Stats(); st.DropTickTotal > 0 {
		logger.Printf("index dropped %d tick records", st.DropTickTotal)
	}
}
