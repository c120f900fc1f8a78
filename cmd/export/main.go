package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dvloznov/fingemini/internal/cache"
	"github.com/dvloznov/fingemini/internal/config"
	"github.com/dvloznov/fingemini/internal/domain"
	"github.com/dvloznov/fingemini/internal/export"
	"github.com/dvloznov/fingemini/internal/logger"
	"github.com/dvloznov/fingemini/internal/syncer"
)

// export streams a user's persisted ledger snapshot into BigQuery for
// offline analysis. It reads the local cache only, so it works offline and
// never races the interactive session's remote writes.
func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var (
		userID  = flag.String("user", "", "User identity to export")
		demo    = flag.Bool("demo", false, "Export the demo namespace instead of a user namespace")
		dbPath  = flag.String("db", cfg.DBPath, "SQLite file for the local ledger cache")
		project = flag.String("project", cfg.BQProject, "BigQuery project ID (or set BQ_PROJECT env)")
		dataset = flag.String("dataset", cfg.BQDataset, "BigQuery dataset ID")
		verify  = flag.Bool("verify", false, "Query the exported transaction count after the run")
	)
	flag.Parse()

	if *project == "" {
		log.Fatal().Msg("Error: -project (or BQ_PROJECT) is required")
	}
	if !*demo && *userID == "" {
		log.Fatal().Msg("Error: -user is required outside demo mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := cache.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db", *dbPath).Msg("Failed to open local cache")
	}

	// No mirror: the export reads what the last session durably persisted.
	coord := syncer.New(store, nil, log)
	session := syncer.Session{User: domain.User{ID: *userID}, Demo: *demo}

	snap, err := coord.Load(ctx, session)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ledger snapshot")
	}
	if len(snap.Accounts) == 0 && len(snap.Transactions) == 0 {
		log.Warn().Msg("Snapshot is empty - nothing to export")
		return
	}

	exporter, err := export.NewExporter(ctx, *project, *dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exporter")
	}
	defer exporter.Close()

	exportUser := *userID
	if *demo {
		exportUser = "demo"
	}

	log.Info().
		Str("user", exportUser).
		Int("accounts", len(snap.Accounts)).
		Int("transactions", len(snap.Transactions)).
		Msg("Starting export")

	exportID, err := exporter.Run(ctx, snap, exportUser)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	fmt.Printf("Export completed: %s\n", exportID)

	if *verify {
		n, err := exporter.CountTransactions(ctx, exportID)
		if err != nil {
			log.Fatal().Err(err).Msg("Verification query failed")
		}
		fmt.Printf("Transactions visible in warehouse: %d (streaming inserts may lag)\n", n)
	}
}
