package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"notestore/internal/bootstrap"
	"notestore/internal/config"
	"notestore/internal/domain/services"
	"notestore/internal/repository/postgres"
	"notestore/internal/service"
)

//go:embed fixture.yaml
var defaultFixture []byte

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the store (tables or sqlite file) before seeding")
	schemaOnly := flag.Bool("schema-only", false, "Only initialize the schema, don't seed nodes")
	clearData := flag.Bool("clear-data", false, "Delete every node (keep schema)")
	fixture := flag.String("fixture", "", "YAML or JSON import document (default: built-in fixture)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := config.NewLogger(cfg, os.Stdout)

	switch {
	case *clearData:
		log.Printf("Clearing data only (driver: %s, environment: %s)", cfg.StoreDriver, cfg.Environment)
	case *schemaOnly:
		log.Printf("Setting up schema only (driver: %s, environment: %s)", cfg.StoreDriver, cfg.Environment)
	default:
		log.Printf("Seeding store (driver: %s, environment: %s)", cfg.StoreDriver, cfg.Environment)
	}

	ctx := context.Background()

	if *dropTables {
		log.Println("Dropping store...")
		if err := dropStore(ctx, cfg); err != nil {
			log.Fatalf("Failed to drop store: %v", err)
		}
		log.Println("Store dropped")
	}

	// Opening the store materializes the schema
	store, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	if *clearData {
		removed, err := clearNodes(ctx, store.Nodes)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("Cleared %d root nodes", removed)
		return
	}

	data := defaultFixture
	if *fixture != "" {
		data, err = os.ReadFile(*fixture)
		if err != nil {
			log.Fatalf("Failed to read fixture: %v", err)
		}
	}

	entries, err := service.DecodeEntries(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("Failed to parse fixture: %v", err)
	}

	created, err := store.Import.Import(ctx, nil, entries)
	if err != nil {
		log.Fatalf("Failed to seed nodes: %v", err)
	}

	log.Printf("Seeding complete: %d nodes created", created)
}

// clearNodes deletes every root-level node; the cascade takes the rest
func clearNodes(ctx context.Context, store services.NodeStore) (int, error) {
	roots, err := store.ListChildren(ctx, nil)
	if err != nil {
		return 0, err
	}

	for _, root := range roots {
		if err := store.Delete(ctx, root.ID); err != nil {
			return 0, fmt.Errorf("delete node %d: %w", root.ID, err)
		}
	}

	return len(roots), nil
}

// dropStore removes the sqlite database files or drops the prefixed
// postgres tables
func dropStore(ctx context.Context, cfg *config.Config) error {
	if cfg.StoreDriver == config.DriverPostgres {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		return dropTables(ctx, pool, postgres.NewTableNames(cfg.TablePrefix))
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(cfg.DBPath + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func dropTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Nodes, tables.SchemaVersion} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
