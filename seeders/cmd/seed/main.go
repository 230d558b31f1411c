package main

import (
	"context"
	"log"
	"os"

	"taskdesk/pkg/config"
	"taskdesk/pkg/database/postgresql"
	"taskdesk/seeders"
)

func main() {
	cfg := config.New()
	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Fatal("seeding is only needed for the postgres driver; the local store seeds itself on first open")
	}

	db, err := postgresql.ConnectDB(context.Background(), cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("connecting to postgres failed: %v", err)
	}
	defer db.Close()

	if err := postgresql.Migrate(cfg.Postgres.DSN, "migrations"); err != nil {
		log.Fatalf("running migrations failed: %v", err)
	}

	seeders.Seed(db, os.Getenv("SEED_ADMIN_PASSWORD"))
}
