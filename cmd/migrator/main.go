package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/atarasenko/contribution-service/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Usage: migrator [up|down]. Connection and migration settings come from
// the service config (CONFIG_PATH) and the MIGRATIONS_PATH/MIGRATIONS_TABLE
// overrides.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrator: %v", err)
	}

	m, err := migrate.New(
		"file://"+cfg.Migrations.Path,
		fmt.Sprintf("%s?sslmode=disable&x-migrations-table=%s", cfg.Postgres.DSN(), cfg.Migrations.Table),
	)
	if err != nil {
		log.Fatalf("migrator: failed to prepare migration source: %v", err)
	}

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "up":
		if err := m.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Println("schema is already up to date")
				return
			}

			log.Fatalf("migrator: up failed: %v", err)
		}

		log.Println("schema migrated up")
	case "down":
		if err := m.Down(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				log.Fatal("migrator: nothing to roll back")
			}

			log.Fatalf("migrator: down failed: %v", err)
		}

		log.Println("schema rolled back")
	default:
		log.Fatalf("migrator: unknown command %q (want up or down)", cmd)
	}
}
