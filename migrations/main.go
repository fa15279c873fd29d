package main

import (
	"errors"
	"log"
	"os"

	"github.com/DeadlyParkour777/cpp-simulator/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: ./migrate [up|down]")
	}
	command := os.Args[1]

	cfg := config.ConfigInit()
	if !cfg.ProgressEnabled() {
		log.Fatal("DB_HOST is required to run migrations")
	}

	log.Printf("Running migration command %q from %s", command, cfg.MigrationsPath)
	m, err := migrate.New(cfg.MigrationsPath, cfg.DatabaseURL())
	if err != nil {
		log.Fatalf("Cannot create migrate instance: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatalf("Unknown command: %s", command)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migration finished successfully!")
}
