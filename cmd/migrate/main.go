package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookcatalog/db/migrations"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/database"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	if *command == "create" {
		if *name == "" {
			log.Fatal("Name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir(), *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
		return
	}

	cfg := config.Load()
	if database.IsMongoDSN(cfg.Database.DSN) {
		fmt.Println("Document store configured; indexes are created at startup, nothing to migrate")
		return
	}

	ctx := context.Background()
	pool, err := database.OpenPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxConns, cfg.Database.Timeout)
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", database.RedactDSN(cfg.Database.DSN), err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, "."); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, db, "."); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
	default:
		log.Printf("Unknown command: %s. Use: up, down, status, create", *command)
		os.Exit(2)
	}
}
