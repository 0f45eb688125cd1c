package main

import "os"

// migrationsDir is where the create command writes new migration files.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return "db/migrations"
}
