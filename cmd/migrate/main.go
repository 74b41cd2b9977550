package main

import (
	"log"

	"darwinian-be/internal/config"
	"darwinian-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Migrating pgvector memory schema...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Println("✅ Migration complete")
}
