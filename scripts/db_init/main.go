package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/autotrack/autotrack/db"
	"github.com/autotrack/autotrack/internal/config"
	"github.com/autotrack/autotrack/internal/db"
)

// Initializes the local credential database without running any command.
// Useful for provisioning scripts; the CLI also migrates on startup.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Local database initialized at %s\n", cfg.DatabasePath)
}
