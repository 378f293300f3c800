package main

import (
	"context"
	"flag"
	"os"

	"github.com/CLDWare/methods-lab/config"
	"github.com/CLDWare/methods-lab/internal/janitor"
	"github.com/CLDWare/methods-lab/internal/store"
	models "github.com/CLDWare/methods-lab/pkg/db"
	"github.com/CLDWare/methods-lab/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	full := flag.Bool("full", false, "also hard delete soft deleted rows")
	flag.Parse()

	// Load .env file if it exists
	envErr := godotenv.Load()

	// Force reload configuration after .env is loaded
	config.ForceReload()

	// Load configuration
	cfg := config.Get()

	// Initialize logger with the updated configuration
	logger.Init()
	if envErr != nil {
		logger.Info(".env file not found, proceeding with environment variables")
	}

	// Initialise Database
	db, err := models.InitialiseDatabase(cfg.Database.Path)
	if err != nil {
		logger.Err(err)
		os.Exit(1)
	}

	// Out of process, so nobody listens for the changes it makes. Open
	// screens pick them up on their next poll.
	jan := janitor.NewJanitor(cfg, store.New(db, nil), true)

	ctx := context.Background()
	if *full {
		jan.RunFull(ctx)
	} else {
		jan.RunShort(ctx)
	}
}
