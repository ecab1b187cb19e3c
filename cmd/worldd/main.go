package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quietriver/terragen/internal/catalog"
	"github.com/quietriver/terragen/internal/config"
	"github.com/quietriver/terragen/internal/logger"
	"github.com/quietriver/terragen/internal/server"
	"github.com/quietriver/terragen/internal/store"
	"github.com/quietriver/terragen/internal/world"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	seed := flag.Int64("seed", 0, "World seed (overrides config; default: random based on current time)")
	readOnly := flag.Bool("readonly", false, "Run in read-only mode (generated chunks won't be persisted)")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting terragen chunk server")

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load server config: %v", err)
	}

	// Seed precedence: flag, then config, then wall clock
	worldSeed := cfg.World.Seed
	if *seed != 0 {
		worldSeed = *seed
	}
	if worldSeed == 0 {
		worldSeed = time.Now().UnixNano()
		logger.Info("World seed selected", "seed", worldSeed, "random", true)
	} else {
		logger.Info("World seed selected", "seed", worldSeed, "random", false)
	}

	// Load the tile catalog (built-in set when no path is configured)
	tiles := catalog.Default()
	if cfg.World.CatalogPath != "" {
		tiles, err = catalog.LoadFromYAML(cfg.World.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load tile catalog: %v", err)
		}
		logger.Info("Tile catalog loaded", "path", cfg.World.CatalogPath, "tiles", tiles.Len())
	}

	gameWorld := world.NewWorld(tiles, worldSeed, cfg.World.ChunkSize)
	if cfg.World.MaxAttempts > 0 {
		gameWorld.SetMaxAttempts(cfg.World.MaxAttempts)
	}

	if *readOnly {
		gameWorld.SetReadOnly(true)
		logger.Info("Server running in READ-ONLY MODE - chunks won't be persisted")
	}

	// Open the chunk store
	chunkStore, err := store.Open(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to open chunk store: %v", err)
	}
	defer chunkStore.Close()
	gameWorld.SetStore(chunkStore)

	srv := server.NewServer(gameWorld, cfg)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}
