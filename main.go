package main

import (
	"os"
	"sync"
	"time"

	"grimoire/config"
	"grimoire/handler"
	"grimoire/internal/imaging"
	"grimoire/internal/jsonlog"
	"grimoire/repository"
	"grimoire/repository/postgres"
	"grimoire/service"

	"github.com/jellydator/ttlcache/v3"
	"github.com/joho/godotenv"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration. A .env file is optional.
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		logger.PrintError(err, nil)
	}
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// The images directory holds staged uploads and optimized covers.
	err = os.MkdirAll(cfg.Images.Dir, 0o755)
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and owner-lookup cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](30 * time.Minute))
	go cache.Start()

	// Application layers
	processor := imaging.NewResizer(cfg.Images.Dir, cfg.Images.Width, cfg.Images.Quality)
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo, processor)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
