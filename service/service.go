package service

import (
	"sync"

	"grimoire/config"
	"grimoire/internal/imaging"
	"grimoire/internal/jsonlog"
	"grimoire/repository"
)

type Service interface {
	books
	ratings
}

// service defines the app's service layer.
type service struct {
	config    config.Config
	wg        *sync.WaitGroup
	logger    *jsonlog.Logger
	repo      repository.Repository
	processor imaging.Processor
}

// New creates a new instance of Service.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, processor imaging.Processor) *service {
	return &service{
		config:    cfg,
		wg:        wg,
		logger:    logger,
		repo:      repo,
		processor: processor,
	}
}
