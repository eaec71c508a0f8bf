package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordpicker/internal/infrastructure/config"
	"github.com/eslsoft/wordpicker/internal/infrastructure/server"
	"github.com/eslsoft/wordpicker/internal/repository"
	"github.com/eslsoft/wordpicker/internal/usecase"
	"github.com/eslsoft/wordpicker/internal/usecase/backup"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Store   usecase.WordStore
	Reader  usecase.WordReader
	Capture usecase.CaptureUsecase
	Backup  *backup.Service
	Server  *server.Server
}

func provideStoreOptions(cfg *config.Config) usecase.StoreOptions {
	return usecase.StoreOptions{
		Timeout:         cfg.Store.Timeout,
		RetryAttempts:   cfg.Store.RetryAttempts,
		RetryBackoff:    cfg.Store.RetryBackoff,
		ExportBatchSize: cfg.Store.ExportBatchSize,
	}
}

func provideBackupService(repo repository.WordRecordRepository, store usecase.WordStore, cfg *config.Config) *backup.Service {
	return backup.NewService(repo, store, backup.WithBatchSize(cfg.Store.ExportBatchSize))
}
