//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/wordpicker/internal/adapter/connectrpc"
	"github.com/eslsoft/wordpicker/internal/adapter/repository"
	"github.com/eslsoft/wordpicker/internal/infrastructure/config"
	"github.com/eslsoft/wordpicker/internal/infrastructure/database"
	"github.com/eslsoft/wordpicker/internal/infrastructure/server"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	provideStoreOptions,
)

var databaseSet = wire.NewSet(
	database.NewMigratedDriver,
)

var repositorySet = wire.NewSet(
	repository.NewWordRecordRepository,
)

var usecaseSet = wire.NewSet(
	usecase.NewWordStore,
	usecase.NewWordReader,
	usecase.NewCaptureUsecase,
	provideBackupService,
)

var serviceSet = wire.NewSet(
	connectrpc.NewWordServiceServer,
	connectrpc.NewExportHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
