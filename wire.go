//go:build wireinject

package main

import (
	"context"

	"sheet2neo/ioc"
	"sheet2neo/pkg/server"

	"github.com/google/wire"
)

func InitApp(ctx context.Context) (*server.HTTPServer, func(), error) {
	panic(wire.Build(
		ioc.InitConfig,
		ioc.InitLogger,
		ioc.InitFileSource,
		ioc.InitSession,
		ioc.InitOpener,
		ioc.InitMaterializer,
		ioc.InitWindowExtractor,
		ioc.InitFullExtractor,
		ioc.InitScanner,
		ioc.InitNeo4jClient,
		ioc.InitSchemaManager,
		ioc.InitOrchestrator,
		ioc.InitAppService,
		ioc.InitScheduler,
		ioc.InitSyncHandler,
		ioc.InitGinEngine,
		server.NewHTTPServer,
	))
}
