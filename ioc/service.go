package ioc

import (
	"sheet2neo/internal/app"
	"sheet2neo/internal/extract"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/target"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// InitAppService 构建同步服务。
func InitAppService(
	cfg app.Config,
	session *transport.Session,
	window *extract.WindowExtractor,
	full *extract.FullExtractor,
	scanner *extract.Scanner,
	orch *hierarchy.Orchestrator,
	schema *target.SchemaManager,
	logger *zap.Logger,
) (*app.Service, error) {
	return app.NewService(cfg, session, window, full, scanner, orch, schema, logger)
}
