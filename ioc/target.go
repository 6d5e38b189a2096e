package ioc

import (
	"context"
	"time"

	"sheet2neo/internal/app"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/target"

	"go.uber.org/zap"
)

// InitNeo4jClient 构建目标库客户端，cleanup 关闭底层 driver。
func InitNeo4jClient(ctx context.Context, cfg app.Config) (*target.Neo4jClient, func(), error) {
	client, err := target.NewNeo4jClient(ctx, target.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close(context.Background())
	}
	return client, cleanup, nil
}

// InitSchemaManager 构建目标库 schema 管理器。
func InitSchemaManager(client *target.Neo4jClient) *target.SchemaManager {
	return target.NewSchemaManager(client)
}

// InitOrchestrator 构建层级同步器。
func InitOrchestrator(client *target.Neo4jClient, cfg app.Config, logger *zap.Logger) *hierarchy.Orchestrator {
	backoff := time.Duration(cfg.Sync.Retry.BackoffSeconds) * time.Second
	return hierarchy.NewOrchestrator(client, cfg.Sync.Retry.Attempts, backoff, logger)
}
