package target

import (
	"context"
	"fmt"
	"strings"

	"sheet2neo/internal/cypher"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// SchemaManager 负责初始化 OrgUnit 的唯一约束和索引。
type SchemaManager struct {
	client *Neo4jClient
}

// NewSchemaManager 创建 schema 管理器。
func NewSchemaManager(client *Neo4jClient) *SchemaManager {
	return &SchemaManager{client: client}
}

// Ensure 逐条执行 schema 语句，语句幂等可重复执行。
func (m *SchemaManager) Ensure(ctx context.Context) error {
	statements := strings.Split(cypher.MustAsset("init_schema.cql"), ";")
	for _, raw := range statements {
		query := strings.TrimSpace(raw)
		if query == "" {
			continue
		}
		if err := m.client.runRaw(ctx, query); err != nil {
			return fmt.Errorf("执行 schema 语句失败: %w", err)
		}
	}
	return nil
}

// runRaw 无托管事务执行单条语句，schema 类语句不允许跑在事务里。
func (c *Neo4jClient) runRaw(ctx context.Context, query string) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	res, err := sess.Run(ctx, query, nil)
	if err != nil {
		return err
	}
	for res.Next(ctx) {
	}
	return res.Err()
}
