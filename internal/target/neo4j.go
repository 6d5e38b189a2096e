package target

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sheet2neo/internal/cypher"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config 控制 Neo4j 连接参数。
type Config struct {
	URI                  string
	Username             string
	Password             string
	Database             string
	MaxConnectionPool    int
	ConnectionTimeoutSec int
}

// Neo4jClient 把层级单位落成 :OrgUnit 节点和 HAS_CHILD 关系。
type Neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jClient 创建并校验连接。
func NewNeo4jClient(ctx context.Context, cfg Config) (*Neo4jClient, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri 不能为空")
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(conf *neo4j.Config) {
		if cfg.MaxConnectionPool > 0 {
			conf.MaxConnectionPoolSize = cfg.MaxConnectionPool
		}
		if cfg.ConnectionTimeoutSec > 0 {
			conf.SocketConnectTimeout = time.Duration(cfg.ConnectionTimeoutSec) * time.Second
		}
	})
	if err != nil {
		return nil, fmt.Errorf("创建 neo4j driver 失败: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j 无法连通: %w", err)
	}
	return &Neo4jClient{driver: driver, database: cfg.Database}, nil
}

// Close 关闭底层连接。
func (c *Neo4jClient) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// FindByCode 按唯一编码查找单位。
func (c *Neo4jClient) FindByCode(ctx context.Context, code string) ([]Unit, error) {
	records, err := c.runRead(ctx, cypher.MustAsset("find_unit.cql"), map[string]any{"code": code})
	if err != nil {
		return nil, fmt.Errorf("查找单位 code=%s 失败: %w", code, err)
	}
	units := make([]Unit, 0, len(records))
	for _, rec := range records {
		units = append(units, Unit{
			ID:        asString(rec["id"]),
			Name:      asString(rec["name"]),
			ShortName: asString(rec["short_name"]),
			Code:      asString(rec["code"]),
			Level:     asInt(rec["level"]),
			ParentID:  asString(rec["parent_id"]),
			Hash:      asString(rec["hash"]),
		})
	}
	return units, nil
}

// Create 创建单位节点，必要时挂接父节点，返回分配的 unit_id。
func (c *Neo4jClient) Create(ctx context.Context, u Unit) (string, error) {
	id := uuid.NewString()
	query := cypher.MustTemplate("create_unit.cql", map[string]any{"WithParent": u.ParentID != ""})
	params := unitParams(u)
	params["unit_id"] = id
	if err := c.runWrite(ctx, query, params); err != nil {
		return "", fmt.Errorf("创建单位 code=%s 失败: %w", u.Code, err)
	}
	return id, nil
}

// Update 按 unit_id 更新单位属性和父引用。
func (c *Neo4jClient) Update(ctx context.Context, id string, u Unit) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("更新单位 code=%s 失败: 缺少 unit_id", u.Code)
	}
	query := cypher.MustTemplate("update_unit.cql", map[string]any{"WithParent": u.ParentID != ""})
	params := unitParams(u)
	params["unit_id"] = id
	if err := c.runWrite(ctx, query, params); err != nil {
		return fmt.Errorf("更新单位 code=%s 失败: %w", u.Code, err)
	}
	return nil
}

func unitParams(u Unit) map[string]any {
	return map[string]any{
		"name":       u.Name,
		"short_name": u.ShortName,
		"code":       u.Code,
		"level":      u.Level,
		"parent_id":  u.ParentID,
		"hash":       u.Hash,
		"now":        time.Now().UTC().Format(time.RFC3339),
	}
}

func (c *Neo4jClient) runWrite(ctx context.Context, query string, params map[string]any) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, runErr := tx.Run(ctx, query, params)
		return nil, runErr
	})
	return err
}

func (c *Neo4jClient) runRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)

	resultAny, err := sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records := make([]map[string]any, 0)
		for res.Next(ctx) {
			records = append(records, res.Record().AsMap())
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records, ok := resultAny.([]map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected read result type %T", resultAny)
	}
	return records, nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
