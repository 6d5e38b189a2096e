package hierarchy

import (
	"context"
	"fmt"
	"time"

	"sheet2neo/internal/metrics"
	"sheet2neo/internal/target"
	"sheet2neo/internal/util"
	pkgutil "sheet2neo/pkg/util"

	"go.uber.org/zap"
)

// Orchestrator 按层推进层级同步：第 N 层全部处理完（含失败）才进入 N+1 层，
// 子节点查父引用时第 N 层的映射已经稳定。单个节点失败不会中断整轮同步。
type Orchestrator struct {
	target        target.Client
	retryAttempts int
	retryBackoff  time.Duration
	logger        *zap.Logger
}

// NewOrchestrator 创建层级同步器。
func NewOrchestrator(client target.Client, retryAttempts int, retryBackoff time.Duration, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retryAttempts <= 0 {
		retryAttempts = 1
	}
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}
	return &Orchestrator{
		target:        client,
		retryAttempts: retryAttempts,
		retryBackoff:  retryBackoff,
		logger:        logger,
	}
}

// UpsertHierarchy 把节点列表按层同步到目标系统，返回完整审计报告。
// 返回的 error 只在入参不合法或目标系统完全不可用之外的场景为 nil；
// 节点级失败都折叠进报告里。
func (o *Orchestrator) UpsertHierarchy(ctx context.Context, nodes []Node, maxLevel int) (*Report, error) {
	if o.target == nil {
		return nil, fmt.Errorf("未配置目标系统客户端")
	}
	if maxLevel <= 0 {
		for _, n := range nodes {
			if n.Level > maxLevel {
				maxLevel = n.Level
			}
		}
	}

	report := &Report{Mappings: make(map[string]string)}
	for level := 1; level <= maxLevel; level++ {
		for _, node := range nodes {
			if node.Level != level {
				continue
			}
			o.processNode(ctx, node, report)
		}
		o.logger.Info("层级处理完成", zap.Int("level", level), zap.Int("mapped", len(report.Mappings)))
	}
	return report, nil
}

func (o *Orchestrator) processNode(ctx context.Context, node Node, report *Report) {
	// 同名节点先写入者生效，后来者记一条 duplicate 便于审计
	if _, exists := report.Mappings[node.Name]; exists {
		report.Entries = append(report.Entries, Entry{
			Name:   node.Name,
			Level:  node.Level,
			Status: StatusDuplicate,
			Error:  "同名节点已处理，忽略",
		})
		return
	}

	parentID := ""
	if node.ParentName != "" {
		id, ok := report.Mappings[node.ParentName]
		if !ok {
			// 祖先缺失以跳过的形式向下级联，而不是中断整轮
			metrics.NodesSkipped.Inc()
			report.Entries = append(report.Entries, Entry{
				Name:   node.Name,
				Level:  node.Level,
				Status: StatusSkipped,
				Error:  fmt.Sprintf("父节点 %s 没有映射，节点跳过", node.ParentName),
			})
			return
		}
		parentID = id
	}

	entry, err := o.upsertOnce(ctx, node, parentID)
	if err != nil {
		metrics.SyncErrors.Inc()
		o.logger.Warn("节点 upsert 失败，继续处理后续节点",
			zap.String("name", node.Name),
			zap.Int("level", node.Level),
			zap.Error(err))
		report.Entries = append(report.Entries, Entry{
			Name:   node.Name,
			Level:  node.Level,
			Status: StatusFailed,
			Error:  err.Error(),
		})
		return
	}

	report.Mappings[node.Name] = entry.RemoteID
	report.Entries = append(report.Entries, entry)
	metrics.NodesUpserted.Inc()
}

// upsertOnce 执行幂等 upsert：按编码查找，0 条建、1 条改、多条算冲突。
func (o *Orchestrator) upsertOnce(ctx context.Context, node Node, parentID string) (Entry, error) {
	unit := target.Unit{
		Name:      node.Name,
		ShortName: node.ShortName,
		Code:      node.Code,
		Level:     clampLevel(node),
		ParentID:  parentID,
	}
	unit.Hash = pkgutil.HashMap(map[string]any{
		"name":       unit.Name,
		"short_name": unit.ShortName,
		"code":       unit.Code,
		"level":      unit.Level,
		"parent_id":  unit.ParentID,
	})

	var found []target.Unit
	err := util.Retry(ctx, o.retryAttempts, o.retryBackoff, func() error {
		var findErr error
		found, findErr = o.target.FindByCode(ctx, node.Code)
		return findErr
	})
	if err != nil {
		return Entry{}, fmt.Errorf("查找 code=%s 失败: %w", node.Code, err)
	}

	switch {
	case len(found) == 0:
		var id string
		err := util.Retry(ctx, o.retryAttempts, o.retryBackoff, func() error {
			var createErr error
			id, createErr = o.target.Create(ctx, unit)
			return createErr
		})
		if err != nil {
			return Entry{}, err
		}
		return Entry{Name: node.Name, Level: node.Level, Status: StatusCreated, RemoteID: id}, nil

	case len(found) == 1:
		existing := found[0]
		if existing.Hash == unit.Hash {
			// 内容没变化就不写目标系统
			return Entry{Name: node.Name, Level: node.Level, Status: StatusUnchanged, RemoteID: existing.ID}, nil
		}
		err := util.Retry(ctx, o.retryAttempts, o.retryBackoff, func() error {
			return o.target.Update(ctx, existing.ID, unit)
		})
		if err != nil {
			return Entry{}, err
		}
		return Entry{Name: node.Name, Level: node.Level, Status: StatusUpdated, RemoteID: existing.ID}, nil

	default:
		return Entry{}, fmt.Errorf("code=%s 在目标系统中有 %d 条记录，存在冲突", node.Code, len(found))
	}
}

func clampLevel(node Node) int {
	if node.Level < 1 {
		return 1
	}
	return node.Level
}
