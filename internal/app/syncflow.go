package app

import (
	"context"
	"fmt"
	"sync"

	"sheet2neo/internal/extract"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// SyncFlow 负责一轮完整同步：连接 -> 维度扫描 -> 生成节点 -> 按层 upsert。
type SyncFlow struct {
	Session      *transport.Session
	Scanner      *extract.Scanner
	Orchestrator *hierarchy.Orchestrator
	Path         string
	ChunkSize    int
	ScanOpts     extract.ScanOptions
	LevelColumns []string
	MaxLevel     int
	Logger       *zap.Logger

	mu         sync.Mutex
	lastReport *hierarchy.Report
}

// Run 执行同步并返回审计报告。
func (f *SyncFlow) Run(ctx context.Context) (*hierarchy.Report, error) {
	if f == nil {
		return nil, fmt.Errorf("sync flow 未初始化")
	}
	if f.Session == nil || f.Scanner == nil || f.Orchestrator == nil {
		return nil, fmt.Errorf("sync flow 依赖未注入完整")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}

	if err := f.Session.Begin(ctx); err != nil {
		return nil, fmt.Errorf("建立文件源会话失败: %w", err)
	}
	defer f.Session.End()

	scan, err := f.Scanner.ScanMetadata(ctx, f.Path, f.ChunkSize, f.ScanOpts)
	if err != nil {
		return nil, fmt.Errorf("扫描源文件失败: %w", err)
	}
	f.Logger.Info("源文件扫描完成",
		zap.String("file", scan.FileName),
		zap.Int("total_rows", scan.TotalRows),
		zap.Int("total_chunks", scan.TotalChunks),
		zap.Int("parent_links", len(scan.ParentMap)))

	nodes := hierarchy.BuildNodes(scan, f.LevelColumns)
	if len(nodes) == 0 {
		f.Logger.Warn("扫描结果中没有可同步的层级节点")
	}

	report, err := f.Orchestrator.UpsertHierarchy(ctx, nodes, f.MaxLevel)
	if err != nil {
		return nil, fmt.Errorf("层级同步失败: %w", err)
	}

	f.mu.Lock()
	f.lastReport = report
	f.mu.Unlock()

	f.Logger.Info("层级同步完成",
		zap.Int("nodes", len(nodes)),
		zap.Int("mapped", len(report.Mappings)),
		zap.Int("failed_or_skipped", report.Failed()))
	return report, nil
}

// LastReport 返回最近一次同步的报告。
func (f *SyncFlow) LastReport() *hierarchy.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReport
}
