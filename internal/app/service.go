package app

import (
	"context"
	"fmt"

	"sheet2neo/internal/extract"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/target"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// Service 负责装配各个 Flow 并提供统一入口。
// 提取调用共享同一个 Session，每次调用用 Begin/End 独占完整跨度。
type Service struct {
	cfg      Config
	session  *transport.Session
	window   *extract.WindowExtractor
	full     *extract.FullExtractor
	scanner  *extract.Scanner
	InitFlow *InitFlow
	SyncFlow *SyncFlow
	logger   *zap.Logger
}

// NewService 根据注入的部件构建 Service。
func NewService(
	cfg Config,
	session *transport.Session,
	window *extract.WindowExtractor,
	full *extract.FullExtractor,
	scanner *extract.Scanner,
	orch *hierarchy.Orchestrator,
	schema *target.SchemaManager,
	logger *zap.Logger,
) (*Service, error) {
	if session == nil {
		return nil, fmt.Errorf("必须提供 transport session")
	}
	if orch == nil {
		return nil, fmt.Errorf("必须提供层级同步器")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	maxLevel := cfg.Hierarchy.MaxLevel
	if maxLevel <= 0 {
		maxLevel = len(cfg.Scan.HierarchyColumns)
	}

	syncFlow := &SyncFlow{
		Session:      session,
		Scanner:      scanner,
		Orchestrator: orch,
		Path:         cfg.Hierarchy.SourcePath,
		ChunkSize:    cfg.Extract.ChunkSize,
		ScanOpts: extract.ScanOptions{
			Dimensions:       cfg.Scan.Dimensions,
			HierarchyColumns: cfg.Scan.HierarchyColumns,
		},
		LevelColumns: cfg.Scan.HierarchyColumns,
		MaxLevel:     maxLevel,
		Logger:       logger,
	}

	svc := &Service{
		cfg:      cfg,
		session:  session,
		window:   window,
		full:     full,
		scanner:  scanner,
		InitFlow: &InitFlow{Schema: schema, Sync: syncFlow, Logger: logger},
		SyncFlow: syncFlow,
		logger:   logger,
	}
	return svc, nil
}

// Init 首跑初始化：建 schema 后做一轮全量同步。
func (s *Service) Init(ctx context.Context) error {
	if s.InitFlow == nil {
		return fmt.Errorf("未初始化 init flow")
	}
	return s.InitFlow.Run(ctx)
}

// Sync 执行一轮 扫描 -> 建节点 -> 层级同步。
func (s *Service) Sync(ctx context.Context) error {
	if s.SyncFlow == nil {
		return fmt.Errorf("未初始化 sync flow")
	}
	_, err := s.SyncFlow.Run(ctx)
	return err
}

// LastReport 返回最近一轮同步的审计报告，尚未跑过时为 nil。
func (s *Service) LastReport() *hierarchy.Report {
	if s.SyncFlow == nil {
		return nil
	}
	return s.SyncFlow.LastReport()
}

// ExtractChunk 在一个会话跨度内按块提取。path 为空时用配置的源文件。
func (s *Service) ExtractChunk(ctx context.Context, path string, chunkIndex, chunkSize int) (*extract.Result, error) {
	if path == "" {
		path = s.cfg.Hierarchy.SourcePath
	}
	if chunkSize == 0 {
		chunkSize = s.cfg.Extract.ChunkSize
	}
	if err := s.session.Begin(ctx); err != nil {
		return nil, err
	}
	defer s.session.End()
	return s.window.ExtractChunk(ctx, path, chunkIndex, chunkSize)
}

// ExtractAll 在一个会话跨度内整文件提取。
func (s *Service) ExtractAll(ctx context.Context, path string) (*extract.Result, error) {
	if path == "" {
		path = s.cfg.Hierarchy.SourcePath
	}
	if err := s.session.Begin(ctx); err != nil {
		return nil, err
	}
	defer s.session.End()
	return s.full.ExtractAll(ctx, path, extract.Options{
		ChunkSize: s.cfg.Extract.ChunkSize,
		MaxRows:   s.cfg.Extract.MaxRows,
	})
}

// ScanMetadata 在一个会话跨度内做维度扫描。
func (s *Service) ScanMetadata(ctx context.Context, path string) (*extract.ScanResult, error) {
	if path == "" {
		path = s.cfg.Hierarchy.SourcePath
	}
	if err := s.session.Begin(ctx); err != nil {
		return nil, err
	}
	defer s.session.End()
	return s.scanner.ScanMetadata(ctx, path, s.cfg.Extract.ChunkSize, extract.ScanOptions{
		Dimensions:       s.cfg.Scan.Dimensions,
		HierarchyColumns: s.cfg.Scan.HierarchyColumns,
	})
}

// Close 释放资源。
func (s *Service) Close(ctx context.Context) error {
	s.session.Disconnect()
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return nil
}
