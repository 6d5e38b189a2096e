package app

import (
	"context"
	"fmt"

	"sheet2neo/internal/target"

	"go.uber.org/zap"
)

// InitFlow 负责首跑初始化：建 schema -> 全量同步一轮。
type InitFlow struct {
	Schema *target.SchemaManager
	Sync   *SyncFlow
	Logger *zap.Logger
}

// Run 执行初始化流程。
func (f *InitFlow) Run(ctx context.Context) error {
	if f.Sync == nil {
		return fmt.Errorf("初始化依赖未注入完整")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}

	if f.Schema != nil {
		if err := f.Schema.Ensure(ctx); err != nil {
			return err
		}
		f.Logger.Info("目标库 schema 已就绪")
	}

	if _, err := f.Sync.Run(ctx); err != nil {
		return err
	}
	f.Logger.Info("初始化同步完成")
	return nil
}
