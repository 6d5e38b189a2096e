package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"sheet2neo/internal/sheet"
	"sheet2neo/internal/transport"
	"sheet2neo/pkg/util"

	"go.uber.org/zap"
)

// ScanOptions 配置维度扫描。
type ScanOptions struct {
	// Dimensions 是需要收集去重取值的列。
	Dimensions []string
	// HierarchyColumns 按父到子排序的层级列，相邻两列同行非空即记一条父子关系。
	HierarchyColumns []string
}

// Scanner 做不保留行内容的全量扫描：行数、推算分块数、维度去重集合、
// 层级列的 子->父 关系。
type Scanner struct {
	pipe   pipeline
	logger *zap.Logger
}

// NewScanner 创建维度扫描器。
func NewScanner(session *transport.Session, opener sheet.Opener, mat *Materializer, sheetName string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		pipe:   newPipeline(session, opener, mat, sheetName, logger),
		logger: logger,
	}
}

// ScanMetadata 全量扫描文件元数据。总行数本身是输出，所以不提前停流。
func (s *Scanner) ScanMetadata(ctx context.Context, path string, chunkSize int, opts ScanOptions) (*ScanResult, error) {
	if chunkSize <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("chunkSize 必须为正: %d", chunkSize)}
	}
	if len(opts.Dimensions) == 0 && len(opts.HierarchyColumns) == 0 {
		return nil, &ValidationError{Reason: "必须配置至少一个维度列或层级列"}
	}

	opened, _, cleanup, err := s.pipe.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("维度扫描 %s 失败: %w", path, err)
	}
	defer cleanup()

	if opened.State == sheet.StreamPending && opened.Resolve != nil {
		opened = opened.Resolve(ctx)
	}
	if opened.State != sheet.StreamReady {
		return nil, fmt.Errorf("维度扫描 %s 失败: 行流不可用: %w", path, opened.Err)
	}
	stream := opened.Stream
	defer stream.Close()

	start := time.Now()
	// 去重集合保持首次出现顺序，保证结果可复现
	uniqueValues := make(map[string][]string, len(opts.Dimensions))
	seen := make(map[string]map[string]struct{}, len(opts.Dimensions))
	for _, dim := range opts.Dimensions {
		uniqueValues[dim] = []string{}
		seen[dim] = make(map[string]struct{})
	}
	parentMap := make(map[string]string)
	totalRows := 0

	for stream.Next() {
		row, err := stream.Row()
		if err != nil {
			return nil, fmt.Errorf("维度扫描 %s 读行失败: %w", path, err)
		}
		totalRows++

		for _, dim := range opts.Dimensions {
			val, ok := row.Get(dim)
			if !ok || strings.TrimSpace(val) == "" {
				continue
			}
			if _, dup := seen[dim][val]; dup {
				continue
			}
			seen[dim][val] = struct{}{}
			uniqueValues[dim] = append(uniqueValues[dim], val)
		}

		for i := 0; i+1 < len(opts.HierarchyColumns); i++ {
			parentVal, _ := row.Get(opts.HierarchyColumns[i])
			childVal, _ := row.Get(opts.HierarchyColumns[i+1])
			if strings.TrimSpace(parentVal) == "" || strings.TrimSpace(childVal) == "" {
				continue
			}
			parentMap[childVal] = parentVal
		}
	}

	totalChunks := util.CeilDiv(totalRows, chunkSize)
	s.logger.Info("维度扫描完成",
		zap.String("file", path),
		zap.Int("total_rows", totalRows),
		zap.Int("total_chunks", totalChunks),
		zap.Duration("elapsed", time.Since(start)))

	return &ScanResult{
		FileName:     filepath.Base(path),
		TotalRows:    totalRows,
		ChunkSize:    chunkSize,
		TotalChunks:  totalChunks,
		UniqueValues: uniqueValues,
		ParentMap:    parentMap,
	}, nil
}
