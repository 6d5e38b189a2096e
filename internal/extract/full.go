package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"sheet2neo/internal/metrics"
	"sheet2neo/internal/sheet"
	"sheet2neo/internal/transport"
	"sheet2neo/pkg/util"

	"go.uber.org/zap"
)

const defaultFullScanTimeout = 3 * time.Minute

// Options 控制整文件提取。
type Options struct {
	ChunkSize int // 批量进度粒度
	MaxRows   int // 0 表示不封顶
}

// FullExtractor 保留整个文件的行。固定时长的保险超时到点后返回已积累的
// 部分结果并打上截断标记，而不是报错：调用方经常在批处理里串多次提取，
// 半途抛异常比拿到残缺块更难恢复。
type FullExtractor struct {
	pipe    pipeline
	timeout time.Duration
	logger  *zap.Logger
}

// NewFullExtractor 创建整文件提取器。timeout<=0 时用默认值。
func NewFullExtractor(session *transport.Session, opener sheet.Opener, mat *Materializer, sheetName string, timeout time.Duration, logger *zap.Logger) *FullExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultFullScanTimeout
	}
	return &FullExtractor{
		pipe:    newPipeline(session, opener, mat, sheetName, logger),
		timeout: timeout,
		logger:  logger,
	}
}

// ExtractAll 提取文件全部行，最多 MaxRows 条。
func (e *FullExtractor) ExtractAll(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.ChunkSize <= 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("chunkSize 必须为正: %d", opts.ChunkSize)}
	}
	if opts.MaxRows < 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("maxRows 不能为负: %d", opts.MaxRows)}
	}

	start := time.Now()
	opened, size, cleanup, err := e.pipe.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("整文件提取 %s 失败: %w", path, err)
	}
	defer cleanup()

	fileName := filepath.Base(path)

	// Pending 最多兑现一次，之后仍不就绪就按不可信流降级
	if opened.State == sheet.StreamPending && opened.Resolve != nil {
		opened = opened.Resolve(ctx)
	}
	switch opened.State {
	case sheet.StreamReady:
	default:
		// 不可信的流不往上抛：返回空的成功结果并在元数据里说明，
		// 库层面的契约破坏转成可恢复的降级
		note := "行流不可用"
		if opened.Err != nil {
			note = fmt.Sprintf("行流不可用: %v", opened.Err)
		}
		e.logger.Warn("行流不可用，返回空结果", zap.String("file", path), zap.String("note", note))
		return &Result{
			FileName:      fileName,
			FileSizeBytes: size,
			ChunkSize:     opts.ChunkSize,
			Rows:          []sheet.Row{},
			Meta: Meta{
				ProcessedAt:      time.Now().UTC(),
				ProcessingMethod: "full",
				ErrorNote:        note,
			},
		}, nil
	}
	stream := opened.Stream
	defer stream.Close()

	deadline := time.Now().Add(e.timeout)
	var rows []sheet.Row
	total := 0
	truncated := false
	note := ""

	for stream.Next() {
		// 调用方主动取消和保险超时是两回事：取消往上抛，超时算截断成功
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("整文件提取 %s 被取消: %w", path, err)
		}
		if time.Now().After(deadline) {
			truncated = true
			break
		}
		row, err := stream.Row()
		if err != nil {
			if total == 0 {
				// 一行都没拿到的流错误是唯一往上抛的情况
				return nil, fmt.Errorf("整文件提取 %s 读行失败: %w", path, err)
			}
			note = fmt.Sprintf("行流中途出错，保留已读取的 %d 行: %v", total, err)
			e.logger.Warn("行流中途出错，按部分成功处理", zap.String("file", fileName), zap.Error(err))
			break
		}
		rows = append(rows, row)
		total++
		if total%opts.ChunkSize == 0 {
			e.logger.Debug("批次已积累", zap.String("file", fileName), zap.Int("rows", total))
		}
		if opts.MaxRows > 0 && total >= opts.MaxRows {
			break
		}
	}

	batches := util.Batch(rows, opts.ChunkSize)

	if truncated {
		e.logger.Warn("整文件提取超时截断",
			zap.String("file", fileName),
			zap.Duration("timeout", e.timeout),
			zap.Int("rows", total))
	}

	metrics.ExtractDuration.Observe(time.Since(start).Seconds())
	metrics.RowsExtracted.Add(float64(total))
	e.logger.Info("整文件提取完成", zap.String("file", fileName), zap.Int("rows", total), zap.Int("batches", len(batches)))

	return &Result{
		FileName:        fileName,
		FileSizeBytes:   size,
		ChunkSize:       opts.ChunkSize,
		Rows:            rows,
		ChunksProcessed: len(batches),
		TotalRowsSeen:   total,
		Meta: Meta{
			ProcessedAt:        time.Now().UTC(),
			ProcessingMethod:   "full",
			TruncatedByTimeout: truncated,
			ErrorNote:          note,
		},
	}, nil
}
