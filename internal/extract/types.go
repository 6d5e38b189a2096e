package extract

import (
	"fmt"
	"time"

	"sheet2neo/internal/sheet"
)

// ValidationError 表示入参不合法，在任何 I/O 之前抛出。
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("参数校验失败: %s", e.Reason)
}

// ChunkWindow 描述按块访问时的行窗口。
type ChunkWindow struct {
	ChunkIndex int
	ChunkSize  int
}

// StartRow 返回窗口起始行（含）。
func (w ChunkWindow) StartRow() int { return w.ChunkIndex * w.ChunkSize }

// EndRow 返回窗口结束行（含），EndRow-StartRow+1 恒等于 ChunkSize。
func (w ChunkWindow) EndRow() int { return w.StartRow() + w.ChunkSize - 1 }

// Validate 校验窗口参数。
func (w ChunkWindow) Validate() error {
	if w.ChunkIndex < 0 {
		return &ValidationError{Reason: fmt.Sprintf("chunkIndex 不能为负: %d", w.ChunkIndex)}
	}
	if w.ChunkSize <= 0 {
		return &ValidationError{Reason: fmt.Sprintf("chunkSize 必须为正: %d", w.ChunkSize)}
	}
	return nil
}

// Meta 是一次提取的附加信息。TruncatedByTimeout 为真表示结果有效但不完整。
type Meta struct {
	ProcessedAt        time.Time
	ProcessingMethod   string
	TruncatedByTimeout bool
	ErrorNote          string
}

// Result 是一次提取调用的产物，返回后不再修改。
type Result struct {
	FileName        string
	FileSizeBytes   int
	ChunkSize       int
	Rows            []sheet.Row
	ChunksProcessed int
	TotalRowsSeen   int
	Meta            Meta
}

// ScanResult 是一次维度扫描的产物：不保留行内容，只保留统计与去重集合。
type ScanResult struct {
	FileName    string
	TotalRows   int
	ChunkSize   int
	TotalChunks int
	// UniqueValues 按首次出现顺序保存每个维度列的去重取值。
	UniqueValues map[string][]string
	// ParentMap 记录相邻层级列同行共现得到的 子名称->父名称。
	ParentMap map[string]string
}
