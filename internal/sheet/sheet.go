package sheet

import "context"

// Options 描述打开一个行流所需的参数。
type Options struct {
	FilePath        string
	Sheet           string // 为空时取第一个工作表
	WithHeader      bool
	IgnoreEmptyRows bool
}

// Cell 是一行里的一个单元格，保持文件中的列顺序。
type Cell struct {
	Column string
	Value  string
}

// Row 是一条有序的 列名->值 记录。无表头时列名按位置生成。
type Row struct {
	Index int // 数据区行号，从 0 开始，不含表头
	Cells []Cell
}

// Get 按列名取值。
func (r Row) Get(column string) (string, bool) {
	for _, c := range r.Cells {
		if c.Column == column {
			return c.Value, true
		}
	}
	return "", false
}

// Values 按列顺序返回所有值。
func (r Row) Values() []string {
	vals := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		vals = append(vals, c.Value)
	}
	return vals
}

// RowSource 是逐行消费的流。Close 支持提前终止，必须在任何退出路径上调用。
type RowSource interface {
	Next() bool
	Row() (Row, error)
	Close() error
}

// OpenState 标记打开行流的结果形态，调用方需要穷尽处理三种情况。
type OpenState int

const (
	// StreamReady 流可以直接消费。
	StreamReady OpenState = iota + 1
	// StreamPending 流尚未就绪，最多通过 Resolve 兑现一次后重新判定。
	StreamPending
	// StreamInvalid 解析器给出了无法信任的结果，Err 里是原因。
	StreamInvalid
)

// OpenResult 替代运行时探测方法是否存在的写法：打开行流的三种结果
// 用显式标签区分。
type OpenResult struct {
	State   OpenState
	Stream  RowSource
	Resolve func(ctx context.Context) OpenResult // 仅 StreamPending 时非空
	Err     error                                // 仅 StreamInvalid 时非空
}

// Ready 构造就绪结果。
func Ready(s RowSource) OpenResult {
	return OpenResult{State: StreamReady, Stream: s}
}

// Invalid 构造不可信结果。
func Invalid(err error) OpenResult {
	return OpenResult{State: StreamInvalid, Err: err}
}

// Opener 是打开行流的边界接口，生产实现基于 excelize，测试用假实现。
type Opener interface {
	Open(ctx context.Context, opts Options) OpenResult
}
