package sheet

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelOpener 基于 excelize 的流式行读取实现。
type ExcelOpener struct{}

// NewExcelOpener 创建生产用的 Opener。
func NewExcelOpener() *ExcelOpener {
	return &ExcelOpener{}
}

// Open 打开 xlsx 文件的行流。解析失败归为 StreamInvalid，由上层决定降级策略。
func (o *ExcelOpener) Open(ctx context.Context, opts Options) OpenResult {
	if strings.TrimSpace(opts.FilePath) == "" {
		return Invalid(fmt.Errorf("文件路径不能为空"))
	}
	f, err := excelize.OpenFile(opts.FilePath)
	if err != nil {
		return Invalid(fmt.Errorf("打开工作簿失败: %w", err))
	}

	sheetName := opts.Sheet
	if sheetName == "" {
		names := f.GetSheetList()
		if len(names) == 0 {
			_ = f.Close()
			return Invalid(fmt.Errorf("工作簿中没有工作表"))
		}
		sheetName = names[0]
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		_ = f.Close()
		return Invalid(fmt.Errorf("打开工作表 %s 失败: %w", sheetName, err))
	}
	return Ready(&excelStream{file: f, rows: rows, opts: opts})
}

// excelStream 包装 excelize 的行迭代器，负责表头和空行处理。
type excelStream struct {
	file    *excelize.File
	rows    *excelize.Rows
	opts    Options
	header  []string
	started bool
	index   int
	current Row
	err     error
	done    bool
}

func (s *excelStream) Next() bool {
	if s.done {
		return false
	}
	for s.rows.Next() {
		cols, err := s.rows.Columns()
		if err != nil {
			s.err = err
			s.done = true
			// 错误也要能被 Row() 观察到
			return true
		}
		if !s.started && s.opts.WithHeader {
			s.started = true
			s.header = cols
			continue
		}
		s.started = true
		if s.opts.IgnoreEmptyRows && isEmptyRow(cols) {
			continue
		}
		s.current = s.buildRow(cols)
		s.index++
		return true
	}
	s.done = true
	return false
}

func (s *excelStream) Row() (Row, error) {
	if s.err != nil {
		return Row{}, s.err
	}
	return s.current, nil
}

func (s *excelStream) Close() error {
	s.done = true
	var firstErr error
	if s.rows != nil {
		if err := s.rows.Close(); err != nil {
			firstErr = err
		}
		s.rows = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.file = nil
	}
	return firstErr
}

func (s *excelStream) buildRow(cols []string) Row {
	width := len(cols)
	if len(s.header) > width {
		width = len(s.header)
	}
	cells := make([]Cell, 0, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(s.header) {
			name = strings.TrimSpace(s.header[i])
		}
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		val := ""
		if i < len(cols) {
			val = cols[i]
		}
		cells = append(cells, Cell{Column: name, Value: val})
	}
	return Row{Index: s.index, Cells: cells}
}

func isEmptyRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
