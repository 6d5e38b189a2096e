package extract

import (
	"context"
	"fmt"
	"strings"

	"sheet2neo/internal/sheet"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// pipeline 封装三种提取模式共用的 取文件 -> 落盘 -> 开流 序列。
type pipeline struct {
	session   *transport.Session
	opener    sheet.Opener
	mat       *Materializer
	sheetName string
	logger    *zap.Logger
}

func newPipeline(session *transport.Session, opener sheet.Opener, mat *Materializer, sheetName string, logger *zap.Logger) pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return pipeline{session: session, opener: opener, mat: mat, sheetName: sheetName, logger: logger}
}

// open 拉取远端文件并打开行流。返回的 cleanup 删除临时文件，
// 任何退出路径都必须调用。
func (p *pipeline) open(ctx context.Context, path string) (sheet.OpenResult, int, func(), error) {
	if strings.TrimSpace(path) == "" {
		return sheet.OpenResult{}, 0, nil, &ValidationError{Reason: "远端文件路径不能为空"}
	}

	data, err := p.session.Fetch(ctx, path)
	if err != nil {
		return sheet.OpenResult{}, 0, nil, err
	}
	size := len(data)

	local, cleanup, err := p.mat.Write(path, data)
	if err != nil {
		return sheet.OpenResult{}, 0, nil, fmt.Errorf("为 %s 落盘失败: %w", path, err)
	}
	p.logger.Debug("临时文件已落盘", zap.String("remote", path), zap.String("local", local), zap.Int("bytes", size))

	res := p.opener.Open(ctx, sheet.Options{
		FilePath:        local,
		Sheet:           p.sheetName,
		WithHeader:      true,
		IgnoreEmptyRows: true,
	})
	return res, size, cleanup, nil
}
