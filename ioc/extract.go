package ioc

import (
	"time"

	"sheet2neo/internal/app"
	"sheet2neo/internal/extract"
	"sheet2neo/internal/sheet"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// InitOpener 构建生产用的行流打开器。
func InitOpener() sheet.Opener {
	return sheet.NewExcelOpener()
}

// InitMaterializer 构建临时文件管理器。
func InitMaterializer(cfg app.Config, logger *zap.Logger) *extract.Materializer {
	return extract.NewMaterializer(cfg.Extract.TempDir, logger)
}

// InitWindowExtractor 构建按块提取器。
func InitWindowExtractor(session *transport.Session, opener sheet.Opener, mat *extract.Materializer, cfg app.Config, logger *zap.Logger) *extract.WindowExtractor {
	return extract.NewWindowExtractor(session, opener, mat, cfg.Extract.Sheet, logger)
}

// InitFullExtractor 构建整文件提取器。
func InitFullExtractor(session *transport.Session, opener sheet.Opener, mat *extract.Materializer, cfg app.Config, logger *zap.Logger) *extract.FullExtractor {
	timeout := time.Duration(cfg.Extract.FullScanTimeoutSecond) * time.Second
	return extract.NewFullExtractor(session, opener, mat, cfg.Extract.Sheet, timeout, logger)
}

// InitScanner 构建维度扫描器。
func InitScanner(session *transport.Session, opener sheet.Opener, mat *extract.Materializer, cfg app.Config, logger *zap.Logger) *extract.Scanner {
	return extract.NewScanner(session, opener, mat, cfg.Extract.Sheet, logger)
}
