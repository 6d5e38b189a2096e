package logging

import "go.uber.org/zap"

// New 返回开发环境的 zap logger，console 输出。
func New() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}

// NewNop 返回空 logger，测试场景使用。
func NewNop() *zap.Logger {
	return zap.NewNop()
}
