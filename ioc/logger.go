package ioc

import (
	"sheet2neo/pkg/logging"

	"go.uber.org/zap"
)

// InitLogger 构建全局 logger。
func InitLogger() (*zap.Logger, error) {
	return logging.New()
}
