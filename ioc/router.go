package ioc

import (
	"sheet2neo/internal/app"
	"sheet2neo/internal/metrics"
	"sheet2neo/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InitSyncHandler 构建同步 HTTP 处理器。
func InitSyncHandler(svc *app.Service, logger *zap.Logger) *router.SyncHandler {
	return router.NewSyncHandler(svc, logger)
}

// InitGinEngine 构建 gin 引擎并注册指标。
func InitGinEngine(syncHandler *router.SyncHandler) *gin.Engine {
	metrics.MustRegister(prometheus.DefaultRegisterer)
	return router.NewEngine(syncHandler)
}
