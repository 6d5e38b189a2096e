package router

import (
	"errors"
	"strings"

	"sheet2neo/internal/app"
	"sheet2neo/internal/extract"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncHandler 负责同步与提取相关的 HTTP 请求。
type SyncHandler struct {
	svc    *app.Service
	logger *zap.Logger
}

// NewSyncHandler 构建一个新的 SyncHandler。
func NewSyncHandler(svc *app.Service, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

// RegisterRoutes 将同步路由注册到给定的路由组。
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/run", h.handleRun)
	rg.GET("/report", h.handleReport)
	rg.POST("/extract/chunk", h.handleExtractChunk)
	rg.POST("/extract/scan", h.handleScan)
}

func (h *SyncHandler) handleRun(c *gin.Context) {
	if err := h.svc.Sync(c.Request.Context()); err != nil {
		if h.logger != nil {
			h.logger.Error("sync failed", zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	report := h.svc.LastReport()
	c.JSON(200, gin.H{"mapped": len(report.Mappings), "entries": len(report.Entries)})
}

func (h *SyncHandler) handleReport(c *gin.Context) {
	report := h.svc.LastReport()
	if report == nil {
		c.JSON(404, gin.H{"error": "尚未执行过同步"})
		return
	}
	c.JSON(200, report)
}

type extractChunkRequest struct {
	Path       string `json:"path"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkSize  int    `json:"chunk_size"`
}

type extractChunkResponse struct {
	FileName      string `json:"file_name"`
	Rows          int    `json:"rows"`
	TotalRowsSeen int    `json:"total_rows_seen"`
	Truncated     bool   `json:"truncated"`
	ErrorNote     string `json:"error_note,omitempty"`
}

func (h *SyncHandler) handleExtractChunk(c *gin.Context) {
	var req extractChunkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request payload"})
		return
	}
	result, err := h.svc.ExtractChunk(c.Request.Context(), strings.TrimSpace(req.Path), req.ChunkIndex, req.ChunkSize)
	if err != nil {
		var vErr *extract.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(400, gin.H{"error": vErr.Error()})
			return
		}
		if h.logger != nil {
			h.logger.Error("chunk extract failed", zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, extractChunkResponse{
		FileName:      result.FileName,
		Rows:          len(result.Rows),
		TotalRowsSeen: result.TotalRowsSeen,
		Truncated:     result.Meta.TruncatedByTimeout,
		ErrorNote:     result.Meta.ErrorNote,
	})
}

type scanRequest struct {
	Path string `json:"path"`
}

func (h *SyncHandler) handleScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid request payload"})
		return
	}
	result, err := h.svc.ScanMetadata(c.Request.Context(), strings.TrimSpace(req.Path))
	if err != nil {
		if h.logger != nil {
			h.logger.Error("metadata scan failed", zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, result)
}
