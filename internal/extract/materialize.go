package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Materializer 将拉取到内存的文件落成临时文件，流式解析器只认文件路径。
type Materializer struct {
	dir    string
	logger *zap.Logger
}

// NewMaterializer 创建临时文件管理器，dir 为空时用系统临时目录。
func NewMaterializer(dir string, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{dir: dir, logger: logger}
}

// Write 写出一个唯一命名的临时文件，返回路径和清理函数。
// 清理函数在任何退出路径上都要调用；删除失败只记日志，不往上抛。
func (m *Materializer) Write(remoteName string, data []byte) (string, func(), error) {
	dir := m.dir
	if dir == "" {
		dir = os.TempDir()
	}
	ext := filepath.Ext(remoteName)
	if ext == "" {
		ext = ".xlsx"
	}
	name := fmt.Sprintf("sheet2neo-%s-%s%s",
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
		ext)
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("写临时文件 %s 失败: %w", path, err)
	}

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			m.logger.Warn("删除临时文件失败", zap.String("path", path), zap.Error(err))
		}
	}
	return path, cleanup, nil
}
