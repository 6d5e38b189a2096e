package target

import "context"

// Unit 表示目标系统中的一个层级单位。
type Unit struct {
	ID        string
	Name      string
	ShortName string
	Code      string
	Level     int
	ParentID  string
	Hash      string // 内容指纹，用于跳过无变化的更新
}

// Client 抽象层级单位的目标系统：按唯一编码查找，再决定建还是改。
type Client interface {
	// FindByCode 按编码查找，可能返回 0、1 或多条（多条视为冲突，由调用方判定）。
	FindByCode(ctx context.Context, code string) ([]Unit, error)
	// Create 创建单位并返回目标系统分配的标识。
	Create(ctx context.Context, u Unit) (string, error)
	// Update 按标识更新单位属性和父引用。
	Update(ctx context.Context, id string, u Unit) error
}
