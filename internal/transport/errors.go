package transport

import "fmt"

// ConnectionError 表示会话无法建立：参数缺失、DNS、拒绝连接、超时或认证失败。
// 对调用方只暴露一种错误类型，具体原因放在 Cause 里便于排查。
type ConnectionError struct {
	Host  string
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("连接 %s 失败", e.Host)
	}
	return fmt.Sprintf("连接 %s 失败: %v", e.Host, e.Cause)
}

func (e *ConnectionError) Unwrap() error { return e.Cause }

// TransferError 表示文件拉取失败，消息中带上失败的路径。
type TransferError struct {
	Path  string
	Cause error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("拉取文件 %s 失败: %v", e.Path, e.Cause)
}

func (e *TransferError) Unwrap() error { return e.Cause }
