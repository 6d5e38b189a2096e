package transport

import "context"

// FileSource 抽象远端文件源，便于测试替换实现。
type FileSource interface {
	// Connect 建立底层连接，失败返回 *ConnectionError。
	Connect(ctx context.Context) error
	// FetchFile 将整个远端文件读入内存，失败返回 *TransferError。
	FetchFile(ctx context.Context, path string) ([]byte, error)
	// Disconnect 关闭底层连接。
	Disconnect() error
}

// StripScheme 去掉 host 上可能携带的 scheme:// 前缀。
func StripScheme(host string) string {
	for i := 0; i+2 < len(host); i++ {
		if host[i] == ':' && host[i+1] == '/' && host[i+2] == '/' {
			return host[i+3:]
		}
	}
	return host
}
