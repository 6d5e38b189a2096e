package transport

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const defaultSFTPPort = 22

// SFTPConfig 描述 SFTP 文件源的连接参数。
type SFTPConfig struct {
	Host          string
	Port          int
	Username      string
	Password      string
	TimeoutSecond int
}

// SFTPSource 基于 SFTP 协议的远端文件源。
type SFTPSource struct {
	cfg        SFTPConfig
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// NewSFTPSource 创建 SFTP 文件源，连接在 Connect 时才建立。
func NewSFTPSource(cfg SFTPConfig) *SFTPSource {
	return &SFTPSource{cfg: cfg}
}

// Connect 建立 SSH 连接并打开 SFTP 子系统。
func (s *SFTPSource) Connect(ctx context.Context) error {
	host := StripScheme(strings.TrimSpace(s.cfg.Host))
	if host == "" {
		return &ConnectionError{Host: s.cfg.Host, Cause: fmt.Errorf("host 不能为空")}
	}
	port := s.cfg.Port
	if port <= 0 {
		port = defaultSFTPPort
	}
	timeout := time.Duration(s.cfg.TimeoutSecond) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	sshCfg := &ssh.ClientConfig{
		User:            s.cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(s.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	sshClient, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return &ConnectionError{Host: host, Cause: err}
	}
	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return &ConnectionError{Host: host, Cause: fmt.Errorf("打开 sftp 子系统失败: %w", err)}
	}
	s.sshClient = sshClient
	s.sftpClient = sftpClient
	return nil
}

// FetchFile 整体读入远端文件。峰值内存以单个文件大小为上界。
func (s *SFTPSource) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if s.sftpClient == nil {
		return nil, &TransferError{Path: path, Cause: fmt.Errorf("sftp 会话未建立")}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TransferError{Path: path, Cause: err}
	}
	f, err := s.sftpClient.Open(path)
	if err != nil {
		return nil, &TransferError{Path: path, Cause: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &TransferError{Path: path, Cause: err}
	}
	return data, nil
}

// Disconnect 依次关闭 SFTP 和 SSH 连接。
func (s *SFTPSource) Disconnect() error {
	var firstErr error
	if s.sftpClient != nil {
		if err := s.sftpClient.Close(); err != nil {
			firstErr = err
		}
		s.sftpClient = nil
	}
	if s.sshClient != nil {
		if err := s.sshClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.sshClient = nil
	}
	return firstErr
}
