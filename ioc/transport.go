package ioc

import (
	"fmt"
	"strings"

	"sheet2neo/internal/app"
	"sheet2neo/internal/transport"

	"go.uber.org/zap"
)

// InitFileSource 根据配置选择远端文件源实现。
func InitFileSource(cfg app.Config) (transport.FileSource, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transport.Kind)) {
	case "", "sftp":
		return transport.NewSFTPSource(transport.SFTPConfig{
			Host:          cfg.Transport.SFTP.Host,
			Port:          cfg.Transport.SFTP.Port,
			Username:      cfg.Transport.SFTP.Username,
			Password:      cfg.Transport.SFTP.Password,
			TimeoutSecond: cfg.Transport.SFTP.TimeoutSecond,
		}), nil
	case "s3", "minio":
		return transport.NewS3Source(transport.S3Config{
			EndpointURL:     cfg.Transport.S3.EndpointURL,
			AccessKeyID:     cfg.Transport.S3.AccessKeyID,
			SecretAccessKey: cfg.Transport.S3.SecretAccessKey,
			Bucket:          cfg.Transport.S3.Bucket,
			Region:          cfg.Transport.S3.Region,
			UseSSL:          cfg.Transport.S3.UseSSL,
		}), nil
	default:
		return nil, fmt.Errorf("不支持的 transport.kind: %s", cfg.Transport.Kind)
	}
}

// InitSession 构建共享的传输会话。
func InitSession(source transport.FileSource, logger *zap.Logger) *transport.Session {
	return transport.NewSession(source, logger)
}
