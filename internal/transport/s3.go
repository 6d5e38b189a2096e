package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config 描述 S3 兼容对象存储文件源的参数。
type S3Config struct {
	EndpointURL     string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
}

// S3Source 基于 minio-go 的对象存储文件源，与 SFTPSource 遵守同一契约。
type S3Source struct {
	cfg    S3Config
	client *minio.Client
}

// NewS3Source 创建对象存储文件源。
func NewS3Source(cfg S3Config) *S3Source {
	return &S3Source{cfg: cfg}
}

// Connect 构建 minio 客户端并用 ListBuckets 验证连通性。
func (s *S3Source) Connect(ctx context.Context) error {
	raw := strings.TrimSpace(s.cfg.EndpointURL)
	if raw == "" {
		return &ConnectionError{Host: raw, Cause: fmt.Errorf("endpoint 不能为空")}
	}
	if s.cfg.AccessKeyID == "" || s.cfg.SecretAccessKey == "" {
		return &ConnectionError{Host: raw, Cause: fmt.Errorf("缺少访问凭证")}
	}

	endpoint := raw
	useSSL := s.cfg.UseSSL
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			useSSL = true
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s.cfg.AccessKeyID, s.cfg.SecretAccessKey, ""),
		Secure: useSSL,
		Region: s.cfg.Region,
	})
	if err != nil {
		return &ConnectionError{Host: endpoint, Cause: err}
	}
	if _, err := client.ListBuckets(ctx); err != nil {
		return &ConnectionError{Host: endpoint, Cause: err}
	}
	s.client = client
	return nil
}

// FetchFile 按 bucket 内对象 key 整体读入文件。
func (s *S3Source) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if s.client == nil {
		return nil, &TransferError{Path: path, Cause: fmt.Errorf("s3 会话未建立")}
	}
	key := strings.TrimPrefix(path, "/")
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &TransferError{Path: path, Cause: err}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, &TransferError{Path: path, Cause: err}
	}
	return data, nil
}

// Disconnect 对象存储客户端无长连接，置空即可。
func (s *S3Source) Disconnect() error {
	s.client = nil
	return nil
}
