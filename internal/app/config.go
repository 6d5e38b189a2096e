package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type SFTP struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	TimeoutSecond int    `yaml:"timeout_second"`
}

type S3 struct {
	EndpointURL     string `yaml:"endpoint_url"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"use_ssl"`
}

type Transport struct {
	Kind string `yaml:"kind"` // sftp 或 s3
	SFTP SFTP   `yaml:"sftp"`
	S3   S3     `yaml:"s3"`
}

type Extract struct {
	ChunkSize             int    `yaml:"chunk_size"`
	MaxRows               int    `yaml:"max_rows"`
	FullScanTimeoutSecond int    `yaml:"full_scan_timeout_second"`
	Sheet                 string `yaml:"sheet"`
	TempDir               string `yaml:"temp_dir"`
}

type Scan struct {
	Dimensions       []string `yaml:"dimensions"`
	HierarchyColumns []string `yaml:"hierarchy_columns"`
}

type Hierarchy struct {
	SourcePath string `yaml:"source_path"`
	MaxLevel   int    `yaml:"max_level"`
}

type Retry struct {
	Attempts       int `yaml:"attempts"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

type Sync struct {
	JobCron     string `yaml:"job_cron"`
	InitialSync bool   `yaml:"initial_sync"`
	Retry       Retry  `yaml:"retry"`
}

type Neo4j struct {
	URI                  string `yaml:"uri"`
	Username             string `yaml:"username"`
	Password             string `yaml:"password"`
	Database             string `yaml:"database"`
	MaxConnectionPool    int    `yaml:"max_connections"`
	ConnectTimeoutSecond int    `yaml:"connect_timeout_second"`
}

type HTTP struct {
	Listen string `yaml:"listen"`
}

type Config struct {
	Transport Transport `yaml:"transport"`
	Extract   Extract   `yaml:"extract"`
	Scan      Scan      `yaml:"scan"`
	Hierarchy Hierarchy `yaml:"hierarchy"`
	Sync      Sync      `yaml:"sync"`
	Neo4j     Neo4j     `yaml:"neo4j"`
	HTTP      HTTP      `yaml:"http"`
}

// LoadConfig 从文件加载配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("读取配置失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("解析配置失败: %w", err)
	}
	return cfg, nil
}
