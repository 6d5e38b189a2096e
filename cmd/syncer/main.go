package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"sheet2neo/internal/app"
	"sheet2neo/internal/extract"
	"sheet2neo/internal/hierarchy"
	"sheet2neo/internal/target"
	"sheet2neo/internal/transport"
	"sheet2neo/ioc"
	"sheet2neo/pkg/logging"
)

func main() {
	var configPath string
	var path string
	var chunkIndex int
	var chunkSize int
	flag.StringVar(&configPath, "config", "configs/config.yaml", "配置文件路径")
	flag.StringVar(&path, "path", "", "远端文件路径，为空时用配置里的源文件")
	flag.IntVar(&chunkIndex, "chunk", 0, "chunk 命令使用的块序号")
	flag.IntVar(&chunkSize, "size", 0, "chunk 命令使用的块大小，0 表示用配置值")
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	cmd := flag.Arg(0)

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	svc, cleanup, err := buildService(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "构建服务失败: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()
	defer svc.Close(ctx)

	switch cmd {
	case "init":
		err = svc.Init(ctx)
	case "sync":
		err = svc.Sync(ctx)
	case "scan":
		var result *extract.ScanResult
		result, err = svc.ScanMetadata(ctx, path)
		if err == nil {
			fmt.Printf("文件 %s：%d 行，%d 块\n", result.FileName, result.TotalRows, result.TotalChunks)
			for dim, values := range result.UniqueValues {
				fmt.Printf("  维度 %s：%d 个取值\n", dim, len(values))
			}
		}
	case "chunk":
		var result *extract.Result
		result, err = svc.ExtractChunk(ctx, path, chunkIndex, chunkSize)
		if err == nil {
			fmt.Printf("文件 %s：块 %d 返回 %d 行（共扫过 %d 行）\n",
				result.FileName, chunkIndex, len(result.Rows), result.TotalRowsSeen)
		}
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s 执行失败: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("用法: syncer [-config configs/config.yaml] [-path 远端路径] [-chunk N] [-size N] {init|sync|scan|chunk}")
}

// buildService 手工装配一次性 CLI 所需的服务，复用 ioc 里的 provider。
func buildService(ctx context.Context, cfg app.Config) (*app.Service, func(), error) {
	logger, err := ioc.InitLogger()
	if err != nil {
		return nil, nil, err
	}
	source, err := ioc.InitFileSource(cfg)
	if err != nil {
		return nil, nil, err
	}
	session := transport.NewSession(source, logger)
	opener := ioc.InitOpener()
	mat := ioc.InitMaterializer(cfg, logger)
	window := ioc.InitWindowExtractor(session, opener, mat, cfg, logger)
	full := ioc.InitFullExtractor(session, opener, mat, cfg, logger)
	scanner := ioc.InitScanner(session, opener, mat, cfg, logger)

	client, err := target.NewNeo4jClient(ctx, target.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = client.Close(context.Background()) }

	backoff := time.Duration(cfg.Sync.Retry.BackoffSeconds) * time.Second
	orch := hierarchy.NewOrchestrator(client, cfg.Sync.Retry.Attempts, backoff, logger)
	schema := target.NewSchemaManager(client)

	svc, err := app.NewService(cfg, session, window, full, scanner, orch, schema, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
