// Package main 数据库初始化入口：建表与索引
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"sixty-content-api/internal/config"
	"sixty-content-api/internal/domain/entity"
	"sixty-content-api/internal/wire"
)

// latestContentIndexSQL 保证每条 (meeting_id, kind) 版本链上最多一个最新版。
// GORM AutoMigrate 不支持部分索引，用原生 SQL 创建。
const latestContentIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_content_latest
ON generated_contents (meeting_id, kind)
WHERE is_latest AND deleted_at IS NULL
`

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 建表
	db := dataLayer.PgClient.DB()
	fmt.Println("Running schema migration...")
	if err := db.WithContext(ctx).AutoMigrate(
		&entity.Meeting{},
		&entity.TopicExtraction{},
		&entity.GeneratedContent{},
		&entity.ContentTopicLink{},
		&entity.LLMUsageEvent{},
	); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 4. 最新版唯一性部分索引
	if err := db.WithContext(ctx).Exec(latestContentIndexSQL).Error; err != nil {
		log.Fatalf("failed to create latest content index: %v", err)
	}

	fmt.Println("Bootstrap completed successfully.")
}
