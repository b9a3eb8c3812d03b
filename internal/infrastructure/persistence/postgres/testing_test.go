package postgres

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sixty-content-api/internal/domain/entity"
)

// newTestClient 基于 sqlite 内存库创建仓储客户端。
// TranslateError 让 sqlite 的唯一约束冲突同样映射为 gorm.ErrDuplicatedKey，
// 与生产环境 postgres 驱动的行为一致。
func newTestClient(t *testing.T) *Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Meeting{},
		&entity.TopicExtraction{},
		&entity.GeneratedContent{},
		&entity.ContentTopicLink{},
		&entity.LLMUsageEvent{},
	))

	return NewClientFromDB(db)
}
