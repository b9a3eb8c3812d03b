// Package router 提供 HTTP 路由配置
package router

import (
	"sixty-content-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	contentHandler *handler.ContentHandler,
	usageHandler *handler.UsageHandler,
) {
	// 会议下的内容生成与版本链
	meetings := v1.Group("/meetings")
	{
		meetings.POST("/:mid/content", contentHandler.Generate)
		meetings.GET("/:mid/content/:kind/latest", contentHandler.GetLatest)
		meetings.GET("/:mid/content/:kind/versions", contentHandler.ListVersions)
	}

	// 内容版本管理
	contents := v1.Group("/content")
	{
		contents.DELETE("/:cid", contentHandler.Delete)
	}

	// 用量查询
	usage := v1.Group("/usage")
	{
		usage.GET("", usageHandler.Get)
	}
}
