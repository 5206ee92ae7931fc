// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 故事管理
	stories := v1.Group("/stories")
	{
		stories.POST("/generate", h.Story.Generate)
		stories.GET("", h.Story.ListStories)
		stories.GET("/:id", h.Story.GetStory)
		stories.DELETE("/:id", h.Story.DeleteStory)

		// 修订台账
		stories.POST("/:id/revisions", h.Story.Revise)
		stories.GET("/:id/revisions", h.Story.ListRevisions)
		stories.GET("/:id/revisions/compare", h.Story.CompareRevisions)
	}

	// 体裁目录
	genres := v1.Group("/genres")
	{
		genres.GET("", h.Genre.ListGenres)
	}

	// 任务管理
	jobs := v1.Group("/jobs")
	{
		jobs.GET("/:id", h.Job.GetJob)
		jobs.DELETE("/:id", h.Job.CancelJob)
	}
}
