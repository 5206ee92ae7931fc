package handler

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"shortstory-ai-api/internal/infrastructure/persistence/redis"
	"shortstory-ai-api/internal/interfaces/http/dto"
	"shortstory-ai-api/internal/workflow/prompt"
	"shortstory-ai-api/pkg/logger"
)

// genreCacheTTL 体裁列表缓存时长，配置静态但响应体较大
const genreCacheTTL = time.Hour

// GenreHandler 体裁处理器
type GenreHandler struct {
	cache *redis.Cache
}

// NewGenreHandler 创建体裁处理器
func NewGenreHandler(cache *redis.Cache) *GenreHandler {
	return &GenreHandler{cache: cache}
}

// ListGenres 列出可用体裁
// @Summary 列出可用体裁及其约束
// @Tags Genres
// @Produce json
// @Success 200 {object} dto.Response[dto.GenreListResponse]
// @Router /api/v1/genres [get]
func (h *GenreHandler) ListGenres(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := h.cache.GetOrLoad(ctx, redis.BuildGenreListKey(), genreCacheTTL, func() (interface{}, error) {
		return buildGenreList(), nil
	})
	if err != nil {
		// 缓存不可用时直接走静态表
		logger.Warn(ctx, "genre cache unavailable, serving static table", "error", err.Error())
		dto.Success(c, buildGenreList())
		return
	}

	var resp dto.GenreListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		dto.Success(c, buildGenreList())
		return
	}
	dto.Success(c, &resp)
}

func buildGenreList() *dto.GenreListResponse {
	names := prompt.GenreNames()
	sort.Strings(names)

	resp := &dto.GenreListResponse{
		Genres:  make([]*dto.GenreResponse, 0, len(names)),
		Aliases: prompt.GenreAliases(),
	}
	for _, name := range names {
		cfg := prompt.ResolveGenre(name)
		resp.Genres = append(resp.Genres, &dto.GenreResponse{
			Name:        cfg.Name,
			Framework:   cfg.Framework,
			Outline:     cfg.Outline,
			Constraints: cfg.Constraints,
		})
	}
	return resp
}
