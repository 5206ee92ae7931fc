package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"shortstory-ai-api/internal/application/story"
	"shortstory-ai-api/internal/application/story/revision"
	"shortstory-ai-api/internal/interfaces/http/dto"
)

// StoryHandler 故事处理器
type StoryHandler struct {
	svc         *story.Service
	revisionSvc *revision.Service
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(svc *story.Service, revisionSvc *revision.Service) *StoryHandler {
	return &StoryHandler{
		svc:         svc,
		revisionSvc: revisionSvc,
	}
}

// Generate 生成故事
// @Summary 生成故事
// @Description 同步生成一篇短篇小说；携带 async=true 时创建异步任务并立即返回
// @Tags Stories
// @Accept json
// @Produce json
// @Param async query bool false "是否异步生成"
// @Param request body dto.GenerateStoryRequest true "生成请求"
// @Success 201 {object} dto.Response[dto.StoryResponse]
// @Success 202 {object} dto.Response[dto.JobResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/stories/generate [post]
func (h *StoryHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	input := story.GenerateInput{
		Idea:      req.Idea,
		Theme:     req.Theme,
		Genre:     req.Genre,
		Character: req.Character.ToProfile(),
		MaxWords:  req.MaxWords,
	}

	if c.Query("async") == "true" {
		job, err := h.svc.GenerateAsync(ctx, input)
		if err != nil {
			respondError(c, ctx, err, "failed to enqueue story generation")
			return
		}
		dto.Accepted(c, dto.ToJobResponse(job))
		return
	}

	st, err := h.svc.Generate(ctx, input)
	if err != nil {
		respondError(c, ctx, err, "failed to generate story")
		return
	}
	dto.Created(c, dto.ToStoryResponse(st))
}

// GetStory 获取故事详情
// @Summary 获取故事详情
// @Tags Stories
// @Produce json
// @Param id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/stories/{id} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	ctx := c.Request.Context()

	st, err := h.svc.GetStory(ctx, dto.BindStoryID(c))
	if err != nil {
		respondError(c, ctx, err, "failed to get story")
		return
	}
	dto.Success(c, dto.ToStoryResponse(st))
}

// ListStories 分页列出故事
// @Summary 分页列出故事
// @Tags Stories
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param genre query string false "体裁过滤"
// @Success 200 {object} dto.Response[dto.StoryListResponse]
// @Router /api/v1/stories [get]
func (h *StoryHandler) ListStories(c *gin.Context) {
	ctx := c.Request.Context()
	page := dto.BindPage(c)

	result, err := h.svc.ListStories(ctx, c.Query("genre"), page.Page, page.PageSize)
	if err != nil {
		respondError(c, ctx, err, "failed to list stories")
		return
	}

	resp := &dto.StoryListResponse{
		Stories: make([]*dto.StorySummaryResponse, 0, len(result.Items)),
	}
	for _, st := range result.Items {
		resp.Stories = append(resp.Stories, dto.ToStorySummary(st))
	}
	dto.SuccessWithPage(c, resp, dto.NewPageMeta(page.Page, page.PageSize, int(result.Total)))
}

// DeleteStory 删除故事
// @Summary 删除故事
// @Tags Stories
// @Param id path string true "故事 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/stories/{id} [delete]
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.DeleteStory(ctx, dto.BindStoryID(c)); err != nil {
		respondError(c, ctx, err, "failed to delete story")
		return
	}
	dto.NoContent(c)
}

// Revise 修订故事
// @Summary 按修订意见生成新版本
// @Tags Revisions
// @Accept json
// @Produce json
// @Param id path string true "故事 ID"
// @Param request body dto.ReviseStoryRequest true "修订意见"
// @Success 200 {object} dto.Response[dto.StoryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/stories/{id}/revisions [post]
func (h *StoryHandler) Revise(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReviseStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	st, err := h.revisionSvc.Revise(ctx, dto.BindStoryID(c), req.Feedback)
	if err != nil {
		respondError(c, ctx, err, "failed to revise story")
		return
	}
	dto.Success(c, dto.ToStoryResponse(st))
}

// ListRevisions 获取修订历史
// @Summary 获取故事的全部修订条目
// @Tags Revisions
// @Produce json
// @Param id path string true "故事 ID"
// @Success 200 {object} dto.Response[dto.RevisionListResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/stories/{id}/revisions [get]
func (h *StoryHandler) ListRevisions(c *gin.Context) {
	ctx := c.Request.Context()
	storyID := dto.BindStoryID(c)

	entries, err := h.revisionSvc.History(ctx, storyID)
	if err != nil {
		respondError(c, ctx, err, "failed to list revisions")
		return
	}
	dto.Success(c, &dto.RevisionListResponse{
		StoryID:   storyID,
		Revisions: entries,
	})
}

// CompareRevisions 比较两个修订版本
// @Summary 比较两个修订版本
// @Description v1/v2 省略时分别取第一版与最新版
// @Tags Revisions
// @Produce json
// @Param id path string true "故事 ID"
// @Param v1 query int false "基准版本号"
// @Param v2 query int false "对比版本号"
// @Success 200 {object} dto.Response[revision.ComparisonResult]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/stories/{id}/revisions/compare [get]
func (h *StoryHandler) CompareRevisions(c *gin.Context) {
	ctx := c.Request.Context()

	v1, err := parseVersionQuery(c, "v1")
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	v2, err := parseVersionQuery(c, "v2")
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	result, err := h.revisionSvc.Compare(ctx, dto.BindStoryID(c), v1, v2)
	if err != nil {
		respondError(c, ctx, err, "failed to compare revisions")
		return
	}
	dto.Success(c, result)
}

func parseVersionQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, &versionParamError{name: name}
	}
	return v, nil
}

type versionParamError struct {
	name string
}

func (e *versionParamError) Error() string {
	return e.name + " must be a positive integer"
}
