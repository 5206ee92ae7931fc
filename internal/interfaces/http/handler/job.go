package handler

import (
	"github.com/gin-gonic/gin"

	"shortstory-ai-api/internal/application/story"
	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/internal/interfaces/http/dto"
	"shortstory-ai-api/pkg/logger"
)

// JobHandler 任务处理器
type JobHandler struct {
	svc     *story.Service
	jobRepo repository.JobRepository
}

// NewJobHandler 创建任务处理器
func NewJobHandler(svc *story.Service, jobRepo repository.JobRepository) *JobHandler {
	return &JobHandler{
		svc:     svc,
		jobRepo: jobRepo,
	}
}

// GetJob 获取任务详情
// @Summary 获取任务详情
// @Description 查询异步生成任务的状态与结果
// @Tags Jobs
// @Produce json
// @Param id path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.JobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.svc.GetJob(ctx, dto.BindJobID(c))
	if err != nil {
		respondError(c, ctx, err, "failed to get job")
		return
	}
	dto.Success(c, dto.ToJobResponse(job))
}

// CancelJob 取消任务
// @Summary 取消任务
// @Description 取消尚未完成的异步生成任务
// @Tags Jobs
// @Produce json
// @Param id path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.JobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "任务已结束"
// @Router /api/v1/jobs/{id} [delete]
func (h *JobHandler) CancelJob(c *gin.Context) {
	ctx := c.Request.Context()

	job, err := h.svc.GetJob(ctx, dto.BindJobID(c))
	if err != nil {
		respondError(c, ctx, err, "failed to get job")
		return
	}

	if job.Status == entity.JobStatusCompleted || job.Status == entity.JobStatusFailed {
		dto.Conflict(c, "job already finished")
		return
	}
	if job.Status == entity.JobStatusCancelled {
		dto.Success(c, dto.ToJobResponse(job))
		return
	}

	job.Status = entity.JobStatusCancelled
	if err := h.jobRepo.Update(ctx, job); err != nil {
		logger.Error(ctx, "failed to cancel job", err)
		dto.InternalError(c, "failed to cancel job")
		return
	}
	dto.Success(c, dto.ToJobResponse(job))
}
