// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"encoding/json"
	"time"

	"shortstory-ai-api/internal/domain/entity"
)

// JobResponse 任务响应
type JobResponse struct {
	ID          string                 `json:"id"`
	StoryID     string                 `json:"story_id,omitempty"`
	JobType     string                 `json:"job_type"`
	Status      string                 `json:"status"`
	Result      map[string]interface{} `json:"result,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	DurationMs  int                    `json:"duration_ms,omitempty"`
	LLMProvider string                 `json:"llm_provider,omitempty"`
	LLMModel    string                 `json:"llm_model,omitempty"`
	StartedAt   time.Time              `json:"started_at,omitempty"`
	CompletedAt time.Time              `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ToJobResponse 将领域实体转换为响应 DTO
func ToJobResponse(j *entity.GenerationJob) *JobResponse {
	if j == nil {
		return nil
	}

	resp := &JobResponse{
		ID:          j.ID,
		StoryID:     j.StoryID,
		JobType:     string(j.JobType),
		Status:      string(j.Status),
		ErrorMsg:    j.ErrorMessage,
		RetryCount:  j.RetryCount,
		DurationMs:  j.DurationMs,
		LLMProvider: j.LLMProvider,
		LLMModel:    j.LLMModel,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}

	if len(j.OutputResult) > 0 {
		var result map[string]interface{}
		if err := json.Unmarshal(j.OutputResult, &result); err == nil {
			resp.Result = result
		}
	}
	if j.StartedAt != nil {
		resp.StartedAt = *j.StartedAt
	}
	if j.CompletedAt != nil {
		resp.CompletedAt = *j.CompletedAt
	}

	return resp
}
