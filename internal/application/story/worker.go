package story

import (
	"context"
	"encoding/json"

	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/internal/infrastructure/messaging"
	"shortstory-ai-api/pkg/errors"
	"shortstory-ai-api/pkg/logger"
	"shortstory-ai-api/pkg/metrics"
)

// Processor 消费生成任务消息并驱动任务生命周期
type Processor struct {
	svc     *Service
	jobRepo repository.JobRepository
}

// NewProcessor 创建任务处理器
func NewProcessor(svc *Service, jobRepo repository.JobRepository) *Processor {
	return &Processor{svc: svc, jobRepo: jobRepo}
}

// HandleStoryGen 处理一条故事生成消息。
// 返回错误会触发消费者的重试与死信逻辑，已取消的任务直接确认。
func (p *Processor) HandleStoryGen(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.GenerationJobMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		metrics.RedisStreamProcessed.WithLabelValues(string(messaging.StreamStoryGen), "malformed").Inc()
		return errors.Wrap(err, errors.CodeQueueError, "failed to decode generation job message")
	}

	job, err := p.jobRepo.GetByID(ctx, payload.JobID)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to load job")
	}
	if job == nil {
		metrics.RedisStreamProcessed.WithLabelValues(string(messaging.StreamStoryGen), "orphaned").Inc()
		logger.Warn(ctx, "message references unknown job, acking", "job_id", payload.JobID)
		return nil
	}
	if job.Status == entity.JobStatusCancelled {
		return nil
	}

	job.Start()
	if err := p.jobRepo.Update(ctx, job); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to mark job running")
	}

	var input GenerateInput
	if err := json.Unmarshal(payload.Params, &input); err != nil {
		p.finishFailed(ctx, job, "malformed job params: "+err.Error())
		metrics.RedisStreamProcessed.WithLabelValues(string(messaging.StreamStoryGen), "malformed").Inc()
		// 参数坏了重试也不会好，直接确认
		return nil
	}

	st, err := p.svc.Generate(ctx, input)
	if err != nil {
		p.finishFailed(ctx, job, err.Error())
		metrics.RedisStreamProcessed.WithLabelValues(string(messaging.StreamStoryGen), "failed").Inc()
		return err
	}

	result, _ := json.Marshal(map[string]interface{}{
		"story_id":     st.ID,
		"word_count":   st.WordCount,
		"under_length": st.Metadata != nil && st.Metadata.UnderLength,
	})
	job.StoryID = st.ID
	job.Complete(result)
	if err := p.jobRepo.Update(ctx, job); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to mark job completed")
	}

	metrics.RedisStreamProcessed.WithLabelValues(string(messaging.StreamStoryGen), "completed").Inc()
	return nil
}

func (p *Processor) finishFailed(ctx context.Context, job *entity.GenerationJob, reason string) {
	job.Fail(reason)
	if err := p.jobRepo.Update(ctx, job); err != nil {
		logger.Error(ctx, "failed to mark job failed", err, "job_id", job.ID)
	}
}
