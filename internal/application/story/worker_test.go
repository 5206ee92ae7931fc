package story

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"shortstory-ai-api/internal/application/story/draft"
	"shortstory-ai-api/internal/config"
	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/internal/infrastructure/messaging"
	"shortstory-ai-api/internal/workflow/port"
)

type fakeStoryRepo struct {
	stories map[string]*entity.Story
	nextID  int
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{stories: make(map[string]*entity.Story)}
}

func (r *fakeStoryRepo) Create(_ context.Context, story *entity.Story) error {
	if story.ID == "" {
		r.nextID++
		story.ID = "story-" + string(rune('0'+r.nextID))
	}
	r.stories[story.ID] = story
	return nil
}

func (r *fakeStoryRepo) GetByID(_ context.Context, id string) (*entity.Story, error) {
	return r.stories[id], nil
}

func (r *fakeStoryRepo) Update(_ context.Context, story *entity.Story) error {
	r.stories[story.ID] = story
	return nil
}

func (r *fakeStoryRepo) Delete(_ context.Context, id string) error {
	delete(r.stories, id)
	return nil
}

func (r *fakeStoryRepo) List(_ context.Context, _ *repository.StoryFilter, _ repository.Pagination) (*repository.PagedResult[*entity.Story], error) {
	return &repository.PagedResult[*entity.Story]{}, nil
}

type fakeJobRepo struct {
	jobs map[string]*entity.GenerationJob
}

func newFakeJobRepo(jobs ...*entity.GenerationJob) *fakeJobRepo {
	repo := &fakeJobRepo{jobs: make(map[string]*entity.GenerationJob)}
	for _, job := range jobs {
		repo.jobs[job.ID] = job
	}
	return repo
}

func (r *fakeJobRepo) Create(_ context.Context, job *entity.GenerationJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*entity.GenerationJob, error) {
	return r.jobs[id], nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *entity.GenerationJob) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id string) error {
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) DeleteByStoryID(_ context.Context, storyID string) error {
	for id, job := range r.jobs {
		if job.StoryID == storyID {
			delete(r.jobs, id)
		}
	}
	return nil
}

func (r *fakeJobRepo) List(_ context.Context, _ *repository.JobFilter, _ repository.Pagination) (*repository.PagedResult[*entity.GenerationJob], error) {
	return &repository.PagedResult[*entity.GenerationJob]{}, nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, id string, status entity.JobStatus) error {
	if job, ok := r.jobs[id]; ok {
		job.Status = status
	}
	return nil
}

func (r *fakeJobRepo) GetPendingJobs(_ context.Context, _ int) ([]*entity.GenerationJob, error) {
	return nil, nil
}

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedTextGenerator 每次调用返回同一段文本
type fixedTextGenerator struct {
	text  string
	calls int
}

func (g *fixedTextGenerator) Generate(_ context.Context, _ port.GenerateRequest) (string, error) {
	g.calls++
	return g.text, nil
}

func testConfigs() (*config.LLMConfig, *config.GenerationConfig) {
	llmCfg := &config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai": {Model: "gpt-4o-mini", Temperature: 0.8, ContextWindow: 32000},
		},
	}
	genCfg := &config.GenerationConfig{
		MinWords:                4000,
		MaxWords:                6500,
		DefaultMaxWords:         7500,
		MaxContinuationAttempts: 3,
		MinTokens:               4000,
		ProviderMaxOutputTokens: 8192,
	}
	return llmCfg, genCfg
}

func newTestService(storyRepo *fakeStoryRepo, jobRepo *fakeJobRepo, textGen port.TextGenerator) *Service {
	llmCfg, genCfg := testConfigs()
	budget := draft.NewBudgetCalculator(32000, genCfg.MinTokens, genCfg.ProviderMaxOutputTokens)
	generator := draft.NewGenerator(textGen, budget)
	return NewService(storyRepo, jobRepo, fakeTx{}, generator, nil, nil, llmCfg, genCfg)
}

func fullStoryText() string {
	return strings.TrimSpace(strings.Repeat("word ", 4100)) + " The end."
}

func genMessage(t *testing.T, jobID string, params json.RawMessage) *messaging.Message {
	t.Helper()
	msg, err := messaging.NewMessage(jobID, messaging.MessageTypeStoryGen, jobID, &messaging.GenerationJobMessage{
		JobID:   jobID,
		JobType: string(entity.JobTypeStoryGen),
		Params:  params,
	})
	if err != nil {
		t.Fatalf("NewMessage error = %v", err)
	}
	return msg
}

func TestHandleStoryGenSuccess(t *testing.T) {
	params, _ := json.Marshal(GenerateInput{Idea: "a heist in reverse", Genre: "Thriller"})
	job := entity.NewGenerationJob(entity.JobTypeStoryGen, params)
	job.ID = "j1"

	storyRepo := newFakeStoryRepo()
	jobRepo := newFakeJobRepo(job)
	textGen := &fixedTextGenerator{text: fullStoryText()}
	proc := NewProcessor(newTestService(storyRepo, jobRepo, textGen), jobRepo)

	if err := proc.HandleStoryGen(context.Background(), genMessage(t, "j1", params)); err != nil {
		t.Fatalf("HandleStoryGen() error = %v", err)
	}

	if job.Status != entity.JobStatusCompleted {
		t.Errorf("job status = %s, want completed", job.Status)
	}
	if job.StoryID == "" {
		t.Error("job StoryID not set")
	}
	if _, ok := storyRepo.stories[job.StoryID]; !ok {
		t.Error("generated story not persisted")
	}
	var result map[string]interface{}
	if err := json.Unmarshal(job.OutputResult, &result); err != nil {
		t.Fatalf("output result not valid JSON: %v", err)
	}
	if result["story_id"] != job.StoryID {
		t.Errorf("result story_id = %v, want %s", result["story_id"], job.StoryID)
	}
	if textGen.calls != 1 {
		t.Errorf("LLM calls = %d, want 1", textGen.calls)
	}
}

func TestHandleStoryGenCancelledJobAcked(t *testing.T) {
	params, _ := json.Marshal(GenerateInput{Idea: "x"})
	job := entity.NewGenerationJob(entity.JobTypeStoryGen, params)
	job.ID = "j1"
	job.Status = entity.JobStatusCancelled

	jobRepo := newFakeJobRepo(job)
	textGen := &fixedTextGenerator{text: fullStoryText()}
	proc := NewProcessor(newTestService(newFakeStoryRepo(), jobRepo, textGen), jobRepo)

	if err := proc.HandleStoryGen(context.Background(), genMessage(t, "j1", params)); err != nil {
		t.Fatalf("HandleStoryGen() error = %v, cancelled job must ack", err)
	}
	if job.Status != entity.JobStatusCancelled {
		t.Errorf("job status = %s, want cancelled untouched", job.Status)
	}
	if textGen.calls != 0 {
		t.Errorf("LLM calls = %d, want 0 for a cancelled job", textGen.calls)
	}
}

func TestHandleStoryGenOrphanedMessageAcked(t *testing.T) {
	params, _ := json.Marshal(GenerateInput{Idea: "x"})
	jobRepo := newFakeJobRepo()
	proc := NewProcessor(newTestService(newFakeStoryRepo(), jobRepo, &fixedTextGenerator{}), jobRepo)

	if err := proc.HandleStoryGen(context.Background(), genMessage(t, "ghost", params)); err != nil {
		t.Fatalf("HandleStoryGen() error = %v, orphaned message must ack", err)
	}
}

func TestHandleStoryGenMalformedParamsFailsJob(t *testing.T) {
	badParams := json.RawMessage(`{"max_words":"not a number"}`)
	job := entity.NewGenerationJob(entity.JobTypeStoryGen, badParams)
	job.ID = "j1"

	jobRepo := newFakeJobRepo(job)
	textGen := &fixedTextGenerator{text: fullStoryText()}
	proc := NewProcessor(newTestService(newFakeStoryRepo(), jobRepo, textGen), jobRepo)

	// 参数坏了不会重试，返回 nil 以确认消息
	if err := proc.HandleStoryGen(context.Background(), genMessage(t, "j1", badParams)); err != nil {
		t.Fatalf("HandleStoryGen() error = %v, malformed params must ack", err)
	}
	if job.Status != entity.JobStatusFailed {
		t.Errorf("job status = %s, want failed", job.Status)
	}
	if job.ErrorMessage == "" {
		t.Error("job error message empty")
	}
	if textGen.calls != 0 {
		t.Errorf("LLM calls = %d, want 0 for malformed params", textGen.calls)
	}
}

func TestHandleStoryGenUndecodableMessage(t *testing.T) {
	jobRepo := newFakeJobRepo()
	proc := NewProcessor(newTestService(newFakeStoryRepo(), jobRepo, &fixedTextGenerator{}), jobRepo)

	msg := &messaging.Message{ID: "m1", Type: messaging.MessageTypeStoryGen, Payload: json.RawMessage(`{broken`)}
	if err := proc.HandleStoryGen(context.Background(), msg); err == nil {
		t.Fatal("HandleStoryGen() error = nil, want decode failure")
	}
}
