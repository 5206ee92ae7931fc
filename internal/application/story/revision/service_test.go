package revision

import (
	"context"
	"strings"
	"testing"

	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/domain/repository"
	"shortstory-ai-api/pkg/errors"
)

// fakeStoryRepo 内存故事仓储，按 ID 存取
type fakeStoryRepo struct {
	stories map[string]*entity.Story
}

func newFakeStoryRepo(stories ...*entity.Story) *fakeStoryRepo {
	repo := &fakeStoryRepo{stories: make(map[string]*entity.Story)}
	for _, st := range stories {
		repo.stories[st.ID] = st
	}
	return repo
}

func (r *fakeStoryRepo) Create(_ context.Context, story *entity.Story) error {
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

func revisableStory(id string, bodies ...string) *entity.Story {
	st := entity.NewStory("a premise", "", "Horror", 7500)
	st.ID = id
	for i, body := range bodies {
		revType := entity.RevisionTypeRevised
		if i == 0 {
			revType = entity.RevisionTypeDraft
		}
		st.AppendRevision(body, len(strings.Fields(body)), revType)
		st.SetBody(body, len(strings.Fields(body)))
	}
	return st
}

func TestHistory(t *testing.T) {
	st := revisableStory("s1", "one two three.", "one two three four five.")
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	history, err := svc.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Type != entity.RevisionTypeDraft || history[1].Type != entity.RevisionTypeRevised {
		t.Errorf("history types = %s, %s", history[0].Type, history[1].Type)
	}
}

func TestHistoryStoryNotFound(t *testing.T) {
	svc := NewService(newFakeStoryRepo(), nil, nil, nil, nil)

	_, err := svc.History(context.Background(), "missing")
	if err == nil || errors.AsAppError(err).Code != errors.CodeStoryNotFound {
		t.Errorf("History() error = %v, want story not found", err)
	}
}

func TestCompareDefaults(t *testing.T) {
	// v1/v2 传 0 时取第一版与最新版
	st := revisableStory("s1",
		"alpha beta gamma.",
		"alpha beta gamma delta.",
		"alpha beta gamma delta epsilon zeta.",
	)
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	result, err := svc.Compare(context.Background(), "s1", 0, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.V1.Version != 1 || result.V2.Version != 3 {
		t.Errorf("versions = %d, %d, want 1, 3", result.V1.Version, result.V2.Version)
	}
	if result.WordCountDiff != 3 {
		t.Errorf("WordCountDiff = %d, want 3", result.WordCountDiff)
	}
	if result.WordsAdded != 3 || result.WordsRemoved != 0 {
		t.Errorf("WordsAdded/Removed = %d/%d, want 3/0", result.WordsAdded, result.WordsRemoved)
	}
}

func TestComparePartialDefaultResetsBoth(t *testing.T) {
	// 只给出一个版本时，两端一起回退到 (首版, 最新版)
	st := revisableStory("s1",
		"alpha beta gamma.",
		"alpha beta gamma delta.",
		"alpha beta gamma delta epsilon zeta.",
	)
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	result, err := svc.Compare(context.Background(), "s1", 2, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.V1.Version != 1 || result.V2.Version != 3 {
		t.Errorf("versions = %d, %d, want 1, 3", result.V1.Version, result.V2.Version)
	}
}

func TestCompareSameVersion(t *testing.T) {
	st := revisableStory("s1", "one two three.", "one two three four.")
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	result, err := svc.Compare(context.Background(), "s1", 1, 1)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.WordCountDiff != 0 || result.WordsAdded != 0 || result.WordsRemoved != 0 || result.TextLengthDiff != 0 {
		t.Errorf("self-compare deltas = %+v, want all zero", result)
	}
}

func TestCompareShrinkingRevision(t *testing.T) {
	st := revisableStory("s1",
		"one two three four five six.",
		"one two three.",
	)
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	result, err := svc.Compare(context.Background(), "s1", 1, 2)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if result.WordCountDiff != -3 {
		t.Errorf("WordCountDiff = %d, want -3", result.WordCountDiff)
	}
	if result.WordsAdded != 0 || result.WordsRemoved != 3 {
		t.Errorf("WordsAdded/Removed = %d/%d, want 0/3", result.WordsAdded, result.WordsRemoved)
	}
	if result.TextLengthDiff >= 0 {
		t.Errorf("TextLengthDiff = %d, want negative", result.TextLengthDiff)
	}
}

func TestCompareInsufficientHistory(t *testing.T) {
	st := revisableStory("s1", "only one version.")
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	_, err := svc.Compare(context.Background(), "s1", 0, 0)
	if err == nil || errors.AsAppError(err).Code != errors.CodeInsufficientHistory {
		t.Errorf("Compare() error = %v, want insufficient history", err)
	}
}

func TestCompareMissingVersion(t *testing.T) {
	st := revisableStory("s1", "version one.", "version two.")
	svc := NewService(newFakeStoryRepo(st), nil, nil, nil, nil)

	_, err := svc.Compare(context.Background(), "s1", 1, 9)
	if err == nil {
		t.Fatal("Compare() error = nil, want validation failure")
	}
	appErr := errors.AsAppError(err)
	if appErr.Code != errors.CodeValidationFailed {
		t.Fatalf("Compare() error = %v, want validation failure", err)
	}
	if !strings.Contains(appErr.Message, "revision 9 not found") {
		t.Errorf("message = %q, want missing version named", appErr.Message)
	}
	if !strings.Contains(appErr.Message, "[1 2]") {
		t.Errorf("message = %q, want available versions listed", appErr.Message)
	}
}
