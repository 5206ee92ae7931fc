// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shortstory-ai-api/internal/domain/entity"
	"shortstory-ai-api/internal/workflow/prompt"
)

const (
	maxIdeaLength     = 2000
	maxThemeLength    = 1000
	maxFeedbackItems  = 20
	maxFeedbackLength = 1000
)

// CharacterRequest 主角画像
// 接受两种形态：结构化对象，或一段自由描述字符串
type CharacterRequest struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Quirks         []string `json:"quirks,omitempty"`
	Contradictions string   `json:"contradictions,omitempty"`
	Freeform       string   `json:"-"`
}

// UnmarshalJSON 同时兼容字符串与对象两种写法
func (r *CharacterRequest) UnmarshalJSON(data []byte) error {
	var freeform string
	if err := json.Unmarshal(data, &freeform); err == nil {
		r.Freeform = freeform
		return nil
	}
	type alias CharacterRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = CharacterRequest(a)
	return nil
}

// ToProfile 转换为领域画像
func (r *CharacterRequest) ToProfile() *entity.CharacterProfile {
	if r == nil {
		return nil
	}
	p := &entity.CharacterProfile{
		Name:           strings.TrimSpace(r.Name),
		Description:    strings.TrimSpace(r.Description),
		Quirks:         r.Quirks,
		Contradictions: strings.TrimSpace(r.Contradictions),
		Freeform:       strings.TrimSpace(r.Freeform),
	}
	if p.IsZero() {
		return nil
	}
	return p
}

// GenerateStoryRequest 生成故事请求
type GenerateStoryRequest struct {
	Idea      string            `json:"idea" binding:"required"`
	Theme     string            `json:"theme,omitempty"`
	Genre     string            `json:"genre,omitempty"`
	Character *CharacterRequest `json:"character,omitempty"`
	MaxWords  int               `json:"max_words,omitempty"`
}

// Validate 校验请求参数
func (r *GenerateStoryRequest) Validate() error {
	idea := strings.TrimSpace(r.Idea)
	if idea == "" {
		return fmt.Errorf("idea is required")
	}
	if len(idea) > maxIdeaLength {
		return fmt.Errorf("idea must not exceed %d characters", maxIdeaLength)
	}
	if len(r.Theme) > maxThemeLength {
		return fmt.Errorf("theme must not exceed %d characters", maxThemeLength)
	}
	if r.MaxWords < 0 {
		return fmt.Errorf("max_words must be positive")
	}
	return nil
}

// ReviseStoryRequest 修订故事请求
type ReviseStoryRequest struct {
	Feedback []string `json:"feedback" binding:"required"`
}

// Validate 校验请求参数
func (r *ReviseStoryRequest) Validate() error {
	if len(r.Feedback) == 0 {
		return fmt.Errorf("feedback is required")
	}
	if len(r.Feedback) > maxFeedbackItems {
		return fmt.Errorf("at most %d feedback items are allowed", maxFeedbackItems)
	}
	for i, item := range r.Feedback {
		if strings.TrimSpace(item) == "" {
			return fmt.Errorf("feedback item %d is empty", i+1)
		}
		if len(item) > maxFeedbackLength {
			return fmt.Errorf("feedback item %d exceeds %d characters", i+1, maxFeedbackLength)
		}
	}
	return nil
}

// StoryResponse 故事详情响应
type StoryResponse struct {
	ID              string                     `json:"id"`
	Premise         string                     `json:"premise"`
	Theme           string                     `json:"theme,omitempty"`
	Genre           string                     `json:"genre"`
	Character       *entity.CharacterProfile   `json:"character,omitempty"`
	Outline         []string                   `json:"outline,omitempty"`
	Scaffold        string                     `json:"scaffold,omitempty"`
	Body            string                     `json:"body"`
	WordCount       int                        `json:"word_count"`
	MaxWords        int                        `json:"max_words"`
	CurrentRevision int                        `json:"current_revision"`
	Metadata        *entity.GenerationMetadata `json:"metadata,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// StorySummaryResponse 列表用的故事摘要，不携带正文
type StorySummaryResponse struct {
	ID              string    `json:"id"`
	Premise         string    `json:"premise"`
	Genre           string    `json:"genre"`
	WordCount       int       `json:"word_count"`
	CurrentRevision int       `json:"current_revision"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StoryListResponse 故事列表响应
type StoryListResponse struct {
	Stories []*StorySummaryResponse `json:"stories"`
}

// RevisionListResponse 修订历史响应
type RevisionListResponse struct {
	StoryID   string                 `json:"story_id"`
	Revisions []entity.RevisionEntry `json:"revisions"`
}

// GenreResponse 体裁配置响应
type GenreResponse struct {
	Name        string                  `json:"name"`
	Framework   string                  `json:"framework"`
	Outline     []string                `json:"outline"`
	Constraints prompt.GenreConstraints `json:"constraints"`
}

// GenreListResponse 体裁列表响应
type GenreListResponse struct {
	Genres  []*GenreResponse  `json:"genres"`
	Aliases map[string]string `json:"aliases,omitempty"`
}

// ToStoryResponse 将领域实体转换为响应 DTO
func ToStoryResponse(s *entity.Story) *StoryResponse {
	if s == nil {
		return nil
	}
	return &StoryResponse{
		ID:              s.ID,
		Premise:         s.Premise,
		Theme:           s.Theme,
		Genre:           s.Genre,
		Character:       s.Character,
		Outline:         s.Outline,
		Scaffold:        s.Scaffold,
		Body:            s.Body,
		WordCount:       s.WordCount,
		MaxWords:        s.MaxWords,
		CurrentRevision: s.CurrentRevision,
		Metadata:        s.Metadata,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// ToStorySummary 将领域实体转换为列表摘要
func ToStorySummary(s *entity.Story) *StorySummaryResponse {
	if s == nil {
		return nil
	}
	return &StorySummaryResponse{
		ID:              s.ID,
		Premise:         s.Premise,
		Genre:           s.Genre,
		WordCount:       s.WordCount,
		CurrentRevision: s.CurrentRevision,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
