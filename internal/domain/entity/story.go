// Package entity 定义领域实体
package entity

import (
	"time"
)

// RevisionType 修订条目类型
type RevisionType string

const (
	RevisionTypeDraft   RevisionType = "draft"
	RevisionTypeRevised RevisionType = "revised"
)

// RevisionEntry 修订账本条目，追加后不可变更
type RevisionEntry struct {
	Version   int          `json:"version"`
	Body      string       `json:"body"`
	WordCount int          `json:"word_count"`
	Type      RevisionType `json:"type"`
	Timestamp string       `json:"timestamp"`
}

// CharacterProfile 角色设定
// 结构化角色（Name/Description/...）与自由文本（Freeform）二选一，
// 在 DTO 边界归一化后下游不再做类型分支
type CharacterProfile struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Quirks         []string `json:"quirks,omitempty"`
	Contradictions string   `json:"contradictions,omitempty"`
	Freeform       string   `json:"freeform,omitempty"`
}

// IsZero 角色是否为空
func (c *CharacterProfile) IsZero() bool {
	if c == nil {
		return true
	}
	return c.Name == "" && c.Description == "" && len(c.Quirks) == 0 &&
		c.Contradictions == "" && c.Freeform == ""
}

// GenerationMetadata 生成元数据
type GenerationMetadata struct {
	Model             string  `json:"model,omitempty"`
	Provider          string  `json:"provider,omitempty"`
	Temperature       float64 `json:"temperature,omitempty"`
	ContinuationCalls int     `json:"continuation_calls,omitempty"`
	UnderLength       bool    `json:"under_length,omitempty"`
	GeneratedAt       string  `json:"generated_at,omitempty"`
}

// Story 故事聚合根
type Story struct {
	ID              string              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Premise         string              `json:"premise" gorm:"type:text;not null"`
	Theme           string              `json:"theme,omitempty" gorm:"type:text"`
	Genre           string              `json:"genre" gorm:"type:varchar(100);index"`
	Character       *CharacterProfile   `json:"character,omitempty" gorm:"type:jsonb;serializer:json"`
	Outline         []string            `json:"outline,omitempty" gorm:"type:jsonb;serializer:json"`
	Scaffold        string              `json:"scaffold,omitempty" gorm:"type:text"`
	Body            string              `json:"body" gorm:"type:text"`
	Metadata        *GenerationMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`
	WordCount       int                 `json:"word_count" gorm:"default:0"`
	MaxWords        int                 `json:"max_words" gorm:"default:7500"`
	RevisionHistory []RevisionEntry     `json:"revision_history" gorm:"type:jsonb;serializer:json"`
	CurrentRevision int                 `json:"current_revision" gorm:"default:0"`
	CreatedAt       time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Story) TableName() string {
	return "stories"
}

// NewStory 创建新故事
func NewStory(premise, theme, genre string, maxWords int) *Story {
	now := time.Now()
	return &Story{
		Premise:         premise,
		Theme:           theme,
		Genre:           genre,
		MaxWords:        maxWords,
		RevisionHistory: []RevisionEntry{},
		CurrentRevision: 0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// SetBody 设置正文并更新字数
func (s *Story) SetBody(body string, wordCount int) {
	s.Body = body
	s.WordCount = wordCount
	s.UpdatedAt = time.Now()
}

// AppendRevision 追加一条修订记录
// 版本号单调递增，历史条目永不原位修改
func (s *Story) AppendRevision(body string, wordCount int, revType RevisionType) RevisionEntry {
	entry := RevisionEntry{
		Version:   s.CurrentRevision + 1,
		Body:      body,
		WordCount: wordCount,
		Type:      revType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	s.RevisionHistory = append(s.RevisionHistory, entry)
	s.CurrentRevision = entry.Version
	s.UpdatedAt = time.Now()
	return entry
}

// Revision 按版本号查找修订记录
func (s *Story) Revision(version int) (RevisionEntry, bool) {
	for _, entry := range s.RevisionHistory {
		if entry.Version == version {
			return entry, true
		}
	}
	return RevisionEntry{}, false
}

// AvailableVersions 返回现有版本号列表
func (s *Story) AvailableVersions() []int {
	versions := make([]int, 0, len(s.RevisionHistory))
	for _, entry := range s.RevisionHistory {
		versions = append(versions, entry.Version)
	}
	return versions
}
