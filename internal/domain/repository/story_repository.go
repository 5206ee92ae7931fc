// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"shortstory-ai-api/internal/domain/entity"
)

// StoryFilter 故事过滤条件
type StoryFilter struct {
	Genre string
}

// StoryRepository 故事仓储接口
type StoryRepository interface {
	// Create 创建故事
	Create(ctx context.Context, story *entity.Story) error

	// GetByID 根据 ID 获取故事
	GetByID(ctx context.Context, id string) (*entity.Story, error)

	// Update 更新故事（正文、字数、修订历史）
	Update(ctx context.Context, story *entity.Story) error

	// Delete 删除故事
	Delete(ctx context.Context, id string) error

	// List 获取故事列表
	List(ctx context.Context, filter *StoryFilter, pagination Pagination) (*PagedResult[*entity.Story], error)
}
