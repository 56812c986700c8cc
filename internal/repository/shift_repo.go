package repository

import (
	"context"

	"gorm.io/gorm"

	"escalafon/internal/model"
)

// ShiftRepository 班次数据访问接口
type ShiftRepository interface {
	ListByDependency(ctx context.Context, dependencyID string) ([]model.Shift, error)
}

type shiftRepo struct {
	db *gorm.DB
}

// NewShiftRepo 创建 ShiftRepository 实例
func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db: db}
}

// ListByDependency 单位下的全部班次；展示顺序由业务层决定
func (r *shiftRepo) ListByDependency(ctx context.Context, dependencyID string) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Where("dependency_id = ?", dependencyID).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}
