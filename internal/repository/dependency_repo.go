package repository

import (
	"context"

	"gorm.io/gorm"

	"escalafon/internal/model"
)

// DependencyRepository 单位数据访问接口
type DependencyRepository interface {
	GetByID(ctx context.Context, id string) (*model.Dependency, error)
	List(ctx context.Context) ([]model.Dependency, error)
	CountMembers(ctx context.Context, dependencyID string) (int64, error)
}

// dependencyRepo DependencyRepository 的 GORM 实现
type dependencyRepo struct {
	db *gorm.DB
}

// NewDependencyRepo 创建 DependencyRepository 实例
func NewDependencyRepo(db *gorm.DB) DependencyRepository {
	return &dependencyRepo{db: db}
}

func (r *dependencyRepo) GetByID(ctx context.Context, id string) (*model.Dependency, error) {
	var dep model.Dependency
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Where("dependency_id = ?", id).
		First(&dep).Error
	if err != nil {
		return nil, err
	}
	return &dep, nil
}

func (r *dependencyRepo) List(ctx context.Context) ([]model.Dependency, error) {
	var deps []model.Dependency
	err := r.db.WithContext(ctx).
		Preload("Zone").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&deps).Error
	return deps, err
}

// CountMembers 单位在册人数（含单位负责人）
func (r *dependencyRepo) CountMembers(ctx context.Context, dependencyID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("dependency_id = ?", dependencyID).
		Count(&count).Error
	return count, err
}
