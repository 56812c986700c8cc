package repository

import (
	"context"

	"gorm.io/gorm"

	"escalafon/internal/model"
)

// EmployeeRepository 人员数据访问接口
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListByDependency(ctx context.Context, dependencyID string) ([]model.Employee, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Where("employee_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListByDependency 单位在册人员；资历排序由业务层完成
func (r *employeeRepo) ListByDependency(ctx context.Context, dependencyID string) ([]model.Employee, error) {
	var es []model.Employee
	err := r.db.WithContext(ctx).
		Where("dependency_id = ?", dependencyID).
		Order("name ASC").
		Find(&es).Error
	return es, err
}
