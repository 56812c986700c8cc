package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"escalafon/internal/model"
	pkgerrors "escalafon/pkg/errors"
)

// GuardRepository 值班记录数据访问接口
type GuardRepository interface {
	Create(ctx context.Context, g *model.Guard) error
	GetByID(ctx context.Context, id string) (*model.Guard, error)
	Update(ctx context.Context, g *model.Guard) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// ListByEmployees 人员集合在 [from, to] 内的值班记录
	ListByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]model.Guard, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]model.Guard, error)
}

type guardRepo struct {
	db *gorm.DB
}

// NewGuardRepo 创建 GuardRepository 实例
func NewGuardRepo(db *gorm.DB) GuardRepository {
	return &guardRepo{db: db}
}

func (r *guardRepo) Create(ctx context.Context, g *model.Guard) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *guardRepo) GetByID(ctx context.Context, id string) (*model.Guard, error) {
	var g model.Guard
	err := r.db.WithContext(ctx).Where("guard_id = ?", id).First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Update 乐观锁更新
func (r *guardRepo) Update(ctx context.Context, g *model.Guard) error {
	oldVersion := g.Version
	result := r.db.WithContext(ctx).
		Model(g).
		Where("guard_id = ? AND version = ?", g.GuardID, oldVersion).
		Updates(map[string]interface{}{
			"duty_date":  g.DutyDate,
			"type":       g.Type,
			"comment":    g.Comment,
			"updated_by": g.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	g.Version = oldVersion + 1
	return nil
}

// Delete 软删除；记录不存在或已删除时返回 gorm.ErrRecordNotFound
func (r *guardRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Guard{}).
		Where("guard_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *guardRepo) ListByEmployees(ctx context.Context, employeeIDs []string, from, to time.Time) ([]model.Guard, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var gs []model.Guard
	err := r.db.WithContext(ctx).
		Where("employee_id IN ? AND duty_date BETWEEN ? AND ?", employeeIDs, from, to).
		Order("duty_date ASC, created_at ASC").
		Find(&gs).Error
	return gs, err
}

func (r *guardRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]model.Guard, error) {
	var gs []model.Guard
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND duty_date BETWEEN ? AND ?", employeeID, from, to).
		Order("duty_date ASC, created_at ASC").
		Find(&gs).Error
	return gs, err
}
