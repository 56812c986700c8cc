package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"escalafon/internal/model"
	pkgerrors "escalafon/pkg/errors"
)

// LicenseFilter 请假列表筛选条件，空字段不参与过滤
type LicenseFilter struct {
	Status     string
	EmployeeID string
}

// LicenseRepository 请假数据访问接口
type LicenseRepository interface {
	Create(ctx context.Context, l *model.License) error
	GetByID(ctx context.Context, id string) (*model.License, error)
	Update(ctx context.Context, l *model.License) error
	Delete(ctx context.Context, id string, deletedBy string) error
	// ListOverlapping 人员集合中与 [from, to] 有交集的请假（含全部审批状态）
	ListOverlapping(ctx context.Context, employeeIDs []string, from, to time.Time) ([]model.License, error)
	List(ctx context.Context, filter LicenseFilter, offset, limit int) ([]model.License, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]model.License, error)
}

type licenseRepo struct {
	db *gorm.DB
}

// NewLicenseRepo 创建 LicenseRepository 实例
func NewLicenseRepo(db *gorm.DB) LicenseRepository {
	return &licenseRepo{db: db}
}

func (r *licenseRepo) Create(ctx context.Context, l *model.License) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *licenseRepo) GetByID(ctx context.Context, id string) (*model.License, error) {
	var l model.License
	err := r.db.WithContext(ctx).Where("license_id = ?", id).First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Update 乐观锁更新
func (r *licenseRepo) Update(ctx context.Context, l *model.License) error {
	oldVersion := l.Version
	result := r.db.WithContext(ctx).
		Model(l).
		Where("license_id = ? AND version = ?", l.LicenseID, oldVersion).
		Updates(map[string]interface{}{
			"start_date": l.StartDate,
			"end_date":   l.EndDate,
			"type":       l.Type,
			"reason":     l.Reason,
			"status":     l.Status,
			"updated_by": l.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	l.Version = oldVersion + 1
	return nil
}

// Delete 软删除；记录不存在或已删除时返回 gorm.ErrRecordNotFound
func (r *licenseRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	result := r.db.WithContext(ctx).
		Model(&model.License{}).
		Where("license_id = ?", id).
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

func (r *licenseRepo) ListOverlapping(ctx context.Context, employeeIDs []string, from, to time.Time) ([]model.License, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	var ls []model.License
	err := r.db.WithContext(ctx).
		Where("employee_id IN ? AND start_date <= ? AND end_date >= ?", employeeIDs, to, from).
		Order("start_date ASC, created_at ASC").
		Find(&ls).Error
	return ls, err
}

func (r *licenseRepo) List(ctx context.Context, filter LicenseFilter, offset, limit int) ([]model.License, int64, error) {
	var ls []model.License
	var total int64

	db := r.db.WithContext(ctx).Model(&model.License{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").
		Offset(offset).Limit(limit).
		Order("start_date DESC").
		Find(&ls).Error; err != nil {
		return nil, 0, err
	}

	return ls, total, nil
}

func (r *licenseRepo) ListByEmployee(ctx context.Context, employeeID string) ([]model.License, error) {
	var ls []model.License
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&ls).Error
	return ls, err
}
