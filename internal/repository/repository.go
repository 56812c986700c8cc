package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Dependency DependencyRepository
	Shift      ShiftRepository
	Employee   EmployeeRepository
	Guard      GuardRepository
	License    LicenseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Dependency: NewDependencyRepo(db),
		Shift:      NewShiftRepo(db),
		Employee:   NewEmployeeRepo(db),
		Guard:      NewGuardRepo(db),
		License:    NewLicenseRepo(db),
	}
}
