package model

import "time"

// 层级角色
const (
	RoleDependencyChief = "DEPENDENCY_CHIEF" // 单位负责人，不进入排班表
	RoleZoneChief       = "ZONE_CHIEF"
	RoleOfficer         = "OFFICER"
)

// Employee 人员表，对应 employees
type Employee struct {
	EmployeeID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	Name         string     `gorm:"type:varchar(150);not null"                     json:"name"`
	Grade        string     `gorm:"type:varchar(50);not null"                      json:"grade"`      // 职级名称
	RankOrder    int        `gorm:"type:smallint;not null;default:0"               json:"rank_order"` // 职级序数，越大越资深
	Email        string     `gorm:"type:varchar(150)"                              json:"email,omitempty"`
	Role         string     `gorm:"type:varchar(50);not null;default:'OFFICER'"    json:"role"`
	HireDate     *time.Time `gorm:"type:date"                                      json:"hire_date,omitempty"`
	DependencyID *string    `gorm:"type:uuid"                                      json:"dependency_id,omitempty"`
	ShiftID      *string    `gorm:"type:uuid"                                      json:"shift_id,omitempty"`
	Status       string     `gorm:"type:varchar(50)"                               json:"status,omitempty"`
	VersionedModel

	// 关联
	Dependency *Dependency `gorm:"foreignKey:DependencyID;references:DependencyID" json:"dependency,omitempty"`
	Shift      *Shift      `gorm:"foreignKey:ShiftID;references:ShiftID"           json:"shift,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
