package model

import "time"

// License 请假记录表，对应 licenses
type License struct {
	LicenseID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"license_id"`
	EmployeeID string    `gorm:"type:uuid;not null;index"                       json:"employee_id"`
	StartDate  time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate    time.Time `gorm:"type:date;not null"                             json:"end_date"` // 含当天
	Type       string    `gorm:"type:varchar(50);not null"                      json:"type"`     // reglamentaria | extraordinaria | compensacion | medica
	Reason     string    `gorm:"type:varchar(200)"                              json:"reason,omitempty"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pendiente'"  json:"status"` // pendiente | aprobado | rechazado | activo
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (License) TableName() string { return "licenses" }
