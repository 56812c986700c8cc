package model

import "time"

// Guard 值班记录表，对应 guards
// 每条记录对应一人一天；同一天允许存在多条（历史数据），由业务层清理
type Guard struct {
	GuardID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"guard_id"`
	EmployeeID string    `gorm:"type:uuid;not null;index:idx_guards_employee_day" json:"employee_id"`
	DutyDate   time.Time `gorm:"type:date;not null;index:idx_guards_employee_day" json:"duty_date"`
	Type       string    `gorm:"type:varchar(50);not null"                      json:"type"` // 自由文本代码：T / D / 1ro / Curso …
	Comment    string    `gorm:"type:text"                                      json:"comment,omitempty"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:EmployeeID;references:EmployeeID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Guard) TableName() string { return "guards" }
