package model

// Shift 班次表，对应 shifts
type Shift struct {
	ShiftID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	StartTime    string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime      string `gorm:"type:time;not null"                             json:"end_time"`
	Description  string `gorm:"type:text"                                      json:"description,omitempty"`
	DependencyID string `gorm:"type:uuid;not null"                             json:"dependency_id"`
	VersionedModel

	// 关联
	Dependency *Dependency `gorm:"foreignKey:DependencyID;references:DependencyID" json:"dependency,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }
