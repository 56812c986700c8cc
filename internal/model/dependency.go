package model

// Dependency 警务单位表，对应 dependencies
type Dependency struct {
	DependencyID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"dependency_id"`
	Name             string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description      string  `gorm:"type:text"                                      json:"description,omitempty"`
	ZoneID           *string `gorm:"type:uuid"                                      json:"zone_id,omitempty"`
	MinStaffPerShift *int    `gorm:"type:smallint"                                  json:"min_staff_per_shift,omitempty"` // NULL 表示使用全局配置
	IsActive         bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Zone *Zone `gorm:"foreignKey:ZoneID;references:ZoneID" json:"zone,omitempty"`
}

// TableName 指定表名
func (Dependency) TableName() string { return "dependencies" }
