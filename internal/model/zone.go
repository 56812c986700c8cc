package model

// Zone 区域表，对应 zones
type Zone struct {
	ZoneID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"zone_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description string `gorm:"type:text"                                      json:"description,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Zone) TableName() string { return "zones" }
