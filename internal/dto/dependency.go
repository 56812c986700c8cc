package dto

// ── 单位模块 DTO ──

// ShiftResponse 班次信息
type ShiftResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DependencySummary 单位简要信息
type DependencySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DependencyDetailResponse 单位详细信息
type DependencyDetailResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	ZoneName    string          `json:"zone_name,omitempty"`
	MinStaff    int             `json:"min_staff_per_shift"` // 生效值（单位覆盖或全局配置）
	MemberCount int64           `json:"member_count"`
	Shifts      []ShiftResponse `json:"shifts"`
}
