package dto

import "escalafon/internal/roster"

// ── 排班表 DTO ──

// RosterCell 排班表单元格
type RosterCell struct {
	Date   string                   `json:"date"`
	Code   string                   `json:"code"`
	Class  roster.PresentationClass `json:"class"`
	Label  string                   `json:"label"`
	Source roster.CellSource        `json:"source"`
}

// RosterRow 一名人员在窗口内的全部单元格
type RosterRow struct {
	EmployeeID string       `json:"employee_id"`
	Name       string       `json:"name"`
	Grade      string       `json:"grade"`
	Cells      []RosterCell `json:"cells"`
}

// RosterShift 班次分组
type RosterShift struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	StartTime string      `json:"start_time"`
	EndTime   string      `json:"end_time"`
	Rows      []RosterRow `json:"rows"`
}

// RosterResponse 单位排班表
type RosterResponse struct {
	Dependency DependencySummary  `json:"dependency"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	Days       []string           `json:"days"`
	Shifts     []RosterShift      `json:"shifts"`
	Unassigned []RosterRow        `json:"unassigned"` // 未分配班次的人员
	MinStaff   int                `json:"min_staff_per_shift"`
	Coverage   roster.CoverageMap `json:"coverage"`
}

// CellQuery 查询单元格
type CellQuery struct {
	EmployeeID string `form:"employee_id" binding:"required"`
	Date       string `form:"date"        binding:"required,datetime=2006-01-02"`
}

// CellResponse 单元格状态
type CellResponse struct {
	EmployeeID   string              `json:"employee_id"`
	Date         string              `json:"date"`
	Code         string              `json:"code"`
	Kind         string              `json:"kind"`
	Source       roster.CellSource   `json:"source"`
	RecordID     string              `json:"record_id,omitempty"`
	LicenseEnd   string              `json:"license_end,omitempty"`
	Presentation roster.Presentation `json:"presentation"`
}

// AssignRequest 排班（块类型自动展开）
type AssignRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date"        binding:"required,datetime=2006-01-02"`
	DutyType   string `json:"duty_type"   binding:"required,max=50"`
	Comment    string `json:"comment"     binding:"omitempty,max=500"`
}

// DeletedRecordResponse 被覆盖清除的记录
type DeletedRecordResponse struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Date string `json:"date"`
}

// AssignResponse 排班结果；写入中途失败时同样返回已生效部分
type AssignResponse struct {
	Mode    string                  `json:"mode"`
	Days    []string                `json:"days"`
	Created []GuardResponse         `json:"created"`
	Deleted []DeletedRecordResponse `json:"deleted"`
	Failed  *FailedWrite            `json:"failed,omitempty"`
}

// FailedWrite 中断的写入
type FailedWrite struct {
	Op       string `json:"op"`
	Kind     string `json:"kind"`
	RecordID string `json:"record_id,omitempty"`
	Date     string `json:"date"`
}

// UnassignLicenseResponse 撤销请假结果
type UnassignLicenseResponse struct {
	Deleted []LicenseResponse `json:"deleted"`
}

// CoverageResponse 在岗人数校验结果
type CoverageResponse struct {
	DependencyID string             `json:"dependency_id"       yaml:"dependency_id"`
	Start        string             `json:"start"               yaml:"start"`
	Days         int                `json:"days"                yaml:"days"`
	MinStaff     int                `json:"min_staff_per_shift" yaml:"min_staff_per_shift"`
	Shortages    int                `json:"shortages"           yaml:"shortages"`
	Coverage     roster.CoverageMap `json:"coverage"            yaml:"coverage"`
}

// DailySheetQuery 日报查询参数
type DailySheetQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// DailySheetEntry 日报中的一名人员
type DailySheetEntry struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Grade      string `json:"grade"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	Class      string `json:"class"`
	Comment    string `json:"comment,omitempty"`
	LicenseEnd string `json:"license_end,omitempty"` // 请假中的人员显示结束日期
}

// DailySheetShift 日报中的班次分组
type DailySheetShift struct {
	Name    string            `json:"name"`
	Entries []DailySheetEntry `json:"entries"`
}

// DailySheetResponse 单位某一天的日报
type DailySheetResponse struct {
	Dependency DependencySummary               `json:"dependency"`
	Date       string                          `json:"date"`
	Shifts     []DailySheetShift               `json:"shifts"`
	Coverage   map[string]roster.ShiftCoverage `json:"coverage"`
}

// ExportRosterRequest 导出排班表
type ExportRosterRequest struct {
	DependencyID string `form:"dependency_id" binding:"required"`
	WindowRequest
}
