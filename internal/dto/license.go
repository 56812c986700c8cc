package dto

// ── 请假模块 DTO ──

// CreateLicenseRequest 创建请假
type CreateLicenseRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	StartDate  string `json:"start_date"  binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date"    binding:"required,datetime=2006-01-02"`
	Type       string `json:"type"        binding:"required,oneof=reglamentaria extraordinaria compensacion medica"`
	Reason     string `json:"reason"      binding:"omitempty,max=200"`
	Status     string `json:"status"      binding:"omitempty,oneof=pendiente aprobado rechazado activo"`
}

// UpdateLicenseRequest 更新请假
type UpdateLicenseRequest struct {
	StartDate *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   *string `json:"end_date"   binding:"omitempty,datetime=2006-01-02"`
	Type      *string `json:"type"       binding:"omitempty,oneof=reglamentaria extraordinaria compensacion medica"`
	Reason    *string `json:"reason"     binding:"omitempty,max=200"`
	Version   int     `json:"version"    binding:"required,min=1"`
}

// UpdateLicenseStatusRequest 审批请假
type UpdateLicenseStatusRequest struct {
	Status  string `json:"status"  binding:"required,oneof=pendiente aprobado rechazado activo"`
	Version int    `json:"version" binding:"required,min=1"`
}

// LicenseListRequest 请假列表查询参数
type LicenseListRequest struct {
	PaginationRequest
	Status     string `form:"status"      binding:"omitempty,oneof=pendiente aprobado rechazado activo"`
	EmployeeID string `form:"employee_id"`
}

// LicenseResponse 请假记录
type LicenseResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Type         string `json:"type"`
	Code         string `json:"code"` // 排班表中的显示代码
	Reason       string `json:"reason,omitempty"`
	Status       string `json:"status"`
	Version      int    `json:"version"`
}
