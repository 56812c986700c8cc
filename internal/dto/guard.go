package dto

// ── 值班记录 DTO ──

// CreateGuardRequest 直接创建单日值班记录（不做块展开，不清理冲突）
type CreateGuardRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date"        binding:"required,datetime=2006-01-02"`
	Type       string `json:"type"        binding:"required,max=50"`
	Comment    string `json:"comment"     binding:"omitempty,max=500"`
}

// UpdateGuardRequest 更新值班记录
type UpdateGuardRequest struct {
	Date    *string `json:"date"    binding:"omitempty,datetime=2006-01-02"`
	Type    *string `json:"type"    binding:"omitempty,min=1,max=50"`
	Comment *string `json:"comment" binding:"omitempty,max=500"`
	Version int     `json:"version" binding:"required,min=1"`
}

// GuardListRequest 查询人员值班记录
type GuardListRequest struct {
	EmployeeID string `form:"employee_id" binding:"required"`
	Start      string `form:"start"       binding:"required,datetime=2006-01-02"`
	End        string `form:"end"         binding:"required,datetime=2006-01-02"`
}

// GuardResponse 值班记录
type GuardResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	Comment    string `json:"comment,omitempty"`
	Version    int    `json:"version"`
}
