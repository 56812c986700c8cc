package service

import (
	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/roster"
)

// ── model ↔ roster 转换 ──

func toRosterEmployee(e model.Employee) roster.Employee {
	re := roster.Employee{
		ID:   e.EmployeeID,
		Name: e.Name,
		Rank: e.RankOrder,
		Role: e.Role,
	}
	if e.HireDate != nil {
		re.HireDate = *e.HireDate
	}
	if e.ShiftID != nil {
		re.ShiftID = *e.ShiftID
	}
	if e.DependencyID != nil {
		re.DependencyID = *e.DependencyID
	}
	return re
}

func toRosterShift(s model.Shift) roster.Shift {
	return roster.Shift{
		ID:           s.ShiftID,
		Name:         s.Name,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		DependencyID: s.DependencyID,
	}
}

func toRosterGuard(g model.Guard) roster.Guard {
	return roster.Guard{
		ID:         g.GuardID,
		EmployeeID: g.EmployeeID,
		Day:        roster.DayOf(g.DutyDate),
		Type:       g.Type,
		Comment:    g.Comment,
	}
}

func toRosterLicense(l model.License) roster.License {
	return roster.License{
		ID:         l.LicenseID,
		EmployeeID: l.EmployeeID,
		Start:      roster.DayOf(l.StartDate),
		End:        roster.DayOf(l.EndDate),
		Type:       roster.LicenseType(l.Type),
		Reason:     l.Reason,
		Status:     roster.LicenseStatus(l.Status),
	}
}

func toRosterGuards(gs []model.Guard) []roster.Guard {
	out := make([]roster.Guard, 0, len(gs))
	for _, g := range gs {
		out = append(out, toRosterGuard(g))
	}
	return out
}

func toRosterLicenses(ls []model.License) []roster.License {
	out := make([]roster.License, 0, len(ls))
	for _, l := range ls {
		out = append(out, toRosterLicense(l))
	}
	return out
}

// ── 响应转换 ──

func toGuardResponse(g *model.Guard) dto.GuardResponse {
	return dto.GuardResponse{
		ID:         g.GuardID,
		EmployeeID: g.EmployeeID,
		Date:       roster.DayOf(g.DutyDate).String(),
		Type:       g.Type,
		Comment:    g.Comment,
		Version:    g.Version,
	}
}

func rosterGuardResponse(g roster.Guard) dto.GuardResponse {
	return dto.GuardResponse{
		ID:         g.ID,
		EmployeeID: g.EmployeeID,
		Date:       g.Day.String(),
		Type:       g.Type,
		Comment:    g.Comment,
		Version:    1,
	}
}

func toLicenseResponse(l *model.License) dto.LicenseResponse {
	resp := dto.LicenseResponse{
		ID:         l.LicenseID,
		EmployeeID: l.EmployeeID,
		StartDate:  roster.DayOf(l.StartDate).String(),
		EndDate:    roster.DayOf(l.EndDate).String(),
		Type:       l.Type,
		Code:       roster.LicenseCode(l.Type),
		Reason:     l.Reason,
		Status:     l.Status,
		Version:    l.Version,
	}
	if l.Employee != nil {
		resp.EmployeeName = l.Employee.Name
	}
	return resp
}

func rosterLicenseResponse(l roster.License) dto.LicenseResponse {
	return dto.LicenseResponse{
		ID:         l.ID,
		EmployeeID: l.EmployeeID,
		StartDate:  l.Start.String(),
		EndDate:    l.End.String(),
		Type:       string(l.Type),
		Code:       l.Type.Code(),
		Reason:     l.Reason,
		Status:     string(l.Status),
	}
}

func toShiftResponse(s model.Shift) dto.ShiftResponse {
	return dto.ShiftResponse{
		ID:        s.ShiftID,
		Name:      s.Name,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}
