package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/roster"
)

func setupTestLicenseService(f *fixture) LicenseService {
	return NewLicenseService(f.repo, f.cache, nil, testOptions(), zap.NewNop())
}

// ── Create 测试 ──

func TestLicenseService_Create_DefaultsToPending(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	svc := setupTestLicenseService(f)

	resp, err := svc.Create(context.Background(), &dto.CreateLicenseRequest{
		EmployeeID: "e1",
		StartDate:  "2024-03-04",
		EndDate:    "2024-03-08",
		Type:       "compensacion",
	}, "op-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != string(roster.LicensePending) {
		t.Errorf("默认状态应为 pendiente，实际 %s", resp.Status)
	}
	if resp.Code != "CH" {
		t.Errorf("compensacion 显示代码应为 CH，实际 %s", resp.Code)
	}
	if f.cache.bumps != 1 {
		t.Errorf("创建后应失效缓存，实际 %d", f.cache.bumps)
	}
}

func TestLicenseService_Create_Validation(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	svc := setupTestLicenseService(f)
	ctx := context.Background()

	tests := []struct {
		name string
		req  dto.CreateLicenseRequest
		want error
	}{
		{"结束早于开始", dto.CreateLicenseRequest{EmployeeID: "e1", StartDate: "2024-03-08", EndDate: "2024-03-04", Type: "medica"}, ErrLicenseInvalidRange},
		{"未知类型", dto.CreateLicenseRequest{EmployeeID: "e1", StartDate: "2024-03-04", EndDate: "2024-03-04", Type: "vacaciones"}, ErrLicenseInvalidType},
		{"未知状态", dto.CreateLicenseRequest{EmployeeID: "e1", StartDate: "2024-03-04", EndDate: "2024-03-04", Type: "medica", Status: "x"}, ErrLicenseInvalidStatus},
		{"人员不存在", dto.CreateLicenseRequest{EmployeeID: "ghost", StartDate: "2024-03-04", EndDate: "2024-03-04", Type: "medica"}, ErrEmployeeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, &tt.req, "op"); !errors.Is(err, tt.want) {
				t.Errorf("期望 %v，实际: %v", tt.want, err)
			}
		})
	}
}

// ── Update / UpdateStatus 测试 ──

func TestLicenseService_UpdateRangeAndStatus(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	l := f.addLicense("e1", date(2024, time.March, 4), date(2024, time.March, 8), "reglamentaria", "pendiente")
	svc := setupTestLicenseService(f)
	ctx := context.Background()

	// 只改开始日，结束日沿用原值
	resp, err := svc.Update(ctx, l.LicenseID, &dto.UpdateLicenseRequest{StartDate: strPtr("2024-03-06"), Version: 1}, "op")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.StartDate != "2024-03-06" || resp.EndDate != "2024-03-08" {
		t.Errorf("区间错误: %s ~ %s", resp.StartDate, resp.EndDate)
	}

	if _, err := svc.Update(ctx, l.LicenseID, &dto.UpdateLicenseRequest{StartDate: strPtr("2024-03-10"), Version: 2}, "op"); !errors.Is(err, ErrLicenseInvalidRange) {
		t.Errorf("期望 ErrLicenseInvalidRange，实际: %v", err)
	}

	resp, err = svc.UpdateStatus(ctx, l.LicenseID, &dto.UpdateLicenseStatusRequest{Status: "rechazado", Version: 2}, "op")
	if err != nil {
		t.Fatalf("UpdateStatus 应成功: %v", err)
	}
	if resp.Status != "rechazado" || resp.Version != 3 {
		t.Errorf("状态更新错误: %+v", resp)
	}
	if f.cache.bumps != 2 {
		t.Errorf("两次更新应失效两次缓存，实际 %d", f.cache.bumps)
	}
}

// ── Delete / List 测试 ──

func TestLicenseService_DeleteAndList(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.addEmployee("e2", "Dos", 2, "sh-1", model.RoleOfficer)
	l1 := f.addLicense("e1", date(2024, time.March, 4), date(2024, time.March, 8), "medica", "aprobado")
	f.addLicense("e1", date(2024, time.April, 1), date(2024, time.April, 2), "medica", "pendiente")
	f.addLicense("e2", date(2024, time.March, 4), date(2024, time.March, 4), "reglamentaria", "aprobado")
	svc := setupTestLicenseService(f)
	ctx := context.Background()

	list, total, err := svc.List(ctx, &dto.LicenseListRequest{Status: "aprobado"})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("aprobado 应有 2 条，实际 total=%d len=%d", total, len(list))
	}

	mine, err := svc.ListByEmployee(ctx, "e1")
	if err != nil {
		t.Fatalf("ListByEmployee 应成功: %v", err)
	}
	if len(mine) != 2 || mine[0].StartDate != "2024-03-04" {
		t.Errorf("人员请假列表错误: %+v", mine)
	}
	if _, err := svc.ListByEmployee(ctx, "ghost"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}

	if err := svc.Delete(ctx, l1.LicenseID, "op"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(ctx, l1.LicenseID, "op"); !errors.Is(err, ErrLicenseNotFound) {
		t.Errorf("期望 ErrLicenseNotFound，实际: %v", err)
	}
}
