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
	"escalafon/pkg/metrics"
)

// ── 测试辅助 ──

func testOptions() RosterOptions {
	return RosterOptions{
		Policy:      roster.DefaultPolicy(),
		DefaultDays: 7,
		MaxDays:     31,
		CacheTTL:    time.Minute,
	}
}

func setupTestRosterService(f *fixture) *rosterService {
	svc := NewRosterService(f.repo, f.cache, metrics.New(), testOptions(), zap.NewNop()).(*rosterService)
	svc.now = func() time.Time { return date(2024, time.March, 4) }
	return svc
}

// ── GetRoster 测试 ──

func TestRosterService_GetRoster_GroupsAndSorts(t *testing.T) {
	f := newFixture()
	f.addEmployee("e-chief", "Jefe", 9, "sh-1", model.RoleDependencyChief)
	f.addEmployee("e-low", "Bajo", 1, "sh-1", model.RoleOfficer)
	f.addEmployee("e-high", "Alto", 5, "sh-1", model.RoleOfficer)
	f.addEmployee("e-night", "Noche", 3, "sh-3", model.RoleOfficer)
	f.addEmployee("e-none", "Libre", 2, "", model.RoleOfficer)
	svc := setupTestRosterService(f)

	resp, err := svc.GetRoster(context.Background(), testDependency, &dto.WindowRequest{Days: 3})
	if err != nil {
		t.Fatalf("GetRoster 应成功: %v", err)
	}
	if resp.Start != "2024-03-04" || resp.End != "2024-03-06" {
		t.Errorf("窗口错误: %s ~ %s", resp.Start, resp.End)
	}
	if len(resp.Days) != 3 {
		t.Fatalf("期望 3 天，实际 %d", len(resp.Days))
	}

	names := make([]string, 0, len(resp.Shifts))
	for _, sh := range resp.Shifts {
		names = append(names, sh.Name)
	}
	want := []string{"First Shift", "Second Shift", "Tercer Turno"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("班次顺序错误: %v", names)
		}
	}

	first := resp.Shifts[0].Rows
	if len(first) != 2 {
		t.Fatalf("第一班应有 2 人（单位负责人不展示），实际 %d", len(first))
	}
	if first[0].EmployeeID != "e-high" || first[1].EmployeeID != "e-low" {
		t.Errorf("资历排序错误: %s, %s", first[0].EmployeeID, first[1].EmployeeID)
	}
	if len(resp.Unassigned) != 1 || resp.Unassigned[0].EmployeeID != "e-none" {
		t.Errorf("未分配班次人员错误: %+v", resp.Unassigned)
	}
	if got := first[0].Cells[0].Code; got != roster.NoAssignment {
		t.Errorf("无记录单元格应为 %q，实际 %q", roster.NoAssignment, got)
	}
}

func TestRosterService_GetRoster_CellsAndCache(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.addGuard("e1", date(2024, time.March, 4), "T")
	f.addLicense("e1", date(2024, time.March, 5), date(2024, time.March, 6), "medica", "aprobado")
	svc := setupTestRosterService(f)
	ctx := context.Background()

	resp, err := svc.GetRoster(ctx, testDependency, &dto.WindowRequest{Start: "2024-03-04", Days: 3})
	if err != nil {
		t.Fatalf("GetRoster 应成功: %v", err)
	}
	cells := resp.Shifts[0].Rows[0].Cells
	if cells[0].Code != "T" || cells[0].Source != roster.SourceGuard {
		t.Errorf("第 1 天应为值班 T，实际 %+v", cells[0])
	}
	if cells[1].Code != "L.Med" || cells[1].Class != roster.ClassWarning {
		t.Errorf("第 2 天应为 L.Med，实际 %+v", cells[1])
	}
	if len(f.cache.entries) != 1 {
		t.Fatalf("首次读取后应写入 1 条快照缓存，实际 %d", len(f.cache.entries))
	}

	// 直接改仓库不会失效缓存，再次读取仍命中旧快照
	f.addGuard("e1", date(2024, time.March, 4), "D")
	again, _ := svc.GetRoster(ctx, testDependency, &dto.WindowRequest{Start: "2024-03-04", Days: 3})
	if again.Shifts[0].Rows[0].Cells[0].Code != "T" {
		t.Error("缓存命中时应返回旧快照")
	}
}

func TestRosterService_GetRoster_Errors(t *testing.T) {
	f := newFixture()
	svc := setupTestRosterService(f)
	ctx := context.Background()

	if _, err := svc.GetRoster(ctx, "nope", nil); !errors.Is(err, ErrDependencyNotFound) {
		t.Errorf("期望 ErrDependencyNotFound，实际: %v", err)
	}
	if _, err := svc.GetRoster(ctx, testDependency, &dto.WindowRequest{Days: 400}); !errors.Is(err, ErrWindowTooLarge) {
		t.Errorf("期望 ErrWindowTooLarge，实际: %v", err)
	}
	if _, err := svc.GetRoster(ctx, testDependency, &dto.WindowRequest{Start: "04/03/2024"}); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("期望 ErrInvalidDate，实际: %v", err)
	}
}

// ── ResolveCell 测试 ──

func TestRosterService_ResolveCell_LicenseEnd(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	l := f.addLicense("e1", date(2024, time.March, 1), date(2024, time.March, 10), "reglamentaria", "activo")
	svc := setupTestRosterService(f)

	resp, err := svc.ResolveCell(context.Background(), &dto.CellQuery{EmployeeID: "e1", Date: "2024-03-05"})
	if err != nil {
		t.Fatalf("ResolveCell 应成功: %v", err)
	}
	if resp.Code != "L" || resp.RecordID != l.LicenseID || resp.LicenseEnd != "2024-03-10" {
		t.Errorf("单元格错误: %+v", resp)
	}
	if resp.Presentation.Class != roster.ClassLeave {
		t.Errorf("期望 leave 样式，实际 %s", resp.Presentation.Class)
	}

	if _, err := svc.ResolveCell(context.Background(), &dto.CellQuery{EmployeeID: "ghost", Date: "2024-03-05"}); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}
}

// ── AssignDuty 测试 ──

func TestRosterService_AssignDuty_BlockExpands(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	svc := setupTestRosterService(f)

	resp, err := svc.AssignDuty(context.Background(), &dto.AssignRequest{EmployeeID: "e1", Date: "2024-03-04", DutyType: "T"}, "op-1")
	if err != nil {
		t.Fatalf("AssignDuty 应成功: %v", err)
	}
	if resp.Mode != string(roster.ModeBlock) || len(resp.Created) != roster.BlockLength {
		t.Fatalf("期望展开 %d 天，实际 mode=%s created=%d", roster.BlockLength, resp.Mode, len(resp.Created))
	}
	if resp.Days[4] != "2024-03-08" {
		t.Errorf("最后一天应为 2024-03-08，实际 %s", resp.Days[4])
	}
	if len(f.guards.guards) != roster.BlockLength {
		t.Errorf("仓库中应有 %d 条值班，实际 %d", roster.BlockLength, len(f.guards.guards))
	}
	if f.cache.bumps != 1 {
		t.Errorf("写入后应失效一次缓存，实际 %d", f.cache.bumps)
	}
	for _, g := range f.guards.guards {
		if g.CreatedBy == nil || *g.CreatedBy != "op-1" {
			t.Error("值班记录应记录操作人")
			break
		}
	}
}

func TestRosterService_AssignDuty_CorrectionWhenLastBlockDayTaken(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.addGuard("e1", date(2024, time.March, 8), "D") // 块的第 5 天
	svc := setupTestRosterService(f)

	resp, err := svc.AssignDuty(context.Background(), &dto.AssignRequest{EmployeeID: "e1", Date: "2024-03-04", DutyType: "T"}, "op-1")
	if err != nil {
		t.Fatalf("AssignDuty 应成功: %v", err)
	}
	if resp.Mode != string(roster.ModeCorrection) {
		t.Errorf("窗口末日已有值班应为 correction，实际 %s", resp.Mode)
	}
	if len(resp.Created) != 1 || len(resp.Deleted) != 0 {
		t.Errorf("应只创建 1 条且不删除，实际 created=%d deleted=%d", len(resp.Created), len(resp.Deleted))
	}
	if len(f.guards.guards) != 2 {
		t.Errorf("仓库中应有 2 条值班，实际 %d", len(f.guards.guards))
	}
}

func TestRosterService_AssignDuty_OverwritesLicense(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.addLicense("e1", date(2024, time.March, 4), date(2024, time.March, 4), "compensacion", "aprobado")
	svc := setupTestRosterService(f)

	resp, err := svc.AssignDuty(context.Background(), &dto.AssignRequest{EmployeeID: "e1", Date: "2024-03-04", DutyType: "Custodia"}, "op-1")
	if err != nil {
		t.Fatalf("AssignDuty 应成功: %v", err)
	}
	if resp.Mode != string(roster.ModeSingle) {
		t.Errorf("期望 single，实际 %s", resp.Mode)
	}
	if len(resp.Deleted) != 1 || resp.Deleted[0].Kind != string(roster.RecordLicense) {
		t.Errorf("应删除覆盖当天的请假: %+v", resp.Deleted)
	}
	if len(f.licenses.licenses) != 0 {
		t.Error("请假应已从仓库删除")
	}
}

func TestRosterService_AssignDuty_PartialFailure(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.guards.failCreateAfter = 2
	svc := setupTestRosterService(f)

	resp, err := svc.AssignDuty(context.Background(), &dto.AssignRequest{EmployeeID: "e1", Date: "2024-03-04", DutyType: "brou"}, "op-1")
	if !errors.Is(err, roster.ErrStoreWrite) {
		t.Fatalf("期望 ErrStoreWrite，实际: %v", err)
	}
	if resp == nil || len(resp.Created) != 2 {
		t.Fatalf("应返回已生效的 2 天: %+v", resp)
	}
	if resp.Failed == nil || resp.Failed.Op != "create" || resp.Failed.Date != "2024-03-06" {
		t.Errorf("失败信息错误: %+v", resp.Failed)
	}
	if len(f.guards.guards) != 2 {
		t.Errorf("已写入的值班应保留，实际 %d", len(f.guards.guards))
	}
	if f.cache.bumps != 1 {
		t.Error("部分写入同样需要失效缓存")
	}
}

func TestRosterService_AssignDuty_Validation(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	svc := setupTestRosterService(f)
	ctx := context.Background()

	if _, err := svc.AssignDuty(ctx, &dto.AssignRequest{EmployeeID: "e1", Date: "2024-03-04", DutyType: "  "}, "op"); !errors.Is(err, ErrEmptyDutyType) {
		t.Errorf("期望 ErrEmptyDutyType，实际: %v", err)
	}
	if _, err := svc.AssignDuty(ctx, &dto.AssignRequest{EmployeeID: "ghost", Date: "2024-03-04", DutyType: "T"}, "op"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("期望 ErrEmployeeNotFound，实际: %v", err)
	}
}

// ── UnassignLicense 测试 ──

func TestRosterService_UnassignLicense(t *testing.T) {
	f := newFixture()
	f.addEmployee("e1", "Uno", 3, "sh-1", model.RoleOfficer)
	f.addGuard("e1", date(2024, time.March, 4), "T")
	f.addLicense("e1", date(2024, time.March, 3), date(2024, time.March, 5), "extraordinaria", "aprobado")
	svc := setupTestRosterService(f)
	ctx := context.Background()

	resp, err := svc.UnassignLicense(ctx, &dto.CellQuery{EmployeeID: "e1", Date: "2024-03-04"}, "op-1")
	if err != nil {
		t.Fatalf("UnassignLicense 应成功: %v", err)
	}
	if len(resp.Deleted) != 1 || resp.Deleted[0].Code != "L.Ext" {
		t.Errorf("删除结果错误: %+v", resp.Deleted)
	}
	if len(f.guards.guards) != 1 {
		t.Error("值班记录不应受影响")
	}

	if _, err := svc.UnassignLicense(ctx, &dto.CellQuery{EmployeeID: "e1", Date: "2024-03-04"}, "op-1"); !errors.Is(err, ErrNoLicenseOnDay) {
		t.Errorf("期望 ErrNoLicenseOnDay，实际: %v", err)
	}
}

// ── VerifyCoverage 测试 ──

func TestRosterService_VerifyCoverage(t *testing.T) {
	f := newFixture()
	f.addEmployee("a", "A", 1, "sh-1", model.RoleOfficer)
	f.addEmployee("b", "B", 2, "sh-1", model.RoleOfficer)
	f.addEmployee("c", "C", 3, "sh-1", model.RoleOfficer)
	f.addEmployee("d", "D", 4, "sh-2", model.RoleOfficer)
	// c 当天休息，d 改派到第一班
	f.addGuard("c", date(2024, time.March, 5), "D")
	f.addGuard("d", date(2024, time.March, 5), "1ro")
	svc := setupTestRosterService(f)

	resp, err := svc.VerifyCoverage(context.Background(), testDependency, &dto.WindowRequest{Start: "2024-03-04", Days: 2})
	if err != nil {
		t.Fatalf("VerifyCoverage 应成功: %v", err)
	}
	if !resp.Coverage["2024-03-04"][roster.ShiftFirst].Meets {
		t.Error("3 月 4 日第一班 3 人，应达标")
	}
	day2 := resp.Coverage["2024-03-05"][roster.ShiftFirst]
	if !day2.Meets || len(day2.Present) != 3 {
		t.Errorf("3 月 5 日第一班应为 A/B/D 三人，实际 %+v", day2)
	}
	// 第二、三班两天都不达标
	if resp.Shortages != 4 {
		t.Errorf("期望 4 处不达标，实际 %d", resp.Shortages)
	}
	if resp.MinStaff != roster.DefaultMinStaff {
		t.Errorf("期望下限 %d，实际 %d", roster.DefaultMinStaff, resp.MinStaff)
	}
}

func TestRosterService_VerifyCoverage_DependencyOverride(t *testing.T) {
	f := newFixture()
	one := 1
	f.deps.deps[testDependency].MinStaffPerShift = &one
	f.addEmployee("a", "A", 1, "sh-1", model.RoleOfficer)
	f.addEmployee("b", "B", 1, "sh-2", model.RoleOfficer)
	f.addEmployee("c", "C", 1, "sh-3", model.RoleOfficer)
	svc := setupTestRosterService(f)

	resp, err := svc.VerifyCoverage(context.Background(), testDependency, &dto.WindowRequest{Start: "2024-03-04", Days: 1})
	if err != nil {
		t.Fatalf("VerifyCoverage 应成功: %v", err)
	}
	if resp.MinStaff != 1 || resp.Shortages != 0 {
		t.Errorf("单位覆盖下限为 1 时应全部达标: min=%d shortages=%d", resp.MinStaff, resp.Shortages)
	}
}

// ── GetDailySheet 测试 ──

func TestRosterService_GetDailySheet(t *testing.T) {
	f := newFixture()
	f.addEmployee("a", "A", 2, "sh-1", model.RoleOfficer)
	f.addEmployee("b", "B", 1, "", model.RoleOfficer)
	g := f.addGuard("a", date(2024, time.March, 4), "Curso")
	f.guards.guards[g.GuardID].Comment = "tiro"
	f.addLicense("b", date(2024, time.March, 1), date(2024, time.March, 8), "medica", "pendiente")
	svc := setupTestRosterService(f)

	resp, err := svc.GetDailySheet(context.Background(), testDependency, nil)
	if err != nil {
		t.Fatalf("GetDailySheet 应成功: %v", err)
	}
	if resp.Date != "2024-03-04" {
		t.Errorf("默认日期应为今天，实际 %s", resp.Date)
	}
	if len(resp.Shifts) != 4 {
		t.Fatalf("期望 3 个班次 + 未分配分组，实际 %d", len(resp.Shifts))
	}
	a := resp.Shifts[0].Entries[0]
	if a.Code != "Curso" || a.Comment != "tiro" {
		t.Errorf("第一班条目错误: %+v", a)
	}
	last := resp.Shifts[3]
	if last.Name != unassignedGroup || last.Entries[0].LicenseEnd != "2024-03-08" {
		t.Errorf("未分配分组错误: %+v", last)
	}
}
