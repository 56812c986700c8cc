package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/repository"
	"escalafon/internal/roster"
)

// ── 时间窗口 ──

// RosterOptions 排班表相关配置
type RosterOptions struct {
	Policy      roster.Policy
	DefaultDays int
	MaxDays     int
	CacheTTL    time.Duration // 0 表示不缓存快照
}

// resolveWindow 解析窗口参数：Start 为空取 today，Days 为 0 取默认值
func resolveWindow(req *dto.WindowRequest, opts RosterOptions, today roster.CalendarDay) (roster.CalendarDay, int, error) {
	start, days := today, opts.DefaultDays
	if req == nil {
		return start, days, nil
	}
	if req.Start != "" {
		d, err := roster.ParseDay(req.Start)
		if err != nil {
			return roster.CalendarDay{}, 0, ErrInvalidDate
		}
		start = d
	}
	if req.Days > 0 {
		days = req.Days
	}
	if opts.MaxDays > 0 && days > opts.MaxDays {
		return roster.CalendarDay{}, 0, ErrWindowTooLarge
	}
	return start, days, nil
}

func parseDay(s string) (roster.CalendarDay, error) {
	d, err := roster.ParseDay(s)
	if err != nil {
		return roster.CalendarDay{}, ErrInvalidDate
	}
	return d, nil
}

// ── 单位窗口数据 ──

// rosterWindow 单位在一个时间窗口内渲染排班表所需的全部数据
type rosterWindow struct {
	dependency *model.Dependency
	shifts     []roster.Shift    // 固定展示顺序
	employees  []roster.Employee // 资历排序，已排除单位负责人
	grades     map[string]string // 人员 ID → 职级名称
	start      roster.CalendarDay
	days       []roster.CalendarDay
	snap       *roster.Snapshot
	policy     roster.Policy
}

func (w *rosterWindow) shiftsByName() map[string]string {
	m := make(map[string]string, len(w.shifts))
	for _, s := range w.shifts {
		m[s.Name] = s.ID
	}
	return m
}

func (w *rosterWindow) coverage() roster.CoverageMap {
	return roster.NewVerifier(w.policy).Verify(w.start, len(w.days), w.employees, w.shiftsByName(), w.snap)
}

func (w *rosterWindow) summary() dto.DependencySummary {
	return dto.DependencySummary{ID: w.dependency.DependencyID, Name: w.dependency.Name}
}

// response 按班次分组渲染排班表；班次未知或未分配的人员归入 Unassigned
func (w *rosterWindow) response() *dto.RosterResponse {
	resp := &dto.RosterResponse{
		Dependency: w.summary(),
		Start:      w.start.String(),
		End:        w.start.AddDays(len(w.days) - 1).String(),
		Days:       make([]string, 0, len(w.days)),
		Shifts:     make([]dto.RosterShift, 0, len(w.shifts)),
		Unassigned: []dto.RosterRow{},
		MinStaff:   w.policy.MinStaff,
		Coverage:   w.coverage(),
	}
	for _, d := range w.days {
		resp.Days = append(resp.Days, d.String())
	}

	known := make(map[string]bool, len(w.shifts))
	for _, sh := range w.shifts {
		known[sh.ID] = true
	}

	rows := make(map[string][]dto.RosterRow, len(w.shifts))
	for _, e := range w.employees {
		row := dto.RosterRow{
			EmployeeID: e.ID,
			Name:       e.Name,
			Grade:      w.grades[e.ID],
			Cells:      make([]dto.RosterCell, 0, len(w.days)),
		}
		for _, d := range w.days {
			cell := roster.Resolve(e.ID, d, w.snap)
			p := roster.Present(cell.Code)
			row.Cells = append(row.Cells, dto.RosterCell{
				Date:   d.String(),
				Code:   cell.Code,
				Class:  p.Class,
				Label:  p.Label,
				Source: cell.Source,
			})
		}
		if known[e.ShiftID] {
			rows[e.ShiftID] = append(rows[e.ShiftID], row)
		} else {
			resp.Unassigned = append(resp.Unassigned, row)
		}
	}

	for _, sh := range w.shifts {
		shiftRows := rows[sh.ID]
		if shiftRows == nil {
			shiftRows = []dto.RosterRow{}
		}
		resp.Shifts = append(resp.Shifts, dto.RosterShift{
			ID:        sh.ID,
			Name:      sh.Name,
			StartTime: sh.StartTime,
			EndTime:   sh.EndTime,
			Rows:      shiftRows,
		})
	}

	return resp
}

// rosterLoader 读取单位窗口数据，快照部分经过缓存
type rosterLoader struct {
	repo   *repository.Repository
	cache  *rosterCache
	policy roster.Policy
	logger *zap.Logger
}

// policyFor 单位设置了 min_staff_per_shift 时覆盖全局值
func (l *rosterLoader) policyFor(dep *model.Dependency) roster.Policy {
	p := l.policy
	if dep.MinStaffPerShift != nil && *dep.MinStaffPerShift > 0 {
		p.MinStaff = *dep.MinStaffPerShift
	}
	return p
}

func (l *rosterLoader) getDependency(ctx context.Context, id string) (*model.Dependency, error) {
	dep, err := l.repo.Dependency.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDependencyNotFound
		}
		l.logger.Error("查询单位失败", zap.String("dependency_id", id), zap.Error(err))
		return nil, err
	}
	return dep, nil
}

func (l *rosterLoader) load(ctx context.Context, dependencyID string, start roster.CalendarDay, numDays int) (*rosterWindow, error) {
	dep, err := l.getDependency(ctx, dependencyID)
	if err != nil {
		return nil, err
	}

	shifts, err := l.repo.Shift.ListByDependency(ctx, dependencyID)
	if err != nil {
		l.logger.Error("查询班次失败", zap.String("dependency_id", dependencyID), zap.Error(err))
		return nil, err
	}
	members, err := l.repo.Employee.ListByDependency(ctx, dependencyID)
	if err != nil {
		l.logger.Error("查询人员失败", zap.String("dependency_id", dependencyID), zap.Error(err))
		return nil, err
	}

	w := &rosterWindow{
		dependency: dep,
		grades:     make(map[string]string, len(members)),
		start:      start,
		days:       roster.DayRange(start, numDays),
		policy:     l.policyFor(dep),
	}
	for _, s := range shifts {
		w.shifts = append(w.shifts, toRosterShift(s))
	}
	roster.SortShifts(w.shifts)

	ids := make([]string, 0, len(members))
	for _, m := range members {
		if m.Role == model.RoleDependencyChief {
			continue
		}
		w.employees = append(w.employees, toRosterEmployee(m))
		w.grades[m.EmployeeID] = m.Grade
		ids = append(ids, m.EmployeeID)
	}
	roster.SortBySeniority(w.employees)

	cached, version := l.cache.load(ctx, dependencyID, start, numDays)
	if cached == nil {
		from, to := start.Time(), start.AddDays(numDays-1).Time()
		guards, err := l.repo.Guard.ListByEmployees(ctx, ids, from, to)
		if err != nil {
			l.logger.Error("查询值班记录失败", zap.String("dependency_id", dependencyID), zap.Error(err))
			return nil, err
		}
		licenses, err := l.repo.License.ListOverlapping(ctx, ids, from, to)
		if err != nil {
			l.logger.Error("查询请假记录失败", zap.String("dependency_id", dependencyID), zap.Error(err))
			return nil, err
		}
		cached = &cachedSnapshot{Guards: toRosterGuards(guards), Licenses: toRosterLicenses(licenses)}
		l.cache.store(ctx, dependencyID, version, start, numDays, cached)
	}
	w.snap = roster.NewSnapshot(cached.Guards, cached.Licenses)

	return w, nil
}
