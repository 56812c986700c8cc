package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/repository"
	"escalafon/internal/roster"
	"escalafon/pkg/metrics"
)

// ── 排班模块业务错误 ──

var (
	ErrEmployeeNotFound = errors.New("人员不存在")
	ErrInvalidDate      = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrWindowTooLarge   = errors.New("查询天数超出上限")
	ErrEmptyDutyType    = errors.New("值班类型不能为空")
	ErrNoLicenseOnDay   = errors.New("该人员当天没有请假记录")
)

// RosterService 排班表业务接口
type RosterService interface {
	// GetRoster 单位排班表：按班次分组、资历排序，附每日在岗校验
	GetRoster(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*dto.RosterResponse, error)
	// ResolveCell 单个单元格
	ResolveCell(ctx context.Context, req *dto.CellQuery) (*dto.CellResponse, error)
	// AssignDuty 排班；写入中途失败时同时返回已生效部分与错误
	AssignDuty(ctx context.Context, req *dto.AssignRequest, operatorID string) (*dto.AssignResponse, error)
	// UnassignLicense 撤销人员当天的请假
	UnassignLicense(ctx context.Context, req *dto.CellQuery, operatorID string) (*dto.UnassignLicenseResponse, error)
	// VerifyCoverage 在岗人数校验
	VerifyCoverage(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*dto.CoverageResponse, error)
	// GetDailySheet 单位某一天的日报
	GetDailySheet(ctx context.Context, dependencyID string, req *dto.DailySheetQuery) (*dto.DailySheetResponse, error)
}

type rosterService struct {
	repo    *repository.Repository
	loader  *rosterLoader
	cache   *rosterCache
	metrics *metrics.Metrics
	opts    RosterOptions
	logger  *zap.Logger
	now     func() time.Time
}

// NewRosterService 创建 RosterService 实例；cache 与 m 均可为 nil
func NewRosterService(repo *repository.Repository, cache SnapshotCache, m *metrics.Metrics, opts RosterOptions, logger *zap.Logger) RosterService {
	rc := newRosterCache(cache, opts.CacheTTL, m, logger)
	return &rosterService{
		repo:    repo,
		loader:  &rosterLoader{repo: repo, cache: rc, policy: opts.Policy, logger: logger},
		cache:   rc,
		metrics: m,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *rosterService) today() roster.CalendarDay {
	return roster.DayOf(s.now())
}

// ════════════════════════════════════════════════════════════
// GetRoster
// ════════════════════════════════════════════════════════════

func (s *rosterService) GetRoster(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*dto.RosterResponse, error) {
	start, numDays, err := resolveWindow(req, s.opts, s.today())
	if err != nil {
		return nil, err
	}
	w, err := s.loader.load(ctx, dependencyID, start, numDays)
	if err != nil {
		return nil, err
	}

	return w.response(), nil
}

// ════════════════════════════════════════════════════════════
// ResolveCell
// ════════════════════════════════════════════════════════════

func (s *rosterService) ResolveCell(ctx context.Context, req *dto.CellQuery) (*dto.CellResponse, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	snap, err := s.employeeSnapshot(ctx, emp.EmployeeID, day, day)
	if err != nil {
		return nil, err
	}

	cell := roster.Resolve(emp.EmployeeID, day, snap)
	resp := &dto.CellResponse{
		EmployeeID:   cell.EmployeeID,
		Date:         cell.Day.String(),
		Code:         cell.Code,
		Kind:         cell.Kind.String(),
		Source:       cell.Source,
		RecordID:     cell.RecordID,
		Presentation: roster.Present(cell.Code),
	}
	if cell.Source == roster.SourceLicense {
		resp.LicenseEnd = cell.LicenseEnd.String()
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// AssignDuty
// ════════════════════════════════════════════════════════════

func (s *rosterService) AssignDuty(ctx context.Context, req *dto.AssignRequest, operatorID string) (*dto.AssignResponse, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	dutyType := strings.TrimSpace(req.DutyType)
	if dutyType == "" {
		return nil, ErrEmptyDutyType
	}
	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	// 块类型最多写入 BlockLength 天，快照覆盖整个窗口
	snap, err := s.employeeSnapshot(ctx, emp.EmployeeID, day, day.AddDays(roster.BlockLength-1))
	if err != nil {
		return nil, err
	}

	assigner := roster.NewAssigner(newRecordStore(s.repo, operatorID))
	result, err := assigner.Assign(ctx, snap, roster.Assignment{
		EmployeeID: emp.EmployeeID,
		Day:        day,
		DutyType:   dutyType,
		Comment:    req.Comment,
	})
	if result != nil && (len(result.Created) > 0 || len(result.Deleted) > 0) {
		s.cache.invalidate(ctx, derefString(emp.DependencyID))
	}

	if err != nil {
		var swe *roster.StoreWriteError
		if !errors.As(err, &swe) {
			return nil, err
		}
		s.metrics.ObserveStoreFailure(swe.Op)
		s.logger.Error("排班写入中途失败",
			zap.String("employee_id", emp.EmployeeID),
			zap.String("duty_type", dutyType),
			zap.String("op", swe.Op),
			zap.String("kind", string(swe.Kind)),
			zap.String("day", swe.Day.String()),
			zap.Int("applied_days", len(swe.Applied)),
			zap.Error(swe.Err),
		)
		resp := toAssignResponse(result)
		resp.Failed = &dto.FailedWrite{
			Op:       swe.Op,
			Kind:     string(swe.Kind),
			RecordID: swe.RecordID,
			Date:     swe.Day.String(),
		}
		return resp, err
	}

	s.metrics.ObserveAssignment(string(result.Mode))
	s.logger.Info("排班完成",
		zap.String("employee_id", emp.EmployeeID),
		zap.String("duty_type", dutyType),
		zap.String("mode", string(result.Mode)),
		zap.Int("days", len(result.Days)),
		zap.Int("deleted", len(result.Deleted)),
		zap.String("operator_id", operatorID),
	)
	return toAssignResponse(result), nil
}

func toAssignResponse(r *roster.AssignResult) *dto.AssignResponse {
	resp := &dto.AssignResponse{
		Days:    []string{},
		Created: []dto.GuardResponse{},
		Deleted: []dto.DeletedRecordResponse{},
	}
	if r == nil {
		return resp
	}
	resp.Mode = string(r.Mode)
	for _, d := range r.Days {
		resp.Days = append(resp.Days, d.String())
	}
	for _, g := range r.Created {
		resp.Created = append(resp.Created, rosterGuardResponse(g))
	}
	for _, d := range r.Deleted {
		resp.Deleted = append(resp.Deleted, dto.DeletedRecordResponse{Kind: string(d.Kind), ID: d.ID, Date: d.Day.String()})
	}
	return resp
}

// ════════════════════════════════════════════════════════════
// UnassignLicense
// ════════════════════════════════════════════════════════════

func (s *rosterService) UnassignLicense(ctx context.Context, req *dto.CellQuery, operatorID string) (*dto.UnassignLicenseResponse, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	emp, err := s.getEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	snap, err := s.employeeSnapshot(ctx, emp.EmployeeID, day, day)
	if err != nil {
		return nil, err
	}

	result, err := roster.NewAssigner(newRecordStore(s.repo, operatorID)).UnassignLicense(ctx, snap, emp.EmployeeID, day)
	if result != nil && len(result.Deleted) > 0 {
		s.cache.invalidate(ctx, derefString(emp.DependencyID))
	}
	if err != nil {
		var swe *roster.StoreWriteError
		if errors.As(err, &swe) {
			s.metrics.ObserveStoreFailure(swe.Op)
			s.logger.Error("撤销请假失败",
				zap.String("employee_id", emp.EmployeeID),
				zap.String("license_id", swe.RecordID),
				zap.Error(swe.Err),
			)
		}
		return nil, err
	}
	if len(result.Deleted) == 0 {
		return nil, ErrNoLicenseOnDay
	}

	resp := &dto.UnassignLicenseResponse{Deleted: make([]dto.LicenseResponse, 0, len(result.Deleted))}
	for _, l := range result.Deleted {
		resp.Deleted = append(resp.Deleted, rosterLicenseResponse(l))
	}
	s.logger.Info("撤销请假",
		zap.String("employee_id", emp.EmployeeID),
		zap.String("day", day.String()),
		zap.Int("deleted", len(resp.Deleted)),
		zap.String("operator_id", operatorID),
	)
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// VerifyCoverage
// ════════════════════════════════════════════════════════════

func (s *rosterService) VerifyCoverage(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*dto.CoverageResponse, error) {
	start, numDays, err := resolveWindow(req, s.opts, s.today())
	if err != nil {
		return nil, err
	}
	w, err := s.loader.load(ctx, dependencyID, start, numDays)
	if err != nil {
		return nil, err
	}

	cov := w.coverage()
	for _, shifts := range cov {
		for name, c := range shifts {
			if !c.Meets {
				s.metrics.ObserveShortage(name, 1)
			}
		}
	}

	return &dto.CoverageResponse{
		DependencyID: dependencyID,
		Start:        start.String(),
		Days:         numDays,
		MinStaff:     w.policy.MinStaff,
		Shortages:    cov.Shortages(),
		Coverage:     cov,
	}, nil
}

// ════════════════════════════════════════════════════════════
// GetDailySheet
// ════════════════════════════════════════════════════════════

// unassignedGroup 日报中未分配班次人员的分组名
const unassignedGroup = "Unassigned"

func (s *rosterService) GetDailySheet(ctx context.Context, dependencyID string, req *dto.DailySheetQuery) (*dto.DailySheetResponse, error) {
	day := s.today()
	if req != nil && req.Date != "" {
		d, err := parseDay(req.Date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	w, err := s.loader.load(ctx, dependencyID, day, 1)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(w.shifts))
	for _, sh := range w.shifts {
		known[sh.ID] = true
	}
	entries := make(map[string][]dto.DailySheetEntry, len(w.shifts)+1)
	for _, e := range w.employees {
		cell := roster.Resolve(e.ID, day, w.snap)
		p := roster.Present(cell.Code)
		entry := dto.DailySheetEntry{
			EmployeeID: e.ID,
			Name:       e.Name,
			Grade:      w.grades[e.ID],
			Code:       cell.Code,
			Label:      p.Label,
			Class:      string(p.Class),
		}
		switch cell.Source {
		case roster.SourceLicense:
			entry.LicenseEnd = cell.LicenseEnd.String()
		case roster.SourceGuard:
			if gs := w.snap.GuardsOn(e.ID, day); len(gs) > 0 {
				entry.Comment = gs[0].Comment
			}
		}

		group := unassignedGroup
		if known[e.ShiftID] {
			group = e.ShiftID
		}
		entries[group] = append(entries[group], entry)
	}

	resp := &dto.DailySheetResponse{
		Dependency: w.summary(),
		Date:       day.String(),
		Shifts:     make([]dto.DailySheetShift, 0, len(w.shifts)+1),
		Coverage:   w.coverage()[day.String()],
	}
	for _, sh := range w.shifts {
		es := entries[sh.ID]
		if es == nil {
			es = []dto.DailySheetEntry{}
		}
		resp.Shifts = append(resp.Shifts, dto.DailySheetShift{Name: sh.Name, Entries: es})
	}
	if es := entries[unassignedGroup]; len(es) > 0 {
		resp.Shifts = append(resp.Shifts, dto.DailySheetShift{Name: unassignedGroup, Entries: es})
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// 内部辅助
// ════════════════════════════════════════════════════════════

func (s *rosterService) getEmployee(ctx context.Context, id string) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询人员失败", zap.String("employee_id", id), zap.Error(err))
		return nil, err
	}
	return emp, nil
}

// employeeSnapshot 单个人员在 [from, to] 内的快照（不经缓存）
func (s *rosterService) employeeSnapshot(ctx context.Context, employeeID string, from, to roster.CalendarDay) (*roster.Snapshot, error) {
	guards, err := s.repo.Guard.ListByEmployee(ctx, employeeID, from.Time(), to.Time())
	if err != nil {
		s.logger.Error("查询值班记录失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	licenses, err := s.repo.License.ListOverlapping(ctx, []string{employeeID}, from.Time(), to.Time())
	if err != nil {
		s.logger.Error("查询请假记录失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	return roster.NewSnapshot(toRosterGuards(guards), toRosterLicenses(licenses)), nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
