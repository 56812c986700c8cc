package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/repository"
	"escalafon/internal/roster"
	"escalafon/pkg/metrics"
)

// ── 请假模块业务错误 ──

var (
	ErrLicenseNotFound      = errors.New("请假记录不存在")
	ErrLicenseInvalidRange  = errors.New("请假开始日期不能晚于结束日期")
	ErrLicenseInvalidType   = errors.New("无效的请假类型")
	ErrLicenseInvalidStatus = errors.New("无效的请假状态")
)

// LicenseService 请假业务接口
type LicenseService interface {
	Create(ctx context.Context, req *dto.CreateLicenseRequest, operatorID string) (*dto.LicenseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLicenseRequest, operatorID string) (*dto.LicenseResponse, error)
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateLicenseStatusRequest, operatorID string) (*dto.LicenseResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	List(ctx context.Context, req *dto.LicenseListRequest) ([]dto.LicenseResponse, int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]dto.LicenseResponse, error)
}

type licenseService struct {
	repo   *repository.Repository
	cache  *rosterCache
	logger *zap.Logger
}

// NewLicenseService 创建 LicenseService 实例
func NewLicenseService(repo *repository.Repository, cache SnapshotCache, m *metrics.Metrics, opts RosterOptions, logger *zap.Logger) LicenseService {
	return &licenseService{
		repo:   repo,
		cache:  newRosterCache(cache, opts.CacheTTL, m, logger),
		logger: logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *licenseService) Create(ctx context.Context, req *dto.CreateLicenseRequest, operatorID string) (*dto.LicenseResponse, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if !roster.LicenseType(req.Type).Valid() {
		return nil, ErrLicenseInvalidType
	}
	status := roster.LicenseStatus(req.Status)
	if status == "" {
		status = roster.LicensePending
	}
	if !status.Valid() {
		return nil, ErrLicenseInvalidStatus
	}

	emp, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}

	l := &model.License{
		EmployeeID: emp.EmployeeID,
		StartDate:  start.Time(),
		EndDate:    end.Time(),
		Type:       req.Type,
		Reason:     req.Reason,
		Status:     string(status),
	}
	l.CreatedBy = &operatorID
	l.UpdatedBy = &operatorID

	if err := s.repo.License.Create(ctx, l); err != nil {
		s.logger.Error("创建请假失败", zap.Error(err))
		return nil, err
	}
	if emp.DependencyID != nil {
		s.cache.invalidate(ctx, *emp.DependencyID)
	}

	s.logger.Info("请假已登记",
		zap.String("license_id", l.LicenseID),
		zap.String("employee_id", l.EmployeeID),
		zap.Stringer("start", start),
		zap.Stringer("end", end),
	)

	resp := toLicenseResponse(l)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *licenseService) Update(ctx context.Context, id string, req *dto.UpdateLicenseRequest, operatorID string) (*dto.LicenseResponse, error) {
	l, err := s.getLicense(ctx, id)
	if err != nil {
		return nil, err
	}

	startStr := roster.DayOf(l.StartDate).String()
	endStr := roster.DayOf(l.EndDate).String()
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	start, end, err := parseRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	l.StartDate, l.EndDate = start.Time(), end.Time()

	if req.Type != nil {
		if !roster.LicenseType(*req.Type).Valid() {
			return nil, ErrLicenseInvalidType
		}
		l.Type = *req.Type
	}
	if req.Reason != nil {
		l.Reason = *req.Reason
	}

	return s.save(ctx, l, req.Version, operatorID)
}

// UpdateStatus 审批流转；状态之间不限制顺序
func (s *licenseService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateLicenseStatusRequest, operatorID string) (*dto.LicenseResponse, error) {
	if !roster.LicenseStatus(req.Status).Valid() {
		return nil, ErrLicenseInvalidStatus
	}
	l, err := s.getLicense(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Status = req.Status
	return s.save(ctx, l, req.Version, operatorID)
}

func (s *licenseService) save(ctx context.Context, l *model.License, version int, operatorID string) (*dto.LicenseResponse, error) {
	l.Version = version
	l.UpdatedBy = &operatorID
	if err := s.repo.License.Update(ctx, l); err != nil {
		s.logger.Error("更新请假失败", zap.String("license_id", l.LicenseID), zap.Error(err))
		return nil, err
	}
	s.cache.invalidateEmployee(ctx, s.repo, l.EmployeeID)

	resp := toLicenseResponse(l)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *licenseService) Delete(ctx context.Context, id string, operatorID string) error {
	l, err := s.getLicense(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.License.Delete(ctx, id, operatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLicenseNotFound
		}
		s.logger.Error("删除请假失败", zap.String("license_id", id), zap.Error(err))
		return err
	}
	s.cache.invalidateEmployee(ctx, s.repo, l.EmployeeID)
	return nil
}

// ────────────────────── List ──────────────────────

func (s *licenseService) List(ctx context.Context, req *dto.LicenseListRequest) ([]dto.LicenseResponse, int64, error) {
	filter := repository.LicenseFilter{Status: req.Status, EmployeeID: req.EmployeeID}
	ls, total, err := s.repo.License.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询请假列表失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.LicenseResponse, 0, len(ls))
	for i := range ls {
		result = append(result, toLicenseResponse(&ls[i]))
	}
	return result, total, nil
}

func (s *licenseService) ListByEmployee(ctx context.Context, employeeID string) ([]dto.LicenseResponse, error) {
	if _, err := s.repo.Employee.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	ls, err := s.repo.License.ListByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("查询人员请假失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.LicenseResponse, 0, len(ls))
	for i := range ls {
		result = append(result, toLicenseResponse(&ls[i]))
	}
	return result, nil
}

func (s *licenseService) getLicense(ctx context.Context, id string) (*model.License, error) {
	l, err := s.repo.License.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLicenseNotFound
		}
		s.logger.Error("查询请假失败", zap.String("license_id", id), zap.Error(err))
		return nil, err
	}
	return l, nil
}

// parseRange 解析闭区间 [start, end]
func parseRange(startStr, endStr string) (roster.CalendarDay, roster.CalendarDay, error) {
	start, err := parseDay(startStr)
	if err != nil {
		return roster.CalendarDay{}, roster.CalendarDay{}, err
	}
	end, err := parseDay(endStr)
	if err != nil {
		return roster.CalendarDay{}, roster.CalendarDay{}, err
	}
	if end.Before(start) {
		return roster.CalendarDay{}, roster.CalendarDay{}, ErrLicenseInvalidRange
	}
	return start, end, nil
}
