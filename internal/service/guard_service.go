package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/internal/dto"
	"escalafon/internal/model"
	"escalafon/internal/repository"
	"escalafon/pkg/metrics"
)

// ── 值班记录模块业务错误 ──

var (
	ErrGuardNotFound      = errors.New("值班记录不存在")
	ErrGuardInvalidRange  = errors.New("开始日期不能晚于结束日期")
	ErrGuardRangeTooLarge = errors.New("查询天数超出上限")
)

// GuardService 值班记录的直接增删改查
//
// 与 RosterService.AssignDuty 不同，这里不做块展开，也不清理当天已有记录。
type GuardService interface {
	Create(ctx context.Context, req *dto.CreateGuardRequest, operatorID string) (*dto.GuardResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGuardRequest, operatorID string) (*dto.GuardResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	List(ctx context.Context, req *dto.GuardListRequest) ([]dto.GuardResponse, error)
}

type guardService struct {
	repo    *repository.Repository
	cache   *rosterCache
	maxDays int
	logger  *zap.Logger
}

// NewGuardService 创建 GuardService 实例
func NewGuardService(repo *repository.Repository, cache SnapshotCache, m *metrics.Metrics, opts RosterOptions, logger *zap.Logger) GuardService {
	return &guardService{
		repo:    repo,
		cache:   newRosterCache(cache, opts.CacheTTL, m, logger),
		maxDays: opts.MaxDays,
		logger:  logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *guardService) Create(ctx context.Context, req *dto.CreateGuardRequest, operatorID string) (*dto.GuardResponse, error) {
	day, err := parseDay(req.Date)
	if err != nil {
		return nil, err
	}
	typ := strings.TrimSpace(req.Type)
	if typ == "" {
		return nil, ErrEmptyDutyType
	}
	emp, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询人员失败", zap.Error(err))
		return nil, err
	}

	g := &model.Guard{
		EmployeeID: emp.EmployeeID,
		DutyDate:   day.Time(),
		Type:       typ,
		Comment:    req.Comment,
	}
	g.CreatedBy = &operatorID
	g.UpdatedBy = &operatorID

	if err := s.repo.Guard.Create(ctx, g); err != nil {
		s.logger.Error("创建值班记录失败", zap.Error(err))
		return nil, err
	}
	if emp.DependencyID != nil {
		s.cache.invalidate(ctx, *emp.DependencyID)
	}

	resp := toGuardResponse(g)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *guardService) Update(ctx context.Context, id string, req *dto.UpdateGuardRequest, operatorID string) (*dto.GuardResponse, error) {
	g, err := s.getGuard(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		day, err := parseDay(*req.Date)
		if err != nil {
			return nil, err
		}
		g.DutyDate = day.Time()
	}
	if req.Type != nil {
		typ := strings.TrimSpace(*req.Type)
		if typ == "" {
			return nil, ErrEmptyDutyType
		}
		g.Type = typ
	}
	if req.Comment != nil {
		g.Comment = *req.Comment
	}
	g.Version = req.Version
	g.UpdatedBy = &operatorID

	if err := s.repo.Guard.Update(ctx, g); err != nil {
		s.logger.Error("更新值班记录失败", zap.String("guard_id", id), zap.Error(err))
		return nil, err
	}
	s.cache.invalidateEmployee(ctx, s.repo, g.EmployeeID)

	resp := toGuardResponse(g)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *guardService) Delete(ctx context.Context, id string, operatorID string) error {
	g, err := s.getGuard(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Guard.Delete(ctx, id, operatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuardNotFound
		}
		s.logger.Error("删除值班记录失败", zap.String("guard_id", id), zap.Error(err))
		return err
	}
	s.cache.invalidateEmployee(ctx, s.repo, g.EmployeeID)
	return nil
}

// ────────────────────── List ──────────────────────

func (s *guardService) List(ctx context.Context, req *dto.GuardListRequest) ([]dto.GuardResponse, error) {
	from, err := parseDay(req.Start)
	if err != nil {
		return nil, err
	}
	to, err := parseDay(req.End)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, ErrGuardInvalidRange
	}
	if s.maxDays > 0 && from.DaysUntil(to)+1 > s.maxDays {
		return nil, ErrGuardRangeTooLarge
	}

	gs, err := s.repo.Guard.ListByEmployee(ctx, req.EmployeeID, from.Time(), to.Time())
	if err != nil {
		s.logger.Error("查询值班记录失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.GuardResponse, 0, len(gs))
	for i := range gs {
		result = append(result, toGuardResponse(&gs[i]))
	}
	return result, nil
}

func (s *guardService) getGuard(ctx context.Context, id string) (*model.Guard, error) {
	g, err := s.repo.Guard.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		s.logger.Error("查询值班记录失败", zap.String("guard_id", id), zap.Error(err))
		return nil, err
	}
	return g, nil
}
