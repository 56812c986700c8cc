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
)

// ── 单位模块业务错误 ──

var (
	ErrDependencyNotFound = errors.New("单位不存在")
)

// DependencyService 单位只读查询
type DependencyService interface {
	List(ctx context.Context) ([]dto.DependencySummary, error)
	Get(ctx context.Context, id string) (*dto.DependencyDetailResponse, error)
}

type dependencyService struct {
	repo   *repository.Repository
	policy roster.Policy
	logger *zap.Logger
}

// NewDependencyService 创建 DependencyService 实例
func NewDependencyService(repo *repository.Repository, opts RosterOptions, logger *zap.Logger) DependencyService {
	return &dependencyService{repo: repo, policy: opts.Policy, logger: logger}
}

func (s *dependencyService) List(ctx context.Context) ([]dto.DependencySummary, error) {
	deps, err := s.repo.Dependency.List(ctx)
	if err != nil {
		s.logger.Error("查询单位列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.DependencySummary, 0, len(deps))
	for _, d := range deps {
		result = append(result, dto.DependencySummary{ID: d.DependencyID, Name: d.Name})
	}
	return result, nil
}

func (s *dependencyService) Get(ctx context.Context, id string) (*dto.DependencyDetailResponse, error) {
	dep, err := s.repo.Dependency.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDependencyNotFound
		}
		s.logger.Error("查询单位失败", zap.String("dependency_id", id), zap.Error(err))
		return nil, err
	}

	shifts, err := s.repo.Shift.ListByDependency(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Dependency.CountMembers(ctx, id)
	if err != nil {
		return nil, err
	}

	return toDependencyDetail(dep, shifts, count, s.policy), nil
}

func toDependencyDetail(dep *model.Dependency, shifts []model.Shift, members int64, p roster.Policy) *dto.DependencyDetailResponse {
	resp := &dto.DependencyDetailResponse{
		ID:          dep.DependencyID,
		Name:        dep.Name,
		Description: dep.Description,
		MinStaff:    p.MinStaff,
		MemberCount: members,
		Shifts:      make([]dto.ShiftResponse, 0, len(shifts)),
	}
	if dep.MinStaffPerShift != nil && *dep.MinStaffPerShift > 0 {
		resp.MinStaff = *dep.MinStaffPerShift
	}
	if dep.Zone != nil {
		resp.ZoneName = dep.Zone.Name
	}

	// 按固定展示顺序输出
	ordered := make([]roster.Shift, 0, len(shifts))
	byID := make(map[string]model.Shift, len(shifts))
	for _, sh := range shifts {
		ordered = append(ordered, toRosterShift(sh))
		byID[sh.ShiftID] = sh
	}
	roster.SortShifts(ordered)
	for _, sh := range ordered {
		resp.Shifts = append(resp.Shifts, toShiftResponse(byID[sh.ID]))
	}
	return resp
}
