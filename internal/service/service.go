package service

import (
	"go.uber.org/zap"

	"escalafon/config"
	"escalafon/internal/repository"
	"escalafon/pkg/metrics"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Roster     RosterService
	Dependency DependencyService
	Guard      GuardService
	License    LicenseService
	Export     ExportService
}

// NewService 创建 Service 聚合
//
// cache 为 nil 时不缓存快照（Redis 未启用）；调用方需传入无类型 nil，
// 不能传入值为 nil 的 *redis.Client。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache SnapshotCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*Service, error) {
	opts, err := OptionsFromConfig(&cfg.Roster)
	if err != nil {
		return nil, err
	}
	return &Service{
		Roster:     NewRosterService(repo, cache, m, opts, logger),
		Dependency: NewDependencyService(repo, opts, logger),
		Guard:      NewGuardService(repo, cache, m, opts, logger),
		License:    NewLicenseService(repo, cache, m, opts, logger),
		Export:     NewExportService(repo, cache, m, opts, logger),
	}, nil
}

// OptionsFromConfig 排班配置 → RosterOptions
func OptionsFromConfig(cfg *config.RosterConfig) (RosterOptions, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return RosterOptions{}, err
	}
	return RosterOptions{
		Policy:      policy,
		DefaultDays: cfg.DefaultDays,
		MaxDays:     cfg.MaxDays,
		CacheTTL:    cfg.SnapshotCacheTTL,
	}, nil
}
