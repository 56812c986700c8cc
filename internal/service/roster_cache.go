package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"escalafon/internal/repository"
	"escalafon/internal/roster"
	pkgerrors "escalafon/pkg/errors"
	"escalafon/pkg/metrics"
	"escalafon/pkg/redis"
)

// SnapshotCache 排班快照缓存后端（*redis.Client 实现）
type SnapshotCache interface {
	DependencyVersion(ctx context.Context, dependencyID string) (int64, error)
	BumpDependencyVersion(ctx context.Context, dependencyID string) (int64, error)
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// cachedSnapshot 缓存中的快照载荷
type cachedSnapshot struct {
	Guards   []roster.Guard   `json:"guards"`
	Licenses []roster.License `json:"licenses"`
}

// rosterCache 按单位版本号失效的快照缓存；backend 为 nil 时全部退化为直读
//
// 缓存只是加速，任何缓存错误都只记日志，不影响业务结果。
type rosterCache struct {
	backend SnapshotCache
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func newRosterCache(backend SnapshotCache, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *rosterCache {
	return &rosterCache{backend: backend, ttl: ttl, metrics: m, logger: logger}
}

func (c *rosterCache) enabled() bool {
	return c != nil && c.backend != nil && c.ttl > 0
}

func windowKey(start roster.CalendarDay, days int) string {
	return fmt.Sprintf("%s+%d", start, days)
}

// load 读取快照；未命中或出错时返回 (nil, version)
func (c *rosterCache) load(ctx context.Context, dependencyID string, start roster.CalendarDay, days int) (*cachedSnapshot, int64) {
	if !c.enabled() {
		return nil, 0
	}
	version, err := c.backend.DependencyVersion(ctx, dependencyID)
	if err != nil {
		c.logger.Warn("读取快照版本失败", zap.String("dependency_id", dependencyID), zap.Error(err))
		c.metrics.ObserveCacheLookup("error")
		return nil, -1
	}

	var snap cachedSnapshot
	err = c.backend.GetJSON(ctx, redis.SnapshotKey(dependencyID, version, windowKey(start, days)), &snap)
	switch {
	case err == nil:
		c.metrics.ObserveCacheLookup("hit")
		return &snap, version
	case errors.Is(err, pkgerrors.ErrCacheMiss):
		c.metrics.ObserveCacheLookup("miss")
	default:
		c.metrics.ObserveCacheLookup("error")
		c.logger.Warn("读取快照缓存失败", zap.String("dependency_id", dependencyID), zap.Error(err))
	}
	return nil, version
}

// store 写入快照；version 为 -1 表示读取版本时已失败，不写入
func (c *rosterCache) store(ctx context.Context, dependencyID string, version int64, start roster.CalendarDay, days int, snap *cachedSnapshot) {
	if !c.enabled() || version < 0 {
		return
	}
	key := redis.SnapshotKey(dependencyID, version, windowKey(start, days))
	if err := c.backend.SetJSON(ctx, key, snap, c.ttl); err != nil {
		c.logger.Warn("写入快照缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// invalidate 递增单位版本号，旧快照自然失效
func (c *rosterCache) invalidate(ctx context.Context, dependencyID string) {
	if !c.enabled() || dependencyID == "" {
		return
	}
	if _, err := c.backend.BumpDependencyVersion(ctx, dependencyID); err != nil {
		c.logger.Warn("递增快照版本失败", zap.String("dependency_id", dependencyID), zap.Error(err))
	}
}

// invalidateEmployee 失效人员所属单位的快照
func (c *rosterCache) invalidateEmployee(ctx context.Context, repo *repository.Repository, employeeID string) {
	if !c.enabled() {
		return
	}
	emp, err := repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		c.logger.Warn("查询人员所属单位失败，跳过快照失效", zap.String("employee_id", employeeID), zap.Error(err))
		return
	}
	if emp.DependencyID != nil {
		c.invalidate(ctx, *emp.DependencyID)
	}
}
