package service

import (
	"context"
	"fmt"

	"escalafon/internal/model"
	"escalafon/internal/repository"
	"escalafon/internal/roster"
)

// recordStore 以 Repository 实现 roster.RecordStore
// 每次写入独立提交，中途失败时已写入的记录保留
type recordStore struct {
	repo       *repository.Repository
	operatorID string
}

func newRecordStore(repo *repository.Repository, operatorID string) *recordStore {
	return &recordStore{repo: repo, operatorID: operatorID}
}

func (s *recordStore) CreateGuard(ctx context.Context, g roster.Guard) (roster.Guard, error) {
	m := &model.Guard{
		EmployeeID: g.EmployeeID,
		DutyDate:   g.Day.Time(),
		Type:       g.Type,
		Comment:    g.Comment,
	}
	if s.operatorID != "" {
		m.CreatedBy = &s.operatorID
		m.UpdatedBy = &s.operatorID
	}
	if err := s.repo.Guard.Create(ctx, m); err != nil {
		return roster.Guard{}, err
	}
	return toRosterGuard(*m), nil
}

func (s *recordStore) Delete(ctx context.Context, kind roster.RecordKind, id string) error {
	switch kind {
	case roster.RecordGuard:
		return s.repo.Guard.Delete(ctx, id, s.operatorID)
	case roster.RecordLicense:
		return s.repo.License.Delete(ctx, id, s.operatorID)
	default:
		return fmt.Errorf("未知的记录类型 %q", kind)
	}
}
