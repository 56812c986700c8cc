package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"escalafon/internal/model"
	"escalafon/internal/repository"
	pkgerrors "escalafon/pkg/errors"
)

// ── Mock DependencyRepository ──

type mockDependencyRepo struct {
	deps      map[string]*model.Dependency
	employees *mockEmployeeRepo
}

func newMockDependencyRepo(employees *mockEmployeeRepo) *mockDependencyRepo {
	return &mockDependencyRepo{deps: make(map[string]*model.Dependency), employees: employees}
}

func (m *mockDependencyRepo) GetByID(_ context.Context, id string) (*model.Dependency, error) {
	if d, ok := m.deps[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDependencyRepo) List(_ context.Context) ([]model.Dependency, error) {
	var result []model.Dependency
	for _, d := range m.deps {
		if d.IsActive {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockDependencyRepo) CountMembers(ctx context.Context, dependencyID string) (int64, error) {
	es, _ := m.employees.ListByDependency(ctx, dependencyID)
	return int64(len(es)), nil
}

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	shifts map[string]*model.Shift
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) ListByDependency(_ context.Context, dependencyID string) ([]model.Shift, error) {
	var result []model.Shift
	for _, s := range m.shifts {
		if s.DependencyID == dependencyID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftID < result[j].ShiftID })
	return result, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[string]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[string]*model.Employee)}
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) ListByDependency(_ context.Context, dependencyID string) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.employees {
		if e.DependencyID != nil && *e.DependencyID == dependencyID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EmployeeID < result[j].EmployeeID })
	return result, nil
}

// ── Mock GuardRepository ──

type mockGuardRepo struct {
	guards map[string]*model.Guard
	seq    int
	// failCreateAfter 第 N 次 Create 之后开始失败（0 表示不注入）
	failCreateAfter int
	creates         int
}

func newMockGuardRepo() *mockGuardRepo {
	return &mockGuardRepo{guards: make(map[string]*model.Guard)}
}

func (m *mockGuardRepo) Create(_ context.Context, g *model.Guard) error {
	m.creates++
	if m.failCreateAfter > 0 && m.creates > m.failCreateAfter {
		return errors.New("connection reset")
	}
	if g.GuardID == "" {
		m.seq++
		g.GuardID = fmt.Sprintf("guard-%d", m.seq)
	}
	g.Version = 1
	cp := *g
	m.guards[g.GuardID] = &cp
	return nil
}

func (m *mockGuardRepo) GetByID(_ context.Context, id string) (*model.Guard, error) {
	if g, ok := m.guards[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGuardRepo) Update(_ context.Context, g *model.Guard) error {
	cur, ok := m.guards[g.GuardID]
	if !ok || cur.Version != g.Version {
		return pkgerrors.ErrOptimisticLock
	}
	g.Version++
	cp := *g
	m.guards[g.GuardID] = &cp
	return nil
}

func (m *mockGuardRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.guards[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.guards, id)
	return nil
}

func (m *mockGuardRepo) ListByEmployees(_ context.Context, employeeIDs []string, from, to time.Time) ([]model.Guard, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	ids := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	var result []model.Guard
	for _, g := range m.guards {
		if ids[g.EmployeeID] && !g.DutyDate.Before(from) && !g.DutyDate.After(to) {
			result = append(result, *g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DutyDate.Before(result[j].DutyDate) })
	return result, nil
}

func (m *mockGuardRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]model.Guard, error) {
	return m.ListByEmployees(ctx, []string{employeeID}, from, to)
}

// ── Mock LicenseRepository ──

type mockLicenseRepo struct {
	licenses map[string]*model.License
	seq      int
}

func newMockLicenseRepo() *mockLicenseRepo {
	return &mockLicenseRepo{licenses: make(map[string]*model.License)}
}

func (m *mockLicenseRepo) Create(_ context.Context, l *model.License) error {
	if l.LicenseID == "" {
		m.seq++
		l.LicenseID = fmt.Sprintf("license-%d", m.seq)
	}
	l.Version = 1
	cp := *l
	m.licenses[l.LicenseID] = &cp
	return nil
}

func (m *mockLicenseRepo) GetByID(_ context.Context, id string) (*model.License, error) {
	if l, ok := m.licenses[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLicenseRepo) Update(_ context.Context, l *model.License) error {
	cur, ok := m.licenses[l.LicenseID]
	if !ok || cur.Version != l.Version {
		return pkgerrors.ErrOptimisticLock
	}
	l.Version++
	cp := *l
	m.licenses[l.LicenseID] = &cp
	return nil
}

func (m *mockLicenseRepo) Delete(_ context.Context, id string, _ string) error {
	if _, ok := m.licenses[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.licenses, id)
	return nil
}

func (m *mockLicenseRepo) ListOverlapping(_ context.Context, employeeIDs []string, from, to time.Time) ([]model.License, error) {
	ids := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}
	var result []model.License
	for _, l := range m.licenses {
		if ids[l.EmployeeID] && !l.StartDate.After(to) && !l.EndDate.Before(from) {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LicenseID < result[j].LicenseID })
	return result, nil
}

func (m *mockLicenseRepo) List(_ context.Context, filter repository.LicenseFilter, offset, limit int) ([]model.License, int64, error) {
	var all []model.License
	for _, l := range m.licenses {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.EmployeeID != "" && l.EmployeeID != filter.EmployeeID {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LicenseID < all[j].LicenseID })
	total := int64(len(all))
	if offset >= len(all) {
		return []model.License{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockLicenseRepo) ListByEmployee(_ context.Context, employeeID string) ([]model.License, error) {
	var result []model.License
	for _, l := range m.licenses {
		if l.EmployeeID == employeeID {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

// ── Mock SnapshotCache ──

type mockSnapshotCache struct {
	versions map[string]int64
	entries  map[string][]byte
	bumps    int
}

func newMockSnapshotCache() *mockSnapshotCache {
	return &mockSnapshotCache{versions: make(map[string]int64), entries: make(map[string][]byte)}
}

func (m *mockSnapshotCache) DependencyVersion(_ context.Context, id string) (int64, error) {
	return m.versions[id], nil
}

func (m *mockSnapshotCache) BumpDependencyVersion(_ context.Context, id string) (int64, error) {
	m.bumps++
	m.versions[id]++
	return m.versions[id], nil
}

func (m *mockSnapshotCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	b, ok := m.entries[key]
	if !ok {
		return pkgerrors.ErrCacheMiss
	}
	return json.Unmarshal(b, dst)
}

func (m *mockSnapshotCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.entries[key] = b
	return nil
}

// ── 测试夹具 ──

// fixture 一个单位和三个班次的内存仓库；第三班使用存量西语名
type fixture struct {
	repo      *repository.Repository
	deps      *mockDependencyRepo
	shifts    *mockShiftRepo
	employees *mockEmployeeRepo
	guards    *mockGuardRepo
	licenses  *mockLicenseRepo
	cache     *mockSnapshotCache
}

const testDependency = "dep-1"

func newFixture() *fixture {
	employees := newMockEmployeeRepo()
	f := &fixture{
		deps:      newMockDependencyRepo(employees),
		shifts:    newMockShiftRepo(),
		employees: employees,
		guards:    newMockGuardRepo(),
		licenses:  newMockLicenseRepo(),
		cache:     newMockSnapshotCache(),
	}
	f.repo = &repository.Repository{
		Dependency: f.deps,
		Shift:      f.shifts,
		Employee:   f.employees,
		Guard:      f.guards,
		License:    f.licenses,
	}

	f.deps.deps[testDependency] = &model.Dependency{
		DependencyID: testDependency,
		Name:         "Seccional 1",
		IsActive:     true,
		Zone:         &model.Zone{ZoneID: "zone-1", Name: "Zona Operativa I"},
	}
	for _, s := range []model.Shift{
		{ShiftID: "sh-3", Name: "Tercer Turno", StartTime: "22:00", EndTime: "06:00", DependencyID: testDependency},
		{ShiftID: "sh-1", Name: "First Shift", StartTime: "06:00", EndTime: "14:00", DependencyID: testDependency},
		{ShiftID: "sh-2", Name: "Second Shift", StartTime: "14:00", EndTime: "22:00", DependencyID: testDependency},
	} {
		f.shifts.shifts[s.ShiftID] = &s
	}
	return f
}

// addEmployee 添加人员；shiftID 为空表示未分配班次
func (f *fixture) addEmployee(id, name string, rank int, shiftID, role string) *model.Employee {
	dep := testDependency
	e := &model.Employee{
		EmployeeID:   id,
		Name:         name,
		Grade:        fmt.Sprintf("G%d", rank),
		RankOrder:    rank,
		Role:         role,
		DependencyID: &dep,
		Status:       "active",
	}
	if shiftID != "" {
		e.ShiftID = &shiftID
	}
	f.employees.employees[id] = e
	return e
}

func (f *fixture) addGuard(employeeID string, day time.Time, typ string) *model.Guard {
	g := &model.Guard{EmployeeID: employeeID, DutyDate: day, Type: typ}
	_ = f.guards.Create(context.Background(), g)
	return g
}

func (f *fixture) addLicense(employeeID string, start, end time.Time, typ, status string) *model.License {
	l := &model.License{EmployeeID: employeeID, StartDate: start, EndDate: end, Type: typ, Status: status}
	_ = f.licenses.Create(context.Background(), l)
	return l
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
