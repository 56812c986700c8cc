package roster

import (
	"context"
	"errors"
	"fmt"
)

// BlockLength 块类型值班一次展开的连续天数
const BlockLength = 5

// RecordKind 存储中的记录种类
type RecordKind string

const (
	RecordGuard   RecordKind = "guard"
	RecordLicense RecordKind = "license"
)

// RecordStore 引擎依赖的持久化能力
//
// 引擎只会顺序调用（先删后建、逐日推进），不做并发写入，也不提供事务。
type RecordStore interface {
	// CreateGuard 创建值班记录，返回带 ID 的记录
	CreateGuard(ctx context.Context, g Guard) (Guard, error)
	// Delete 按种类删除记录
	Delete(ctx context.Context, kind RecordKind, id string) error
}

var (
	// ErrStoreWrite 存储写入失败；已写入的日期不会回滚
	ErrStoreWrite = errors.New("写入存储失败")
	// ErrInvalidAssignment 缺少人员或日期
	ErrInvalidAssignment = errors.New("排班参数无效")
)

// StoreWriteError 描述中断在哪一步，以及中断前已完整写入的日期
type StoreWriteError struct {
	Op       string // create | delete
	Kind     RecordKind
	RecordID string
	Day      CalendarDay
	Applied  []CalendarDay
	Err      error
}

func (e *StoreWriteError) Error() string {
	return fmt.Sprintf("%s %s (%s) 失败，已写入 %d 天: %v", e.Op, e.Kind, e.Day, len(e.Applied), e.Err)
}

// Unwrap 同时暴露 ErrStoreWrite 与底层错误
func (e *StoreWriteError) Unwrap() []error {
	return []error{ErrStoreWrite, e.Err}
}

// AssignMode 本次排班的处理方式
type AssignMode string

const (
	ModeSingle     AssignMode = "single"     // 普通类型，仅当天
	ModeBlock      AssignMode = "block"      // 块类型首次分配，展开 BlockLength 天
	ModeCorrection AssignMode = "correction" // 块类型但窗口内已有记录，仅修正当天
)

// Assignment 一次排班请求
type Assignment struct {
	EmployeeID string
	Day        CalendarDay
	DutyType   string
	Comment    string
}

// DeletedRecord 因冲突被清除的记录
type DeletedRecord struct {
	Kind RecordKind
	ID   string
	Day  CalendarDay
}

// AssignResult 排班结果
type AssignResult struct {
	Mode    AssignMode
	Days    []CalendarDay // 已完整写入的日期
	Created []Guard
	Deleted []DeletedRecord
}

// Assigner 排班写入引擎
type Assigner struct {
	store RecordStore
}

// NewAssigner 创建 Assigner
func NewAssigner(store RecordStore) *Assigner {
	return &Assigner{store: store}
}

// Plan 计算要写入的日期，不产生任何写入
//
// 块类型的判定只看窗口内"任意一天"是否已有值班记录，并不比较记录类型；
// 因此对已存在的块做单日修正时不会重新展开。
func (a *Assigner) Plan(snap *Snapshot, req Assignment) (AssignMode, []CalendarDay) {
	if !IsBlockType(req.DutyType) {
		return ModeSingle, []CalendarDay{req.Day}
	}
	window := DayRange(req.Day, BlockLength)
	if snap.HasGuardIn(req.EmployeeID, window) {
		return ModeCorrection, []CalendarDay{req.Day}
	}
	return ModeBlock, window
}

// Assign 按 Plan 的结果逐日执行"清除冲突 → 创建值班"
//
// 任一步失败立即中止并返回 *StoreWriteError，已写入的日期保留在存储中，
// 同时也体现在返回的 AssignResult 里。snap 会随写入同步更新。
//
// 覆盖某天的请假会被整条删除，请假范围内的其他日期也随之失去请假状态。
func (a *Assigner) Assign(ctx context.Context, snap *Snapshot, req Assignment) (*AssignResult, error) {
	if req.EmployeeID == "" || req.Day.IsZero() {
		return nil, ErrInvalidAssignment
	}
	if snap == nil {
		snap = NewSnapshot(nil, nil)
	}

	mode, days := a.Plan(snap, req)
	result := &AssignResult{Mode: mode}

	for _, day := range days {
		if err := a.clearDay(ctx, snap, req.EmployeeID, day, result); err != nil {
			return result, err
		}

		created, err := a.store.CreateGuard(ctx, Guard{
			EmployeeID: req.EmployeeID,
			Day:        day,
			Type:       req.DutyType,
			Comment:    req.Comment,
		})
		if err != nil {
			return result, &StoreWriteError{
				Op: "create", Kind: RecordGuard, Day: day,
				Applied: append([]CalendarDay(nil), result.Days...), Err: err,
			}
		}
		snap.addGuard(created)
		result.Created = append(result.Created, created)
		result.Days = append(result.Days, day)
	}

	return result, nil
}

// clearDay 删除人员当天的有效记录：覆盖当天的请假与当天全部值班
func (a *Assigner) clearDay(ctx context.Context, snap *Snapshot, employeeID string, day CalendarDay, result *AssignResult) error {
	for _, l := range snap.CoveringLicenses(employeeID, day) {
		if err := a.store.Delete(ctx, RecordLicense, l.ID); err != nil {
			return &StoreWriteError{
				Op: "delete", Kind: RecordLicense, RecordID: l.ID, Day: day,
				Applied: append([]CalendarDay(nil), result.Days...), Err: err,
			}
		}
		snap.removeLicense(employeeID, l.ID)
		result.Deleted = append(result.Deleted, DeletedRecord{Kind: RecordLicense, ID: l.ID, Day: day})
	}

	for _, g := range snap.GuardsOn(employeeID, day) {
		if err := a.store.Delete(ctx, RecordGuard, g.ID); err != nil {
			return &StoreWriteError{
				Op: "delete", Kind: RecordGuard, RecordID: g.ID, Day: day,
				Applied: append([]CalendarDay(nil), result.Days...), Err: err,
			}
		}
		snap.removeGuard(employeeID, g.ID)
		result.Deleted = append(result.Deleted, DeletedRecord{Kind: RecordGuard, ID: g.ID, Day: day})
	}
	return nil
}

// UnassignResult 撤销请假结果
type UnassignResult struct {
	Deleted []License
}

// UnassignLicense 删除覆盖人员当天的请假，不影响值班记录
func (a *Assigner) UnassignLicense(ctx context.Context, snap *Snapshot, employeeID string, day CalendarDay) (*UnassignResult, error) {
	if employeeID == "" || day.IsZero() {
		return nil, ErrInvalidAssignment
	}
	result := &UnassignResult{}
	for _, l := range snap.CoveringLicenses(employeeID, day) {
		if err := a.store.Delete(ctx, RecordLicense, l.ID); err != nil {
			return result, &StoreWriteError{Op: "delete", Kind: RecordLicense, RecordID: l.ID, Day: day, Err: err}
		}
		snap.removeLicense(employeeID, l.ID)
		result.Deleted = append(result.Deleted, l)
	}
	return result, nil
}
