package roster

import (
	"sort"
	"strings"
	"time"
)

// ── 班次名称 ──

const (
	ShiftFirst    = "First Shift"
	ShiftEventual = "BROU"
	ShiftSecond   = "Second Shift"
	ShiftThird    = "Third Shift"
	ShiftDetached = "Detached"
)

// ShiftOrder 排班表中班次的固定展示顺序
var ShiftOrder = []string{ShiftFirst, ShiftEventual, ShiftSecond, ShiftThird, ShiftDetached}

// CoverageShifts 需要校验最低在岗人数的三个班次
var CoverageShifts = []string{ShiftFirst, ShiftSecond, ShiftThird}

// 存量数据中的西语班次名
var shiftAliases = map[string]string{
	"primer turno":  ShiftFirst,
	"first shift":   ShiftFirst,
	"brou":          ShiftEventual,
	"eventuales":    ShiftEventual,
	"segundo turno": ShiftSecond,
	"second shift":  ShiftSecond,
	"tercer turno":  ShiftThird,
	"third shift":   ShiftThird,
	"destacados":    ShiftDetached,
	"detached":      ShiftDetached,
}

// CanonicalShiftName 将存储中的班次名映射为标准名；无法识别时原样返回
func CanonicalShiftName(name string) string {
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if c, ok := shiftAliases[key]; ok {
		return c
	}
	return name
}

func shiftRank(name string) int {
	c := CanonicalShiftName(name)
	for i, n := range ShiftOrder {
		if n == c {
			return i
		}
	}
	return len(ShiftOrder)
}

// ── 快照中的实体 ──

// Employee 参与排班的人员
type Employee struct {
	ID           string
	Name         string
	Rank         int // 职级序数，越大越资深
	HireDate     time.Time
	ShiftID      string // 空字符串表示未分配班次
	DependencyID string
	Role         string
}

// Shift 班次
type Shift struct {
	ID           string
	Name         string
	StartTime    string
	EndTime      string
	DependencyID string
}

// Guard 单日值班记录
type Guard struct {
	ID         string
	EmployeeID string
	Day        CalendarDay
	Type       string
	Comment    string
}

// License 区间请假记录（首尾均含）
type License struct {
	ID         string
	EmployeeID string
	Start      CalendarDay
	End        CalendarDay
	Type       LicenseType
	Reason     string
	Status     LicenseStatus
}

// CoversDay 该请假是否覆盖 day
func (l License) CoversDay(day CalendarDay) bool {
	return l.Status.Covers() && day.Within(l.Start, l.End)
}

// ── 排序 ──

// SortShifts 按固定顺序排列班次，未知班次排在最后并按名称排序
func SortShifts(shifts []Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		ri, rj := shiftRank(shifts[i].Name), shiftRank(shifts[j].Name)
		if ri != rj {
			return ri < rj
		}
		return shifts[i].Name < shifts[j].Name
	})
}

// SortBySeniority 按职级降序、入职日期升序排列；未填写入职日期的排在同职级末尾
func SortBySeniority(employees []Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		a, b := employees[i], employees[j]
		if a.Rank != b.Rank {
			return a.Rank > b.Rank
		}
		switch {
		case a.HireDate.IsZero() && b.HireDate.IsZero():
			return false
		case a.HireDate.IsZero():
			return false
		case b.HireDate.IsZero():
			return true
		}
		return a.HireDate.Before(b.HireDate)
	})
}
