package roster

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMinStaff 每班次最低在岗人数
const DefaultMinStaff = 3

// MonthDay 不含年份的月/日
type MonthDay struct {
	Month time.Month
	Day   int
}

func (m MonthDay) before(o MonthDay) bool {
	if m.Month != o.Month {
		return m.Month < o.Month
	}
	return m.Day < o.Day
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

// HolidayWindow 节假日窗口（首尾均含）。From 晚于 To 时表示跨年，如 12-30 ~ 01-02。
type HolidayWindow struct {
	From MonthDay
	To   MonthDay
}

// Contains 仅按月/日比较
func (w HolidayWindow) Contains(day CalendarDay) bool {
	md := day.MonthDay()
	if !w.To.before(w.From) {
		return !md.before(w.From) && !w.To.before(md)
	}
	return !md.before(w.From) || !w.To.before(md)
}

func (w HolidayWindow) String() string {
	return w.From.String() + ":" + w.To.String()
}

// ParseHolidayWindow 解析 "MM-DD:MM-DD"
func ParseHolidayWindow(s string) (HolidayWindow, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return HolidayWindow{}, fmt.Errorf("节假日窗口格式应为 MM-DD:MM-DD，实际 %q", s)
	}
	from, err := parseMonthDay(parts[0])
	if err != nil {
		return HolidayWindow{}, err
	}
	to, err := parseMonthDay(parts[1])
	if err != nil {
		return HolidayWindow{}, err
	}
	return HolidayWindow{From: from, To: to}, nil
}

func parseMonthDay(s string) (MonthDay, error) {
	mm, dd, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return MonthDay{}, fmt.Errorf("无效的月日 %q", s)
	}
	m, err1 := strconv.Atoi(mm)
	d, err2 := strconv.Atoi(dd)
	if err1 != nil || err2 != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return MonthDay{}, fmt.Errorf("无效的月日 %q", s)
	}
	return MonthDay{Month: time.Month(m), Day: d}, nil
}

// Policy 在岗人数校验策略
type Policy struct {
	MinStaff int
	Holidays []HolidayWindow
}

// DefaultPolicy 最低 3 人；12-23~12-26 与 12-30~01-02 不校验
func DefaultPolicy() Policy {
	return Policy{
		MinStaff: DefaultMinStaff,
		Holidays: []HolidayWindow{
			{From: MonthDay{time.December, 23}, To: MonthDay{time.December, 26}},
			{From: MonthDay{time.December, 30}, To: MonthDay{time.January, 2}},
		},
	}
}

// IsHoliday 是否落在任一节假日窗口
func (p Policy) IsHoliday(day CalendarDay) bool {
	for _, w := range p.Holidays {
		if w.Contains(day) {
			return true
		}
	}
	return false
}

// ShiftCoverage 某天某班次的校验结果
type ShiftCoverage struct {
	Meets   bool     `json:"meets"   yaml:"meets"`
	Present []string `json:"present" yaml:"present"`
	Holiday bool     `json:"holiday,omitempty" yaml:"holiday,omitempty"`
}

// CoverageMap 日期(YYYY-MM-DD) → 班次名 → 结果
type CoverageMap map[string]map[string]ShiftCoverage

// Shortages 未达标的 (日期, 班次) 数量
func (m CoverageMap) Shortages() int {
	n := 0
	for _, shifts := range m {
		for _, c := range shifts {
			if !c.Meets {
				n++
			}
		}
	}
	return n
}

// Verifier 在岗人数校验器；纯计算，可并发调用
type Verifier struct {
	policy Policy
}

// NewVerifier 创建 Verifier；MinStaff 非正时回退到默认值
func NewVerifier(policy Policy) *Verifier {
	if policy.MinStaff <= 0 {
		policy.MinStaff = DefaultMinStaff
	}
	return &Verifier{policy: policy}
}

// Policy 当前策略
func (v *Verifier) Policy() Policy { return v.policy }

// Verify 对 [start, start+numDays) 逐日校验三个班次
//
// shiftsByName 为班次名 → 班次 ID，名称可以是存量的西语名。
// 找不到对应班次时，该班次只能通过 1ro/2do/3er 改派获得在岗人员。
func (v *Verifier) Verify(start CalendarDay, numDays int, employees []Employee, shiftsByName map[string]string, snap *Snapshot) CoverageMap {
	result := make(CoverageMap, max(numDays, 0))

	shiftIDs := make(map[string]string, len(shiftsByName))
	for name, id := range shiftsByName {
		shiftIDs[CanonicalShiftName(name)] = id
	}

	for _, day := range DayRange(start, numDays) {
		key := day.String()
		perShift := make(map[string]ShiftCoverage, len(CoverageShifts))

		if v.policy.IsHoliday(day) {
			for _, name := range CoverageShifts {
				perShift[name] = ShiftCoverage{Meets: true, Present: []string{}, Holiday: true}
			}
			result[key] = perShift
			continue
		}

		present := make(map[string][]string, len(CoverageShifts))
		seen := make(map[string]map[string]bool, len(CoverageShifts))
		for _, e := range employees {
			shift, ok := v.creditedShift(e, day, shiftIDs, snap)
			if !ok {
				continue
			}
			if seen[shift] == nil {
				seen[shift] = make(map[string]bool)
			}
			if seen[shift][e.ID] {
				continue
			}
			seen[shift][e.ID] = true
			present[shift] = append(present[shift], e.Name)
		}

		for _, name := range CoverageShifts {
			names := present[name]
			if names == nil {
				names = []string{}
			}
			perShift[name] = ShiftCoverage{
				Meets:   len(names) >= v.policy.MinStaff,
				Present: names,
			}
		}
		result[key] = perShift
	}

	return result
}

// creditedShift 人员当天计入哪个班次；请假/休息或无法归属时返回 false
func (v *Verifier) creditedShift(e Employee, day CalendarDay, shiftIDs map[string]string, snap *Snapshot) (string, bool) {
	kind := Resolve(e.ID, day, snap).Kind
	if kind.IsAbsent() {
		return "", false
	}
	if shift, ok := kind.ShiftOverride(); ok {
		return shift, true
	}
	if e.ShiftID == "" {
		return "", false
	}
	for _, name := range CoverageShifts {
		if id, ok := shiftIDs[name]; ok && id == e.ShiftID {
			return name, true
		}
	}
	return "", false
}
