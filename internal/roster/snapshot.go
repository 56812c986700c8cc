package roster

import "slices"

// Snapshot 某一时刻值班记录与请假记录的只读视图
//
// 调用方先一次性拉取数据再构造快照，引擎不读取任何全局状态。
// Assigner 写入成功后会同步修改快照，使同一块内后续日期能看到前面的写入。
// 快照本身不加锁，不应在 Assign 进行中被并发读取。
type Snapshot struct {
	guards   map[string][]Guard
	licenses map[string][]License
}

// NewSnapshot 按人员建立索引；记录保持传入顺序
func NewSnapshot(guards []Guard, licenses []License) *Snapshot {
	s := &Snapshot{
		guards:   make(map[string][]Guard),
		licenses: make(map[string][]License),
	}
	for _, g := range guards {
		s.guards[g.EmployeeID] = append(s.guards[g.EmployeeID], g)
	}
	for _, l := range licenses {
		s.licenses[l.EmployeeID] = append(s.licenses[l.EmployeeID], l)
	}
	return s
}

// GuardsOn 人员在某天的全部值班记录（存储允许重复）
func (s *Snapshot) GuardsOn(employeeID string, day CalendarDay) []Guard {
	if s == nil {
		return nil
	}
	var out []Guard
	for _, g := range s.guards[employeeID] {
		if g.Day == day {
			out = append(out, g)
		}
	}
	return out
}

// CoveringLicenses 覆盖人员某天的全部有效请假
func (s *Snapshot) CoveringLicenses(employeeID string, day CalendarDay) []License {
	if s == nil {
		return nil
	}
	var out []License
	for _, l := range s.licenses[employeeID] {
		if l.CoversDay(day) {
			out = append(out, l)
		}
	}
	return out
}

// HasGuardIn 人员在给定日期中任意一天是否已有值班记录
func (s *Snapshot) HasGuardIn(employeeID string, days []CalendarDay) bool {
	for _, d := range days {
		if len(s.GuardsOn(employeeID, d)) > 0 {
			return true
		}
	}
	return false
}

// Guards 全部值班记录
func (s *Snapshot) Guards() []Guard {
	if s == nil {
		return nil
	}
	var out []Guard
	for _, gs := range s.guards {
		out = append(out, gs...)
	}
	return out
}

// GuardsOf 某人员的全部值班记录（按日期升序）
func (s *Snapshot) GuardsOf(employeeID string) []Guard {
	if s == nil {
		return nil
	}
	out := append([]Guard(nil), s.guards[employeeID]...)
	slices.SortStableFunc(out, func(a, b Guard) int { return a.Day.Compare(b.Day) })
	return out
}

// LicensesOf 某人员的全部请假记录（按开始日期升序）
func (s *Snapshot) LicensesOf(employeeID string) []License {
	if s == nil {
		return nil
	}
	out := append([]License(nil), s.licenses[employeeID]...)
	slices.SortStableFunc(out, func(a, b License) int { return a.Start.Compare(b.Start) })
	return out
}

func (s *Snapshot) addGuard(g Guard) {
	s.guards[g.EmployeeID] = append(s.guards[g.EmployeeID], g)
}

func (s *Snapshot) removeGuard(employeeID, id string) {
	gs := s.guards[employeeID]
	for i := range gs {
		if gs[i].ID == id {
			s.guards[employeeID] = append(gs[:i:i], gs[i+1:]...)
			return
		}
	}
}

func (s *Snapshot) removeLicense(employeeID, id string) {
	ls := s.licenses[employeeID]
	for i := range ls {
		if ls[i].ID == id {
			s.licenses[employeeID] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}
