package roster

// CellSource 单元格状态的来源
type CellSource string

const (
	SourceNone    CellSource = "none"
	SourceGuard   CellSource = "guard"
	SourceLicense CellSource = "license"
)

// Cell 某人员某天的唯一展示状态
type Cell struct {
	EmployeeID string
	Day        CalendarDay
	Code       string
	Kind       DutyKind
	Source     CellSource
	RecordID   string // 来源记录的 ID；SourceNone 时为空

	// 仅 SourceLicense 时有值
	LicenseEnd CalendarDay
}

// Resolve 计算单元格状态：请假优先于值班，二者皆无时返回 "-"
//
// 对缺失数据（空快照、空人员 ID）总是返回哨兵值而不报错，保证渲染是全函数。
func Resolve(employeeID string, day CalendarDay, snap *Snapshot) Cell {
	cell := Cell{
		EmployeeID: employeeID,
		Day:        day,
		Code:       NoAssignment,
		Kind:       KindNone,
		Source:     SourceNone,
	}
	if employeeID == "" || day.IsZero() {
		return cell
	}

	if ls := snap.CoveringLicenses(employeeID, day); len(ls) > 0 {
		l := ls[0]
		cell.Code = l.Type.Code()
		cell.Kind = Classify(cell.Code)
		cell.Source = SourceLicense
		cell.RecordID = l.ID
		cell.LicenseEnd = l.End
		return cell
	}

	if gs := snap.GuardsOn(employeeID, day); len(gs) > 0 {
		g := gs[0]
		cell.Code = g.Type
		cell.Kind = Classify(g.Type)
		cell.Source = SourceGuard
		cell.RecordID = g.ID
		return cell
	}

	return cell
}

// ResolveCell 无需预先构造快照的便捷入口
func ResolveCell(employeeID string, day CalendarDay, guards []Guard, licenses []License) Cell {
	return Resolve(employeeID, day, NewSnapshot(guards, licenses))
}
