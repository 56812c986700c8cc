package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"escalafon/internal/dto"
	"escalafon/internal/repository"
	"escalafon/internal/roster"
	"escalafon/pkg/metrics"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 导出内容与 GetRoster / 人员记录查询一致，只改变载体：
//   - 单位排班表 → Excel (.xlsx)，末尾附在岗校验行
//   - 人员值班与请假 → iCalendar (.ics)，供日历客户端订阅
type ExportService interface {
	ExportRoster(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*bytes.Buffer, string, error)
	ExportEmployeeCalendar(ctx context.Context, employeeID string, req *dto.WindowRequest) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loader *rosterLoader
	opts   RosterOptions
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, cache SnapshotCache, m *metrics.Metrics, opts RosterOptions, logger *zap.Logger) ExportService {
	rc := newRosterCache(cache, opts.CacheTTL, m, logger)
	return &exportService{
		repo:   repo,
		loader: &rosterLoader{repo: repo, cache: rc, policy: opts.Policy, logger: logger},
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster 单位排班表导出为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式（单 Sheet "排班表"）：
//   - 第 1 行：标题（单位名 + 日期区间），横向合并
//   - 第 2 行：班次 | 职级 | 姓名 | 每日一列（MM-DD 周X）
//   - 数据行：按班次分组、资历排序；未分配班次人员放在最后
//   - 校验行：每个班次一行，单元格为 "在岗数/下限"，未达标标红，节假日标灰

var weekdayNames = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// cellFills 单元格类别 → 填充色
var cellFills = map[roster.PresentationClass]string{
	roster.ClassWarning: "#F8CBAD",
	roster.ClassLeave:   "#FFE699",
	roster.ClassSpecial: "#D9D2E9",
	roster.ClassDuty:    "#C6E0B4",
	roster.ClassRest:    "#EDEDED",
	roster.ClassShift:   "#BDD7EE",
	roster.ClassTier1:   "#DDEBF7",
	roster.ClassTier2:   "#9BC2E6",
}

func (s *exportService) ExportRoster(ctx context.Context, dependencyID string, req *dto.WindowRequest) (*bytes.Buffer, string, error) {
	start, numDays, err := resolveWindow(req, s.opts, roster.DayOf(s.now()))
	if err != nil {
		return nil, "", err
	}
	w, err := s.loader.load(ctx, dependencyID, start, numDays)
	if err != nil {
		return nil, "", err
	}
	data := w.response()

	f := excelize.NewFile()
	defer f.Close()

	sheet := "排班表"
	idx, _ := f.NewSheet(sheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	const firstDayCol = 4
	lastCol := colName(firstDayCol - 1 + len(w.days))

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 14)
	f.SetColWidth(sheet, "C", "C", 22)
	if len(w.days) > 0 {
		f.SetColWidth(sheet, colName(firstDayCol), lastCol, 10)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	shortStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#C00000"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	holidayStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	classStyles := make(map[roster.PresentationClass]int, len(cellFills))
	for class, color := range cellFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err == nil {
			classStyles[class] = id
		}
	}

	// 标题行
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s 排班表 %s ~ %s", data.Dependency.Name, data.Start, data.End))
	f.MergeCell(sheet, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheet, cell("A", row), "班次")
	f.SetCellValue(sheet, cell("B", row), "职级")
	f.SetCellValue(sheet, cell("C", row), "姓名")
	for i, d := range w.days {
		f.SetCellValue(sheet, cell(colName(firstDayCol+i), row),
			fmt.Sprintf("%02d-%02d %s", d.Month, d.Day, weekdayNames[d.Weekday()]))
	}
	f.SetCellStyle(sheet, cell("A", row), cell(lastCol, row), headerStyle)

	writeRows := func(group string, rows []dto.RosterRow) {
		for _, r := range rows {
			row++
			f.SetCellValue(sheet, cell("A", row), group)
			f.SetCellValue(sheet, cell("B", row), r.Grade)
			f.SetCellValue(sheet, cell("C", row), r.Name)
			for i, c := range r.Cells {
				ref := cell(colName(firstDayCol+i), row)
				f.SetCellValue(sheet, ref, c.Label)
				if id, ok := classStyles[c.Class]; ok {
					f.SetCellStyle(sheet, ref, ref, id)
				}
			}
		}
	}

	// 数据行
	for _, sh := range data.Shifts {
		writeRows(sh.Name, sh.Rows)
	}
	writeRows("未分配班次", data.Unassigned)

	// 校验行
	row++
	for _, sh := range data.Shifts {
		row++
		f.SetCellValue(sheet, cell("A", row), "在岗校验")
		f.SetCellValue(sheet, cell("B", row), sh.Name)
		f.SetCellValue(sheet, cell("C", row), fmt.Sprintf("下限 %d", data.MinStaff))
		for i, d := range data.Days {
			c, ok := data.Coverage[d][sh.Name]
			if !ok {
				continue
			}
			ref := cell(colName(firstDayCol+i), row)
			switch {
			case c.Holiday:
				f.SetCellValue(sheet, ref, "节假日")
				f.SetCellStyle(sheet, ref, ref, holidayStyle)
			case !c.Meets:
				f.SetCellValue(sheet, ref, fmt.Sprintf("%d/%d", len(c.Present), data.MinStaff))
				f.SetCellStyle(sheet, ref, ref, shortStyle)
			default:
				f.SetCellValue(sheet, ref, fmt.Sprintf("%d/%d", len(c.Present), data.MinStaff))
			}
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      firstDayCol - 1,
		YSplit:      2,
		TopLeftCell: cell(colName(firstDayCol), 3),
		ActivePane:  "bottomRight",
	})

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排班表_%s_%s.xlsx", data.Dependency.Name, data.Start)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportEmployeeCalendar 人员值班与请假导出为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条值班记录一个全天事件；每条请假一个跨天全天事件（DTEND 为结束日次日）。
// 已驳回的请假不导出。

const icsProductID = "-//escalafon//roster//ES"

func (s *exportService) ExportEmployeeCalendar(ctx context.Context, employeeID string, req *dto.WindowRequest) ([]byte, string, error) {
	start, numDays, err := resolveWindow(req, s.opts, roster.DayOf(s.now()))
	if err != nil {
		return nil, "", err
	}
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEmployeeNotFound
		}
		s.logger.Error("查询人员失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}

	from, to := start.Time(), start.AddDays(numDays-1).Time()
	guards, err := s.repo.Guard.ListByEmployee(ctx, emp.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("查询值班记录失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}
	licenses, err := s.repo.License.ListOverlapping(ctx, []string{emp.EmployeeID}, from, to)
	if err != nil {
		s.logger.Error("查询请假记录失败", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}

	stamp := s.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("%s 排班", emp.Name))

	snap := roster.NewSnapshot(toRosterGuards(guards), toRosterLicenses(licenses))

	for _, g := range snap.GuardsOf(emp.EmployeeID) {
		ev := cal.AddEvent(g.ID + "@escalafon")
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(g.Day.Time())
		ev.SetAllDayEndAt(g.Day.AddDays(1).Time())
		ev.SetSummary(fmt.Sprintf("%s %s", roster.Present(g.Type).Label, g.Type))
		if g.Comment != "" {
			ev.SetDescription(g.Comment)
		}
	}
	for _, l := range snap.LicensesOf(emp.EmployeeID) {
		if !l.Status.Covers() {
			continue
		}
		ev := cal.AddEvent(l.ID + "@escalafon")
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(l.Start.Time())
		ev.SetAllDayEndAt(l.End.AddDays(1).Time())
		ev.SetSummary(fmt.Sprintf("%s (%s)", l.Type.Code(), l.Status))
		if l.Reason != "" {
			ev.SetDescription(l.Reason)
		}
	}

	filename := fmt.Sprintf("escalafon_%s_%s.ics", emp.EmployeeID, start.String())
	return []byte(cal.Serialize()), filename, nil
}

// ── 辅助函数 ──

// colName 1 起的列号 → 列名
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
