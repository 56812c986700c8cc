package roster

import "strings"

// NoAssignment 无任何记录时的哨兵值
const NoAssignment = "-"

// DutyKind 值班代码的封闭分类
//
// 代码本身是自由文本（历史数据中存在 "curso"/"Curso" 等大小写变体），
// 业务逻辑只在边界处调用一次 Classify，其余地方只比较 DutyKind。
type DutyKind int

const (
	KindNone             DutyKind = iota // "-"
	KindLicense                          // L / licencia / reglamentaria
	KindLicenseExtra                     // L.Ext / extraordinaria
	KindLicenseMedical                   // L.Med / medica
	KindCompensation                     // CH / compensacion
	KindRest                             // D / descanso
	KindGuard                            // T / guardia
	KindFirstShift                       // 1ro
	KindSecondShift                      // 2do
	KindThirdShift                       // 3er
	KindCustody                          // Custodia
	KindCourse                           // Curso
	KindEventual                         // BROU
	KindTier1                            // T-1
	KindTier2                            // T-2
	KindOther                            // 未识别，原样透传
)

var kindNames = map[DutyKind]string{
	KindNone:           "none",
	KindLicense:        "license",
	KindLicenseExtra:   "license_extra",
	KindLicenseMedical: "license_medical",
	KindCompensation:   "compensation",
	KindRest:           "rest",
	KindGuard:          "guard",
	KindFirstShift:     "first_shift",
	KindSecondShift:    "second_shift",
	KindThirdShift:     "third_shift",
	KindCustody:        "custody",
	KindCourse:         "course",
	KindEventual:       "eventual",
	KindTier1:          "tier_1",
	KindTier2:          "tier_2",
	KindOther:          "other",
}

func (k DutyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "other"
}

// 归一化后的代码 → 分类
var codeKinds = map[string]DutyKind{
	"-":               KindNone,
	"":                KindNone,
	"l":               KindLicense,
	"licencia":        KindLicense,
	"reglamentaria":   KindLicense,
	"l.ext":           KindLicenseExtra,
	"extraordinaria":  KindLicenseExtra,
	"l.med":           KindLicenseMedical,
	"medica":          KindLicenseMedical,
	"licencia_medica": KindLicenseMedical,
	"ch":              KindCompensation,
	"compensacion":    KindCompensation,
	"d":               KindRest,
	"descanso":        KindRest,
	"t":               KindGuard,
	"guardia":         KindGuard,
	"1ro":             KindFirstShift,
	"2do":             KindSecondShift,
	"3er":             KindThirdShift,
	"custodia":        KindCustody,
	"curso":           KindCourse,
	"brou":            KindEventual,
	"t-1":             KindTier1,
	"t-2":             KindTier2,
}

// NormalizeCode 边界处唯一的大小写/空白归一化
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// Classify 将任意代码映射到封闭分类；未识别的代码归为 KindOther
func Classify(code string) DutyKind {
	if k, ok := codeKinds[NormalizeCode(code)]; ok {
		return k
	}
	return KindOther
}

// IsLicense 是否属于请假类（含补休 CH）
func (k DutyKind) IsLicense() bool {
	switch k {
	case KindLicense, KindLicenseExtra, KindLicenseMedical, KindCompensation:
		return true
	}
	return false
}

// IsAbsent 请假或休息：不计入任何班次的在岗人数
func (k DutyKind) IsAbsent() bool {
	return k.IsLicense() || k == KindRest
}

// ShiftOverride 当日代码为 1ro/2do/3er 时，返回被改派到的班次名
func (k DutyKind) ShiftOverride() (string, bool) {
	switch k {
	case KindFirstShift:
		return ShiftFirst, true
	case KindSecondShift:
		return ShiftSecond, true
	case KindThirdShift:
		return ShiftThird, true
	}
	return "", false
}

// IsBlockType 块类型：整轮值班 "T"（区分大小写）或 BROU（不区分大小写）
func IsBlockType(dutyType string) bool {
	return dutyType == "T" || strings.EqualFold(dutyType, "brou")
}

// ── 请假类型与审批状态 ──

// LicenseType 请假类型
type LicenseType string

const (
	LicenseRegular      LicenseType = "reglamentaria"
	LicenseExtra        LicenseType = "extraordinaria"
	LicenseCompensation LicenseType = "compensacion"
	LicenseMedical      LicenseType = "medica"
)

// Valid 是否为已知类型
func (t LicenseType) Valid() bool {
	switch t {
	case LicenseRegular, LicenseExtra, LicenseCompensation, LicenseMedical:
		return true
	}
	return false
}

// Code 请假类型对应的显示代码；未知类型一律显示 "L"
func (t LicenseType) Code() string {
	switch LicenseType(NormalizeCode(string(t))) {
	case LicenseExtra:
		return "L.Ext"
	case LicenseCompensation:
		return "CH"
	case LicenseMedical:
		return "L.Med"
	default:
		return "L"
	}
}

// LicenseStatus 审批状态
type LicenseStatus string

const (
	LicensePending  LicenseStatus = "pendiente"
	LicenseApproved LicenseStatus = "aprobado"
	LicenseRejected LicenseStatus = "rechazado"
	LicenseActive   LicenseStatus = "activo"
)

// Valid 是否为已知状态
func (s LicenseStatus) Valid() bool {
	switch s {
	case LicensePending, LicenseApproved, LicenseRejected, LicenseActive:
		return true
	}
	return false
}

// Covers 该状态的请假是否占用日期。被驳回的请假不覆盖任何一天；
// 待审批的请假仍然占用（与原排班表的展示一致）。
func (s LicenseStatus) Covers() bool {
	return LicenseStatus(NormalizeCode(string(s))) != LicenseRejected
}

// LicenseCode 同 LicenseType.Code，供只持有字符串类型的调用方使用
func LicenseCode(t string) string {
	return LicenseType(t).Code()
}
