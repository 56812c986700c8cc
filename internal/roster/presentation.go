package roster

// PresentationClass 单元格渲染类别（仅用于展示与着色，不参与业务判断）
type PresentationClass string

const (
	ClassEmpty     PresentationClass = "empty"
	ClassWarning   PresentationClass = "warning"
	ClassLeave     PresentationClass = "leave"
	ClassSpecial   PresentationClass = "special"
	ClassDuty      PresentationClass = "duty"
	ClassRest      PresentationClass = "rest"
	ClassShift     PresentationClass = "shift"
	ClassTier1     PresentationClass = "tier-1"
	ClassTier2     PresentationClass = "tier-2"
	ClassPlainText PresentationClass = "plain"
)

// Presentation 渲染信息
type Presentation struct {
	Class PresentationClass `json:"class"`
	Label string            `json:"label"`
}

// Present 代码 → 渲染信息。对任意输入都有定义，未识别的代码原样作为标签。
func Present(code string) Presentation {
	switch Classify(code) {
	case KindNone:
		return Presentation{Class: ClassEmpty, Label: NoAssignment}
	case KindLicenseMedical:
		return Presentation{Class: ClassWarning, Label: "L.Med"}
	case KindLicense:
		return Presentation{Class: ClassLeave, Label: "L"}
	case KindLicenseExtra:
		return Presentation{Class: ClassLeave, Label: "L.Ext"}
	case KindCustody, KindCourse, KindCompensation:
		return Presentation{Class: ClassSpecial, Label: code}
	case KindGuard:
		return Presentation{Class: ClassDuty, Label: "T"}
	case KindRest:
		return Presentation{Class: ClassRest, Label: "D"}
	case KindFirstShift, KindSecondShift, KindThirdShift:
		return Presentation{Class: ClassShift, Label: code}
	case KindTier1:
		return Presentation{Class: ClassTier1, Label: code}
	case KindTier2:
		return Presentation{Class: ClassTier2, Label: code}
	default:
		return Presentation{Class: ClassPlainText, Label: code}
	}
}
