package roster

import (
	"encoding/json"
	"fmt"
	"time"
)

// dayLayout 日期的 ISO 表示
const dayLayout = "2006-01-02"

// CalendarDay 日历日（仅年/月/日，无时间分量）
//
// 所有按天比较的逻辑都基于 CalendarDay，避免时间戳跨时区比较带来的偏差。
// 零值表示"未设置"。
type CalendarDay struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDay 构造日历日，超出范围的日期会按 time.Date 规则进位（如 2 月 30 日 → 3 月 2 日）
func NewDay(year int, month time.Month, day int) CalendarDay {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DayOf 取时间点在 UTC 下所在的日历日
func DayOf(t time.Time) CalendarDay {
	u := t.UTC()
	return CalendarDay{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// ParseDay 解析 YYYY-MM-DD；同时接受 RFC3339 时间点（取其 UTC 日期）
func ParseDay(s string) (CalendarDay, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return CalendarDay{}, fmt.Errorf("无效的日期 %q，应为 YYYY-MM-DD", s)
}

// IsZero 是否为零值
func (d CalendarDay) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time 当天 UTC 零点
func (d CalendarDay) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays 前后偏移 n 天
func (d CalendarDay) AddDays(n int) CalendarDay {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Compare 比较大小：d < o 返回 -1，相等返回 0，d > o 返回 1
func (d CalendarDay) Compare(o CalendarDay) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d CalendarDay) Before(o CalendarDay) bool { return d.Compare(o) < 0 }
func (d CalendarDay) After(o CalendarDay) bool  { return d.Compare(o) > 0 }

// Within 判断 d 是否落在闭区间 [start, end] 内
func (d CalendarDay) Within(start, end CalendarDay) bool {
	return !d.Before(start) && !d.After(end)
}

// DaysUntil 返回从 d 到 o 相差的天数（o 在前时为负数）
func (d CalendarDay) DaysUntil(o CalendarDay) int {
	return int(o.Time().Sub(d.Time()).Hours() / 24)
}

// MonthDay 仅保留月/日，用于跨年的节假日窗口比较
func (d CalendarDay) MonthDay() MonthDay {
	return MonthDay{Month: d.Month, Day: d.Day}
}

// Weekday 星期几
func (d CalendarDay) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d CalendarDay) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText 实现 encoding.TextMarshaler（JSON map key 与 YAML 均复用）
func (d CalendarDay) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *CalendarDay) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = CalendarDay{}
		return nil
	}
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalJSON 序列化为 "YYYY-MM-DD"
func (d CalendarDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 解析 "YYYY-MM-DD"
func (d *CalendarDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// DayRange 从 start 起连续 n 天
func DayRange(start CalendarDay, n int) []CalendarDay {
	if n <= 0 {
		return nil
	}
	days := make([]CalendarDay, n)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
