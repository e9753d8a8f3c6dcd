package attendance

import "time"

// Status は勤怠レコードに確定値として保存されるステータスです。
// 確定はサーバー側の日次バッチが行い、クライアントは保存値をそのまま扱います。
type Status string

const (
	StatusPresent Status = "Present"
	StatusLate    Status = "Late"
	StatusHalfDay Status = "Half Day"
	StatusAbsent  Status = "Absent"
	StatusHoliday Status = "Holiday"
)

// ParseStatus は保存文字列を Status に変換します。既知の5種以外は ok=false を返します。
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusHoliday:
		return Status(raw), true
	default:
		return "", false
	}
}

// Record は勤怠レコードです。(従業員, 日付) ごとに高々1件存在します。
type Record struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	InTime       *time.Time
	OutTime      *time.Time
	TotalMinutes int
	Status       *Status
}

// HolidaySet は組織の祝日集合です。キーは ISO 日付文字列です。
type HolidaySet map[string]struct{}

// Add は祝日を追加します。
func (s HolidaySet) Add(date time.Time) {
	s[FormatDate(date)] = struct{}{}
}

// Contains は指定日が祝日かを返します。
func (s HolidaySet) Contains(date time.Time) bool {
	_, ok := s[FormatDate(date)]
	return ok
}

// DateLayout は日付のみのレイアウトです。リモートストアの ISO 日付と一致します。
const DateLayout = "2006-01-02"

// DateOf は時刻を切り捨てて日付のみの値を返します。タイムゾーンは引数のものを保持します。
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate は日付を ISO 日付文字列にします。
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
