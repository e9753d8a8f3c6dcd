package attendance

import "time"

// DayStatus はカレンダー表示用の1日の状態です。保存される5種のステータスに加え、
// 表示専用の Pending / NoData / Unknown を持ちます。
type DayStatus string

const (
	DayPresent DayStatus = DayStatus(StatusPresent)
	DayLate    DayStatus = DayStatus(StatusLate)
	DayHalfDay DayStatus = DayStatus(StatusHalfDay)
	DayAbsent  DayStatus = DayStatus(StatusAbsent)
	DayHoliday DayStatus = DayStatus(StatusHoliday)

	// DayPending はレコードは存在するがサーバー側のステータス確定が済んでいない状態です。
	DayPending DayStatus = "Pending"
	// DayNoData はその日の打刻が一切存在しない状態です。
	DayNoData DayStatus = "NoData"
	// DayUnknown は保存値が既知の5種に合致しない状態です。表示を壊さず区別して描画します。
	DayUnknown DayStatus = "Unknown"
)

// DeriveDayStatus は1日分の表示状態を導出します。
// 評価順は 祝日/週休 → レコードの保存ステータス → レコードなし で、最初に合致した規則が勝ちます。
// 同じ入力に対して常に同じ結果を返す純粋関数です。
func DeriveDayStatus(date time.Time, holidays HolidaySet, weeklyOff time.Weekday, record *Record) DayStatus {
	if holidays.Contains(date) || date.Weekday() == weeklyOff {
		return DayHoliday
	}
	if record == nil {
		return DayNoData
	}
	if record.Status == nil {
		return DayPending
	}
	if _, ok := ParseStatus(string(*record.Status)); !ok {
		return DayUnknown
	}
	return DayStatus(*record.Status)
}

// DeriveMonth は月内の全日付について表示状態を導出します。
// records のキーと戻り値のキーは ISO 日付文字列です。
func DeriveMonth(year int, month time.Month, zone *time.Location, holidays HolidaySet, weeklyOff time.Weekday, records map[string]*Record) map[string]DayStatus {
	days := make(map[string]DayStatus)
	first := time.Date(year, month, 1, 0, 0, 0, 0, zone)
	for date := first; date.Month() == month; date = date.AddDate(0, 0, 1) {
		key := FormatDate(date)
		days[key] = DeriveDayStatus(date, holidays, weeklyOff, records[key])
	}
	return days
}
