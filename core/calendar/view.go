package calendar

import (
	"context"
	"time"

	"github.com/company/simpleattendance/core/attendance"
	"github.com/company/simpleattendance/core/remote"
)

// MonthView は1ヶ月分の表示状態です。Days と Records のキーは ISO 日付文字列です。
type MonthView struct {
	Month   Month
	Days    map[string]attendance.DayStatus
	Records map[string]*attendance.Record
	// Partial はいずれかの取得が失敗して空集合へ縮退したことを示します。
	Partial bool
}

// Service は月次カレンダー表示用のデータ組み立てを担います。
type Service struct {
	records   attendance.Repository
	holidays  attendance.HolidayRepository
	weeklyOff time.Weekday
	zone      *time.Location
}

// NewService は Service を生成します。weeklyOff には組織の週休曜日を渡します。
func NewService(records attendance.Repository, holidays attendance.HolidayRepository, weeklyOff time.Weekday, zone *time.Location) *Service {
	if zone == nil {
		zone = time.UTC
	}
	return &Service{records: records, holidays: holidays, weeklyOff: weeklyOff, zone: zone}
}

// LoadMonth は勤怠→祝日の順で取得し、日毎の表示状態を導出します。
// 祝日の取得は勤怠の取得が完了(成功・失敗を問わず)した後にのみ行います。
// 転送・復号の失敗は空集合へ縮退して描画を続け、認証失敗のみ伝播します。
func (s *Service) LoadMonth(ctx context.Context, employeeID string, month Month) (*MonthView, error) {
	from := month.First(s.zone)
	to := month.Next().First(s.zone)

	view := &MonthView{
		Month:   month,
		Records: make(map[string]*attendance.Record),
	}

	records, err := s.records.ListRange(ctx, employeeID, from, to)
	if err != nil {
		if remote.IsAuth(err) {
			return nil, err
		}
		view.Partial = true
	}
	for _, rec := range records {
		view.Records[attendance.FormatDate(rec.Date)] = rec
	}

	holidays, err := s.holidays.ListHolidays(ctx, from, to)
	if err != nil {
		if remote.IsAuth(err) {
			return nil, err
		}
		view.Partial = true
		holidays = attendance.HolidaySet{}
	}

	view.Days = attendance.DeriveMonth(month.Year, month.Month, s.zone, holidays, s.weeklyOff, view.Records)
	return view, nil
}
