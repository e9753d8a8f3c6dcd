package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/company/simpleattendance/core/attendance"
	"github.com/company/simpleattendance/core/remote"
)

// リモートストアが返すタイムスタンプのレイアウトです。送信時は先頭のものを使います。
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-07:00",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type attendanceRow struct {
	ID             string  `json:"id,omitempty"`
	EmployeeID     string  `json:"employee_id"`
	AttendanceDate string  `json:"attendance_date"`
	InTime         *string `json:"in_time,omitempty"`
	OutTime        *string `json:"out_time,omitempty"`
	TotalMinutes   int     `json:"total_minutes"`
	Status         *string `json:"status,omitempty"`
}

type holidayRow struct {
	HolidayDate string `json:"holiday_date"`
}

// AttendanceRepository は PostgREST の attendance / holidays リソースに対する
// attendance.Repository / attendance.HolidayRepository 実装です。
type AttendanceRepository struct {
	client *Client
	tokens TokenSource
	zone   *time.Location
}

// NewAttendanceRepository は AttendanceRepository を生成します。
// zone には組織の固定タイムゾーンを渡します。
func NewAttendanceRepository(client *Client, tokens TokenSource, zone *time.Location) *AttendanceRepository {
	if zone == nil {
		zone = time.UTC
	}
	return &AttendanceRepository{client: client, tokens: tokens, zone: zone}
}

// Create は勤怠レコードを新規作成します。
// (従業員, 日付) が既に存在する場合は attendance.ErrRecordAlreadyExists を返します。
func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.Record) (*attendance.Record, error) {
	const op = "attendance.create"

	token, err := r.tokens.Token()
	if err != nil {
		return nil, err
	}

	var created []attendanceRow
	if err := r.client.doREST(ctx, op, http.MethodPost, "/attendance", nil, toAttendanceRow(record), token, &created); err != nil {
		if errors.Is(err, errConflict) {
			return nil, attendance.ErrRecordAlreadyExists
		}
		return nil, err
	}

	if len(created) == 0 {
		clone := *record
		return &clone, nil
	}
	return fromAttendanceRow(op, created[0], r.zone)
}

// FindByEmployeeAndDate は (従業員, 日付) のレコードを取得します。
func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	const op = "attendance.find"

	token, err := r.tokens.Token()
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"employee_id":     {"eq." + employeeID},
		"attendance_date": {"eq." + attendance.FormatDate(date)},
	}
	var rows []attendanceRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/attendance", query, nil, token, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, attendance.ErrRecordNotFound
	}
	return fromAttendanceRow(op, rows[0], r.zone)
}

// SetOutTime は退勤時刻を更新します。対象レコードがなければ attendance.ErrRecordNotFound を返します。
func (r *AttendanceRepository) SetOutTime(ctx context.Context, employeeID string, date time.Time, outTime time.Time) error {
	const op = "attendance.set_out_time"

	token, err := r.tokens.Token()
	if err != nil {
		return err
	}

	query := url.Values{
		"employee_id":     {"eq." + employeeID},
		"attendance_date": {"eq." + attendance.FormatDate(date)},
	}
	body := map[string]string{"out_time": formatTimestamp(outTime)}
	var updated []attendanceRow
	if err := r.client.doREST(ctx, op, http.MethodPatch, "/attendance", query, body, token, &updated); err != nil {
		return err
	}
	if len(updated) == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// ListRange は期間内(from 以上 to 未満)のレコードを取得します。
func (r *AttendanceRepository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]*attendance.Record, error) {
	const op = "attendance.list_range"

	token, err := r.tokens.Token()
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"employee_id": {"eq." + employeeID},
		"attendance_date": {
			"gte." + attendance.FormatDate(from),
			"lt." + attendance.FormatDate(to),
		},
	}
	var rows []attendanceRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/attendance", query, nil, token, &rows); err != nil {
		return nil, err
	}

	records := make([]*attendance.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromAttendanceRow(op, row, r.zone)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// ListHolidays は期間内(from 以上 to 未満)の祝日集合を取得します。
func (r *AttendanceRepository) ListHolidays(ctx context.Context, from, to time.Time) (attendance.HolidaySet, error) {
	const op = "holidays.list_range"

	token, err := r.tokens.Token()
	if err != nil {
		return nil, err
	}

	query := url.Values{
		"holiday_date": {
			"gte." + attendance.FormatDate(from),
			"lt." + attendance.FormatDate(to),
		},
	}
	var rows []holidayRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/holidays", query, nil, token, &rows); err != nil {
		return nil, err
	}

	holidays := make(attendance.HolidaySet, len(rows))
	for _, row := range rows {
		date, err := time.ParseInLocation(attendance.DateLayout, row.HolidayDate, r.zone)
		if err != nil {
			return nil, &remote.DecodeError{Op: op, Err: err}
		}
		holidays.Add(date)
	}
	return holidays, nil
}

func toAttendanceRow(record *attendance.Record) attendanceRow {
	row := attendanceRow{
		EmployeeID:     record.EmployeeID,
		AttendanceDate: attendance.FormatDate(record.Date),
		TotalMinutes:   record.TotalMinutes,
	}
	if record.InTime != nil {
		in := formatTimestamp(*record.InTime)
		row.InTime = &in
	}
	if record.OutTime != nil {
		out := formatTimestamp(*record.OutTime)
		row.OutTime = &out
	}
	if record.Status != nil {
		status := string(*record.Status)
		row.Status = &status
	}
	return row
}

func fromAttendanceRow(op string, row attendanceRow, zone *time.Location) (*attendance.Record, error) {
	date, err := time.ParseInLocation(attendance.DateLayout, row.AttendanceDate, zone)
	if err != nil {
		return nil, &remote.DecodeError{Op: op, Err: fmt.Errorf("attendance_date: %w", err)}
	}

	record := &attendance.Record{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		Date:         date,
		TotalMinutes: row.TotalMinutes,
	}

	if row.InTime != nil {
		in, err := parseTimestamp(*row.InTime, zone)
		if err != nil {
			return nil, &remote.DecodeError{Op: op, Err: fmt.Errorf("in_time: %w", err)}
		}
		record.InTime = &in
	}
	if row.OutTime != nil {
		out, err := parseTimestamp(*row.OutTime, zone)
		if err != nil {
			return nil, &remote.DecodeError{Op: op, Err: fmt.Errorf("out_time: %w", err)}
		}
		record.OutTime = &out
	}

	// 未知のステータス文字列もそのまま保持し、導出側で Unknown に縮退させます。
	if row.Status != nil {
		status := attendance.Status(*row.Status)
		record.Status = &status
	}

	return record, nil
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayouts[0])
}

func parseTimestamp(raw string, zone *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, zone)
		if err == nil {
			return t.In(zone), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
