// Package postgres は PostgreSQL 直結のリポジトリ実装です。
// PostgREST を経由しない経路(運用ツール・結合テスト)で使用します。
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/company/simpleattendance/core/admission"
	"github.com/company/simpleattendance/core/attendance"
	pgdb "github.com/company/simpleattendance/platform/db/postgres"
)

const attendanceUniqueViolationCode = "23505"

// AttendanceRepository は attendance.Repository / attendance.HolidayRepository /
// admission.NetworkDirectory の PostgreSQL 実装です。
type AttendanceRepository struct {
	pool pgdb.Queryer
}

// NewAttendanceRepository は AttendanceRepository を生成します。
func NewAttendanceRepository(pool pgdb.Queryer) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// Create は勤怠レコードを新規作成します。
func (r *AttendanceRepository) Create(ctx context.Context, record *attendance.Record) (*attendance.Record, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO attendance (employee_id, attendance_date, in_time, out_time, total_minutes, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, employee_id, attendance_date, in_time, out_time, total_minutes, status
    `,
		record.EmployeeID,
		record.Date,
		nullableTime(record.InTime),
		nullableTime(record.OutTime),
		record.TotalMinutes,
		nullableStatus(record.Status),
	)

	created, err := scanRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return created, nil
}

// FindByEmployeeAndDate は (従業員, 日付) のレコードを取得します。
func (r *AttendanceRepository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, employee_id, attendance_date, in_time, out_time, total_minutes, status
          FROM attendance
         WHERE employee_id = $1
           AND attendance_date = $2
    `, employeeID, date)

	record, err := scanRecord(row)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	return record, nil
}

// SetOutTime は退勤時刻を更新します。
func (r *AttendanceRepository) SetOutTime(ctx context.Context, employeeID string, date time.Time, outTime time.Time) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE attendance
           SET out_time = $1
         WHERE employee_id = $2
           AND attendance_date = $3
    `, outTime, employeeID, date)
	if err != nil {
		return translateAttendancePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// ListRange は期間内(from 以上 to 未満)のレコードを取得します。
func (r *AttendanceRepository) ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]*attendance.Record, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, employee_id, attendance_date, in_time, out_time, total_minutes, status
          FROM attendance
         WHERE employee_id = $1
           AND attendance_date >= $2
           AND attendance_date < $3
         ORDER BY attendance_date
    `, employeeID, from, to)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	var records []*attendance.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, translateAttendancePgError(err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAttendancePgError(err)
	}
	return records, nil
}

// ListHolidays は期間内(from 以上 to 未満)の祝日集合を取得します。
func (r *AttendanceRepository) ListHolidays(ctx context.Context, from, to time.Time) (attendance.HolidaySet, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT holiday_date
          FROM holidays
         WHERE holiday_date >= $1
           AND holiday_date < $2
    `, from, to)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	holidays := attendance.HolidaySet{}
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, translateAttendancePgError(err)
		}
		holidays.Add(date)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAttendancePgError(err)
	}
	return holidays, nil
}

// FindApproved は BSSID に一致する承認済みネットワークを返します。
func (r *AttendanceRepository) FindApproved(ctx context.Context, bssid string) ([]admission.ApprovedNetwork, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT bssid, label
          FROM wifi_allowed
         WHERE bssid = $1
    `, bssid)
	if err != nil {
		return nil, translateAttendancePgError(err)
	}
	defer rows.Close()

	var networks []admission.ApprovedNetwork
	for rows.Next() {
		var (
			network admission.ApprovedNetwork
			label   sql.NullString
		)
		if err := rows.Scan(&network.BSSID, &label); err != nil {
			return nil, translateAttendancePgError(err)
		}
		network.Label = label.String
		networks = append(networks, network)
	}
	if err := rows.Err(); err != nil {
		return nil, translateAttendancePgError(err)
	}
	return networks, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*attendance.Record, error) {
	var (
		record attendance.Record
		in     sql.NullTime
		out    sql.NullTime
		status sql.NullString
	)

	if err := row.Scan(
		&record.ID,
		&record.EmployeeID,
		&record.Date,
		&in,
		&out,
		&record.TotalMinutes,
		&status,
	); err != nil {
		return nil, err
	}

	if in.Valid {
		t := in.Time
		record.InTime = &t
	}
	if out.Valid {
		t := out.Time
		record.OutTime = &t
	}
	if status.Valid {
		s := attendance.Status(status.String)
		record.Status = &s
	}

	return &record, nil
}

func translateAttendancePgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == attendanceUniqueViolationCode {
		return attendance.ErrRecordAlreadyExists
	}

	return err
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableStatus(s *attendance.Status) any {
	if s == nil {
		return nil
	}
	return string(*s)
}
