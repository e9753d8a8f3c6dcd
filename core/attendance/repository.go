package attendance

import (
	"context"
	"time"
)

// Repository は勤怠永続化の抽象です。リモートストアまたは直接 SQL が実装します。
type Repository interface {
	Create(ctx context.Context, record *Record) (*Record, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)
	SetOutTime(ctx context.Context, employeeID string, date time.Time, outTime time.Time) error
	ListRange(ctx context.Context, employeeID string, from, to time.Time) ([]*Record, error)
}

// HolidayRepository は祝日カレンダー取得の抽象です。従業員には依存しません。
type HolidayRepository interface {
	ListHolidays(ctx context.Context, from, to time.Time) (HolidaySet, error)
}
