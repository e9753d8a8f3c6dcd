package attendance

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// 打刻時刻は組織の標準勤務時間帯に丸められます。
// 10:00 より前の出勤打刻は 10:00:00 に、19:30 より後の退勤打刻は 19:30:00 に揃えます。
const (
	markInFloorHour   = 10
	markOutCeilHour   = 19
	markOutCeilMinute = 30
)

// Service は打刻(書き込み経路)のユースケースをまとめます。
// すべての時刻判定は組織の固定タイムゾーンで行い、端末のタイムゾーンには依存しません。
type Service struct {
	repo  Repository
	clock Clock
	zone  *time.Location
}

// NewService は Service を生成します。zone には組織の固定タイムゾーンを渡します。
func NewService(repo Repository, clock Clock, zone *time.Location) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if zone == nil {
		zone = time.UTC
	}
	return &Service{repo: repo, clock: clock, zone: zone}
}

// MarkIn は当日の出勤打刻を記録します。
// 同日のレコードが既に存在する場合は ErrAlreadyMarkedIn を返し、出勤時刻は上書きしません。
func (s *Service) MarkIn(ctx context.Context, employeeID string) (*Record, error) {
	employeeID, err := normalizeEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.zone)
	date := DateOf(now)

	existing, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, date)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMarkedIn
	}

	inTime := clampMarkIn(now)
	created, err := s.repo.Create(ctx, &Record{
		EmployeeID:   employeeID,
		Date:         date,
		InTime:       &inTime,
		TotalMinutes: 0,
	})
	if err != nil {
		if errors.Is(err, ErrRecordAlreadyExists) {
			return nil, ErrAlreadyMarkedIn
		}
		return nil, err
	}

	return created, nil
}

// MarkOut は当日の退勤打刻を記録します。
// 出勤打刻がない場合は ErrNoActiveSession を返します。退勤済みの場合は退勤時刻を上書きし、
// 最後の打刻が有効になります。
func (s *Service) MarkOut(ctx context.Context, employeeID string) (*Record, error) {
	employeeID, err := normalizeEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().In(s.zone)
	date := DateOf(now)

	existing, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	outTime := clampMarkOut(now)
	if err := s.repo.SetOutTime(ctx, employeeID, date, outTime); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}
		return nil, err
	}

	existing.OutTime = &outTime
	return existing, nil
}

func clampMarkIn(now time.Time) time.Time {
	if now.Hour() < markInFloorHour {
		return time.Date(now.Year(), now.Month(), now.Day(), markInFloorHour, 0, 0, 0, now.Location())
	}
	return now
}

func clampMarkOut(now time.Time) time.Time {
	if now.Hour() > markOutCeilHour || (now.Hour() == markOutCeilHour && now.Minute() > markOutCeilMinute) {
		return time.Date(now.Year(), now.Month(), now.Day(), markOutCeilHour, markOutCeilMinute, 0, 0, now.Location())
	}
	return now
}

func normalizeEmployeeID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmployeeID
	}
	return trimmed, nil
}
