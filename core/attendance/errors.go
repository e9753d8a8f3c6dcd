package attendance

import "errors"

var (
	ErrInvalidEmployeeID   = errors.New("attendance: invalid employee id")
	ErrAlreadyMarkedIn     = errors.New("attendance: already marked in for this date")
	ErrNoActiveSession     = errors.New("attendance: no mark-in recorded for this date")
	ErrRecordNotFound      = errors.New("attendance: record not found")
	ErrRecordAlreadyExists = errors.New("attendance: record already exists for employee and date")
)
