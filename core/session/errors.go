package session

import "errors"

var (
	ErrNotLoggedIn         = errors.New("session: not logged in")
	ErrMissingCredentials  = errors.New("session: email and password are required")
	ErrInvalidCredentials  = errors.New("session: invalid email or password")
	ErrDeviceAlreadyActive = errors.New("session: account already active on another device")
	ErrSessionExpired      = errors.New("session: access token expired")
	ErrProfileNotFound     = errors.New("session: profile not found")
)
