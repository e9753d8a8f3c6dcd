package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/company/simpleattendance/core/session"
)

type profileRow struct {
	ID           string  `json:"id"`
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	EmpCode      string  `json:"emp_code"`
	IsActive     bool    `json:"is_active"`
	AndroidLogin bool    `json:"android_login"`
	DeviceID     *string `json:"device_id"`
}

// ProfileRepository は PostgREST の profile リソースに対する
// session.ProfileRepository 実装です。
type ProfileRepository struct {
	client *Client
}

// NewProfileRepository は ProfileRepository を生成します。
func NewProfileRepository(client *Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// FindByUserID はユーザー ID でプロフィールを取得します。
func (r *ProfileRepository) FindByUserID(ctx context.Context, token, userID string) (*session.Profile, error) {
	const op = "profile.find"

	query := url.Values{"id": {"eq." + userID}}
	var rows []profileRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/profile", query, nil, token, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, session.ErrProfileNotFound
	}
	return fromProfileRow(rows[0]), nil
}

// MobileLoginActive はメールアドレスのアカウントが端末ログイン済みかを返します。
// ログイン前の事前照会のため、ベアラーなし(apikey のみ)で呼び出します。
func (r *ProfileRepository) MobileLoginActive(ctx context.Context, email string) (bool, error) {
	const op = "profile.mobile_login"

	query := url.Values{
		"email":  {"eq." + email},
		"select": {"android_login"},
	}
	var rows []profileRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/profile", query, nil, "", &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return rows[0].AndroidLogin, nil
}

// BindDevice はアカウントをこの端末に紐づけます。
func (r *ProfileRepository) BindDevice(ctx context.Context, token, userID, deviceID string) error {
	const op = "profile.bind_device"

	query := url.Values{"id": {"eq." + userID}}
	body := map[string]any{"android_login": true, "device_id": deviceID}
	return r.client.doREST(ctx, op, http.MethodPatch, "/profile", query, body, token, nil)
}

// ReleaseDevice は端末への紐づけを解除します。
func (r *ProfileRepository) ReleaseDevice(ctx context.Context, token, userID string) error {
	const op = "profile.release_device"

	query := url.Values{"id": {"eq." + userID}}
	body := map[string]any{"android_login": false, "device_id": nil}
	return r.client.doREST(ctx, op, http.MethodPatch, "/profile", query, body, token, nil)
}

func fromProfileRow(row profileRow) *session.Profile {
	profile := &session.Profile{
		ID:          row.ID,
		EmpCode:     row.EmpCode,
		IsActive:    row.IsActive,
		MobileLogin: row.AndroidLogin,
	}
	if row.Email != nil {
		profile.Email = *row.Email
	}
	if row.FirstName != nil {
		profile.FirstName = *row.FirstName
	}
	if row.LastName != nil {
		profile.LastName = *row.LastName
	}
	if row.DeviceID != nil {
		profile.DeviceID = *row.DeviceID
	}
	return profile
}
