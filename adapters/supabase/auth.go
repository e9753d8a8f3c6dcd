package supabase

import (
	"context"
	"errors"

	"github.com/company/simpleattendance/core/remote"
	"github.com/company/simpleattendance/core/session"
)

var errMissingAuthFields = errors.New("auth response missing access_token or user id")

// Authenticator は GoTrue のパスワード認証を呼び出す session.Authenticator 実装です。
type Authenticator struct {
	client *Client
}

// NewAuthenticator は Authenticator を生成します。
func NewAuthenticator(client *Client) *Authenticator {
	return &Authenticator{client: client}
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Login はメールアドレスとパスワードで認証し、ベアラー資格情報を返します。
func (a *Authenticator) Login(ctx context.Context, email, password string) (*session.Credential, error) {
	const op = "auth.login"

	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := a.client.doAuth(ctx, op, "/token?grant_type=password", body, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" || resp.User.ID == "" {
		return nil, &remote.DecodeError{Op: op, Err: errMissingAuthFields}
	}

	return &session.Credential{
		AccessToken: resp.AccessToken,
		UserID:      resp.User.ID,
		Email:       resp.User.Email,
	}, nil
}
