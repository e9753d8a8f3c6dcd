package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/company/simpleattendance/core/remote"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Manager はログインからセッション破棄までのライフサイクルを管理します。
// デバイス全体のログイン済みフラグのようなグローバル状態は持たず、
// 注入された Store を唯一の保存先とします。
type Manager struct {
	auth     Authenticator
	profiles ProfileRepository
	store    Store
	clock    Clock
}

// NewManager は Manager を生成します。
func NewManager(auth Authenticator, profiles ProfileRepository, store Store, clock Clock) *Manager {
	if clock == nil {
		clock = realClock{}
	}
	return &Manager{auth: auth, profiles: profiles, store: store, clock: clock}
}

// Login は認証を行い、セッションを永続化します。
// 同一アカウントが別端末でログイン済みの場合は ErrDeviceAlreadyActive を返します。
// この事前照会自体の失敗はログインを妨げません。
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if active, err := m.profiles.MobileLoginActive(ctx, email); err == nil && active {
		return nil, ErrDeviceAlreadyActive
	}

	cred, err := m.auth.Login(ctx, email, password)
	if err != nil {
		if remote.IsAuth(err) || remote.IsDecode(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	deviceID := uuid.NewString()
	if err := m.profiles.BindDevice(ctx, cred.AccessToken, cred.UserID, deviceID); err != nil {
		return nil, err
	}

	sess := &Session{
		AccessToken: cred.AccessToken,
		UserID:      cred.UserID,
		Email:       cred.Email,
		DeviceID:    deviceID,
	}
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Current は保存済みセッションを返します。トークンが失効していれば
// セッションを全消去して ErrSessionExpired を返します。
func (m *Manager) Current() (*Session, error) {
	sess, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	if tokenExpired(sess.AccessToken, m.clock.Now()) {
		_ = m.store.Clear()
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Token は現在のセッションのベアラートークンを返します。
func (m *Manager) Token() (string, error) {
	sess, err := m.Current()
	if err != nil {
		return "", err
	}
	return sess.AccessToken, nil
}

// EnsureProfile は表示用プロフィールのキャッシュを保証します。
// キャッシュ済みならリモートへは行きません。取得に失敗した場合はキャッシュなしのまま返し、
// 表示側が既定値へ縮退します。認証失敗のみセッションを消去して伝播します。
func (m *Manager) EnsureProfile(ctx context.Context) (*Session, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}

	if sess.FirstName != "" && sess.EmpCode != "" {
		return sess, nil
	}

	profile, err := m.profiles.FindByUserID(ctx, sess.AccessToken, sess.UserID)
	if err != nil {
		if remote.IsAuth(err) {
			_ = m.store.Clear()
			return nil, err
		}
		return sess, nil
	}

	sess.FirstName = profile.FirstName
	sess.EmpCode = profile.EmpCode
	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	return sess, nil
}

// Invalidate はセッションを全消去します。リモートで AuthError を検出した呼び出し元が使います。
func (m *Manager) Invalidate() error {
	return m.store.Clear()
}

// Logout は端末バインドを解除し、セッションを消去します。未ログインなら何もしません。
func (m *Manager) Logout(ctx context.Context) error {
	sess, err := m.store.Load()
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return nil
		}
		return err
	}

	if err := m.profiles.ReleaseDevice(ctx, sess.AccessToken, sess.UserID); err != nil && !remote.IsAuth(err) {
		return err
	}

	return m.store.Clear()
}
