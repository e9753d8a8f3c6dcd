package session

import "context"

// Session は端末に保存される認証済み従業員のアイデンティティです。
// FirstName と EmpCode は表示用のキャッシュで、初回取得後に保存されます。
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	FirstName   string
	EmpCode     string
	DeviceID    string
}

// Credential は認証成功時に発行されるベアラー資格情報です。
type Credential struct {
	AccessToken string
	UserID      string
	Email       string
}

// Profile はリモートの従業員プロフィールです。
type Profile struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	EmpCode     string
	IsActive    bool
	MobileLogin bool
	DeviceID    string
}

// Authenticator は認証サービスの抽象です。ポリシー層は認証を実装せず、結果の資格情報のみ扱います。
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*Credential, error)
}

// ProfileRepository はプロフィールリソースの抽象です。
// 端末バインドの照会と更新、および表示用フィールドの取得を提供します。
type ProfileRepository interface {
	FindByUserID(ctx context.Context, token, userID string) (*Profile, error)
	MobileLoginActive(ctx context.Context, email string) (bool, error)
	BindDevice(ctx context.Context, token, userID, deviceID string) error
	ReleaseDevice(ctx context.Context, token, userID string) error
}

// Store はセッションの永続化の抽象です。プロセス再起動をまたいで保持され、
// 資格情報の失効を検出したら全体を消去します。
type Store interface {
	Save(sess *Session) error
	Load() (*Session, error)
	Clear() error
}
