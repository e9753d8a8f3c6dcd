// Package sessionstore は sqlite による session.Store 実装です。
// 端末ローカルの単一ファイルに1件のセッションを保持し、プロセス再起動をまたいで残ります。
package sessionstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/company/simpleattendance/core/session"
)

// セッションは常に1行で保持します。
const sessionRowID = 1

type sessionRow struct {
	ID          uint `gorm:"primarykey"`
	AccessToken string
	UserID      string
	Email       string
	FirstName   string
	EmpCode     string
	DeviceID    string
	UpdatedAt   time.Time
}

func (sessionRow) TableName() string {
	return "device_session"
}

// SQLiteStore は sqlite ファイルに永続化する session.Store です。
type SQLiteStore struct {
	db *gorm.DB
}

// DefaultPath は既定の保存先パスを返します。
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".simpleattendance", "session.db"), nil
}

// Open は保存先ファイルを開き、スキーマを整えます。親ディレクトリは必要なら作成します。
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sessionstore: create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sessionstore: open database: %w", err)
	}

	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, fmt.Errorf("sessionstore: migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save はセッションを保存します。既存の内容は置き換えます。
func (s *SQLiteStore) Save(sess *session.Session) error {
	row := sessionRow{
		ID:          sessionRowID,
		AccessToken: sess.AccessToken,
		UserID:      sess.UserID,
		Email:       sess.Email,
		FirstName:   sess.FirstName,
		EmpCode:     sess.EmpCode,
		DeviceID:    sess.DeviceID,
	}
	return s.db.Save(&row).Error
}

// Load は保存済みセッションを返します。未保存なら session.ErrNotLoggedIn を返します。
func (s *SQLiteStore) Load() (*session.Session, error) {
	var row sessionRow
	if err := s.db.First(&row, sessionRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrNotLoggedIn
		}
		return nil, err
	}

	if row.AccessToken == "" {
		return nil, session.ErrNotLoggedIn
	}

	return &session.Session{
		AccessToken: row.AccessToken,
		UserID:      row.UserID,
		Email:       row.Email,
		FirstName:   row.FirstName,
		EmpCode:     row.EmpCode,
		DeviceID:    row.DeviceID,
	}, nil
}

// Clear はセッションを全消去します。
func (s *SQLiteStore) Clear() error {
	return s.db.Where("id = ?", sessionRowID).Delete(&sessionRow{}).Error
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
