// Package remote はリモート呼び出し失敗の分類を定義します。
// アダプタ境界ですべての失敗をこのいずれかに変換してからコアへ渡します。
package remote

import (
	"errors"
	"fmt"
)

// TransportError はネットワーク到達不能やタイムアウトなど転送層の失敗です。
// 再試行で回復可能であり、元のメッセージを保持して呼び出し元へ渡します。
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote: transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthError は資格情報が無効と判定された失敗です。
// 検出した呼び出し元はセッションを全消去し、再認証へ誘導します。
type AuthError struct {
	Op      string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: authentication rejected during %s", e.Op)
	}
	return fmt.Sprintf("remote: authentication rejected during %s: %s", e.Op, e.Message)
}

// DecodeError は応答が期待した形に復号できなかった失敗です。
// 呼び出し元は空の結果セットへ縮退して回復し、決してクラッシュさせません。
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("remote: unexpected payload during %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsTransport は err が TransportError かを返します。
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsAuth は err が AuthError かを返します。
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsDecode は err が DecodeError かを返します。
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
