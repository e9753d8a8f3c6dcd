package admission

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied は位置情報権限が未許可の状態です。権限要求後に再試行できます。
	ErrPermissionDenied = errors.New("admission: location permission not granted")
	// ErrRadioDisabled は Wi-Fi 無効の状態です。
	ErrRadioDisabled = errors.New("admission: wi-fi is disabled")
	// ErrIdentifierUnavailable は接続中の BSSID を取得できない状態です。
	ErrIdentifierUnavailable = errors.New("admission: wi-fi bssid unavailable")
)

// NotApprovedError は未承認ネットワークからの打刻要求を表します。
// 運用者が調査できるよう、正規化済み BSSID をメッセージに含めます。
type NotApprovedError struct {
	BSSID string
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("admission: network not approved: bssid %s", e.BSSID)
}
