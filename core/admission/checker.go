package admission

import (
	"context"
	"strings"
)

// Android が BSSID を取得できないときに返す既知の未設定アドレスです。
const unsetBSSID = "02:00:00:00:00:00"

// NetworkState は端末の現在のネットワーク接続状態のスナップショットです。
type NetworkState struct {
	PermissionGranted bool
	RadioEnabled      bool
	BSSID             string
}

// ApprovedNetwork は承認済みアクセスポイントです。
type ApprovedNetwork struct {
	BSSID string
	Label string
}

// NetworkDirectory は承認済みネットワークの参照の抽象です。所属判定のみ行い、順序は持ちません。
type NetworkDirectory interface {
	FindApproved(ctx context.Context, bssid string) ([]ApprovedNetwork, error)
}

// Checker は打刻要求が承認済みネットワークからのものかを判定します。
// リモート参照以外の副作用はなく、ローカル状態も持ちません。
type Checker struct {
	directory NetworkDirectory
}

// NewChecker は Checker を生成します。
func NewChecker(directory NetworkDirectory) *Checker {
	return &Checker{directory: directory}
}

// Authorize は現在のネットワーク状態で打刻が許可されるかを判定します。
// BSSID は小文字に正規化してから照合し、診断メッセージにも正規化後の値を用います。
func (c *Checker) Authorize(ctx context.Context, state NetworkState) (*ApprovedNetwork, error) {
	if !state.PermissionGranted {
		return nil, ErrPermissionDenied
	}
	if !state.RadioEnabled {
		return nil, ErrRadioDisabled
	}

	bssid := strings.ToLower(strings.TrimSpace(state.BSSID))
	if bssid == "" || bssid == unsetBSSID {
		return nil, ErrIdentifierUnavailable
	}

	matches, err := c.directory.FindApproved(ctx, bssid)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &NotApprovedError{BSSID: bssid}
	}

	return &matches[0], nil
}
