package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/company/simpleattendance/core/admission"
)

type wifiAllowedRow struct {
	ID    int     `json:"id"`
	BSSID string  `json:"bssid"`
	Label *string `json:"label"`
}

// NetworkRepository は PostgREST の wifi_allowed リソースに対する
// admission.NetworkDirectory 実装です。
type NetworkRepository struct {
	client *Client
	tokens TokenSource
}

// NewNetworkRepository は NetworkRepository を生成します。
func NewNetworkRepository(client *Client, tokens TokenSource) *NetworkRepository {
	return &NetworkRepository{client: client, tokens: tokens}
}

// FindApproved は正規化済み BSSID に一致する承認済みネットワークを返します。
func (r *NetworkRepository) FindApproved(ctx context.Context, bssid string) ([]admission.ApprovedNetwork, error) {
	const op = "wifi_allowed.find"

	token, err := r.tokens.Token()
	if err != nil {
		return nil, err
	}

	query := url.Values{"bssid": {"eq." + bssid}}
	var rows []wifiAllowedRow
	if err := r.client.doREST(ctx, op, http.MethodGet, "/wifi_allowed", query, nil, token, &rows); err != nil {
		return nil, err
	}

	networks := make([]admission.ApprovedNetwork, 0, len(rows))
	for _, row := range rows {
		network := admission.ApprovedNetwork{BSSID: row.BSSID}
		if row.Label != nil {
			network.Label = *row.Label
		}
		networks = append(networks, network)
	}
	return networks, nil
}
