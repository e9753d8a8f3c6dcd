// Package supabase は Supabase の REST(PostgREST) / 認証(GoTrue)エンドポイントへの
// アダプタです。コアの capability インターフェースをすべてここで実装し、
// 転送・認証・復号の失敗を remote のエラー分類に変換してからコアへ渡します。
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/company/simpleattendance/core/remote"
	"github.com/company/simpleattendance/platform/config"
)

// TokenSource は呼び出しごとに付与するベアラートークンを提供します。
// 通常は session.Manager を渡します。
type TokenSource interface {
	Token() (string, error)
}

// (従業員, 日付) の一意制約に衝突したことを示す内部センチネルです。
// 各リポジトリがドメインのエラーへ変換します。
var errConflict = errors.New("supabase: conflict")

// Client は Supabase への HTTP 呼び出しを担います。
type Client struct {
	httpClient *http.Client
	restBase   string
	authBase   string
	apiKey     string
}

// NewClient は Client を生成します。
func NewClient(cfg config.SupabaseConfig) *Client {
	base := strings.TrimRight(cfg.URL, "/")
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		restBase:   base + "/rest/v1",
		authBase:   base + "/auth/v1",
		apiKey:     cfg.AnonKey,
	}
}

// doREST は PostgREST リソースを呼び出します。out が非 nil の場合は
// Prefer: return=representation を付与して応答を復号します。
func (c *Client) doREST(ctx context.Context, op, method, path string, query url.Values, body any, token string, out any) error {
	endpoint := c.restBase + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if out != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(op, req, out)
}

// doAuth は認証エンドポイントを呼び出します。資格情報の拒否(4xx)は AuthError になります。
func (c *Client) doAuth(ctx context.Context, op, path string, body, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, c.authBase+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return c.send(op, req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("supabase: encode request body: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}
	return req, nil
}

func (c *Client) send(op string, req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &remote.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &remote.TransportError{Op: op, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusBadRequest && strings.HasPrefix(req.URL.Path, "/auth/"):
		return &remote.AuthError{Op: op, Message: strings.TrimSpace(string(data))}
	case resp.StatusCode == http.StatusConflict:
		return errConflict
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &remote.TransportError{Op: op, Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &remote.DecodeError{Op: op, Err: err}
		}
	}
	return nil
}
