package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired は署名検証なしで JWT の exp クレームを読み、失効済みかを判定します。
// 署名検証はサーバー側の責務であり、ここでは失効済みトークンでの無駄な呼び出しを
// 避けるための事前判定のみ行います。exp を読めないトークンは失効扱いにしません。
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.Before(now)
}
