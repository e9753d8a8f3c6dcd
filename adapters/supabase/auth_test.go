package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/company/simpleattendance/core/remote"
)

func TestAuthenticator_Login(t *testing.T) {
	t.Parallel()

	var gotBody map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"access_token":"token-1","user":{"id":"user-1","email":"a@example.com"}}`))
	}))

	cred, err := NewAuthenticator(client).Login(context.Background(), "a@example.com", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if gotBody["email"] != "a@example.com" || gotBody["password"] != "secret" {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
	if cred.AccessToken != "token-1" || cred.UserID != "user-1" || cred.Email != "a@example.com" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
}

func TestAuthenticator_Login_RejectedCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, http.StatusBadRequest)
	}))

	_, err := NewAuthenticator(client).Login(context.Background(), "a@example.com", "wrong")
	if !remote.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestAuthenticator_Login_MissingFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"","user":{"id":""}}`))
	}))

	_, err := NewAuthenticator(client).Login(context.Background(), "a@example.com", "secret")
	if !remote.IsDecode(err) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
