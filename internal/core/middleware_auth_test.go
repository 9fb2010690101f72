package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aquareport/internal/types"
)

func TestAuthMiddleware_ValidToken_InjectsCaller(t *testing.T) {
	srv := newTestServer(t)
	srv.Verifier = &mockVerifier{
		Caller: &types.Caller{UID: "uid-123", Email: "inspector@example.com"},
	}

	var capturedCaller types.Caller
	var callerFound bool
	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedCaller, callerFound = types.GetCaller(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/dispatch", nil)
	req.Header.Set("Authorization", "Bearer valid-id-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if !callerFound {
		t.Fatal("expected caller in context")
	}
	if capturedCaller.UID != "uid-123" {
		t.Errorf("caller UID: got %q, want %q", capturedCaller.UID, "uid-123")
	}
	if capturedCaller.Email != "inspector@example.com" {
		t.Errorf("caller Email: got %q, want %q", capturedCaller.Email, "inspector@example.com")
	}
}

func TestAuthMiddleware_PassesBearerTokenToVerifier(t *testing.T) {
	srv := newTestServer(t)
	verifier := &mockVerifier{Caller: &types.Caller{UID: "uid-1"}}
	srv.Verifier = verifier

	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/dispatch", nil)
	req.Header.Set("Authorization", "Bearer the-id-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if verifier.Calls != 1 {
		t.Fatalf("expected 1 verifier call, got %d", verifier.Calls)
	}
	if verifier.LastToken != "the-id-token" {
		t.Errorf("token passed to verifier: got %q, want %q", verifier.LastToken, "the-id-token")
	}
}

func TestAuthMiddleware_MissingToken_Returns401(t *testing.T) {
	srv := newTestServer(t)
	srv.Verifier = &mockVerifier{}

	nextCalled := false
	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/dispatch", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if nextCalled {
		t.Error("next handler should NOT be called without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}

	var resp APIErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeUnauthenticated) {
		t.Errorf("expected error code %q, got %q", types.ErrCodeUnauthenticated, resp.Error.Code)
	}
	if resp.Error.Message != "この機能を使用するにはログインが必要です" {
		t.Errorf("unexpected error message: %q", resp.Error.Message)
	}
}

func TestAuthMiddleware_NonBearerScheme_Returns401(t *testing.T) {
	srv := newTestServer(t)
	verifier := &mockVerifier{Caller: &types.Caller{UID: "uid-1"}}
	srv.Verifier = verifier

	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/dispatch", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	// The verifier sees an empty token and decides.
	if verifier.LastToken != "" {
		t.Errorf("expected empty token for non-Bearer scheme, got %q", verifier.LastToken)
	}
}

func TestAuthMiddleware_PublicPathSkipsAuth(t *testing.T) {
	srv := newTestServer(t)
	verifier := &mockVerifier{}
	srv.Verifier = verifier

	nextCalled := false
	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !nextCalled {
		t.Error("health endpoint should bypass authentication")
	}
	if verifier.Calls != 0 {
		t.Errorf("verifier should not be consulted for public paths, got %d calls", verifier.Calls)
	}
}

func TestAuthMiddleware_NilVerifierPassesThrough(t *testing.T) {
	srv := newTestServer(t)
	srv.Verifier = nil

	nextCalled := false
	handler := srv.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/reports/dispatch", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !nextCalled {
		t.Error("nil verifier should disable authentication")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"standard bearer", "Bearer abc123", "abc123"},
		{"lowercase scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"other scheme", "Basic abc123", ""},
		{"bearer with surrounding space", "Bearer   abc123  ", "abc123"},
		{"scheme only", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
