package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aquareport/internal/types"
)

func TestJSON_WritesStatusAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	JSON(rec, req, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got %q", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestError_AppErrorMapsStatus(t *testing.T) {
	tests := []struct {
		name       string
		code       types.ErrorCode
		wantStatus int
	}{
		{"unauthenticated is 401", types.ErrCodeUnauthenticated, http.StatusUnauthorized},
		{"invalid_argument is 400", types.ErrCodeInvalidArgument, http.StatusBadRequest},
		{"permission_denied is 403", types.ErrCodePermissionDenied, http.StatusForbidden},
		{"resource_exhausted is 429", types.ErrCodeResourceExhausted, http.StatusTooManyRequests},
		{"internal is 500", types.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(types.WithRequestID(req.Context(), "req-1"))

			Error(rec, req, types.NewAppError(tt.code, "boom", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp APIErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Error.Code != string(tt.code) {
				t.Errorf("expected code %q, got %q", tt.code, resp.Error.Code)
			}
			if resp.Error.Message != "boom" {
				t.Errorf("expected message 'boom', got %q", resp.Error.Message)
			}
			if resp.Error.RequestID != "req-1" {
				t.Errorf("expected request_id 'req-1', got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestError_GenericErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	Error(rec, req, errors.New("pq: connection refused on 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	var resp APIErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error.Code != string(types.ErrCodeInternal) {
		t.Errorf("expected code 'internal', got %q", resp.Error.Code)
	}
	if strings.Contains(resp.Error.Message, "10.0.0.5") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestError_WrappedAppErrorUnwraps(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)

	inner := types.NewAppError(types.ErrCodePermissionDenied, "denied", nil)
	Error(rec, req, errors.Join(errors.New("context"), inner))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

type decodeTarget struct {
	Name string `json:"name"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid object", `{"name":"test"}`, false},
		{"malformed JSON", `{"name":`, true},
		{"unknown field", `{"name":"test","extra":1}`, true},
		{"empty body", ``, true},
		{"two JSON values", `{"name":"a"}{"name":"b"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst decodeTarget
			err := DecodeJSON(rec, req, &dst)

			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if err != nil {
				var appErr *types.AppError
				if !errors.As(err, &appErr) {
					t.Fatalf("expected *types.AppError, got %T", err)
				}
				if appErr.Code != types.ErrCodeInvalidArgument {
					t.Errorf("expected code 'invalid_argument', got %q", appErr.Code)
				}
			}
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	big := `{"name":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	rec := httptest.NewRecorder()

	var dst decodeTarget
	err := DecodeJSON(rec, req, &dst)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *types.AppError, got %T", err)
	}
	if appErr.Code != types.ErrCodeInvalidArgument {
		t.Errorf("expected code 'invalid_argument', got %q", appErr.Code)
	}
}
