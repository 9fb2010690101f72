package core

import (
	"context"

	"aquareport/internal/types"
)

// mockVerifier implements IdentityVerifier for middleware tests. The zero
// value rejects every token; set Caller to accept.
type mockVerifier struct {
	Caller *types.Caller
	Err    error

	// LastToken records the token the middleware handed over.
	LastToken string
	Calls     int
}

func (m *mockVerifier) Verify(_ context.Context, idToken string) (*types.Caller, error) {
	m.Calls++
	m.LastToken = idToken

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Caller == nil {
		return nil, types.NewAppError(types.ErrCodeUnauthenticated, "この機能を使用するにはログインが必要です", nil)
	}
	return m.Caller, nil
}
