// Package auth resolves the caller identity attached to each dispatch
// request. The hosting platform issues short-lived HS256 ID tokens to signed-in
// app users; this package only ever verifies them, it never mints tokens.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"

	"aquareport/internal/types"
)

// msgLoginRequired is the localized message returned for every identity
// failure. The exact reason stays in server logs; clients only learn that a
// signed-in session is required.
const msgLoginRequired = "この機能を使用するにはログインが必要です"

// IDTokenClaims are the claims carried by a caller ID token. Email is the
// verified address the dispatch uses as the mail From; it may legitimately be
// absent for accounts provisioned without one, which the handler rejects
// separately.
type IDTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier validates caller ID tokens against the platform signing key and
// produces the verified Caller identity. It is safe for concurrent use.
type Verifier struct {
	key    []byte
	issuer string
	logger *slog.Logger
}

// NewVerifier creates a Verifier for the given signing key and expected
// issuer. An empty issuer disables the issuer check.
func NewVerifier(signingKey types.SecretString, issuer string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		key:    []byte(signingKey.Unmask()),
		issuer: issuer,
		logger: logger,
	}
}

// Verify parses and validates the ID token and returns the caller it
// identifies. Every failure maps to unauthenticated; expiry, bad signatures,
// and malformed tokens are distinguished only in logs.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*types.Caller, error) {
	if idToken == "" {
		return nil, types.NewAppError(types.ErrCodeUnauthenticated, msgLoginRequired, nil)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &IDTokenClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (any, error) {
		return v.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			v.logger.WarnContext(ctx, "caller ID token expired")
		} else {
			v.logger.WarnContext(ctx, "caller ID token rejected", slog.String("error", err.Error()))
		}
		return nil, types.NewAppError(types.ErrCodeUnauthenticated, msgLoginRequired, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, types.NewAppError(types.ErrCodeUnauthenticated, msgLoginRequired, nil)
	}

	return &types.Caller{
		UID:   claims.Subject,
		Email: claims.Email,
	}, nil
}
