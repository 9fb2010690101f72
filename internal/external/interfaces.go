package external

import (
	"context"

	"aquareport/internal/mail"
	"aquareport/internal/types"
)

// MailRelay abstracts the mail-transfer provider's "send as authenticated
// user" endpoint. Implementations submit the composed message authenticated
// with the caller's own delegated token and return the provider-assigned
// message ID on acceptance.
//
// Failures surface raw (as *types.RelayError where a provider response
// exists); the error classifier owns the user-facing semantics.
type MailRelay interface {
	Send(ctx context.Context, msg mail.ComposedMessage, accessToken types.SecretString) (string, error)
}
