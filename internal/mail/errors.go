package mail

import (
	"errors"
	"net/http"
	"strings"

	"aquareport/internal/types"
)

// Localized client-facing messages for classified transport failures. These
// match the wording the mobile app has shipped with since the first release.
const (
	msgAuthFailed       = "認証が必要です。Gmail APIの認証に失敗しました。"
	msgSendScopeDenied  = "Gmail送信権限がありません。認証時にGmail送信権限を許可してください。"
	msgQuotaExceeded    = "送信制限に達しました。しばらく時間をおいてから再試行してください。"
	msgSendFailedPrefix = "メール送信に失敗しました: "
)

// quotaToken is the case-sensitive substring that marks quota exhaustion in
// provider error text when no usable status code is present.
const quotaToken = "quota"

// Classify maps a raw dispatch failure onto exactly one of the five outward
// error kinds. The mapping is deterministic and total: every error reaches
// exactly one kind, never an unclassified escape.
//
// Precedence: an explicit status code wins over message-text heuristics.
//
//	401                      -> unauthenticated
//	403                      -> permission_denied
//	429                      -> resource_exhausted
//	message contains "quota" -> resource_exhausted
//	anything else            -> internal (provider message kept for diagnostics)
//
// Errors that are already AppErrors (validation, identity, local relay
// failures) pass through unchanged. The returned error never carries the
// access token or any other secret.
func Classify(err error) *types.AppError {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var relayErr *types.RelayError
	if errors.As(err, &relayErr) {
		switch relayErr.StatusCode {
		case http.StatusUnauthorized:
			return types.NewAppError(types.ErrCodeUnauthenticated, msgAuthFailed, err)
		case http.StatusForbidden:
			return types.NewAppError(types.ErrCodePermissionDenied, msgSendScopeDenied, err)
		case http.StatusTooManyRequests:
			return types.NewAppError(types.ErrCodeResourceExhausted, msgQuotaExceeded, err)
		}
		if strings.Contains(relayErr.Message, quotaToken) {
			return types.NewAppError(types.ErrCodeResourceExhausted, msgQuotaExceeded, err)
		}
		return types.NewAppError(types.ErrCodeInternal, msgSendFailedPrefix+relayErr.Message, err)
	}

	// Unknown error shape. Keep the text for server-side diagnostics but
	// still check it for the quota signal.
	if strings.Contains(err.Error(), quotaToken) {
		return types.NewAppError(types.ErrCodeResourceExhausted, msgQuotaExceeded, err)
	}
	return types.NewAppError(types.ErrCodeInternal, msgSendFailedPrefix+err.Error(), err)
}
