// Package handlers implements the HTTP handlers for the dispatch API's domain
// routes. Handlers depend on narrow, locally defined interfaces so tests can
// substitute fakes without touching the real provider clients.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aquareport/internal/core"
	"aquareport/internal/mail"
	"aquareport/internal/types"
)

// Localized client-facing messages owned by the dispatch handler.
const (
	msgLoginRequired = "この機能を使用するにはログインが必要です"
	msgSenderNoEmail = "送信者のメールアドレスを取得できませんでした"
	msgDispatchOff   = "メール送信機能は現在利用できません"
	msgDispatchOK    = "メールが正常に送信されました"
)

// mailRelay is the handler-local view of the mail transport. It matches
// external.MailRelay; redeclaring it here keeps the handler package decoupled
// from the provider client package.
type mailRelay interface {
	Send(ctx context.Context, msg mail.ComposedMessage, accessToken types.SecretString) (string, error)
}

// ReportHandler handles water-quality report dispatch requests.
type ReportHandler struct {
	relay           mailRelay
	validator       *core.Validator
	logger          *slog.Logger
	dispatchEnabled bool
}

// NewReportHandler creates a ReportHandler. dispatchEnabled is the emergency
// kill switch; when false every dispatch request is refused before any
// provider contact.
func NewReportHandler(relay mailRelay, validator *core.Validator, logger *slog.Logger, dispatchEnabled bool) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		relay:           relay,
		validator:       validator,
		logger:          logger,
		dispatchEnabled: dispatchEnabled,
	}
}

// RegisterRoutes mounts the report routes on the given router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reports/dispatch", h.HandleDispatch)
}

// HandleDispatch processes one report dispatch request end to end: identity,
// payload validation, message composition, and a single provider submission.
// Identity is established before the payload is even read; an anonymous caller
// never gets field-level validation feedback. Exactly one response is written
// per invocation.
func (h *ReportHandler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, ok := types.GetCaller(ctx)
	if !ok {
		core.Error(w, r, types.NewAppError(types.ErrCodeUnauthenticated, msgLoginRequired, nil))
		return
	}
	if caller.Email == "" {
		core.Error(w, r, types.NewAppError(types.ErrCodeUnauthenticated, msgSenderNoEmail, nil))
		return
	}

	var req types.ReportRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}

	if appErr := h.validator.ValidateStruct(req); appErr != nil {
		core.Error(w, r, appErr)
		return
	}

	if !h.dispatchEnabled {
		h.logger.WarnContext(ctx, "dispatch refused, feature disabled",
			slog.String("uid", caller.UID),
		)
		core.Error(w, r, types.NewAppError(types.ErrCodeInternal, msgDispatchOff, nil))
		return
	}

	msg := mail.ComposeReport(req, caller)

	h.logger.InfoContext(ctx, "report dispatch starting",
		slog.String("uid", caller.UID),
		slog.String("from", mail.RedactEmail(msg.From)),
		slog.String("to", mail.RedactEmail(msg.To)),
		slog.Bool("debug_mode", req.DebugMode),
		slog.Int("token_length", req.AccessToken.Len()),
		slog.String("token_fingerprint", req.AccessToken.Fingerprint()),
	)

	messageID, err := h.relay.Send(ctx, msg, req.AccessToken)
	if err != nil {
		appErr := mail.Classify(err)
		h.logger.ErrorContext(ctx, "report dispatch failed",
			slog.String("uid", caller.UID),
			slog.String("code", string(appErr.Code)),
			slog.String("error", appErr.Error()),
		)
		core.Error(w, r, appErr)
		return
	}

	h.logger.InfoContext(ctx, "report dispatch succeeded",
		slog.String("uid", caller.UID),
		slog.String("message_id", messageID),
	)

	core.JSON(w, r, http.StatusOK, types.DispatchResult{
		Status:    "success",
		Message:   msgDispatchOK,
		MessageID: messageID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
