package external

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"aquareport/internal/mail"
	"aquareport/internal/types"
)

// gmailAPIBase is the default Gmail API base URL.
// Overridable in tests via GmailClientConfig.BaseURL.
const gmailAPIBase = "https://gmail.googleapis.com"

// gmailSendPath is the "send as authenticated user" endpoint. The special
// user ID "me" resolves to whoever owns the bearer token on the request.
const gmailSendPath = "/gmail/v1/users/me/messages/send"

// GmailClientConfig holds the configuration for creating a GmailClient.
type GmailClientConfig struct {
	BaseURL   string // Override for testing; defaults to gmailAPIBase
	UserAgent string
	Logger    *slog.Logger
}

// GmailClient implements MailRelay by making direct HTTP calls to the Gmail
// users.messages.send API through BaseClient. The client itself holds no
// credentials: every call is authenticated with the caller's own delegated
// OAuth2 access token, attached per request. This is the core trust decision
// of the service; it relays with credentials it does not mint or store.
type GmailClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

// NewGmailClient creates a new GmailClient. The httpClient timeout bounds the
// single provider attempt; there are no retries behind it.
func NewGmailClient(httpClient *http.Client, cfg GmailClientConfig) *GmailClient {
	base := NewBaseClient(httpClient, "gmail", cfg.UserAgent)
	return newGmailClient(base, cfg)
}

// NewGmailClientWithBase creates a GmailClient with a pre-configured
// BaseClient. This is useful for testing when you want to control the
// BaseClient configuration (e.g., share a breaker).
func NewGmailClientWithBase(base *BaseClient, cfg GmailClientConfig) *GmailClient {
	return newGmailClient(base, cfg)
}

func newGmailClient(base *BaseClient, cfg GmailClientConfig) *GmailClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = gmailAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GmailClient{
		base:    base,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// gmailSendRequest is the users.messages.send JSON request body. Raw carries
// the full RFC 822 message in URL-safe base64.
type gmailSendRequest struct {
	Raw string `json:"raw"`
}

// gmailSendResponse is the subset of the provider's acceptance response the
// service cares about.
type gmailSendResponse struct {
	ID string `json:"id"`
}

// googleErrorResponse is the standard Google API error envelope.
type googleErrorResponse struct {
	Error googleErrorDetail `json:"error"`
}

type googleErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Send submits the composed message to the Gmail API as the token's owner and
// returns the provider-assigned message ID. Exactly one attempt is made; the
// call is awaited to completion.
//
// Any provider rejection is returned as a *types.RelayError carrying the HTTP
// status and the provider's message text, unmodified; classification happens
// upstream. The access token is never logged; only its length and fingerprint
// appear in diagnostics.
func (g *GmailClient) Send(ctx context.Context, msg mail.ComposedMessage, accessToken types.SecretString) (string, error) {
	body, err := json.Marshal(gmailSendRequest{Raw: msg.Raw})
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternal,
			"failed to marshal Gmail send payload",
			err,
		)
	}

	reqURL := g.baseURL + gmailSendPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternal,
			"failed to create Gmail send request",
			err,
		)
	}

	req.Header.Set("Content-Type", "application/json")

	// The caller's delegated credential, attached per call. The shared HTTP
	// client and breaker never see it outside this request.
	token := &oauth2.Token{AccessToken: accessToken.Unmask(), TokenType: "Bearer"}
	token.SetAuthHeader(req)

	g.logger.InfoContext(ctx, "gmail send starting",
		slog.String("from", mail.RedactEmail(msg.From)),
		slog.String("to", mail.RedactEmail(msg.To)),
		slog.Int("token_length", accessToken.Len()),
		slog.String("token_fingerprint", accessToken.Fingerprint()),
	)

	resp, err := g.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var accepted gmailSendResponse
		if decErr := json.NewDecoder(resp.Body).Decode(&accepted); decErr != nil || accepted.ID == "" {
			return "", &types.RelayError{
				StatusCode: resp.StatusCode,
				Message:    "provider acceptance response missing message id",
				Err:        decErr,
			}
		}

		g.logger.InfoContext(ctx, "gmail send accepted",
			slog.String("message_id", accepted.ID),
			slog.String("to", mail.RedactEmail(msg.To)),
		)
		return accepted.ID, nil
	}

	return "", g.relayError(resp)
}

// relayError reads a Gmail error response into the raw failure shape the
// classifier consumes. The provider's message text is preserved verbatim so
// message-level signals (e.g. quota exhaustion) survive the trip.
func (g *GmailClient) relayError(resp *http.Response) *types.RelayError {
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &types.RelayError{
			StatusCode: resp.StatusCode,
			Message:    "provider error body was unreadable",
			Err:        readErr,
		}
	}

	var gerr googleErrorResponse
	message := strings.TrimSpace(string(body))
	if jsonErr := json.Unmarshal(body, &gerr); jsonErr == nil && gerr.Error.Message != "" {
		message = gerr.Error.Message
	}

	return &types.RelayError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// Compile-time assertion that GmailClient satisfies MailRelay.
var _ MailRelay = (*GmailClient)(nil)
