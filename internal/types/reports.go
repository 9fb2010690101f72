package types

// ReportRequest is the inbound payload for a water-quality report dispatch.
// Field names follow the mobile client's callable contract. The struct is
// immutable for the duration of the call; the location and subject defaults
// are applied by the message composer, not here.
//
// The access token is the caller's own short-lived Gmail credential. It is
// held as a SecretString so neither logs nor serialized responses can ever
// carry its value.
type ReportRequest struct {
	MonthDay       string       `json:"monthDay" validate:"required"`
	Time           string       `json:"time" validate:"required"`
	Chlorine       string       `json:"chlorine" validate:"required"`
	LocationNumber string       `json:"locationNumber"`
	RecipientEmail string       `json:"recipientEmail" validate:"required"`
	EmailSubject   string       `json:"emailSubject"`
	DebugMode      bool         `json:"debugMode"`
	AccessToken    SecretString `json:"accessToken" validate:"required"`
}

// DispatchResult is the success response of the dispatch endpoint. Exactly one
// DispatchResult or one error envelope is produced per invocation.
type DispatchResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
	Timestamp string `json:"timestamp"`
}
