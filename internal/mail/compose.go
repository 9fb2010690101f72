// Package mail implements the message side of the dispatch flow: deterministic
// composition of the water-quality report email (headers, body, wire encoding)
// and classification of transport failures onto the service's closed error
// taxonomy. Nothing in this package performs I/O.
package mail

import (
	"encoding/base64"
	"mime"
	"strings"

	"aquareport/internal/types"
)

const (
	// defaultSubject is the fixed report title used when the client supplies
	// no subject of its own.
	defaultSubject = "毎日検査報告"

	// debugSubjectPrefix marks test sends in the subject line regardless of
	// which subject source was used.
	debugSubjectPrefix = "[テスト送信] "

	// defaultLocation is the placeholder sampling point used when the client
	// omits locationNumber.
	defaultLocation = "01"

	// debugBodyNote is appended as the final body line of test sends.
	debugBodyNote = "※ これはテスト送信です ※"
)

// Body line labels, in the fixed order the report is written.
const (
	labelLocation = "地点: "
	labelDate     = "月日: "
	labelTime     = "測定時刻: "
	labelChlorine = "残留塩素: "
)

// crlf is the line-ending convention mandated by the RFC 822 wire format.
const crlf = "\r\n"

// ComposedMessage is the fully assembled report email. It is created fresh per
// request, handed to the transport, and discarded; nothing retains it beyond
// the invocation.
type ComposedMessage struct {
	From    string
	To      string
	Subject string // encoded-word form when the subject contains non-ASCII text
	Body    string

	// Raw is the serialized RFC 822 message in the provider's envelope
	// encoding (URL-safe base64, no padding), ready for submission.
	Raw string
}

// ComposeReport builds the report email from a validated request and the
// caller's verified identity. It is a pure function of its inputs: composing
// twice from identical inputs yields byte-identical output.
//
// The caller's email becomes the From address; the request never controls it.
func ComposeReport(req types.ReportRequest, caller types.Caller) ComposedMessage {
	location := req.LocationNumber
	if location == "" {
		location = defaultLocation
	}

	subject := req.EmailSubject
	if subject == "" {
		subject = defaultSubject
	}
	if req.DebugMode {
		subject = debugSubjectPrefix + subject
	}

	var body strings.Builder
	body.WriteString(labelLocation + location + crlf)
	body.WriteString(labelDate + req.MonthDay + crlf)
	body.WriteString(labelTime + req.Time + crlf)
	body.WriteString(labelChlorine + req.Chlorine + crlf)
	if req.DebugMode {
		body.WriteString(crlf + debugBodyNote + crlf)
	}

	msg := ComposedMessage{
		From:    sanitizeHeader(caller.Email),
		To:      sanitizeHeader(req.RecipientEmail),
		Subject: encodeSubject(sanitizeHeader(subject)),
		Body:    body.String(),
	}
	msg.Raw = base64.RawURLEncoding.EncodeToString(serialize(msg))
	return msg
}

// serialize renders the message as an RFC 822 header block followed by a blank
// line and the body, CRLF throughout.
func serialize(msg ComposedMessage) []byte {
	var b strings.Builder
	b.WriteString("From: " + msg.From + crlf)
	b.WriteString("To: " + msg.To + crlf)
	b.WriteString("Subject: " + msg.Subject + crlf)
	b.WriteString("Content-Type: text/plain; charset=utf-8" + crlf)
	b.WriteString(crlf)
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// encodeSubject applies RFC 2047 encoded-word form (UTF-8, base64) to subjects
// containing non-ASCII text. ASCII-only subjects pass through unencoded;
// mime.WordEncoder makes that call for us.
func encodeSubject(subject string) string {
	return mime.BEncoding.Encode("UTF-8", subject)
}

// sanitizeHeader strips CR, LF, and other control characters from a value
// destined for a header line. RFC 5322 headers are newline-delimited, so any
// newline in a value would let a client inject arbitrary headers or body
// content.
func sanitizeHeader(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
