package preprocess

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
)

// NormalizedEmail holds the decoded headers and the single plain-text body
// extracted from one raw RFC822 message. Values are never mutated after
// Normalize returns.
type NormalizedEmail struct {
	Subject             string
	Sender              string
	SenderVerifiedEmail string
	Recipients          []string
	Date                string
	Body                string
	Headers             map[string]string
	// Degraded is set when the raw message could not be parsed and the
	// body carries the raw text verbatim.
	Degraded bool
}

// Context returns the text unit fed to entity extraction: subject, a
// newline, then the body.
func (n NormalizedEmail) Context() string {
	return n.Subject + " \n" + n.Body
}

// spfPattern matches the verified originating address in SPF or
// Authentication-Results headers. First match in the raw message wins.
var spfPattern = regexp.MustCompile(`smtp\.mailfrom=([^\s;>]+)`)

// Normalize parses one raw RFC822 message into decoded headers and a single
// plain-text body. Parse failure is never fatal: the result degrades to
// empty headers with the raw message placed verbatim into Body.
func Normalize(raw []byte) NormalizedEmail {
	verified := extractVerifiedSender(raw)

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return NormalizedEmail{
			Body:                string(raw),
			SenderVerifiedEmail: verified,
			Degraded:            true,
		}
	}

	return NormalizedEmail{
		Subject:             env.GetHeader("Subject"),
		Sender:              env.GetHeader("From"),
		SenderVerifiedEmail: verified,
		Recipients:          extractRecipients(env),
		Date:                env.GetHeader("Date"),
		Body:                extractBody(env),
		Headers:             collectHeaders(env),
	}
}

// extractVerifiedSender scans the raw message for an SPF smtp.mailfrom
// field. Absence yields an empty string, not an error.
func extractVerifiedSender(raw []byte) string {
	if m := spfPattern.FindSubmatch(raw); m != nil {
		return string(m[1])
	}
	return ""
}

// extractRecipients returns the To addresses in header order. When the
// header cannot be parsed as an address list the raw value is kept as a
// single entry.
func extractRecipients(env *enmime.Envelope) []string {
	to := env.GetHeader("To")
	if to == "" {
		return nil
	}

	addrs, err := env.AddressList("To")
	if err != nil || len(addrs) == 0 {
		return []string{to}
	}

	recipients := make([]string, 0, len(addrs))
	for _, a := range addrs {
		recipients = append(recipients, a.Address)
	}
	return recipients
}

// extractBody returns the message body as plain text. enmime accumulates
// text/plain parts (skipping attachments and decoding per-part charsets
// with lossy fallback); the HTML alternative is used only when no
// plain-text content exists.
func extractBody(env *enmime.Envelope) string {
	if env.Text != "" {
		return env.Text
	}
	if env.HTML != "" {
		return stripHTMLTags(env.HTML)
	}
	return ""
}

// collectHeaders snapshots the decoded header set for the bookkeeping
// column.
func collectHeaders(env *enmime.Envelope) map[string]string {
	keys := env.GetHeaderKeys()
	headers := make(map[string]string, len(keys))
	for _, k := range keys {
		headers[k] = env.GetHeader(k)
	}
	return headers
}

// stripHTMLTags removes HTML markup from a string, keeping text content only
func stripHTMLTags(html string) string {
	// Remove script and style elements
	re := regexp.MustCompile(`(?i)<(script|style)[^>]*>[\s\S]*?</(script|style)>`)
	html = re.ReplaceAllString(html, "")

	// Remove HTML tags
	re = regexp.MustCompile(`<[^>]*>`)
	html = re.ReplaceAllString(html, " ")

	// Decode common HTML entities
	html = strings.ReplaceAll(html, "&nbsp;", " ")
	html = strings.ReplaceAll(html, "&amp;", "&")
	html = strings.ReplaceAll(html, "&lt;", "<")
	html = strings.ReplaceAll(html, "&gt;", ">")
	html = strings.ReplaceAll(html, "&quot;", `"`)
	html = strings.ReplaceAll(html, "&#39;", "'")

	return html
}
