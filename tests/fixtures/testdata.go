package fixtures

import (
	"fmt"
	"strings"
	"time"

	"github.com/frknlke/eluvium-backend/internal/extract"
	"github.com/frknlke/eluvium-backend/internal/models"
)

// MailboxBuilder creates test Mailbox instances with fluent API
type MailboxBuilder struct {
	mailbox models.Mailbox
}

// NewMailboxBuilder creates a new MailboxBuilder with sensible defaults
func NewMailboxBuilder() *MailboxBuilder {
	return &MailboxBuilder{
		mailbox: models.Mailbox{
			CompanyID:    "11111111-1111-1111-1111-111111111111",
			EmailAddress: "sales@vendor.com",
			Provider:     models.ProviderGmail,
			SyncMethod:   models.SyncMethodAPI,
			SyncStatus:   models.SyncStatusIdle,
		},
	}
}

// WithID sets the mailbox ID
func (b *MailboxBuilder) WithID(id string) *MailboxBuilder {
	b.mailbox.ID = id
	return b
}

// WithAddress sets the email address
func (b *MailboxBuilder) WithAddress(address string) *MailboxBuilder {
	b.mailbox.EmailAddress = address
	return b
}

// WithProvider sets the provider
func (b *MailboxBuilder) WithProvider(p models.Provider) *MailboxBuilder {
	b.mailbox.Provider = p
	return b
}

// WithSyncMethod sets the sync method
func (b *MailboxBuilder) WithSyncMethod(m models.SyncMethod) *MailboxBuilder {
	b.mailbox.SyncMethod = m
	return b
}

// Build returns the constructed Mailbox
func (b *MailboxBuilder) Build() *models.Mailbox {
	return &b.mailbox
}

// EmailBuilder creates test Email instances with fluent API
type EmailBuilder struct {
	email models.Email
}

// NewEmailBuilder creates a new EmailBuilder with sensible defaults
func NewEmailBuilder() *EmailBuilder {
	return &EmailBuilder{
		email: models.Email{
			Subject:              "Purchase order 1042",
			Body:                 "Please ship 5 units of model X200 to our warehouse.",
			Sender:               "buyer@acme.com",
			Recipients:           []string{"sales@vendor.com"},
			MessageID:            "msg-1042",
			Intent:               string(extract.IntentPlaceOrder),
			CustomerOrganization: "Acme Corp",
			People:               []string{"John Smith"},
			ProcessingStatus:     models.ProcessingStatusProcessed,
			ConfidenceScore:      1.0,
		},
	}
}

// WithMailboxID sets the owning mailbox
func (b *EmailBuilder) WithMailboxID(id string) *EmailBuilder {
	b.email.MailboxID = id
	return b
}

// WithMessageID sets the provider message id
func (b *EmailBuilder) WithMessageID(id string) *EmailBuilder {
	b.email.MessageID = id
	return b
}

// WithSubject sets the subject
func (b *EmailBuilder) WithSubject(subject string) *EmailBuilder {
	b.email.Subject = subject
	return b
}

// WithIntent sets the extracted intent
func (b *EmailBuilder) WithIntent(intent extract.Intent) *EmailBuilder {
	b.email.Intent = string(intent)
	return b
}

// Build returns the constructed Email
func (b *EmailBuilder) Build() *models.Email {
	return &b.email
}

// SampleSalesOrder returns a fully populated extraction result
func SampleSalesOrder() *extract.SalesOrder {
	qty := 5.0
	return &extract.SalesOrder{
		Intent:               extract.IntentPlaceOrder,
		CustomerOrganization: "Acme Corp",
		ProducerOrganization: "Vendor GmbH",
		People:               []string{"John Smith"},
		DateTime:             "2026-03-01T10:00:00",
		Products: []extract.Product{
			{ProductName: "X200", Model: "X200-B", Quantity: &qty},
		},
		MonetaryValues: []string{"1200 EUR"},
		Addresses:      []string{"12 Dock Road, Hamburg"},
		PhoneNumbers:   []string{"+49 40 1234567"},
		EmailAddresses: []string{"buyer@acme.com"},
	}
}

// RawOrderEmail builds a plain-text RFC 822 message the way a provider or
// SMTP peer would deliver it. CRLF line endings throughout.
func RawOrderEmail(from, to, subject, messageID, body string) []byte {
	lines := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Message-ID: <%s>", messageID),
		fmt.Sprintf("Date: %s", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC).Format(time.RFC1123Z)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}
	return []byte(strings.Join(lines, "\r\n"))
}

// RawHTMLEmail builds a multipart/alternative message with both plain and
// HTML bodies.
func RawHTMLEmail(from, to, subject, messageID, text, html string) []byte {
	boundary := "b0undary42"
	lines := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Message-ID: <%s>", messageID),
		"MIME-Version: 1.0",
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q", boundary),
		"",
		fmt.Sprintf("--%s", boundary),
		"Content-Type: text/plain; charset=utf-8",
		"",
		text,
		fmt.Sprintf("--%s", boundary),
		"Content-Type: text/html; charset=utf-8",
		"",
		html,
		fmt.Sprintf("--%s--", boundary),
		"",
	}
	return []byte(strings.Join(lines, "\r\n"))
}
