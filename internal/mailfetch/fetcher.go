// Package mailfetch provides provider-specific mailbox clients that return
// raw RFC822 messages for the processing pipeline.
package mailfetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frknlke/eluvium-backend/internal/models"
)

// ErrUnsupportedProvider signals a mailbox provider with no client
// implementation. Selection fails fast instead of returning empty batches
// silently.
var ErrUnsupportedProvider = errors.New("unsupported email provider")

// RawMessage is one message as fetched from the provider. Data is the full
// RFC822 byte sequence; it is owned by the fetch step and never persisted.
type RawMessage struct {
	Data      []byte
	MessageID string
	ThreadID  string
}

// Fetcher retrieves recent raw messages from one mailbox. The recency
// window (e.g. last hour) is owned by the implementation.
type Fetcher interface {
	FetchRecent(ctx context.Context) ([]RawMessage, error)
}

// Config carries the provider app credentials shared by all mailboxes.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	Logger             *slog.Logger
}

// NewFetcher selects the client implementation for the mailbox's provider.
func NewFetcher(ctx context.Context, mailbox *models.Mailbox, cfg Config) (Fetcher, error) {
	switch mailbox.Provider {
	case models.ProviderGmail:
		return newGmailFetcher(ctx, mailbox, cfg)
	case models.ProviderOutlook, models.ProviderIMAP, models.ProviderAWSSES:
		return nil, fmt.Errorf("%w: %s client not implemented", ErrUnsupportedProvider, mailbox.Provider)
	case models.ProviderSMTP:
		// SMTP mailboxes are push-fed by the SMTP receiver; there is
		// nothing to pull.
		return nil, fmt.Errorf("%w: smtp mailboxes receive messages via the SMTP listener", ErrUnsupportedProvider)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, mailbox.Provider)
	}
}
