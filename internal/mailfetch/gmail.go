package mailfetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/frknlke/eluvium-backend/internal/models"
)

const (
	gmailUser = "me"
	// Messages newer than this Gmail search window are fetched per batch
	gmailRecencyQuery = "newer_than:1h"
)

// gmailFetcher retrieves raw messages via the Gmail API using the
// mailbox's stored refresh token.
type gmailFetcher struct {
	srv    *gmail.Service
	logger *slog.Logger
}

func newGmailFetcher(ctx context.Context, mailbox *models.Mailbox, cfg Config) (*gmailFetcher, error) {
	if mailbox.RefreshToken == "" {
		return nil, fmt.Errorf("mailbox %s has no refresh token", mailbox.EmailAddress)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailReadonlyScope},
	}

	token := &oauth2.Token{
		AccessToken:  mailbox.AccessToken,
		RefreshToken: mailbox.RefreshToken,
	}
	if mailbox.TokenExpiry != nil {
		token.Expiry = *mailbox.TokenExpiry
	}

	srv, err := gmail.NewService(ctx, option.WithTokenSource(oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &gmailFetcher{srv: srv, logger: logger}, nil
}

// FetchRecent lists messages from the last hour and downloads each in raw
// RFC822 form. A message that fails to download or decode is logged and
// skipped; the rest of the batch still goes through.
func (f *gmailFetcher) FetchRecent(ctx context.Context) ([]RawMessage, error) {
	listResp, err := f.srv.Users.Messages.List(gmailUser).Q(gmailRecencyQuery).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]RawMessage, 0, len(listResp.Messages))
	for _, ref := range listResp.Messages {
		msg, err := f.srv.Users.Messages.Get(gmailUser, ref.Id).Format("raw").Context(ctx).Do()
		if err != nil {
			f.logger.Warn("failed to get message, skipping",
				slog.String("message_id", ref.Id),
				slog.Any("error", err))
			continue
		}

		data, err := decodeRaw(msg.Raw)
		if err != nil {
			f.logger.Warn("failed to decode message, skipping",
				slog.String("message_id", ref.Id),
				slog.Any("error", err))
			continue
		}

		messages = append(messages, RawMessage{
			Data:      data,
			MessageID: msg.Id,
			ThreadID:  msg.ThreadId,
		})
	}
	return messages, nil
}

// decodeRaw decodes a Gmail raw payload. Gmail sometimes omits base64
// padding, so the unpadded alphabet is tried as a fallback.
func decodeRaw(raw string) ([]byte, error) {
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return base64.RawURLEncoding.DecodeString(raw)
	}
	return data, nil
}
