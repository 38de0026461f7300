package smtp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-smtp"

	"github.com/frknlke/eluvium-backend/internal/mailfetch"
	"github.com/frknlke/eluvium-backend/internal/pipeline"
	"github.com/frknlke/eluvium-backend/internal/repository"
)

// Session implements the go-smtp Session interface
type Session struct {
	backend    *Backend
	from       string
	recipients []string
}

// NewSession creates a new SMTP session
func NewSession(backend *Backend) *Session {
	return &Session{
		backend:    backend,
		recipients: make([]string, 0),
	}
}

// AuthPlain handles PLAIN authentication (not required for receiving)
func (s *Session) AuthPlain(username, password string) error {
	// No authentication required for receiving emails
	return nil
}

// Mail handles the MAIL FROM command
func (s *Session) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	if s.backend.logger != nil {
		s.backend.logger.Debug("MAIL FROM", slog.String("from", from))
	}
	return nil
}

// Rcpt handles the RCPT TO command. Only addresses with a registered
// mailbox are accepted.
func (s *Session) Rcpt(to string, opts *smtp.RcptOptions) error {
	address, err := normalizeAddress(to)
	if err != nil {
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 1, 1},
			Message:      "Invalid recipient address",
		}
	}

	ctx := context.Background()
	if _, err := s.backend.mailboxRepo.GetByAddress(ctx, address); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &smtp.SMTPError{
				Code:         550,
				EnhancedCode: smtp.EnhancedCode{5, 1, 1},
				Message:      "Mailbox not found",
			}
		}
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary error",
		}
	}

	s.recipients = append(s.recipients, address)
	if s.backend.logger != nil {
		s.backend.logger.Debug("RCPT TO", slog.String("to", address))
	}
	return nil
}

// Data handles the DATA command. The raw message goes through the full
// processing pipeline once per recipient mailbox; a failure for one
// recipient never rejects the message for the others.
func (s *Session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &smtp.SMTPError{
			Code:         503,
			EnhancedCode: smtp.EnhancedCode{5, 5, 1},
			Message:      "No recipients specified",
		}
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		if s.backend.logger != nil {
			s.backend.logger.Error("failed to read message data", slog.Any("error", err))
		}
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Failed to read message",
		}
	}

	ctx := context.Background()

	for _, recipient := range s.recipients {
		if err := s.processForRecipient(ctx, recipient, raw); err != nil {
			if s.backend.logger != nil {
				s.backend.logger.Error("failed to process email",
					slog.String("recipient", recipient),
					slog.Any("error", err))
			}
			// Continue processing other recipients
		}
	}

	if s.backend.logger != nil {
		s.backend.logger.Info("email received",
			slog.String("from", s.from),
			slog.Int("recipients", len(s.recipients)))
	}

	return nil
}

// processForRecipient runs the pipeline for a single recipient mailbox
func (s *Session) processForRecipient(ctx context.Context, recipient string, raw []byte) error {
	mailbox, err := s.backend.mailboxRepo.GetByAddress(ctx, recipient)
	if err != nil {
		return fmt.Errorf("failed to get mailbox: %w", err)
	}

	result, err := s.backend.orchestrator.ProcessRaw(ctx, mailbox, mailfetch.RawMessage{Data: raw})
	if err != nil {
		return fmt.Errorf("pipeline rejected message: %w", err)
	}

	if s.backend.logger != nil && result.Status == pipeline.StatusPersisted {
		s.backend.logger.Info("email persisted",
			slog.String("mailbox_id", mailbox.ID),
			slog.String("email_id", result.EmailID))
	}

	return nil
}

// Reset resets the session state
func (s *Session) Reset() {
	s.from = ""
	s.recipients = make([]string, 0)
}

// Logout handles the end of the session
func (s *Session) Logout() error {
	return nil
}

// normalizeAddress strips envelope angle brackets and lowercases the
// address.
func normalizeAddress(address string) (string, error) {
	address = strings.TrimPrefix(address, "<")
	address = strings.TrimSuffix(address, ">")
	address = strings.ToLower(strings.TrimSpace(address))

	parts := strings.Split(address, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid email address: %s", address)
	}

	return address, nil
}
