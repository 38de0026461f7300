package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/frknlke/eluvium-backend/internal/models"
)

// MockMailboxRepository implements repository.MailboxRepository
type MockMailboxRepository struct {
	mock.Mock
}

// Create stores mailbox credentials
func (m *MockMailboxRepository) Create(ctx context.Context, mailbox *models.Mailbox) error {
	args := m.Called(ctx, mailbox)
	return args.Error(0)
}

// GetByID retrieves a mailbox by its ID
func (m *MockMailboxRepository) GetByID(ctx context.Context, id string) (*models.Mailbox, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mailbox), args.Error(1)
}

// GetByAddress retrieves a mailbox by its email address
func (m *MockMailboxRepository) GetByAddress(ctx context.Context, emailAddress string) (*models.Mailbox, error) {
	args := m.Called(ctx, emailAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mailbox), args.Error(1)
}

// List retrieves mailboxes
func (m *MockMailboxRepository) List(ctx context.Context, limit int) ([]models.Mailbox, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Mailbox), args.Error(1)
}

// UpdateSyncStatus records the outcome of a synchronization run
func (m *MockMailboxRepository) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncedAt *time.Time) error {
	args := m.Called(ctx, id, status, syncedAt)
	return args.Error(0)
}

// MockEmailRepository implements repository.EmailRepository
type MockEmailRepository struct {
	mock.Mock
}

// Insert commits the email and returns the generated id
func (m *MockEmailRepository) Insert(ctx context.Context, email *models.Email) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

// GetByID retrieves a persisted email by its ID
func (m *MockEmailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Email), args.Error(1)
}

// ListByMailbox retrieves emails for a mailbox with pagination
func (m *MockEmailRepository) ListByMailbox(ctx context.Context, mailboxID string, limit, offset int) ([]models.Email, int64, error) {
	args := m.Called(ctx, mailboxID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Email), args.Get(1).(int64), args.Error(2)
}

// ExistsByMessageID reports whether the provider message was already persisted
func (m *MockEmailRepository) ExistsByMessageID(ctx context.Context, mailboxID, messageID string) (bool, error) {
	args := m.Called(ctx, mailboxID, messageID)
	return args.Bool(0), args.Error(1)
}

// Delete removes a persisted email row
func (m *MockEmailRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
