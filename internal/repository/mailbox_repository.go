package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/frknlke/eluvium-backend/internal/models"
)

// MailboxRepository defines the interface for mailbox data access
type MailboxRepository interface {
	Create(ctx context.Context, mailbox *models.Mailbox) error
	GetByID(ctx context.Context, id string) (*models.Mailbox, error)
	GetByAddress(ctx context.Context, emailAddress string) (*models.Mailbox, error)
	List(ctx context.Context, limit int) ([]models.Mailbox, error)
	UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncedAt *time.Time) error
}

// mailboxRepository implements MailboxRepository using GORM
type mailboxRepository struct {
	db *gorm.DB
}

// NewMailboxRepository creates a new MailboxRepository instance
func NewMailboxRepository(db *gorm.DB) MailboxRepository {
	return &mailboxRepository{db: db}
}

// Create stores mailbox credentials
func (r *mailboxRepository) Create(ctx context.Context, mailbox *models.Mailbox) error {
	result := r.db.WithContext(ctx).Create(mailbox)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("mailbox with address '%s' already exists: %w", mailbox.EmailAddress, ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create mailbox: %w", result.Error)
	}
	return nil
}

// GetByID retrieves a mailbox by its ID
func (r *mailboxRepository) GetByID(ctx context.Context, id string) (*models.Mailbox, error) {
	var mailbox models.Mailbox
	result := r.db.WithContext(ctx).First(&mailbox, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mailbox by ID: %w", result.Error)
	}
	return &mailbox, nil
}

// GetByAddress retrieves a mailbox by its email address
func (r *mailboxRepository) GetByAddress(ctx context.Context, emailAddress string) (*models.Mailbox, error) {
	var mailbox models.Mailbox
	result := r.db.WithContext(ctx).First(&mailbox, "email_address = ?", emailAddress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mailbox by address: %w", result.Error)
	}
	return &mailbox, nil
}

// List retrieves mailboxes ordered by creation time descending
func (r *mailboxRepository) List(ctx context.Context, limit int) ([]models.Mailbox, error) {
	if limit <= 0 {
		limit = 100
	}
	var mailboxes []models.Mailbox
	result := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&mailboxes)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list mailboxes: %w", result.Error)
	}
	return mailboxes, nil
}

// UpdateSyncStatus records the outcome of a synchronization run
func (r *mailboxRepository) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncedAt *time.Time) error {
	updates := map[string]interface{}{"sync_status": status}
	if syncedAt != nil {
		updates["last_synced_at"] = *syncedAt
	}
	result := r.db.WithContext(ctx).Model(&models.Mailbox{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update sync status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
