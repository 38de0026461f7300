package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frknlke/eluvium-backend/internal/models"
)

// EmailRepository defines the interface for persisted email data access
type EmailRepository interface {
	// Insert commits the email as a single atomic transaction and
	// returns the generated id. The id is minted inside the insert; on
	// failure the transaction rolls back and no id exists.
	Insert(ctx context.Context, email *models.Email) (string, error)
	GetByID(ctx context.Context, id string) (*models.Email, error)
	ListByMailbox(ctx context.Context, mailboxID string, limit, offset int) ([]models.Email, int64, error)
	ExistsByMessageID(ctx context.Context, mailboxID, messageID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// emailRepository implements EmailRepository using GORM
type emailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new EmailRepository instance
func NewEmailRepository(db *gorm.DB) EmailRepository {
	return &emailRepository{db: db}
}

// Insert commits one email row atomically and returns its generated id
func (r *emailRepository) Insert(ctx context.Context, email *models.Email) (string, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(email).Error; err != nil {
			return fmt.Errorf("failed to insert email: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return email.ID, nil
}

// GetByID retrieves a persisted email by its ID
func (r *emailRepository) GetByID(ctx context.Context, id string) (*models.Email, error) {
	var email models.Email
	result := r.db.WithContext(ctx).First(&email, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get email by ID: %w", result.Error)
	}
	return &email, nil
}

// ListByMailbox retrieves emails for a mailbox with pagination, newest first
func (r *emailRepository) ListByMailbox(ctx context.Context, mailboxID string, limit, offset int) ([]models.Email, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Email{}).Where("mailbox_id = ?", mailboxID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count emails: %w", err)
	}

	var emails []models.Email
	result := r.db.WithContext(ctx).
		Where("mailbox_id = ?", mailboxID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&emails)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to list emails: %w", result.Error)
	}
	return emails, total, nil
}

// ExistsByMessageID reports whether the provider message was already
// persisted for this mailbox. Enables duplicate detection on re-fetch.
func (r *emailRepository) ExistsByMessageID(ctx context.Context, mailboxID, messageID string) (bool, error) {
	if messageID == "" {
		return false, nil
	}
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Email{}).
		Where("mailbox_id = ? AND message_id = ?", mailboxID, messageID).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check for existing message: %w", result.Error)
	}
	return count > 0, nil
}

// Delete removes a persisted email row
func (r *emailRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Email{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
