package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider identifies which external service a mailbox is hosted on
type Provider string

const (
	ProviderGmail   Provider = "gmail"
	ProviderOutlook Provider = "outlook"
	ProviderIMAP    Provider = "imap"
	ProviderAWSSES  Provider = "aws_ses"
	ProviderSMTP    Provider = "smtp"
)

// SyncMethod identifies how messages reach the pipeline
type SyncMethod string

const (
	SyncMethodAPI     SyncMethod = "api"
	SyncMethodIMAP    SyncMethod = "imap"
	SyncMethodWebhook SyncMethod = "webhook"
	SyncMethodManual  SyncMethod = "manual"
)

// SyncStatus tracks the state of a mailbox's last synchronization
type SyncStatus string

const (
	SyncStatusIdle      SyncStatus = "idle"
	SyncStatusSyncing   SyncStatus = "syncing"
	SyncStatusError     SyncStatus = "error"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusPaused    SyncStatus = "paused"
)

// Mailbox represents a connected mailbox with its OAuth credentials
type Mailbox struct {
	ID           string     `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    string     `gorm:"type:uuid;not null;index" json:"company_id"`
	EmailAddress string     `gorm:"not null;size:255;uniqueIndex" json:"email_address"`
	Provider     Provider   `gorm:"not null;size:32" json:"provider"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	TokenExpiry  *time.Time `json:"token_expiry,omitempty"`
	SyncMethod   SyncMethod `gorm:"not null;size:32" json:"sync_method"`
	SyncStatus   SyncStatus `gorm:"not null;size:32;default:idle" json:"sync_status"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Emails []Email `gorm:"foreignKey:MailboxID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Mailbox
func (Mailbox) TableName() string {
	return "mailboxes"
}

// BeforeCreate assigns a UUID primary key when none was supplied
func (m *Mailbox) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ValidProvider reports whether p is one of the known providers
func ValidProvider(p Provider) bool {
	switch p {
	case ProviderGmail, ProviderOutlook, ProviderIMAP, ProviderAWSSES, ProviderSMTP:
		return true
	}
	return false
}

// ValidSyncMethod reports whether m is one of the known sync methods
func ValidSyncMethod(m SyncMethod) bool {
	switch m {
	case SyncMethodAPI, SyncMethodIMAP, SyncMethodWebhook, SyncMethodManual:
		return true
	}
	return false
}
