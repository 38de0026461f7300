package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Processing status values for persisted emails
const (
	ProcessingStatusProcessed = "processed"
	ProcessingStatusFailed    = "failed"
)

// ExtractedProduct is one product mentioned in an email, stored inside the
// products JSON column.
type ExtractedProduct struct {
	ProductName string   `json:"product_name"`
	Model       string   `json:"model,omitempty"`
	Quantity    *float64 `json:"quantity,omitempty"`
}

// Email is the durable record of one processed message: the cleaned content
// plus the entities extracted from it. The row's UUID is also the key of the
// email's vector-store mirror.
type Email struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	MailboxID string `gorm:"type:uuid;not null;index" json:"mailbox_id"`

	// Message content
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body,omitempty"`
	Sender     string            `gorm:"size:512" json:"sender,omitempty"`
	Recipients []string          `gorm:"serializer:json" json:"recipients,omitempty"`
	Date       string            `gorm:"size:255" json:"date,omitempty"`
	MessageID  string            `gorm:"size:512;index" json:"message_id,omitempty"`
	ThreadID   string            `gorm:"size:512" json:"thread_id,omitempty"`
	Headers    map[string]string `gorm:"serializer:json" json:"headers,omitempty"`

	// Extracted entities
	Intent               string             `gorm:"size:64" json:"intent,omitempty"`
	CustomerOrganization string             `gorm:"size:512" json:"customer_organization,omitempty"`
	ProducerOrganization string             `gorm:"size:512" json:"producer_organization,omitempty"`
	People               []string           `gorm:"serializer:json" json:"people,omitempty"`
	DateTime             *string            `gorm:"size:32" json:"date_time,omitempty"`
	Products             []ExtractedProduct `gorm:"serializer:json" json:"products,omitempty"`
	MonetaryValues       []string           `gorm:"serializer:json" json:"monetary_values,omitempty"`
	Addresses            []string           `gorm:"serializer:json" json:"addresses,omitempty"`
	PhoneNumbers         []string           `gorm:"serializer:json" json:"phone_numbers,omitempty"`
	EmailAddresses       []string           `gorm:"serializer:json" json:"email_addresses,omitempty"`

	// Bookkeeping
	ProcessingStatus       string    `gorm:"size:32" json:"processing_status"`
	ConfidenceScore        float64   `json:"confidence_score"`
	ExtractionModelVersion string    `gorm:"size:64" json:"extraction_model_version,omitempty"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Mailbox Mailbox `gorm:"foreignKey:MailboxID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for Email
func (Email) TableName() string {
	return "emails"
}

// BeforeCreate assigns the UUID that both stores are keyed by. The id is
// minted inside the insert itself, never by callers.
func (e *Email) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
