package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/frknlke/eluvium-backend/internal/extract"
	"github.com/frknlke/eluvium-backend/internal/models"
	"github.com/frknlke/eluvium-backend/internal/preprocess"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

// Fixed bookkeeping defaults attached at persist time. Callers never supply
// them.
const (
	defaultConfidenceScore = 1.0
)

// PersistRequest is one cleaned email plus its extracted entities, ready to
// be committed.
type PersistRequest struct {
	MailboxID string
	MessageID string
	ThreadID  string
	// Email is the cleaned form: Body already passed through CleanBody.
	Email preprocess.NormalizedEmail
	Order *extract.SalesOrder
}

// Writer commits one email into the relational store and mirrors it into
// the vector store under the same id. The relational commit is
// authoritative: the vector write happens only after the insert returned an
// id, and a vector fault never rolls the row back.
type Writer struct {
	emails       repository.EmailRepository
	vectors      vectorstore.Store
	modelVersion string
	logger       *slog.Logger
}

// NewWriter creates a Writer. modelVersion is recorded on every row.
func NewWriter(emails repository.EmailRepository, vectors vectorstore.Store, modelVersion string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		emails:       emails,
		vectors:      vectors,
		modelVersion: modelVersion,
		logger:       logger.With(slog.String("component", "dual-store-writer")),
	}
}

// Persist commits the request and returns the generated email id. A failed
// relational insert rolls back and returns an error; a failed vector mirror
// is logged and accepted (the row stays, the id is still returned).
func (w *Writer) Persist(ctx context.Context, req PersistRequest) (string, error) {
	row := w.buildRow(req)

	id, err := w.emails.Insert(ctx, row)
	if err != nil {
		return "", fmt.Errorf("relational insert failed: %w", err)
	}

	document := req.Email.Context()
	metadata := vectorMetadata(req.Order)
	vector := vectorstore.HashEmbedding(document)

	if err := w.vectors.Upsert(ctx, id, document, metadata, vector); err != nil {
		// Accepted gap: the relational row stays searchable-by-id but
		// has no vector mirror until the message is seen again.
		w.logger.Warn("vector mirror write failed",
			slog.String("email_id", id),
			slog.Any("error", err))
	}

	return id, nil
}

// buildRow maps the cleaned email and extracted entities onto the
// relational schema, attaching the fixed bookkeeping defaults.
func (w *Writer) buildRow(req PersistRequest) *models.Email {
	order := req.Order

	var dateTime *string
	if order.DateTime != "" {
		dt := order.DateTime
		dateTime = &dt
	}

	products := make([]models.ExtractedProduct, 0, len(order.Products))
	for _, p := range order.Products {
		products = append(products, models.ExtractedProduct{
			ProductName: p.ProductName,
			Model:       p.Model,
			Quantity:    p.Quantity,
		})
	}

	return &models.Email{
		MailboxID:  req.MailboxID,
		Subject:    req.Email.Subject,
		Body:       req.Email.Body,
		Sender:     req.Email.Sender,
		Recipients: req.Email.Recipients,
		Date:       req.Email.Date,
		MessageID:  req.MessageID,
		ThreadID:   req.ThreadID,
		Headers:    req.Email.Headers,

		Intent:               string(order.Intent),
		CustomerOrganization: order.CustomerOrganization,
		ProducerOrganization: order.ProducerOrganization,
		People:               order.People,
		DateTime:             dateTime,
		Products:             products,
		MonetaryValues:       order.MonetaryValues,
		Addresses:            order.Addresses,
		PhoneNumbers:         order.PhoneNumbers,
		EmailAddresses:       order.EmailAddresses,

		ProcessingStatus:       models.ProcessingStatusProcessed,
		ConfidenceScore:        defaultConfidenceScore,
		ExtractionModelVersion: w.modelVersion,
	}
}

// vectorMetadata flattens the entity record into the scalar-only metadata
// schema of the vector store: lists and structured fields serialize to JSON
// strings, scalars stringify, absent values become empty strings.
func vectorMetadata(order *extract.SalesOrder) map[string]string {
	return map[string]string{
		"intent":                string(order.Intent),
		"customer_organization": order.CustomerOrganization,
		"producer_organization": order.ProducerOrganization,
		"people":                jsonString(order.People),
		"date_time":             order.DateTime,
		"products":              jsonString(order.Products),
		"monetary_values":       jsonString(order.MonetaryValues),
		"addresses":             jsonString(order.Addresses),
		"phone_numbers":         jsonString(order.PhoneNumbers),
		"email_addresses":       jsonString(order.EmailAddresses),
	}
}

// jsonString serializes v, with nil collections rendered as empty arrays
// rather than null markers.
func jsonString(v any) string {
	switch t := v.(type) {
	case []string:
		if t == nil {
			v = []string{}
		}
	case []extract.Product:
		if t == nil {
			v = []extract.Product{}
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
