// Package mock provides a substitutable extraction capability for tests.
package mock

import (
	"context"

	"github.com/frknlke/eluvium-backend/internal/extract"
)

// Extractor implements extract.Extractor with canned or scripted results.
type Extractor struct {
	// ExtractFunc overrides the canned behavior when set.
	ExtractFunc func(ctx context.Context, text string) (*extract.SalesOrder, error)

	// Calls records every text passed to Extract.
	Calls []string
}

// New returns a mock extractor that answers every call with a minimal
// valid order.
func New() *Extractor {
	return &Extractor{}
}

// Extract returns the scripted result, or a minimal general_inquiry order
// when no script is set.
func (m *Extractor) Extract(ctx context.Context, text string) (*extract.SalesOrder, error) {
	m.Calls = append(m.Calls, text)
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, text)
	}
	return &extract.SalesOrder{
		Intent:         extract.IntentGeneralInquiry,
		People:         []string{},
		Products:       []extract.Product{},
		MonetaryValues: []string{},
		Addresses:      []string{},
		PhoneNumbers:   []string{},
		EmailAddresses: []string{},
	}, nil
}

// ModelVersion identifies the fake model
func (m *Extractor) ModelVersion() string {
	return "mock-v1"
}
