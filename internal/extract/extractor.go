// Package extract turns cleaned email text into structured sales-order
// records via an external language-model capability.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/araddon/dateparse"
)

// ErrMalformedResponse signals that the extraction capability returned
// output that fails JSON parsing or schema validation. The caller must skip
// persistence for the message and continue with the rest of the batch.
var ErrMalformedResponse = errors.New("extraction response malformed")

// Extractor is the structured-extraction capability. Implementations return
// either a complete SalesOrder or an error; they never panic and never
// retry internally.
type Extractor interface {
	// Extract derives a SalesOrder from the cleaned email context text.
	// A wrapped ErrMalformedResponse marks unusable model output.
	Extract(ctx context.Context, text string) (*SalesOrder, error)

	// ModelVersion identifies the underlying model for bookkeeping.
	ModelVersion() string
}

// NormalizeDateTime parses a free-form date with a permissive parser and
// normalizes it to YYYY-MM-DD. An empty input stays empty.
func NormalizeDateTime(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return "", fmt.Errorf("unparseable date %q: %w", value, err)
	}
	return t.Format("2006-01-02"), nil
}

// ValidateAndNormalize enforces the schema contract on a decoded order:
// the intent must be one of the allowed values and the date, when present,
// must normalize to ISO form. Violations are reported as
// ErrMalformedResponse.
func ValidateAndNormalize(order *SalesOrder) error {
	if order == nil {
		return ErrMalformedResponse
	}
	if !ValidIntent(order.Intent) {
		return fmt.Errorf("%w: unknown intent %q", ErrMalformedResponse, order.Intent)
	}
	normalized, err := NormalizeDateTime(order.DateTime)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	order.DateTime = normalized
	return nil
}
