// Package pipeline sequences fetch, normalization, cleaning, extraction and
// dual-store persistence for batches of mail messages.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/frknlke/eluvium-backend/internal/extract"
	"github.com/frknlke/eluvium-backend/internal/mailfetch"
	"github.com/frknlke/eluvium-backend/internal/models"
	"github.com/frknlke/eluvium-backend/internal/preprocess"
	"github.com/frknlke/eluvium-backend/internal/repository"
)

// Status is the terminal state of one message within a batch.
type Status string

const (
	StatusPersisted        Status = "persisted"
	StatusExtractionFailed Status = "extraction_failed"
	StatusPersistFailed    Status = "persist_failed"
	StatusSkippedDuplicate Status = "skipped_duplicate"
	StatusCancelled        Status = "cancelled"
)

// Default caller-imposed timeouts for the blocking stages
const (
	DefaultExtractTimeout = 60 * time.Second
	DefaultPersistTimeout = 30 * time.Second
)

// MessageResult records the outcome of one message.
type MessageResult struct {
	MessageID string `json:"message_id,omitempty"`
	EmailID   string `json:"email_id,omitempty"`
	Status    Status `json:"status"`
	Err       error  `json:"-"`
}

// BatchResult aggregates per-message outcomes for one batch. No single
// message's failure fails the batch; callers inspect the accounting to know
// which messages are fully searchable.
type BatchResult struct {
	MailboxID     string                      `json:"mailbox_id"`
	Fetched       int                         `json:"fetched"`
	SavedEmailIDs []string                    `json:"saved_emails"`
	Results       []MessageResult             `json:"results"`
	// Cleaned carries every cleaned message regardless of downstream
	// success, for observability.
	Cleaned []preprocess.NormalizedEmail `json:"cleaned_emails"`
}

// Notifier receives an event for every email that reached the persisted
// state. Implementations must not block.
type Notifier interface {
	EmailProcessed(mailboxID, emailID string, email preprocess.NormalizedEmail)
}

// Orchestrator runs the processing pipeline. Messages within a batch are
// independent: they are processed concurrently on a fixed worker pool and
// results are accumulated order-agnostically.
type Orchestrator struct {
	fetcherConfig mailfetch.Config
	newFetcher    func(ctx context.Context, mailbox *models.Mailbox, cfg mailfetch.Config) (mailfetch.Fetcher, error)
	extractor     extract.Extractor
	writer        *Writer
	emails        repository.EmailRepository
	notifier      Notifier
	pool          *ants.Pool

	extractTimeout time.Duration
	persistTimeout time.Duration
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTimeouts overrides the per-stage timeouts.
func WithTimeouts(extractTimeout, persistTimeout time.Duration) Option {
	return func(o *Orchestrator) {
		if extractTimeout > 0 {
			o.extractTimeout = extractTimeout
		}
		if persistTimeout > 0 {
			o.persistTimeout = persistTimeout
		}
	}
}

// WithNotifier attaches a processed-email event sink.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithFetcherFactory substitutes the provider-client factory. Used by tests.
func WithFetcherFactory(f func(ctx context.Context, mailbox *models.Mailbox, cfg mailfetch.Config) (mailfetch.Fetcher, error)) Option {
	return func(o *Orchestrator) {
		o.newFetcher = f
	}
}

// NewOrchestrator creates an Orchestrator with a worker pool of the given
// size (0 means half the CPUs, minimum 1).
func NewOrchestrator(
	extractor extract.Extractor,
	writer *Writer,
	emails repository.EmailRepository,
	fetcherConfig mailfetch.Config,
	poolSize int,
	logger *slog.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if poolSize <= 0 {
		poolSize = runtime.NumCPU() / 2
		if poolSize < 1 {
			poolSize = 1
		}
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		fetcherConfig:  fetcherConfig,
		newFetcher:     mailfetch.NewFetcher,
		extractor:      extractor,
		writer:         writer,
		emails:         emails,
		pool:           pool,
		extractTimeout: DefaultExtractTimeout,
		persistTimeout: DefaultPersistTimeout,
		logger:         logger.With(slog.String("component", "pipeline")),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Close releases the worker pool.
func (o *Orchestrator) Close() {
	o.pool.Release()
}

// ProcessMailbox fetches recent messages for the mailbox and runs each
// through the pipeline. A message's terminal failure never halts the batch;
// cancellation is honored between messages, not mid-message.
func (o *Orchestrator) ProcessMailbox(ctx context.Context, mailbox *models.Mailbox) (*BatchResult, error) {
	fetcher, err := o.newFetcher(ctx, mailbox, o.fetcherConfig)
	if err != nil {
		return nil, err
	}

	raws, err := fetcher.FetchRecent(ctx)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		MailboxID:     mailbox.ID,
		Fetched:       len(raws),
		SavedEmailIDs: []string{},
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, raw := range raws {
		// Cooperative cancellation at message granularity
		if ctx.Err() != nil {
			mu.Lock()
			result.Results = append(result.Results, MessageResult{
				MessageID: raw.MessageID,
				Status:    StatusCancelled,
				Err:       ctx.Err(),
			})
			mu.Unlock()
			continue
		}

		raw := raw
		wg.Add(1)
		submitErr := o.pool.Submit(func() {
			defer wg.Done()
			cleaned, res := o.processOne(ctx, mailbox, raw)
			mu.Lock()
			result.Cleaned = append(result.Cleaned, cleaned)
			result.Results = append(result.Results, res)
			if res.Status == StatusPersisted {
				result.SavedEmailIDs = append(result.SavedEmailIDs, res.EmailID)
			}
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Results = append(result.Results, MessageResult{
				MessageID: raw.MessageID,
				Status:    StatusPersistFailed,
				Err:       submitErr,
			})
			mu.Unlock()
		}
	}

	wg.Wait()

	o.logger.Info("batch processed",
		slog.String("mailbox_id", mailbox.ID),
		slog.Int("fetched", result.Fetched),
		slog.Int("persisted", len(result.SavedEmailIDs)))

	return result, nil
}

// ProcessRaw runs a single already-fetched raw message through the pipeline.
// Entry point for push-style ingestion (SMTP listener).
func (o *Orchestrator) ProcessRaw(ctx context.Context, mailbox *models.Mailbox, raw mailfetch.RawMessage) (MessageResult, error) {
	_, res := o.processOne(ctx, mailbox, raw)
	return res, res.Err
}

// processOne walks one message through normalize, clean, extract and
// persist. Every failure maps to a terminal status; nothing raises out.
func (o *Orchestrator) processOne(ctx context.Context, mailbox *models.Mailbox, raw mailfetch.RawMessage) (preprocess.NormalizedEmail, MessageResult) {
	res := MessageResult{MessageID: raw.MessageID}

	normalized := preprocess.Normalize(raw.Data)
	cleaned := normalized
	cleaned.Body = preprocess.CleanBody(normalized.Body)

	// Push-fed messages carry no provider id; fall back to the header.
	if raw.MessageID == "" {
		for _, key := range []string{"Message-Id", "Message-ID"} {
			if v := cleaned.Headers[key]; v != "" {
				raw.MessageID = v
				break
			}
		}
		res.MessageID = raw.MessageID
	}

	if exists, err := o.emails.ExistsByMessageID(ctx, mailbox.ID, raw.MessageID); err == nil && exists {
		res.Status = StatusSkippedDuplicate
		return cleaned, res
	}

	extractCtx, cancelExtract := context.WithTimeout(ctx, o.extractTimeout)
	order, err := o.extractor.Extract(extractCtx, cleaned.Context())
	cancelExtract()
	if err != nil {
		res.Status = StatusExtractionFailed
		res.Err = err
		if errors.Is(err, extract.ErrMalformedResponse) {
			o.logger.Warn("extraction returned malformed output",
				slog.String("message_id", raw.MessageID))
		} else {
			o.logger.Warn("extraction failed",
				slog.String("message_id", raw.MessageID),
				slog.Any("error", err))
		}
		return cleaned, res
	}

	persistCtx, cancelPersist := context.WithTimeout(ctx, o.persistTimeout)
	id, err := o.writer.Persist(persistCtx, PersistRequest{
		MailboxID: mailbox.ID,
		MessageID: raw.MessageID,
		ThreadID:  raw.ThreadID,
		Email:     cleaned,
		Order:     order,
	})
	cancelPersist()
	if err != nil {
		res.Status = StatusPersistFailed
		res.Err = err
		o.logger.Error("persistence failed",
			slog.String("message_id", raw.MessageID),
			slog.Any("error", err))
		return cleaned, res
	}

	res.Status = StatusPersisted
	res.EmailID = id

	if o.notifier != nil {
		o.notifier.EmailProcessed(mailbox.ID, id, cleaned)
	}

	return cleaned, res
}
