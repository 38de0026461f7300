package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	api "github.com/frknlke/eluvium-backend/internal/api/response"
	"github.com/frknlke/eluvium-backend/internal/models"
	"github.com/frknlke/eluvium-backend/internal/pipeline"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/internal/validator"
)

// MailboxHandler handles mailbox-related HTTP requests
type MailboxHandler struct {
	mailboxRepo  repository.MailboxRepository
	orchestrator *pipeline.Orchestrator
	logger       *slog.Logger
}

// NewMailboxHandler creates a new MailboxHandler
func NewMailboxHandler(mailboxRepo repository.MailboxRepository, orchestrator *pipeline.Orchestrator, logger *slog.Logger) *MailboxHandler {
	return &MailboxHandler{
		mailboxRepo:  mailboxRepo,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// CreateMailboxRequest represents the request body for registering a mailbox
type CreateMailboxRequest struct {
	EmailAddress string `json:"email_address" validate:"required"`
	Provider     string `json:"provider" validate:"required"`
	SyncMethod   string `json:"sync_method" validate:"required"`
	CompanyID    string `json:"company_id,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Create handles POST /api/mailboxes
func (h *MailboxHandler) Create(c echo.Context) error {
	var req CreateMailboxRequest
	if err := c.Bind(&req); err != nil {
		return api.BadRequest(c, "invalid request body")
	}

	if err := validator.ValidateEmail(req.EmailAddress); err != nil {
		return api.BadRequest(c, "email_address: "+err.Error())
	}
	if err := validator.ValidateProvider(req.Provider); err != nil {
		return api.BadRequest(c, "provider: "+err.Error())
	}
	if err := validator.ValidateSyncMethod(req.SyncMethod); err != nil {
		return api.BadRequest(c, "sync_method: "+err.Error())
	}

	// Mailboxes without an owning company get a fresh one
	companyID := req.CompanyID
	if companyID == "" {
		companyID = uuid.NewString()
	}

	mailbox := &models.Mailbox{
		CompanyID:    companyID,
		EmailAddress: req.EmailAddress,
		Provider:     models.Provider(req.Provider),
		SyncMethod:   models.SyncMethod(req.SyncMethod),
		SyncStatus:   models.SyncStatusIdle,
		RefreshToken: req.RefreshToken,
	}

	if err := h.mailboxRepo.Create(c.Request().Context(), mailbox); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return api.Conflict(c, "mailbox already exists")
		}
		return api.InternalError(c, "failed to create mailbox")
	}

	return api.Created(c, mailbox)
}

// List handles GET /api/mailboxes
func (h *MailboxHandler) List(c echo.Context) error {
	limit := 0
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	mailboxes, err := h.mailboxRepo.List(c.Request().Context(), limit)
	if err != nil {
		return api.InternalError(c, "failed to list mailboxes")
	}

	return api.Success(c, mailboxes)
}

// Get handles GET /api/mailboxes/:id
func (h *MailboxHandler) Get(c echo.Context) error {
	id := c.Param("id")

	mailbox, err := h.mailboxRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return api.NotFound(c, "mailbox not found")
		}
		return api.InternalError(c, "failed to get mailbox")
	}

	return api.Success(c, mailbox)
}

// Process handles POST /api/mailboxes/:id/process. It fetches recent
// messages for the mailbox and runs the full pipeline synchronously,
// returning the per-message accounting.
func (h *MailboxHandler) Process(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	mailbox, err := h.mailboxRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return api.NotFound(c, "mailbox not found")
		}
		return api.InternalError(c, "failed to get mailbox")
	}

	if err := h.mailboxRepo.UpdateSyncStatus(ctx, id, models.SyncStatusSyncing, nil); err != nil {
		return api.InternalError(c, "failed to mark mailbox as syncing")
	}

	result, err := h.orchestrator.ProcessMailbox(ctx, mailbox)
	now := time.Now().UTC()
	if err != nil {
		_ = h.mailboxRepo.UpdateSyncStatus(ctx, id, models.SyncStatusError, &now)
		if h.logger != nil {
			h.logger.Error("mailbox processing failed",
				slog.String("mailbox_id", id),
				slog.Any("error", err))
		}
		return api.Error(c, err)
	}

	if err := h.mailboxRepo.UpdateSyncStatus(ctx, id, models.SyncStatusCompleted, &now); err != nil && h.logger != nil {
		h.logger.Warn("failed to record sync completion", slog.String("mailbox_id", id))
	}

	return api.Success(c, result)
}
