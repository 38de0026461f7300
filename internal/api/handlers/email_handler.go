package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	api "github.com/frknlke/eluvium-backend/internal/api/response"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/internal/validator"
	"github.com/frknlke/eluvium-backend/internal/vectorstore"
)

// EmailHandler handles persisted-email HTTP requests
type EmailHandler struct {
	emailRepo repository.EmailRepository
	vectors   vectorstore.Store
	logger    *slog.Logger
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emailRepo repository.EmailRepository, vectors vectorstore.Store, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		emailRepo: emailRepo,
		vectors:   vectors,
		logger:    logger,
	}
}

// Get handles GET /api/emails/:id
func (h *EmailHandler) Get(c echo.Context) error {
	id := c.Param("id")

	email, err := h.emailRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return api.NotFound(c, "email not found")
		}
		return api.InternalError(c, "failed to get email")
	}

	return api.Success(c, email)
}

// ListByMailbox handles GET /api/mailboxes/:id/emails
func (h *EmailHandler) ListByMailbox(c echo.Context) error {
	mailboxID := c.Param("id")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = validator.ValidatePagination(limit, offset)

	emails, total, err := h.emailRepo.ListByMailbox(c.Request().Context(), mailboxID, limit, offset)
	if err != nil {
		return api.InternalError(c, "failed to list emails")
	}

	return api.Paginated(c, emails, total, limit, offset)
}

// Delete handles DELETE /api/emails/:id. The relational row is removed
// first; the mirror document shares the same id and is removed best
// effort afterwards.
func (h *EmailHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	if err := h.emailRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return api.NotFound(c, "email not found")
		}
		return api.InternalError(c, "failed to delete email")
	}

	if err := h.vectors.Delete(ctx, id); err != nil && h.logger != nil {
		h.logger.Warn("failed to delete mirror document",
			slog.String("email_id", id),
			slog.Any("error", err))
	}

	return api.NoContent(c)
}
