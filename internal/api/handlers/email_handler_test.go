package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/frknlke/eluvium-backend/internal/models"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/tests/mocks"
)

// EmailHandlerTestSuite is the test suite for EmailHandler
type EmailHandlerTestSuite struct {
	suite.Suite
	echo          *echo.Echo
	handler       *EmailHandler
	mockEmailRepo *mocks.MockEmailRepository
	mockVectors   *mocks.MockVectorStore
}

// SetupTest runs before each test
func (s *EmailHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockEmailRepo = new(mocks.MockEmailRepository)
	s.mockVectors = new(mocks.MockVectorStore)
	s.handler = NewEmailHandler(s.mockEmailRepo, s.mockVectors, nil)
}

// TearDownTest runs after each test
func (s *EmailHandlerTestSuite) TearDownTest() {
	s.mockEmailRepo.AssertExpectations(s.T())
	s.mockVectors.AssertExpectations(s.T())
}

// TestEmailHandlerTestSuite runs the test suite
func TestEmailHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EmailHandlerTestSuite))
}

// Helper function to create a test context
func (s *EmailHandlerTestSuite) createContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

// ==================== Get Tests ====================

// TestGet_ExistingEmail tests fetching a persisted email by id
func (s *EmailHandlerTestSuite) TestGet_ExistingEmail() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/emails/email-1")
	c.SetParamNames("id")
	c.SetParamValues("email-1")

	email := &models.Email{
		ID:        "email-1",
		MailboxID: "mbx-1",
		Subject:   "PO 1042",
		Intent:    "place_order",
	}
	s.mockEmailRepo.On("GetByID", mock.Anything, "email-1").Return(email, nil)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "PO 1042")
}

// TestGet_MissingEmail tests the not-found path
func (s *EmailHandlerTestSuite) TestGet_MissingEmail() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/emails/email-404")
	c.SetParamNames("id")
	c.SetParamValues("email-404")

	s.mockEmailRepo.On("GetByID", mock.Anything, "email-404").Return(nil, repository.ErrNotFound)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

// ==================== ListByMailbox Tests ====================

// TestListByMailbox_AppliesPaginationDefaults tests the default page size
func (s *EmailHandlerTestSuite) TestListByMailbox_AppliesPaginationDefaults() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/mailboxes/mbx-1/emails")
	c.SetParamNames("id")
	c.SetParamValues("mbx-1")

	emails := []models.Email{{ID: "email-1", MailboxID: "mbx-1"}}
	s.mockEmailRepo.On("ListByMailbox", mock.Anything, "mbx-1", 20, 0).
		Return(emails, int64(1), nil)

	// Act
	err := s.handler.ListByMailbox(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"total":1`)
}

// TestListByMailbox_CapsLimit tests that oversized limits are clamped
func (s *EmailHandlerTestSuite) TestListByMailbox_CapsLimit() {
	// Arrange
	req := httptest.NewRequest(http.MethodGet, "/api/mailboxes/mbx-1/emails?limit=5000&offset=40", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("mbx-1")

	s.mockEmailRepo.On("ListByMailbox", mock.Anything, "mbx-1", 100, 40).
		Return([]models.Email{}, int64(0), nil)

	// Act
	err := s.handler.ListByMailbox(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
}

// ==================== Delete Tests ====================

// TestDelete_RemovesRowAndMirror tests deletion from both stores
func (s *EmailHandlerTestSuite) TestDelete_RemovesRowAndMirror() {
	// Arrange
	c, rec := s.createContext(http.MethodDelete, "/api/emails/email-1")
	c.SetParamNames("id")
	c.SetParamValues("email-1")

	s.mockEmailRepo.On("Delete", mock.Anything, "email-1").Return(nil)
	s.mockVectors.On("Delete", mock.Anything, "email-1").Return(nil)

	// Act
	err := s.handler.Delete(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNoContent, rec.Code)
}

// TestDelete_MirrorFailureStillSucceeds tests that a mirror error does not
// surface once the row is gone
func (s *EmailHandlerTestSuite) TestDelete_MirrorFailureStillSucceeds() {
	// Arrange
	c, rec := s.createContext(http.MethodDelete, "/api/emails/email-1")
	c.SetParamNames("id")
	c.SetParamValues("email-1")

	s.mockEmailRepo.On("Delete", mock.Anything, "email-1").Return(nil)
	s.mockVectors.On("Delete", mock.Anything, "email-1").Return(errors.New("connection refused"))

	// Act
	err := s.handler.Delete(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNoContent, rec.Code)
}

// TestDelete_MissingEmail tests deleting an unknown id
func (s *EmailHandlerTestSuite) TestDelete_MissingEmail() {
	// Arrange
	c, rec := s.createContext(http.MethodDelete, "/api/emails/email-404")
	c.SetParamNames("id")
	c.SetParamValues("email-404")

	s.mockEmailRepo.On("Delete", mock.Anything, "email-404").Return(repository.ErrNotFound)

	// Act
	err := s.handler.Delete(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}
