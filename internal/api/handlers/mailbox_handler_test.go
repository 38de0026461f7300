package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/frknlke/eluvium-backend/internal/models"
	"github.com/frknlke/eluvium-backend/internal/repository"
	"github.com/frknlke/eluvium-backend/tests/mocks"
)

// MailboxHandlerTestSuite is the test suite for MailboxHandler
type MailboxHandlerTestSuite struct {
	suite.Suite
	echo            *echo.Echo
	handler         *MailboxHandler
	mockMailboxRepo *mocks.MockMailboxRepository
}

// SetupTest runs before each test
func (s *MailboxHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockMailboxRepo = new(mocks.MockMailboxRepository)
	s.handler = NewMailboxHandler(s.mockMailboxRepo, nil, nil)
}

// TearDownTest runs after each test
func (s *MailboxHandlerTestSuite) TearDownTest() {
	s.mockMailboxRepo.AssertExpectations(s.T())
}

// TestMailboxHandlerTestSuite runs the test suite
func TestMailboxHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MailboxHandlerTestSuite))
}

// Helper function to create a test context
func (s *MailboxHandlerTestSuite) createContext(method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

// Helper function to create a test mailbox
func (s *MailboxHandlerTestSuite) createTestMailbox(id, address string) *models.Mailbox {
	now := time.Now()
	return &models.Mailbox{
		ID:           id,
		CompanyID:    "11111111-2222-3333-4444-555555555555",
		EmailAddress: address,
		Provider:     models.ProviderGmail,
		SyncMethod:   models.SyncMethodAPI,
		SyncStatus:   models.SyncStatusIdle,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ==================== Create Tests ====================

// TestCreate_ValidInput tests registering a mailbox with valid input
func (s *MailboxHandlerTestSuite) TestCreate_ValidInput() {
	// Arrange
	body := `{"email_address": "sales@vendor.com", "provider": "gmail", "sync_method": "api"}`
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes", body)

	s.mockMailboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Mailbox) bool {
		return m.EmailAddress == "sales@vendor.com" &&
			m.Provider == models.ProviderGmail &&
			m.SyncMethod == models.SyncMethodAPI &&
			m.CompanyID != ""
	})).Return(nil)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
}

// TestCreate_InvalidEmail tests rejection of a malformed address
func (s *MailboxHandlerTestSuite) TestCreate_InvalidEmail() {
	// Arrange
	body := `{"email_address": "not-an-address", "provider": "gmail", "sync_method": "api"}`
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes", body)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestCreate_InvalidProvider tests rejection of an unknown provider
func (s *MailboxHandlerTestSuite) TestCreate_InvalidProvider() {
	// Arrange
	body := `{"email_address": "sales@vendor.com", "provider": "carrier-pigeon", "sync_method": "api"}`
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes", body)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestCreate_DuplicateAddress tests conflict on an already registered address
func (s *MailboxHandlerTestSuite) TestCreate_DuplicateAddress() {
	// Arrange
	body := `{"email_address": "sales@vendor.com", "provider": "gmail", "sync_method": "api"}`
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes", body)

	s.mockMailboxRepo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusConflict, rec.Code)
}

// TestCreate_KeepsSuppliedCompanyID tests that an explicit company id survives
func (s *MailboxHandlerTestSuite) TestCreate_KeepsSuppliedCompanyID() {
	// Arrange
	body := `{"email_address": "sales@vendor.com", "provider": "smtp", "sync_method": "webhook", "company_id": "co-42"}`
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes", body)

	s.mockMailboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Mailbox) bool {
		return m.CompanyID == "co-42"
	})).Return(nil)

	// Act
	err := s.handler.Create(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
}

// ==================== List Tests ====================

// TestList_ReturnsMailboxes tests listing registered mailboxes
func (s *MailboxHandlerTestSuite) TestList_ReturnsMailboxes() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/mailboxes", "")
	mailboxes := []models.Mailbox{
		*s.createTestMailbox("mbx-1", "sales@vendor.com"),
		*s.createTestMailbox("mbx-2", "orders@vendor.com"),
	}
	s.mockMailboxRepo.On("List", mock.Anything, 0).Return(mailboxes, nil)

	// Act
	err := s.handler.List(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []models.Mailbox `json:"data"`
	}
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Success)
	s.Len(resp.Data, 2)
}

// ==================== Get Tests ====================

// TestGet_ExistingMailbox tests fetching a mailbox by id
func (s *MailboxHandlerTestSuite) TestGet_ExistingMailbox() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/mailboxes/mbx-1", "")
	c.SetParamNames("id")
	c.SetParamValues("mbx-1")

	s.mockMailboxRepo.On("GetByID", mock.Anything, "mbx-1").
		Return(s.createTestMailbox("mbx-1", "sales@vendor.com"), nil)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "sales@vendor.com")
}

// TestGet_MissingMailbox tests the not-found path
func (s *MailboxHandlerTestSuite) TestGet_MissingMailbox() {
	// Arrange
	c, rec := s.createContext(http.MethodGet, "/api/mailboxes/mbx-404", "")
	c.SetParamNames("id")
	c.SetParamValues("mbx-404")

	s.mockMailboxRepo.On("GetByID", mock.Anything, "mbx-404").Return(nil, repository.ErrNotFound)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

// ==================== Process Tests ====================

// TestProcess_MissingMailbox tests processing an unknown mailbox
func (s *MailboxHandlerTestSuite) TestProcess_MissingMailbox() {
	// Arrange
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes/mbx-404/process", "")
	c.SetParamNames("id")
	c.SetParamValues("mbx-404")

	s.mockMailboxRepo.On("GetByID", mock.Anything, "mbx-404").Return(nil, repository.ErrNotFound)

	// Act
	err := s.handler.Process(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

// TestProcess_RepositoryFailure tests an unexpected lookup error
func (s *MailboxHandlerTestSuite) TestProcess_RepositoryFailure() {
	// Arrange
	c, rec := s.createContext(http.MethodPost, "/api/mailboxes/mbx-1/process", "")
	c.SetParamNames("id")
	c.SetParamValues("mbx-1")

	s.mockMailboxRepo.On("GetByID", mock.Anything, "mbx-1").Return(nil, errors.New("connection reset"))

	// Act
	err := s.handler.Process(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)
}
