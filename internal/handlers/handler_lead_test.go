package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/studio_ops_app/internal/apperrors"
	"github.com/SscSPs/studio_ops_app/internal/core/conversion"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/handlers"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/SscSPs/studio_ops_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LeadService ---
type MockLeadService struct {
	mock.Mock
}

func (m *MockLeadService) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lead), args.Error(1)
}
func (m *MockLeadService) GetLead(ctx context.Context, leadID string) (*domain.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) LeadStats(ctx context.Context) (*dto.LeadStatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LeadStatsResponse), args.Error(1)
}
func (m *MockLeadService) CreateLead(ctx context.Context, req dto.CreateLeadRequest, userID string) (*domain.Lead, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) SubmitPublicLead(ctx context.Context, req dto.PublicLeadRequest) (*domain.Lead, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) UpdateLead(ctx context.Context, leadID string, req dto.UpdateLeadRequest, userID string) (*domain.Lead, error) {
	args := m.Called(ctx, leadID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) MoveLead(ctx context.Context, leadID string, status domain.LeadStatus, userID string) (*domain.Lead, error) {
	args := m.Called(ctx, leadID, status, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lead), args.Error(1)
}
func (m *MockLeadService) DeleteLead(ctx context.Context, leadID string) error {
	args := m.Called(ctx, leadID)
	return args.Error(0)
}

var _ portssvc.LeadSvcFacade = (*MockLeadService)(nil)

// --- Mock ConversionService ---
type MockConversionService struct {
	mock.Mock
}

func (m *MockConversionService) ConvertLead(ctx context.Context, leadID string, req dto.ConvertLeadRequest, userID string) (*conversion.Result, error) {
	args := m.Called(ctx, leadID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversion.Result), args.Error(1)
}
func (m *MockConversionService) SubmitBooking(ctx context.Context, req dto.PublicBookingRequest) (*conversion.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*conversion.Result), args.Error(1)
}

var _ portssvc.ConversionSvcFacade = (*MockConversionService)(nil)

// --- Test Suite ---
type LeadHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	cfg            *config.Config
	mockLead       *MockLeadService
	mockConversion *MockConversionService
}

func testConfig() *config.Config {
	return &config.Config{
		IsProduction:         true,
		JWTSecret:            "test-secret-key-that-is-long-enough",
		JWTExpiryDuration:    time.Hour,
		JWTIssuer:            "studio-test",
		AdminUsername:        "admin",
		PublicRateLimit:      "1000-M",
		ClientIncomePocketID: domain.ClientIncomePocketID,
		Location:             time.UTC,
	}
}

// bearer creates a token the auth middleware accepts.
func bearer(s *suite.Suite, cfg *config.Config) string {
	token, err := utils.GenerateJWT(cfg.AdminUsername, cfg.JWTSecret, time.Hour, cfg.JWTIssuer)
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return "Bearer " + token
}

func (suite *LeadHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.cfg = testConfig()
	suite.mockLead = new(MockLeadService)
	suite.mockConversion = new(MockConversionService)

	repos, _ := memory.NewRepositoryProvider()
	container := services.NewServiceContainer(suite.cfg, repos)
	container.Lead = suite.mockLead
	container.Conversion = suite.mockConversion

	handlers.RegisterRoutes(suite.router, suite.cfg, container)
}

func (suite *LeadHandlerTestSuite) do(method, url string, body any, authorized bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", bearer(&suite.Suite, suite.cfg))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *LeadHandlerTestSuite) TestConvertLead_Success() {
	dp := decimal.NewFromInt(5_000_000)
	result := &conversion.Result{
		Lead:        domain.Lead{ID: "LEAD001", Status: domain.LeadConverted},
		Client:      domain.Client{ID: "CLI-1", Name: "Andi & Siska"},
		Project:     domain.Project{ID: "PRJ-1", ProjectName: "Proyek Andi & Siska"},
		Transaction: &domain.Transaction{ID: "TRN-DP-PRJ-1", Amount: dp, Type: domain.Income},
		Subtotal:    decimal.NewFromInt(17_000_000),
		Discount:    decimal.NewFromInt(1_700_000),
		TotalCost:   decimal.NewFromInt(15_300_000),
		Remaining:   decimal.NewFromInt(10_300_000),
	}
	suite.mockConversion.On("ConvertLead",
		mock.Anything,
		"LEAD001",
		mock.MatchedBy(func(r dto.ConvertLeadRequest) bool {
			return r.PackageID == "PKG001" && r.DownPayment.Equal(dp)
		}),
		"admin",
	).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/leads/LEAD001/convert", map[string]any{
		"packageId":     "PKG001",
		"addOnIds":      []string{"ADD001"},
		"promoCodeId":   "PROMO001",
		"dp":            "5000000",
		"dpDestination": "CARD001",
	}, true)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("CLI-1", resp.Client.ID)
	suite.Require().NotNil(resp.Transaction)
	suite.Equal("TRN-DP-PRJ-1", resp.Transaction.ID)
	suite.True(resp.RemainingBalance.Equal(decimal.NewFromInt(10_300_000)))
	suite.mockConversion.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestConvertLead_ErrorMapping() {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: package is required", apperrors.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: lead LEAD404", apperrors.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("giving up: %w", apperrors.ErrConflict), http.StatusConflict},
		{apperrors.NewAppError(http.StatusServiceUnavailable, "store unavailable", nil), http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.mockConversion.On("ConvertLead", mock.Anything, "LEAD001", mock.Anything, "admin").Return(nil, tc.err).Once()

		w := suite.do(http.MethodPost, "/api/v1/leads/LEAD001/convert", map[string]any{"packageId": "PKG001"}, true)
		suite.Equal(tc.code, w.Code, tc.err.Error())
	}

	// Internal details are not leaked on 500.
	suite.mockConversion.On("ConvertLead", mock.Anything, "LEAD001", mock.Anything, "admin").Return(nil, fmt.Errorf("pgx: secret dsn")).Once()
	w := suite.do(http.MethodPost, "/api/v1/leads/LEAD001/convert", map[string]any{}, true)
	suite.NotContains(w.Body.String(), "secret dsn")
}

func (suite *LeadHandlerTestSuite) TestConvertLead_RequiresToken() {
	w := suite.do(http.MethodPost, "/api/v1/leads/LEAD001/convert", map[string]any{"packageId": "PKG001"}, false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockConversion.AssertNotCalled(suite.T(), "ConvertLead")
}

func (suite *LeadHandlerTestSuite) TestMoveLead_InvalidStatusRejectedByBinding() {
	w := suite.do(http.MethodPatch, "/api/v1/leads/LEAD001/status", map[string]any{"status": "ARCHIVED"}, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLead.AssertNotCalled(suite.T(), "MoveLead")
}

func (suite *LeadHandlerTestSuite) TestMoveLead_Success() {
	suite.mockLead.On("MoveLead", mock.Anything, "LEAD001", domain.LeadFollowUp, "admin").
		Return(&domain.Lead{ID: "LEAD001", Status: domain.LeadFollowUp}, nil).Once()

	w := suite.do(http.MethodPatch, "/api/v1/leads/LEAD001/status", map[string]any{"status": "FOLLOW_UP"}, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockLead.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestLeadStats() {
	suite.mockLead.On("LeadStats", mock.Anything).
		Return(&dto.LeadStatsResponse{Total: 3, Converted: 1, ConversionRate: 33.3}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/leads/stats", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.LeadStatsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(3, resp.Total)
	suite.mockLead.AssertExpectations(suite.T())
}

func (suite *LeadHandlerTestSuite) TestPublicLead_NoTokenNeeded() {
	suite.mockLead.On("SubmitPublicLead", mock.Anything, mock.MatchedBy(func(r dto.PublicLeadRequest) bool {
		return r.Name == "Citra"
	})).Return(&domain.Lead{ID: "LEAD-1", Name: "Citra", ContactChannel: domain.ChannelSuggestionForm}, nil).Once()

	w := suite.do(http.MethodPost, "/public/leads", map[string]any{"name": "Citra", "message": "Halo"}, false)

	suite.Equal(http.StatusCreated, w.Code)
	suite.NotEmpty(w.Header().Get("X-RateLimit-Limit"))
	suite.mockLead.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestLeadHandler(t *testing.T) {
	suite.Run(t, new(LeadHandlerTestSuite))
}
