package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/SscSPs/studio_ops_app/cmd/docs"
	"github.com/SscSPs/studio_ops_app/internal/core/domain"
	portsrepo "github.com/SscSPs/studio_ops_app/internal/core/ports/repositories"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/dto"
	"github.com/SscSPs/studio_ops_app/internal/handlers"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/repositories/memory"
	"github.com/SscSPs/studio_ops_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// RoutesTestSuite drives the real services over HTTP against the in-memory store.
type RoutesTestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	repos  portsrepo.RepositoryProvider
}

func (suite *RoutesTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testConfig()
	hash, err := utils.HashPassword("rahasia")
	suite.Require().NoError(err)
	suite.cfg.AdminPasswordHash = hash

	suite.repos, _ = memory.NewRepositoryProvider()
	ctx := context.Background()
	suite.Require().NoError(suite.repos.PackageRepo.Insert(ctx, &domain.Package{ID: "PKG001", Name: "Paket Gold", Price: decimal.NewFromInt(15_000_000)}))
	suite.Require().NoError(suite.repos.AddOnRepo.Insert(ctx, &domain.AddOn{ID: "ADD001", Name: "Drone", Price: decimal.NewFromInt(2_000_000)}))
	suite.Require().NoError(suite.repos.CardRepo.Insert(ctx, &domain.Card{ID: "CARD001", BankName: "BCA", CardType: domain.CardDebit}))
	suite.Require().NoError(suite.repos.PocketRepo.Insert(ctx, &domain.FinancialPocket{ID: domain.ClientIncomePocketID, Name: "Pemasukan Klien", Type: domain.PocketSaving}))

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.cfg, services.NewServiceContainer(suite.cfg, suite.repos))
}

func (suite *RoutesTestSuite) request(method, url, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RoutesTestSuite) login() string {
	w := suite.request(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "admin", Password: "rahasia"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.LoginResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Bearer", resp.TokenType)
	return resp.Token
}

func (suite *RoutesTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *RoutesTestSuite) TestLogin_WrongPassword() {
	w := suite.request(http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: "admin", Password: "salah"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *RoutesTestSuite) TestLeadToPortal() {
	token := suite.login()

	w := suite.request(http.MethodPost, "/api/v1/leads", token, dto.CreateLeadRequest{Name: "Andi & Siska", ContactChannel: domain.ChannelInstagram, Location: "Bandung"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var lead domain.Lead
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &lead))

	w = suite.request(http.MethodPost, "/api/v1/leads/"+lead.ID+"/convert", token, map[string]any{
		"packageId":     "PKG001",
		"addOnIds":      []string{"ADD001"},
		"date":          "2024-09-14",
		"dp":            "5000000",
		"dpDestination": "CARD001",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var conv dto.ConversionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &conv))
	suite.Equal(domain.LeadConverted, conv.Lead.Status)
	suite.True(conv.TotalCost.Equal(decimal.NewFromInt(17_000_000)))
	suite.True(conv.RemainingBalance.Equal(decimal.NewFromInt(12_000_000)))

	// Converting twice is a validation error.
	w = suite.request(http.MethodPost, "/api/v1/leads/"+lead.ID+"/convert", token, map[string]any{"packageId": "PKG001"})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodGet, "/public/portal/"+conv.Client.PortalAccessID, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var portal dto.PortalResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &portal))
	suite.Require().Len(portal.Projects, 1)
	suite.Equal(domain.PaymentDownPayment, portal.Projects[0].PaymentStatus)
	suite.Equal("Rp 12.000.000", portal.Projects[0].RemainingBalanceText)

	w = suite.request(http.MethodGet, "/api/v1/finance/summary", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary dto.SummaryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	suite.True(summary.TotalIncome.Equal(decimal.NewFromInt(5_000_000)))
	suite.True(summary.OutstandingFromClients.Equal(decimal.NewFromInt(12_000_000)))
}

func (suite *RoutesTestSuite) TestPublicBooking() {
	w := suite.request(http.MethodPost, "/public/bookings", "", map[string]any{
		"name":          "Budi",
		"email":         "budi@example.com",
		"packageId":     "PKG001",
		"date":          "2024-10-01",
		"dp":            "1000000",
		"dpDestination": "CARD001",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var raw map[string]json.RawMessage
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"card", "pocket", "promoCode", "transaction", "client", "lead"} {
		suite.NotContains(raw, key)
	}
	suite.NotContains(w.Body.String(), "balance\"")

	var booking dto.PublicBookingResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &booking))
	suite.NotEmpty(booking.PortalAccessID)
	suite.Equal(domain.PaymentDownPayment, booking.PaymentStatus)
	suite.True(booking.TotalCost.Equal(decimal.NewFromInt(15_000_000)))
	suite.True(booking.RemainingBalance.Equal(decimal.NewFromInt(14_000_000)))

	lead, err := suite.repos.LeadRepo.Get(context.Background(), booking.LeadID)
	suite.Require().NoError(err)
	suite.Equal(domain.ChannelWebsite, lead.ContactChannel)
	suite.Equal(domain.LeadConverted, lead.Status)

	w = suite.request(http.MethodPost, "/public/bookings", "", map[string]any{"name": "Budi", "packageId": "PKG404"})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestPortal_UnknownAccessID() {
	w := suite.request(http.MethodGet, "/public/portal/does-not-exist", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RoutesTestSuite) TestPromoCode_DuplicateIsConflict() {
	token := suite.login()
	body := map[string]any{"code": "vena10", "discountType": "percentage", "discountValue": "10"}

	w := suite.request(http.MethodPost, "/api/v1/promo-codes", token, body)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, "/api/v1/promo-codes", token, body)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *RoutesTestSuite) TestMetricsExposed() {
	w := suite.request(http.MethodGet, "/metrics", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "go_goroutines")
}

var ginParam = regexp.MustCompile(`:(\w+)`)

func (suite *RoutesTestSuite) TestSwaggerDocumentsEveryRoute() {
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	suite.Equal("/", doc.BasePath)

	for _, route := range suite.router.Routes() {
		switch {
		case route.Path == "/health", route.Path == "/metrics", strings.HasPrefix(route.Path, "/swagger"):
			continue
		}
		path := ginParam.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if !suite.True(ok, "undocumented path %s", path) {
			continue
		}
		suite.Contains(ops, strings.ToLower(route.Method), "undocumented %s %s", route.Method, path)
	}
}

func TestRoutes(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}
