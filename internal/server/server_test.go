package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baselog-dev/baselog/internal/config"
	"github.com/baselog-dev/baselog/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTP:     config.HTTPConfig{Port: "0", CORSOrigins: []string{"http://localhost:3000"}},
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "test.sqlite")},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Logging:  config.LoggingConfig{Level: "disabled", Format: "json"},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(testConfig(t), zerolog.Nop(), "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := srv.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	})
	return srv
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signUp registers and logs in an account, returning its token and ID
func signUp(t *testing.T, srv *Server, email string) (string, string) {
	t.Helper()

	rec := doRequest(t, srv, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email: email, Password: "password123", FirstName: "Ana", LastName: "Souza",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, srv, http.MethodPost, "/auth/login", "", LoginRequest{Email: email, Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	login := decode[LoginResponse](t, rec)
	return login.AccessToken, login.ID
}

func TestRegisterFirstAccountIsAdmin(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email: "Admin@Example.com", Password: "password123", FirstName: "Ada", LastName: "Lovelace",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[models.User](t, rec)
	assert.Equal(t, models.RoleAdmin, first.Role)
	assert.Equal(t, "admin@example.com", first.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = doRequest(t, srv, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email: "user@example.com", Password: "password123", FirstName: "Bob", LastName: "Silva",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.RoleUser, decode[models.User](t, rec).Role)

	rec = doRequest(t, srv, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email: "user@example.com", Password: "password123", FirstName: "Bob", LastName: "Silva",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/auth/register", "", RegisterRequest{
		Email: "not-an-email", Password: "short", FirstName: "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	srv := newTestServer(t)
	token, id := signUp(t, srv, "ana@example.com")

	rec := doRequest(t, srv, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[models.User](t, rec)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "Ana", me.FirstName)

	rec = doRequest(t, srv, http.MethodPost, "/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")

	rec = doRequest(t, srv, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "ana@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var revoked models.RevokedToken
	require.NoError(t, srv.GetDB().First(&revoked).Error)
	assert.True(t, revoked.ExpiresAt.After(time.Now()))
}

func TestChangePassword(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "ana@example.com")

	rec := doRequest(t, srv, http.MethodPut, "/auth/change-password", token, ChangePasswordRequest{
		CurrentPassword: "wrong-password", NewPassword: "password456", NewPasswordConfirmation: "password456",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/auth/change-password", token, ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "password123", NewPasswordConfirmation: "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/auth/change-password", token, ChangePasswordRequest{
		CurrentPassword: "password123", NewPassword: "password456", NewPasswordConfirmation: "password456",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/auth/login", "", LoginRequest{Email: "ana@example.com", Password: "password456"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	srv := newTestServer(t)
	adminToken, _ := signUp(t, srv, "admin@example.com")
	userToken, _ := signUp(t, srv, "user@example.com")

	product := ProductRequest{Name: "Coffee", Price: 10}

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, srv, http.MethodPost, "/products", "", product).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, srv, http.MethodPost, "/products", userToken, product).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, srv, http.MethodGet, "/users", userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, srv, http.MethodGet, "/sales", userToken, nil).Code)

	assert.Equal(t, http.StatusCreated, doRequest(t, srv, http.MethodPost, "/products", adminToken, product).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, srv, http.MethodGet, "/products", userToken, nil).Code)
}

func TestProductCRUD(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "admin@example.com")

	rec := doRequest(t, srv, http.MethodPost, "/products", token, ProductRequest{Name: " Coffee ", Price: 12.499})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Product](t, rec)
	assert.Equal(t, "Coffee", created.Name)
	assert.Equal(t, 12.5, created.Price)

	rec = doRequest(t, srv, http.MethodPost, "/products", token, ProductRequest{Name: "Free", Price: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/products/"+created.ID, token, ProductRequest{Name: "Espresso", Price: 9})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Espresso", decode[models.Product](t, rec).Name)

	rec = doRequest(t, srv, http.MethodGet, "/products/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 9.0, decode[models.Product](t, rec).Price)

	assert.Equal(t, http.StatusNoContent, doRequest(t, srv, http.MethodDelete, "/products/"+created.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, srv, http.MethodGet, "/products/"+created.ID, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, srv, http.MethodDelete, "/products/"+created.ID, token, nil).Code)
}

func TestCustomerValidation(t *testing.T) {
	srv := newTestServer(t)
	token, _ := signUp(t, srv, "admin@example.com")

	valid := CustomerRequest{
		Name:      "Maria Silva",
		Email:     "maria@example.com",
		CPF:       "123.456.789-09",
		BirthDate: "1990-05-17",
		Gender:    "F",
		Phone:     "(11) 91234-5678",
		Address:   "Rua A, 100",
	}

	rec := doRequest(t, srv, http.MethodPost, "/customers", token, valid)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Customer](t, rec)

	assert.Equal(t, http.StatusConflict, doRequest(t, srv, http.MethodPost, "/customers", token, valid).Code)

	// updating a customer keeps its own CPF
	valid.Address = "Rua B, 200"
	rec = doRequest(t, srv, http.MethodPut, "/customers/"+created.ID, token, valid)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Rua B, 200", decode[models.Customer](t, rec).Address)

	bad := valid
	bad.CPF = "12345678909"
	assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, http.MethodPost, "/customers", token, bad).Code)

	bad = valid
	bad.CPF = "987.654.321-00"
	bad.Phone = "12345"
	assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, http.MethodPost, "/customers", token, bad).Code)

	bad = valid
	bad.CPF = "987.654.321-00"
	bad.BirthDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, http.MethodPost, "/customers", token, bad).Code)

	assert.Equal(t, http.StatusNoContent, doRequest(t, srv, http.MethodDelete, "/customers/"+created.ID, token, nil).Code)
}

func createProduct(t *testing.T, srv *Server, token, name string, price float64) models.Product {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/products", token, ProductRequest{Name: name, Price: price})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Product](t, rec)
}

func createSale(t *testing.T, srv *Server, token, productID, userID string, qty int) models.Sale {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/sales", token, SaleRequest{ProductID: productID, UserID: userID, Quantity: qty})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Sale](t, rec)
}

func TestSalesOwnership(t *testing.T) {
	srv := newTestServer(t)
	adminToken, adminID := signUp(t, srv, "admin@example.com")
	userToken, userID := signUp(t, srv, "user@example.com")

	coffee := createProduct(t, srv, adminToken, "Coffee", 10)
	own := createSale(t, srv, adminToken, coffee.ID, userID, 2)
	other := createSale(t, srv, adminToken, coffee.ID, adminID, 1)

	assert.Equal(t, "Coffee", own.Product.Name)
	assert.Equal(t, userID, own.User.ID)

	assert.Equal(t, http.StatusOK, doRequest(t, srv, http.MethodGet, "/sales/"+own.ID, userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, srv, http.MethodGet, "/sales/"+other.ID, userToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, srv, http.MethodGet, "/sales/users/"+adminID, userToken, nil).Code)

	rec := doRequest(t, srv, http.MethodGet, "/sales/users/"+userID, userToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]models.Sale](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, own.ID, mine[0].ID)

	rec = doRequest(t, srv, http.MethodGet, "/sales", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Sale](t, rec), 2)
}

func TestSaleValidation(t *testing.T) {
	srv := newTestServer(t)
	token, adminID := signUp(t, srv, "admin@example.com")
	coffee := createProduct(t, srv, token, "Coffee", 10)

	rec := doRequest(t, srv, http.MethodPost, "/sales", token, SaleRequest{ProductID: coffee.ID, UserID: adminID, Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/sales", token, SaleRequest{ProductID: "missing", UserID: adminID, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown product")

	sale := createSale(t, srv, token, coffee.ID, adminID, 1)
	rec = doRequest(t, srv, http.MethodPut, "/sales/"+sale.ID, token, SaleRequest{ProductID: coffee.ID, UserID: adminID, Quantity: 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[models.Sale](t, rec).Quantity)

	// products with sales are kept
	assert.Equal(t, http.StatusConflict, doRequest(t, srv, http.MethodDelete, "/products/"+coffee.ID, token, nil).Code)

	assert.Equal(t, http.StatusNoContent, doRequest(t, srv, http.MethodDelete, "/sales/"+sale.ID, token, nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(t, srv, http.MethodDelete, "/products/"+coffee.ID, token, nil).Code)
}

func TestDeleteUser(t *testing.T) {
	srv := newTestServer(t)
	adminToken, adminID := signUp(t, srv, "admin@example.com")
	userToken, userID := signUp(t, srv, "user@example.com")
	coffee := createProduct(t, srv, adminToken, "Coffee", 10)
	createSale(t, srv, adminToken, coffee.ID, userID, 1)

	assert.Equal(t, http.StatusBadRequest, doRequest(t, srv, http.MethodDelete, "/users/"+adminID, adminToken, nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(t, srv, http.MethodDelete, "/users/"+userID, adminToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(t, srv, http.MethodGet, "/users/"+userID, adminToken, nil).Code)

	// the deleted user's token stops working
	assert.Equal(t, http.StatusUnauthorized, doRequest(t, srv, http.MethodGet, "/auth/me", userToken, nil).Code)

	var sales int64
	require.NoError(t, srv.GetDB().Model(&models.Sale{}).Count(&sales).Error)
	assert.Zero(t, sales)
}

func TestReports(t *testing.T) {
	srv := newTestServer(t)
	token, adminID := signUp(t, srv, "admin@example.com")

	coffee := createProduct(t, srv, token, "Coffee", 10)
	tea := createProduct(t, srv, token, "Tea", 5)
	createSale(t, srv, token, coffee.ID, adminID, 3) // 30
	createSale(t, srv, token, tea.ID, adminID, 2)    // 10

	rec := doRequest(t, srv, http.MethodGet, "/reports/average-ticket", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	avg := decode[AverageTicketResponse](t, rec)
	assert.Equal(t, int64(2), avg.Count)
	assert.Equal(t, 20.0, avg.Average)

	rec = doRequest(t, srv, http.MethodGet, "/reports/sales-breakdown", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[BreakdownResponse](t, rec)
	assert.Equal(t, []BreakdownBucket{
		{Label: "Coffee", Value: 30, Percentage: 75},
		{Label: "Tea", Value: 10, Percentage: 25},
	}, b.Buckets)

	today := time.Now().UTC().Format("2006-01-02")
	rec = doRequest(t, srv, http.MethodGet, "/reports/average-ticket?from="+today+"&to="+today, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), decode[AverageTicketResponse](t, rec).Count)

	rec = doRequest(t, srv, http.MethodGet, "/reports/average-ticket?from=2000-01-01&to=2000-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[AverageTicketResponse](t, rec)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)

	rec = doRequest(t, srv, http.MethodGet, "/reports/sales-breakdown?from=2000-02-01&to=2000-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/reports/sales-breakdown?from=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthMetricsAndRequestID(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	rec = doRequest(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `baselog_http_requests_total{method="GET",route="/health",status="200"} 2`), body)
}

func TestJWTSecretIsPersisted(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""

	first, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	token, _ := signUp(t, first, "ana@example.com")
	sqlDB, err := first.GetDB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	second, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := second.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.Equal(t, http.StatusOK, doRequest(t, second, http.MethodGet, "/auth/me", token, nil).Code)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t,
		"app.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)&_pragma=journal_mode(WAL)",
		sqliteDSN("app.db"))
	assert.NotContains(t, sqliteDSN("file::memory:?cache=shared"), "journal_mode")
	assert.Contains(t, sqliteDSN("file::memory:?cache=shared"), "cache=shared&_pragma=")
}

func TestNoCORSOriginsServesWithoutCORS(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " , ")
	t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "env.sqlite"))
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Empty(t, cfg.HTTP.CORSOrigins)

	var srv *Server
	require.NotPanics(t, func() {
		srv, err = New(cfg, zerolog.Nop(), "test")
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := srv.GetDB().DB(); err == nil {
			sqlDB.Close()
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
