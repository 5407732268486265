package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-api/internal/service"
)

type testApp struct {
	router  *gin.Engine
	users   *mockUserRepo
	sender  *mockEmailSender
	catalog *mockCatalogRepo
	history *mockHistoryRepo
	jwt     *service.JWTService
}

func newTestApp(limiter service.OTPRateLimiter) *testApp {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	app := &testApp{
		users:   newMockUserRepo(),
		sender:  &mockEmailSender{},
		catalog: &mockCatalogRepo{},
		history: &mockHistoryRepo{},
		jwt:     service.NewJWTService("secret", time.Hour),
	}
	if limiter == nil {
		limiter = &mockLimiter{allow: true}
	}
	userSvc := service.NewUserService(logger, app.users, service.UserServiceDeps{
		Hasher:      service.NewBcryptHasher(4),
		EmailSender: app.sender,
		OTPLimiter:  limiter,
	})
	predictionSvc := service.NewPredictionService(logger, service.NewSalaryEstimator(logger, nil), app.history)

	app.router = NewRouter(logger, RouterDeps{
		Users:          NewUserHandler(logger, userSvc, app.jwt),
		Catalog:        NewCatalogHandler(logger, service.NewCatalogService(app.catalog)),
		Predictions:    NewPredictionHandler(logger, predictionSvc),
		JWT:            app.jwt,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return app
}

func performRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(t *testing.T, emailAddr, password string) string {
	t.Helper()
	rec := performRequest(a.router, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana",
		"last_name":  "Martin",
		"email":      emailAddr,
		"password":   password,
		"location":   "Lyon",
		"role":       "candidat",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.AccessToken == "" {
		t.Fatalf("register: expected access token, got %s", rec.Body.String())
	}
	return resp.AccessToken
}

func TestUserHandlerRegisterAndMe(t *testing.T) {
	app := newTestApp(nil)
	token := app.register(t, "ana@example.com", "secret123")

	rec := performRequest(app.router, http.MethodGet, "/api/auth/me", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var user struct {
		Email  string `json:"email"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "ana@example.com" || user.Role != "candidat" || user.Status != "active" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestUserHandlerRegisterDuplicate(t *testing.T) {
	app := newTestApp(nil)
	app.register(t, "ana@example.com", "secret123")

	rec := performRequest(app.router, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana",
		"last_name":  "Martin",
		"email":      "ana@example.com",
		"password":   "x",
		"role":       "candidat",
	}, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestUserHandlerRegisterValidation(t *testing.T) {
	app := newTestApp(nil)

	rec := performRequest(app.router, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana",
		"last_name":  "Martin",
		"email":      "not-an-email",
		"password":   "x",
		"role":       "candidat",
	}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email, got %d", rec.Code)
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/register", map[string]string{
		"first_name": "Ana",
		"last_name":  "Martin",
		"email":      "a@example.com",
		"password":   "x",
		"role":       "pirate",
	}, "")
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != service.ErrInvalidRole.Error() {
		t.Fatalf("expected 400 invalid role, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestUserHandlerLogin(t *testing.T) {
	app := newTestApp(nil)
	app.register(t, "ana@example.com", "secret123")

	rec := performRequest(app.router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "secret123",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	wrongPass := performRequest(app.router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "nope",
	}, "")
	unknown := performRequest(app.router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "secret123",
	}, "")
	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both, got %d and %d", wrongPass.Code, unknown.Code)
	}
	if errorMessage(t, wrongPass) != errorMessage(t, unknown) {
		t.Fatalf("expected identical messages for unknown email and wrong password")
	}
}

func TestUserHandlerProfilePasswordRole(t *testing.T) {
	app := newTestApp(nil)
	token := app.register(t, "ana@example.com", "secret123")

	rec := performRequest(app.router, http.MethodPut, "/api/auth/profile", map[string]string{
		"first_name": "Lea", "last_name": "Dupont",
	}, token)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"first_name":"Lea"`)) {
		t.Fatalf("update profile: %d %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/change-password", map[string]string{
		"old_password": "wrong", "new_password": "next",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong current password, got %d", rec.Code)
	}
	rec = performRequest(app.router, http.MethodPost, "/api/auth/change-password", map[string]string{
		"old_password": "secret123", "new_password": "next",
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/change-role", map[string]string{"role": "recruteur"}, token)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"role":"recruteur"`)) {
		t.Fatalf("change role: %d %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/change-role", map[string]string{"role": "recruteur"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestUserHandlerMeUnknownUser(t *testing.T) {
	app := newTestApp(nil)
	token, err := app.jwt.Issue(domainUser("ghost"))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := performRequest(app.router, http.MethodGet, "/api/auth/me", nil, token.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandlerResetPasswordFlow(t *testing.T) {
	app := newTestApp(nil)
	app.register(t, "ana@example.com", "secret123")

	rec := performRequest(app.router, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ana@example.com"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("forgot password: expected 200, got %d", rec.Code)
	}
	var delivery service.CodeDelivery
	_ = json.Unmarshal(rec.Body.Bytes(), &delivery)
	if !delivery.EmailSent {
		t.Fatalf("expected email_sent=true, got %s", rec.Body.String())
	}
	code := app.sender.lastCode

	wrong := "000000"
	if code == wrong {
		wrong = "999999"
	}
	rec = performRequest(app.router, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "ana@example.com", "code": wrong, "new_password": "brandnew",
	}, "")
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != service.ErrCodeMismatch.Error() {
		t.Fatalf("expected 400 invalid code, got %d %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "ana@example.com", "code": code, "new_password": "brandnew",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset password: expected 200, got %d", rec.Code)
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "ana@example.com", "password": "brandnew",
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login after reset: expected 200, got %d", rec.Code)
	}
}

func TestUserHandlerForgotPasswordUnknownEmail(t *testing.T) {
	app := newTestApp(nil)
	rec := performRequest(app.router, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "ghost@example.com"}, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUserHandlerVerifyEmail(t *testing.T) {
	app := newTestApp(nil)

	rec := performRequest(app.router, http.MethodPost, "/api/auth/verify-email", map[string]string{
		"email": "new@example.com", "code": "123456",
	}, "")
	if rec.Code != http.StatusBadRequest || errorMessage(t, rec) != service.ErrCodeNotFound.Error() {
		t.Fatalf("expected 400 no pending code, got %d %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(app.router, http.MethodPost, "/api/auth/send-verification", map[string]string{"email": "new@example.com"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("send verification: expected 200, got %d", rec.Code)
	}
	rec = performRequest(app.router, http.MethodPost, "/api/auth/verify-email", map[string]string{
		"email": "new@example.com", "code": app.sender.lastCode,
	}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify email: expected 200, got %d", rec.Code)
	}
}

func TestUserHandlerSendVerification_EmailFailureReported(t *testing.T) {
	app := newTestApp(nil)
	app.sender.err = errTestSMTP

	rec := performRequest(app.router, http.MethodPost, "/api/auth/send-verification", map[string]string{"email": "new@example.com"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"email_sent":false`)) {
		t.Fatalf("expected email_sent=false, got %s", rec.Body.String())
	}
}

func TestUserHandlerSendVerification_RateLimited(t *testing.T) {
	app := newTestApp(&mockLimiter{allow: false})

	rec := performRequest(app.router, http.MethodPost, "/api/auth/send-verification", map[string]string{"email": "new@example.com"}, "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}
