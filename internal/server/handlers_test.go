package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/halaltools/amanah/internal/auth/domain"
	"github.com/halaltools/amanah/internal/auth/token"
	"github.com/halaltools/amanah/internal/cache"
	contractdomain "github.com/halaltools/amanah/internal/contract/domain"
	quotadomain "github.com/halaltools/amanah/internal/quota/domain"
	ratesdomain "github.com/halaltools/amanah/internal/rates/domain"
	verdictdomain "github.com/halaltools/amanah/internal/verdict/domain"
	"github.com/shopspring/decimal"
)

type fakeContractService struct {
	lastReq contractdomain.GenerateRequest
	result  *contractdomain.GenerateResult
	err     error
}

func (f *fakeContractService) Generate(ctx context.Context, req contractdomain.GenerateRequest) (*contractdomain.GenerateResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeQuotaService struct {
	decision quotadomain.Decision
}

func (f *fakeQuotaService) CheckAndConsume(ctx context.Context, identity string, unlimited bool) (quotadomain.Decision, error) {
	return f.decision, nil
}

func (f *fakeQuotaService) Peek(ctx context.Context, identity string, unlimited bool) (quotadomain.Decision, error) {
	if unlimited {
		return quotadomain.Decision{Allowed: true, Unlimited: true}, nil
	}
	return f.decision, nil
}

type fakeRatesService struct {
	snapshot *ratesdomain.RateSnapshot
	err      error
}

func (f *fakeRatesService) RefreshOnce(ctx context.Context) error { return nil }

func (f *fakeRatesService) Latest(ctx context.Context) (*ratesdomain.RateSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakeVerdictService struct {
	eval *verdictdomain.Evaluation
	err  error
}

func (f *fakeVerdictService) Evaluate(ctx context.Context, inv verdictdomain.Investment) (*verdictdomain.Evaluation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.eval, nil
}

type fakeUserRepo struct {
	user *authdomain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *authdomain.User) error { return nil }

func (f *fakeUserRepo) FindByID(ctx context.Context, id snowflake.ID) (*authdomain.User, error) {
	if f.user == nil {
		return nil, authdomain.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	return nil, authdomain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	return nil
}

func (f *fakeUserRepo) DeleteCascade(ctx context.Context, id snowflake.ID) error { return nil }

func (f *fakeUserRepo) CreateReset(ctx context.Context, reset *authdomain.PasswordReset) error {
	return nil
}

func (f *fakeUserRepo) LatestReset(ctx context.Context, email string) (*authdomain.PasswordReset, error) {
	return nil, authdomain.ErrResetNotFound
}

func (f *fakeUserRepo) CountResetsSince(ctx context.Context, email string, since time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepo) MarkResetUsed(ctx context.Context, id snowflake.ID, usedAt time.Time) error {
	return nil
}

func newHandlerTestServer(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAuthRoutes()
	srv.registerAPIRoutes()
	return router
}

func TestGenerateContractAnonymous(t *testing.T) {
	contractSvc := &fakeContractService{
		result: &contractdomain.GenerateResult{Contract: "doc text", Remaining: 3},
	}
	srv := &Server{
		issuer:      token.NewIssuer("test-secret", time.Hour),
		contractSvc: contractSvc,
		premium:     cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	body := `{"contractType":"NDA","formData":{"Party A":"Acme"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/contracts/generate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.7:51000"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if contractSvc.lastReq.Identity != "ip:192.0.2.7" {
		t.Fatalf("expected ip identity, got %q", contractSvc.lastReq.Identity)
	}

	var payload struct {
		Success           bool   `json:"success"`
		Contract          string `json:"contract"`
		RemainingFreeUses int    `json:"remainingFreeUses"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || payload.Contract != "doc text" || payload.RemainingFreeUses != 3 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestGenerateContractQuotaExhausted(t *testing.T) {
	srv := &Server{
		issuer:      token.NewIssuer("test-secret", time.Hour),
		contractSvc: &fakeContractService{err: quotadomain.ErrQuotaExhausted},
		premium:     cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/generate", bytes.NewBufferString(`{"contractType":"NDA"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte("Free usage limit reached")) {
		t.Fatalf("expected upgrade message, got %s", resp.Body.String())
	}
}

func TestGenerateContractPremiumUser(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	userID := snowflake.ID(4242)
	contractSvc := &fakeContractService{
		result: &contractdomain.GenerateResult{Contract: "doc", Unlimited: true},
	}
	srv := &Server{
		issuer:      issuer,
		authRepo:    &fakeUserRepo{user: &authdomain.User{ID: userID, IsPremium: true}},
		contractSvc: contractSvc,
		premium:     cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	raw, err := issuer.Issue(userID, "premium@example.com", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/generate", bytes.NewBufferString(`{"contractType":"NDA"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+raw)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if contractSvc.lastReq.Identity != "user:"+userID.String() {
		t.Fatalf("expected user identity, got %q", contractSvc.lastReq.Identity)
	}
	if !contractSvc.lastReq.Unlimited {
		t.Fatal("expected premium caller marked unlimited")
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(`"remainingFreeUses":-1`)) {
		t.Fatalf("expected -1 remaining for premium, got %s", resp.Body.String())
	}
}

func TestGenerateContractMissingType(t *testing.T) {
	srv := &Server{
		issuer:      token.NewIssuer("test-secret", time.Hour),
		contractSvc: &fakeContractService{},
		premium:     cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/generate", bytes.NewBufferString(`{"formData":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetRatesFallbackFlag(t *testing.T) {
	srv := &Server{
		issuer: token.NewIssuer("test-secret", time.Hour),
		ratesSvc: &fakeRatesService{snapshot: &ratesdomain.RateSnapshot{
			Gold:       decimal.NewFromFloat(29900.17),
			Silver:     decimal.NewFromFloat(337.58),
			FetchedAt:  time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC),
			IsFallback: true,
		}},
		premium: cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Gold     json.Number `json:"gold"`
		Fallback bool        `json:"fallback"`
		Message  string      `json:"message"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Fallback {
		t.Fatal("expected fallback flag set")
	}
	if payload.Message == "live rates" {
		t.Fatal("expected stale-data message for fallback snapshot")
	}
}

func TestGetRatesNoData(t *testing.T) {
	srv := &Server{
		issuer:   token.NewIssuer("test-secret", time.Hour),
		ratesSvc: &fakeRatesService{err: ratesdomain.ErrNoSnapshot},
		premium:  cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodGet, "/api/rates", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestEvaluateInvestment(t *testing.T) {
	srv := &Server{
		issuer: token.NewIssuer("test-secret", time.Hour),
		verdictSvc: &fakeVerdictService{eval: &verdictdomain.Evaluation{
			Verdict: "Halal",
			Reason:  "Asset-backed.",
			Raw:     "Verdict: Halal\nReason: Asset-backed.",
		}},
		premium: cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-investment", bytes.NewBufferString(`{"name":"Sukuk"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(`"verdict":"Halal"`)) {
		t.Fatalf("expected verdict in payload, got %s", resp.Body.String())
	}
}

func TestEvaluateInvestmentUpstreamDown(t *testing.T) {
	srv := &Server{
		issuer:     token.NewIssuer("test-secret", time.Hour),
		verdictSvc: &fakeVerdictService{err: verdictdomain.ErrUpstreamUnavailable},
		premium:    cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodPost, "/api/evaluate-investment", bytes.NewBufferString(`{"name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	srv := &Server{
		issuer:  token.NewIssuer("test-secret", time.Hour),
		premium: cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestFreeUsesAnonymous(t *testing.T) {
	srv := &Server{
		issuer:   token.NewIssuer("test-secret", time.Hour),
		quotaSvc: &fakeQuotaService{decision: quotadomain.Decision{Allowed: true, Remaining: 5}},
		premium:  cache.NewPremiumCache(),
	}
	router := newHandlerTestServer(srv)

	req := httptest.NewRequest(http.MethodGet, "/auth/free-uses", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(`"remaining_uses":5`)) {
		t.Fatalf("expected remaining uses, got %s", resp.Body.String())
	}
}

func TestClientIPHonorsForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	if got := clientIP(c); got != "203.0.113.5" {
		t.Fatalf("expected first forwarded hop, got %q", got)
	}
}
