package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/halaltools/amanah/internal/auth/domain"
	"github.com/halaltools/amanah/internal/auth/repository"
	"github.com/halaltools/amanah/internal/auth/token"
	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/config"
	contractdomain "github.com/halaltools/amanah/internal/contract/domain"
	"github.com/halaltools/amanah/internal/observability/metrics"
	quotadomain "github.com/halaltools/amanah/internal/quota/domain"
	"github.com/halaltools/amanah/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mailerStub struct {
	sent []string
	err  error
}

func (m *mailerStub) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, htmlBody)
	return nil
}

func setupAuthService(t *testing.T, clk clock.Clock, mailer *mailerStub) (domain.Service, *gorm.DB) {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = conn.AutoMigrate(
		&domain.User{},
		&domain.PasswordReset{},
		&quotadomain.UsageAccount{},
		&contractdomain.GenerationRecord{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	metrics.ResetForTest()
	m := metrics.New(metrics.Config{ServiceName: "test", Environment: "test"})

	svc := New(
		zap.NewNop(),
		repository.New(conn),
		token.NewIssuer("test-secret", time.Hour),
		mailer,
		config.NewStaticLimitsHolder(config.DefaultLimits()),
		clk,
		node,
		m,
	)
	return svc, conn
}

func testClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC))
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	result, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "strong-password",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.Token == "" {
		t.Fatal("expected token")
	}

	login, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatal("expected same account")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	req := domain.SignupRequest{Email: "bob@example.com", Password: "strong-password"}
	if _, err := svc.Signup(ctx, req); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := svc.Signup(ctx, req); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestSignupShortPassword(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})

	_, err := svc.Signup(context.Background(), domain.SignupRequest{
		Email:    "short@example.com",
		Password: "tiny",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignupDefaultsNameFromEmail(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})

	result, err := svc.Signup(context.Background(), domain.SignupRequest{
		Email:    "carol@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if result.User.Name != "carol" {
		t.Fatalf("expected name defaulted to local part, got %q", result.User.Name)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "dave@example.com",
		Password: "correct-password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "dave@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailMasked(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})

	_, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	clk := testClock()
	mailer := &mailerStub{}
	svc, conn := setupAuthService(t, clk, mailer)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "erin@example.com",
		Password: "original-password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "erin@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}

	var reset domain.PasswordReset
	if err := conn.Where("email = ?", "erin@example.com").First(&reset).Error; err != nil {
		t.Fatalf("load reset: %v", err)
	}
	if len(reset.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", reset.Code)
	}

	if err := svc.ResetPassword(ctx, "erin@example.com", reset.Code, "replacement-password"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "erin@example.com",
		Password: "replacement-password",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// The code is single use.
	err := svc.ResetPassword(ctx, "erin@example.com", reset.Code, "another-password")
	if !errors.Is(err, domain.ErrResetExpired) {
		t.Fatalf("expected ErrResetExpired for reused code, got %v", err)
	}
}

func TestPasswordResetExpiredCode(t *testing.T) {
	clk := testClock()
	svc, conn := setupAuthService(t, clk, &mailerStub{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "frank@example.com",
		Password: "original-password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "frank@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	var reset domain.PasswordReset
	if err := conn.Where("email = ?", "frank@example.com").First(&reset).Error; err != nil {
		t.Fatalf("load reset: %v", err)
	}

	clk.Advance(6 * time.Minute)

	err := svc.ResetPassword(ctx, "frank@example.com", reset.Code, "replacement-password")
	if !errors.Is(err, domain.ErrResetExpired) {
		t.Fatalf("expected ErrResetExpired, got %v", err)
	}
}

func TestPasswordResetWrongCode(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "grace@example.com",
		Password: "original-password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if err := svc.RequestPasswordReset(ctx, "grace@example.com"); err != nil {
		t.Fatalf("request reset: %v", err)
	}

	err := svc.ResetPassword(ctx, "grace@example.com", "000000", "replacement-password")
	if err != nil && !errors.Is(err, domain.ErrResetCodeMismatch) {
		t.Fatalf("expected ErrResetCodeMismatch, got %v", err)
	}
}

func TestPasswordResetDailyCap(t *testing.T) {
	svc, _ := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	if _, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "heidi@example.com",
		Password: "original-password",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.RequestPasswordReset(ctx, "heidi@example.com"); err != nil {
			t.Fatalf("request %d: %v", i+1, err)
		}
	}

	err := svc.RequestPasswordReset(ctx, "heidi@example.com")
	if !errors.Is(err, domain.ErrOTPDailyCap) {
		t.Fatalf("expected ErrOTPDailyCap, got %v", err)
	}
}

func TestDeleteAccountOwnerOnly(t *testing.T) {
	svc, conn := setupAuthService(t, testClock(), &mailerStub{})
	ctx := context.Background()

	owner, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "ivan@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	ownerID, err := snowflake.ParseString(owner.User.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	other, err := svc.Signup(ctx, domain.SignupRequest{
		Email:    "judy@example.com",
		Password: "strong-password",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	otherID, err := snowflake.ParseString(other.User.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	if err := svc.DeleteAccount(ctx, otherID, ownerID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign delete, got %v", err)
	}

	if err := svc.DeleteAccount(ctx, ownerID, ownerID); err != nil {
		t.Fatalf("delete own account: %v", err)
	}

	var count int64
	if err := conn.Model(&domain.User{}).Where("id = ?", ownerID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatal("expected user row removed")
	}
}
