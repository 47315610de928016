package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/halaltools/amanah/internal/auth/domain"
	"github.com/halaltools/amanah/internal/auth/password"
	"github.com/halaltools/amanah/internal/auth/token"
	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/config"
	"github.com/halaltools/amanah/internal/observability/metrics"
	"github.com/halaltools/amanah/internal/providers/email"
	"github.com/halaltools/amanah/pkg/db"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type Service struct {
	log     *zap.Logger
	repo    domain.Repository
	issuer  *token.Issuer
	mailer  email.Provider
	limits  *config.LimitsHolder
	clock   clock.Clock
	genID   *snowflake.Node
	metrics *metrics.Metrics
}

func New(
	log *zap.Logger,
	repo domain.Repository,
	issuer *token.Issuer,
	mailer email.Provider,
	limits *config.LimitsHolder,
	clk clock.Clock,
	genID *snowflake.Node,
	m *metrics.Metrics,
) domain.Service {
	return &Service{
		log:     log.Named("auth.service"),
		repo:    repo,
		issuer:  issuer,
		mailer:  mailer,
		limits:  limits,
		clock:   clk,
		genID:   genID,
		metrics: m,
	}
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.LoginResult, error) {
	addr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        addr,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hashed,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Country:      strings.TrimSpace(req.Country),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = addr[:strings.Index(addr, "@")]
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	signed, err := s.issuer.Issue(user.ID, user.Email, now)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()))
	return &domain.LoginResult{User: domain.ProfileOf(user), Token: signed}, nil
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	addr, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, addr)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := s.issuer.Issue(user.ID, user.Email, s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &domain.LoginResult{User: domain.ProfileOf(user), Token: signed}, nil
}

func (s *Service) Me(ctx context.Context, id snowflake.ID) (*domain.Profile, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := domain.ProfileOf(user)
	return &profile, nil
}

// DeleteAccount removes the target account. Only the owner may delete it.
func (s *Service) DeleteAccount(ctx context.Context, actor snowflake.ID, target snowflake.ID) error {
	if actor != target {
		return domain.ErrForbidden
	}
	if err := s.repo.DeleteCascade(ctx, target); err != nil {
		return err
	}
	s.log.Info("account deleted", zap.String("user_id", target.String()))
	return nil
}

func (s *Service) RequestPasswordReset(ctx context.Context, rawEmail string) error {
	addr, err := normalizeEmail(rawEmail)
	if err != nil {
		return domain.ErrUserNotFound
	}

	if _, err := s.repo.FindByEmail(ctx, addr); err != nil {
		return err
	}

	now := s.clock.Now()
	limits := s.limits.Current()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sent, err := s.repo.CountResetsSince(ctx, addr, dayStart)
	if err != nil {
		return err
	}
	if sent >= int64(limits.OTPDailyCap) {
		s.metrics.IncOTPRequest("capped")
		return domain.ErrOTPDailyCap
	}

	code, err := newOTP()
	if err != nil {
		return err
	}

	reset := &domain.PasswordReset{
		ID:        s.genID.Generate(),
		Email:     addr,
		Code:      code,
		ExpiresAt: now.Add(limits.OTPTTL),
		CreatedAt: now,
	}
	if err := s.repo.CreateReset(ctx, reset); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<p>Your password reset code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, int(limits.OTPTTL.Minutes()),
	)
	if err := s.mailer.Send(ctx, []string{addr}, "Password reset code", body); err != nil {
		s.metrics.IncOTPRequest("send_failed")
		s.log.Warn("reset email failed", zap.Error(err))
		return err
	}

	s.metrics.IncOTPRequest("sent")
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawEmail, code, newPassword string) error {
	addr, err := normalizeEmail(rawEmail)
	if err != nil {
		return domain.ErrResetNotFound
	}
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return domain.ErrInvalidCredentials
	}

	reset, err := s.repo.LatestReset(ctx, addr)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	if reset.UsedAt != nil || now.After(reset.ExpiresAt) {
		return domain.ErrResetExpired
	}
	if reset.Code != strings.TrimSpace(code) {
		return domain.ErrResetCodeMismatch
	}

	user, err := s.repo.FindByEmail(ctx, addr)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]any{
		"password_hash": hashed,
		"updated_at":    now,
	}); err != nil {
		return err
	}

	return s.repo.MarkResetUsed(ctx, reset.ID, now)
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
