package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"restobar/events"
	"restobar/order-svc/internal/auth"
	"restobar/order-svc/internal/domain"

	"github.com/rs/zerolog"
)

const minPasswordLength = 8

type AccountService struct {
	accounts AccountRepository
	limiter  RateLimiter
	tokens   TokenIssuer
	notifier Notifier
	logger   zerolog.Logger
}

func NewAccountService(accounts AccountRepository, limiter RateLimiter, tokens TokenIssuer, notifier Notifier, logger zerolog.Logger) *AccountService {
	return &AccountService{accounts: accounts, limiter: limiter, tokens: tokens, notifier: notifier, logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateProfile(name, email string, role domain.Role) error {
	if name == "" {
		return domain.Validationf("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Validationf("a valid email is required")
	}
	if !role.Valid() {
		return domain.Validationf("unknown role %q", role)
	}
	return nil
}

func (s *AccountService) create(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if err := validateProfile(name, email, role); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, domain.Validationf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	return s.create(ctx, name, email, password, domain.RoleUser)
}

func (s *AccountService) CreateStaff(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	if role == domain.RoleUser {
		return nil, domain.Validationf("use registration for customer accounts")
	}
	return s.create(ctx, name, email, password, role)
}

func (s *AccountService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	key := normalizeEmail(email)

	allowed, retryAfter, err := s.limiter.Check(ctx, key)
	if err != nil {
		// Fail open on limiter outages; credentials are still verified.
		s.logger.Error().Err(err).Msg("login rate limiter unavailable")
	} else if !allowed {
		return "", nil, &domain.RateLimitError{RetryAfter: retryAfter}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrAccountNotFound) {
		return "", nil, err
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, password) {
		if err := s.limiter.RecordFailure(ctx, key); err != nil {
			s.logger.Error().Err(err).Msg("failed to record login failure")
		}
		return "", nil, domain.ErrInvalidCredentials
	}

	if account.Blocked {
		return "", nil, domain.ErrAccountBlocked
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reset login attempts")
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return "", nil, err
	}
	return token, account, nil
}

func (s *AccountService) List(ctx context.Context, roles ...domain.Role) ([]domain.Account, error) {
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleStaff, domain.RoleWaiter, domain.RoleKitchen, domain.RoleAdmin}
	}
	return s.accounts.ListAccounts(ctx, roles)
}

// staffAccount loads an account that admin staff management may touch.
func (s *AccountService) staffAccount(ctx context.Context, id int) (*domain.Account, error) {
	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Role == domain.RoleUser {
		return nil, domain.Validationf("account %d is a customer account", id)
	}
	return account, nil
}

func (s *AccountService) UpdateStaff(ctx context.Context, id int, name, email string, role domain.Role) (*domain.Account, error) {
	account, err := s.staffAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	account.Name = strings.TrimSpace(name)
	account.Email = normalizeEmail(email)
	account.Role = role
	if err := validateProfile(account.Name, account.Email, role); err != nil {
		return nil, err
	}
	if role == domain.RoleUser {
		return nil, domain.Validationf("staff accounts cannot be turned into customer accounts")
	}

	if err := s.accounts.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info().Int("account_id", id).Str("role", string(role)).Msg("staff account updated")
	return account, nil
}

func (s *AccountService) DeleteStaff(ctx context.Context, actor domain.CurrentUser, id int) error {
	if actor.ID == id {
		return domain.Validationf("you cannot delete your own account")
	}
	if _, err := s.staffAccount(ctx, id); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int("account_id", id).Int("actor_id", actor.ID).Msg("staff account deleted")
	return nil
}

// SetBlocked blocks or unblocks an account and emails the owner. Blocked
// accounts cannot log in; tokens already issued stay valid until they expire.
func (s *AccountService) SetBlocked(ctx context.Context, actor domain.CurrentUser, id int, blocked bool) (*domain.Account, error) {
	if actor.ID == id {
		return nil, domain.Validationf("you cannot block your own account")
	}
	account, err := s.accounts.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Blocked == blocked {
		return account, nil
	}
	if err := s.accounts.SetAccountBlocked(ctx, id, blocked); err != nil {
		return nil, err
	}
	account.Blocked = blocked

	action, emailKind := "unblocked", events.EmailAccountUnblocked
	if blocked {
		action, emailKind = "blocked", events.EmailAccountBlocked
	}
	s.logger.Info().Int("account_id", id).Int("actor_id", actor.ID).Msg("account " + action)

	s.notifier.Notify(ctx, events.Event{
		Type:      events.TypeAccountStatusChanged,
		EmailKind: emailKind,
		Recipient: account.Email,
		Name:      account.Name,
		Message:   fmt.Sprintf("Account %s has been %s.", account.Email, action),
		Data:      events.Payload{UserID: id, Status: action},
	})
	return account, nil
}
