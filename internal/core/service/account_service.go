package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
	"github.com/cse-motors/dealership-system/pkg/cryptox"
)

// AccountService orchestrates registration, login, profile updates and
// password changes. It owns the auth error taxonomy: storage-level detail is
// logged here, callers only ever see domain errors.
type AccountService struct {
	repo      ports.AccountRepository
	validator *CredentialValidator
	hasher    *cryptox.PasswordHasher
	tokens    ports.TokenService
	audit     ports.AuditSink
	logger    zerolog.Logger
}

func NewAccountService(
	repo ports.AccountRepository,
	validator *CredentialValidator,
	hasher *cryptox.PasswordHasher,
	tokens ports.TokenService,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:      repo,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
		logger:    logger,
	}
}

// Register creates a new Client account. There is no auto-login afterwards:
// the user must log in with the stored credential, which confirms the hash
// round-trips correctly.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := s.validator.ValidateRegistration(input); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Logged with the email; the user-facing message stays generic
			// so registration cannot be used to enumerate accounts.
			s.logger.Info().Str("email", input.Email).Msg("registration rejected: email taken")
		}
		return nil, err
	}

	s.record(domain.AuthEvent{Email: created.Email, Kind: domain.AuthEventRegistered, RemoteIP: input.RemoteIP})
	s.logger.Info().Str("account_id", created.ID).Msg("account registered")

	return stripHash(created), nil
}

// Login validates credentials and issues a session token. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials so responses
// cannot distinguish the two.
func (s *AccountService) Login(ctx context.Context, input ports.LoginInput) (*ports.LoginResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := s.validator.ValidateLogin(input); err != nil {
		return nil, err
	}

	account, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(domain.AuthEvent{Email: input.Email, Kind: domain.AuthEventLoginFailed, RemoteIP: input.RemoteIP})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, account.PasswordHash) {
		s.record(domain.AuthEvent{Email: input.Email, Kind: domain.AuthEventLoginFailed, RemoteIP: input.RemoteIP})
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.record(domain.AuthEvent{Email: account.Email, Kind: domain.AuthEventLoginOK, RemoteIP: input.RemoteIP})
	s.logger.Info().Str("account_id", account.ID).Msg("login succeeded")

	return &ports.LoginResult{Token: token, Account: stripHash(account)}, nil
}

// GetAccount fetches an account for the management view.
func (s *AccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return stripHash(account), nil
}

// UpdateProfile changes names and email. The role is untouchable from here.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Account, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	if err := s.validator.ValidateProfileUpdate(input); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, id, input.FirstName, input.LastName, input.Email)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{Email: updated.Email, Kind: domain.AuthEventProfileSaved})
	s.logger.Info().Str("account_id", id).Msg("profile updated")

	return stripHash(updated), nil
}

// ChangePassword hashes and stores a new password for the account.
func (s *AccountService) ChangePassword(ctx context.Context, id string, input ports.ChangePasswordInput) error {
	if err := s.validator.ValidatePasswordChange(input); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}

	account, err := s.repo.FindByID(ctx, id)
	if err == nil {
		s.record(domain.AuthEvent{Email: account.Email, Kind: domain.AuthEventPasswordSet})
	}
	s.logger.Info().Str("account_id", id).Msg("password changed")

	return nil
}

func (s *AccountService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	s.audit.Record(event)
}

// stripHash clears the password hash before an account leaves the service.
func stripHash(a *domain.Account) *domain.Account {
	clone := *a
	clone.PasswordHash = ""
	return &clone
}
