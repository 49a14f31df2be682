package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
	"github.com/cse-motors/dealership-system/pkg/cryptox"
)

// stubAccountRepo is an in-memory AccountRepository keyed by normalized email.
type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	stored := cloneAccount(account)
	stored.ID = fmt.Sprintf("acct-%d", r.nextID)
	r.byEmail[stored.Email] = stored
	return cloneAccount(stored), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	for _, account := range r.byEmail {
		if account.ID == id {
			return cloneAccount(account), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id, firstName, lastName, email string) (*domain.Account, error) {
	for key, account := range r.byEmail {
		if account.ID != id {
			continue
		}
		if other, exists := r.byEmail[email]; exists && other.ID != id {
			return nil, domain.ErrDuplicateEmail
		}
		delete(r.byEmail, key)
		account.FirstName = firstName
		account.LastName = lastName
		account.Email = email
		account.UpdatedAt = time.Now().UTC()
		r.byEmail[email] = account
		return cloneAccount(account), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	for _, account := range r.byEmail {
		if account.ID == id {
			account.PasswordHash = passwordHash
			account.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// stubAuditSink records events synchronously.
type stubAuditSink struct {
	events []domain.AuthEvent
}

func (s *stubAuditSink) Record(event domain.AuthEvent) {
	s.events = append(s.events, event)
}

func (s *stubAuditSink) lastKind() domain.AuthEventKind {
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].Kind
}

type accountServiceFixture struct {
	svc    *AccountService
	repo   *stubAccountRepo
	tokens *TokenService
	audit  *stubAuditSink
}

func newAccountServiceFixture() *accountServiceFixture {
	repo := newStubAccountRepo()
	tokens := NewTokenService(testSecret, time.Hour)
	audit := &stubAuditSink{}
	svc := NewAccountService(
		repo,
		NewCredentialValidator(),
		cryptox.NewPasswordHasher(4),
		tokens,
		audit,
		zerolog.Nop(),
	)
	return &accountServiceFixture{svc: svc, repo: repo, tokens: tokens, audit: audit}
}

func registerTestAccount(t *testing.T, f *accountServiceFixture) *domain.Account {
	t.Helper()
	account, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return account
}

func TestAccountService_Register(t *testing.T) {
	f := newAccountServiceFixture()

	account := registerTestAccount(t, f)

	if account.ID == "" {
		t.Fatalf("expected an id on the created account")
	}
	if account.Role != domain.RoleClient {
		t.Errorf("role = %q, want %q", account.Role, domain.RoleClient)
	}
	if account.Email != "ada@example.com" {
		t.Errorf("email = %q, want normalized form", account.Email)
	}
	if account.PasswordHash != "" {
		t.Errorf("password hash must be stripped from the returned account")
	}

	stored := f.repo.byEmail["ada@example.com"]
	if stored == nil {
		t.Fatalf("account not stored under normalized email")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "Str0ng!pass" {
		t.Errorf("stored credential must be a hash, got %q", stored.PasswordHash)
	}
	if f.audit.lastKind() != domain.AuthEventRegistered {
		t.Errorf("audit kind = %q, want %q", f.audit.lastKind(), domain.AuthEventRegistered)
	}
}

func TestAccountService_RegisterDuplicateEmail(t *testing.T) {
	f := newAccountServiceFixture()
	registerTestAccount(t, f)

	// Same address with different casing must hit the uniqueness check.
	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Another",
		LastName:  "Person",
		Email:     "ADA@example.COM",
		Password:  "0ther!Pass",
	})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("err = %v, want %v", err, domain.ErrDuplicateEmail)
	}
}

func TestAccountService_RegisterValidationFailure(t *testing.T) {
	f := newAccountServiceFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "weak",
	})

	var fields domain.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("err = %v, want field errors", err)
	}
	if len(f.repo.byEmail) != 0 {
		t.Errorf("nothing may be stored when validation fails")
	}
	if len(f.audit.events) != 0 {
		t.Errorf("no audit event for a rejected submission")
	}
}

func TestAccountService_Login(t *testing.T) {
	f := newAccountServiceFixture()
	created := registerTestAccount(t, f)

	result, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ADA@example.com",
		Password: "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if result.Account.ID != created.ID {
		t.Errorf("account id = %q, want %q", result.Account.ID, created.ID)
	}
	if result.Account.PasswordHash != "" {
		t.Errorf("password hash must be stripped from the login result")
	}

	claims, err := f.tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.AccountID != created.ID || claims.Email != "ada@example.com" || claims.Role != domain.RoleClient {
		t.Errorf("claims = %+v, want identity of the created account", claims)
	}

	if f.audit.lastKind() != domain.AuthEventLoginOK {
		t.Errorf("audit kind = %q, want %q", f.audit.lastKind(), domain.AuthEventLoginOK)
	}
}

func TestAccountService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newAccountServiceFixture()
	registerTestAccount(t, f)

	_, unknownErr := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "nobody@example.com",
		Password: "Str0ng!pass",
	})
	_, wrongErr := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ada@example.com",
		Password: "Wr0ng!pass",
	})

	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: err = %v, want %v", unknownErr, domain.ErrInvalidCredentials)
	}
	if !errors.Is(wrongErr, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want %v", wrongErr, domain.ErrInvalidCredentials)
	}
	// Same message either way, so responses cannot reveal which part failed.
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownErr, wrongErr)
	}

	for _, event := range f.audit.events[1:] {
		if event.Kind != domain.AuthEventLoginFailed {
			t.Errorf("audit kind = %q, want %q", event.Kind, domain.AuthEventLoginFailed)
		}
	}
}

func TestAccountService_UpdateProfile(t *testing.T) {
	f := newAccountServiceFixture()
	created := registerTestAccount(t, f)

	updated, err := f.svc.UpdateProfile(context.Background(), created.ID, ports.UpdateProfileInput{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "Augusta@Example.com",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if updated.FirstName != "Augusta" || updated.LastName != "King" {
		t.Errorf("name = %q %q, want Augusta King", updated.FirstName, updated.LastName)
	}
	if updated.Email != "augusta@example.com" {
		t.Errorf("email = %q, want normalized form", updated.Email)
	}
	if updated.Role != domain.RoleClient {
		t.Errorf("profile update must not touch the role, got %q", updated.Role)
	}
	if updated.PasswordHash != "" {
		t.Errorf("password hash must be stripped from the updated account")
	}

	// The old credential still works under the new email.
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "augusta@example.com",
		Password: "Str0ng!pass",
	}); err != nil {
		t.Fatalf("login after profile update: %v", err)
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	f := newAccountServiceFixture()
	created := registerTestAccount(t, f)

	if err := f.svc.ChangePassword(context.Background(), created.ID, ports.ChangePasswordInput{
		Password: "N3w!passw0rd",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ada@example.com",
		Password: "Str0ng!pass",
	}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password: err = %v, want %v", err, domain.ErrInvalidCredentials)
	}

	if _, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ada@example.com",
		Password: "N3w!passw0rd",
	}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestAccountService_ChangePasswordRejectsWeak(t *testing.T) {
	f := newAccountServiceFixture()
	created := registerTestAccount(t, f)

	err := f.svc.ChangePassword(context.Background(), created.ID, ports.ChangePasswordInput{
		Password: "weak",
	})

	var fields domain.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("err = %v, want field errors", err)
	}

	// The stored credential is untouched.
	if _, err := f.svc.Login(context.Background(), ports.LoginInput{
		Email:    "ada@example.com",
		Password: "Str0ng!pass",
	}); err != nil {
		t.Fatalf("login after rejected change: %v", err)
	}
}

func TestAccountService_GetAccountStripsHash(t *testing.T) {
	f := newAccountServiceFixture()
	created := registerTestAccount(t, f)

	account, err := f.svc.GetAccount(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if account.PasswordHash != "" {
		t.Errorf("password hash must be stripped, got %q", account.PasswordHash)
	}

	if _, err := f.svc.GetAccount(context.Background(), "missing"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("err = %v, want %v", err, domain.ErrAccountNotFound)
	}
}
