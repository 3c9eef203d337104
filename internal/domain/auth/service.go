package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workflowpro/internal/domain/collection"
	"workflowpro/internal/platform/recordstore"
)

type Service struct {
	store       collection.Store
	accounts    *collection.Collection[Account]
	secret      string
	ttl         time.Duration
	defaultRole string
	now         func() time.Time
}

func NewService(store collection.Store, secret string, ttl time.Duration, defaultRole string) *Service {
	if !ValidRole(defaultRole) {
		defaultRole = RoleAdmin
	}
	accounts := collection.New(store, recordstore.KeyAccounts,
		func(a Account) string { return a.ID },
		func(a *Account, id string) { a.ID = id },
	).WithPrepare(func(a *Account) {
		a.Email = normalizeEmail(a.Email)
	})
	return &Service{
		store:       store,
		accounts:    accounts,
		secret:      secret,
		ttl:         ttl,
		defaultRole: defaultRole,
		now:         time.Now,
	}
}

// Login checks the password and issues a signed token carrying the role.
func (s *Service) Login(ctx context.Context, email, password string) (string, Account, error) {
	account, ok, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", Account{}, err
	}
	if !ok || CheckPassword(account.PasswordHash, password) != nil {
		return "", Account{}, ErrInvalidCredentials
	}
	token, err := GenerateToken(s.secret, Claims{
		AccountID:  account.ID,
		Email:      account.Email,
		Role:       account.AccessLevel,
		EmployeeID: account.EmployeeID,
	}, s.now(), s.ttl)
	if err != nil {
		return "", Account{}, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

// Verify parses a bearer token into a request identity.
func (s *Service) Verify(token string) (UserContext, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return UserContext{}, err
	}
	if !ValidRole(claims.Role) {
		return UserContext{}, ErrInvalidRole
	}
	return UserContext{
		AccountID:     claims.AccountID,
		Email:         claims.Email,
		Role:          claims.Role,
		EmployeeID:    claims.EmployeeID,
		Authenticated: true,
	}, nil
}

// EnsureAccount creates the account when no account uses email yet. An
// existing account is returned unchanged.
func (s *Service) EnsureAccount(ctx context.Context, email, password, role, employeeID string) (Account, error) {
	if !ValidRole(role) {
		return Account{}, ErrInvalidRole
	}
	existing, ok, err := s.findByEmail(ctx, email)
	if err != nil || ok {
		return existing, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Account{}, err
	}
	account, err := s.accounts.Add(ctx, Account{
		Email:        email,
		PasswordHash: hash,
		AccessLevel:  role,
		EmployeeID:   employeeID,
	})
	if err != nil {
		return Account{}, err
	}
	slog.Info("account created", "email", account.Email, "role", role)
	return account, nil
}

// CurrentRole returns the persisted session role, or the configured default.
func (s *Service) CurrentRole(ctx context.Context) (string, error) {
	var role string
	ok, err := s.store.Load(ctx, recordstore.KeyCurrentRole, &role)
	if err != nil {
		return "", err
	}
	if !ok || !ValidRole(role) {
		return s.defaultRole, nil
	}
	return role, nil
}

func (s *Service) SetCurrentRole(ctx context.Context, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	return s.store.Save(ctx, recordstore.KeyCurrentRole, role)
}

func (s *Service) findByEmail(ctx context.Context, email string) (Account, bool, error) {
	email = normalizeEmail(email)
	matches, err := s.accounts.Find(ctx, func(a Account) bool { return a.Email == email })
	if err != nil || len(matches) == 0 {
		return Account{}, false, err
	}
	return matches[0], true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
