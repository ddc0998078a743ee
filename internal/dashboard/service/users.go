package service

import (
	"context"
	"errors"
	"time"

	"github.com/phishguard/dashboard/internal/dashboard/domain"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/pkg/cryptox"
	"github.com/phishguard/dashboard/pkg/idx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

// UserService authenticates dashboard accounts and resolves identities for
// token issuance. Account management proper lives in the main dashboard
// backend; this service only reads what the handshake needs.
type UserService struct {
	Store store.Store
}

// Authenticate checks email/password against the stored argon2id hash.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	user, err := s.Store.Users().GetUserByEmail(sctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// GetByID resolves the user bound to a redeemed code or refresh token. A user
// deleted since then yields ErrIdentityNotFound, which callers surface as a
// failed handshake rather than a server fault.
func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	user, err := s.Store.Users().GetUserByID(sctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrIdentityNotFound
	}
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return user, nil
}

// Bootstrap seeds a first admin account when the user table is empty, so a
// fresh deployment can be logged into. It is a no-op on populated databases.
func (s *UserService) Bootstrap(ctx context.Context, email, name, password string) error {
	if email == "" || password == "" {
		return nil
	}

	sctx, cancel := withStoreTimeout(ctx)
	defer cancel()

	count, err := s.Store.Users().CountUsers(sctx)
	if err != nil {
		return mapStoreErr(err)
	}
	if count > 0 {
		return nil
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		Role:         domain.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.Users().CreateUser(sctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Another instance bootstrapped first.
		return nil
	}
	if err != nil {
		return mapStoreErr(err)
	}

	slogx.FromContext(ctx).Info("bootstrapped initial admin user", "email", email)
	return nil
}
