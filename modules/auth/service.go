package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/example/event-planner/domain/user"
	"github.com/google/uuid"
)

// AuthService handles authentication business logic.
type AuthService struct {
	store  CredentialStore
	hasher *PasswordHasher
	codec  *TokenCodec
	now    func() time.Time

	dummyOnce sync.Once
	dummy     string
}

// NewAuthService creates a new AuthService.
func NewAuthService(store CredentialStore, hasher *PasswordHasher, codec *TokenCodec) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		codec:  codec,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for token issuance and expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates a new account with no roles.
func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	return s.createUser(ctx, email, password, domain.Roles{})
}

// SeedAdmin creates an admin account for email unless one exists already.
// It reports whether a record was created. Blank credentials skip seeding.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	if _, err := s.createUser(ctx, email, password, domain.NewRoles(domain.RoleAdmin)); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password string, roles domain.Roles) (*domain.User, error) {
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		IsActive:     true,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and returns the account's identity.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials,
// and both pay for one bcrypt comparison. The active flag is only checked
// once the password matched.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrInactive
	}

	return user.Identity(), nil
}

// Login authenticates a user and returns an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	accessToken, err := s.codec.Encode(identity.ID, identity.Roles, AccessToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.codec.Encode(identity.ID, identity.Roles, RefreshToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.codec.AccessTokenDuration(),
		TokenType:    "Bearer",
	}, nil
}

// Refresh mints a new access token from a refresh token.
// The new token carries the roles stored now, not the ones embedded in the
// refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken, RefreshToken, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.currentUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.codec.Encode(user.ID, user.Roles, AccessToken, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken: accessToken,
		ExpiresIn:   s.codec.AccessTokenDuration(),
		TokenType:   "Bearer",
	}, nil
}

// VerifyAccess validates an access token and re-reads the account it names.
// The returned identity reflects the stored roles, so role or active-flag
// changes take effect on the next request.
func (s *AuthService) VerifyAccess(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := s.codec.Decode(accessToken, AccessToken, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.currentUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return user.Identity(), nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateUser applies an admin change to roles and/or the active flag.
func (s *AuthService) UpdateUser(ctx context.Context, id uint, changes domain.Changes) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes.Roles != nil {
		user.Roles = domain.NewRoles(*changes.Roles...)
	}
	if changes.IsActive != nil {
		user.IsActive = *changes.IsActive
	}

	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// currentUser loads the token subject and rejects missing or disabled accounts.
func (s *AuthService) currentUser(ctx context.Context, id uint) (*domain.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInactive
	}
	return user, nil
}

func (s *AuthService) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummy
}
