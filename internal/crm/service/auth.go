package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/cryptox"
	"github.com/telecrm/telecrm/pkg/oauthx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// non-local accounts alike so login failures cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrInvalidRequest = errors.New("invalid request")
)

type AuthService struct {
	Store store.Store

	// OwnerOpenID, when non-empty, names the identity that is always
	// promoted to admin on upsert. First-admin bootstrap.
	OwnerOpenID string
}

// Login authenticates a local (invite-created) account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if email == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login attempt for unknown email")
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user by email", slog.Any("error", err))
		return domain.User{}, err
	}

	// OAuth accounts have no usable password. Same generic failure.
	if user.LoginMethod != domain.LoginMethodLocal || user.PasswordHash == "" {
		log.Warn("password login attempt against non-local account",
			slog.Int64("user_id", user.ID),
		)
		return domain.User{}, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Warn("login attempt with wrong password",
				slog.Int64("user_id", user.ID),
			)
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	if err := s.Store.Users().UpdateLastSignedIn(ctx, user.ID, now); err != nil {
		log.Error("failed to update last_signed_in",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
		return domain.User{}, err
	}
	user.LastSignedIn = &now

	log.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// UpsertOAuthUser records an OAuth sign-in: insert on the first visit, refresh
// name, email, login method and last_signed_in afterwards. The configured
// owner identity is promoted to admin on every pass.
func (s *AuthService) UpsertOAuthUser(ctx context.Context, info oauthx.UserInfo) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if info.OpenID == "" {
		return domain.User{}, ErrInvalidRequest
	}

	now := time.Now().UTC()
	up := store.UserUpsert{
		OpenID:       info.OpenID,
		Name:         &info.Name,
		Email:        &info.Email,
		LoginMethod:  &info.Provider,
		LastSignedIn: &now,
	}
	if s.OwnerOpenID != "" && info.OpenID == s.OwnerOpenID {
		admin := domain.RoleAdmin
		up.Role = &admin
	}

	if err := s.Store.Users().UpsertUser(ctx, up); err != nil {
		log.Error("failed to upsert oauth user", slog.Any("error", err))
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByOpenID(ctx, info.OpenID)
	if err != nil {
		log.Error("failed to read back upserted user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("oauth sign-in recorded",
		slog.Int64("user_id", user.ID),
		slog.String("provider", info.Provider),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// ResolveIdentity maps a session subject to the stored user. It backs the
// cookie authentication middleware, so a miss is not an error.
func (s *AuthService) ResolveIdentity(ctx context.Context, openID string) (domain.User, bool) {
	user, err := s.Store.Users().GetUserByOpenID(ctx, openID)
	if err != nil {
		return domain.User{}, false
	}
	return user, true
}
