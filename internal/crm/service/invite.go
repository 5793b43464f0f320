package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/telecrm/telecrm/internal/crm/domain"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/pkg/cryptox"
	"github.com/telecrm/telecrm/pkg/idx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationUsed     = errors.New("invitation has already been used")
)

type InviteService struct {
	Store store.Store
}

// Issue creates a new invitation and returns the raw token. Only the token's
// fingerprint is stored, so the token is shown exactly once.
func (s *InviteService) Issue(ctx context.Context, email string, role domain.Role, createdBy int64) (string, domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input. Admin accounts are bootstrapped via the owner
	// identity, never via invitation.
	if email == "" {
		return "", domain.Invitation{}, ErrInvalidRequest
	}
	if !role.Valid() || role == domain.RoleAdmin {
		log.Warn("attempted to issue invitation with disallowed role",
			slog.String("role", string(role)),
		)
		return "", domain.Invitation{}, ErrInvalidRequest
	}

	// 2. Generate and fingerprint the opaque token.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return "", domain.Invitation{}, err
	}

	now := time.Now().UTC()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		TokenHash: cryptox.FingerprintToken(token),
		Role:      role,
		ExpiresAt: now.Add(domain.InvitationTTL),
		CreatedBy: createdBy,
		CreatedAt: now,
	}

	// 3. Store it.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return "", domain.Invitation{}, err
	}

	log.Info("invitation issued",
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(role)),
		slog.Int64("created_by", createdBy),
		slog.Time("expires_at", inv.ExpiresAt),
	)
	return token, inv, nil
}

// Verify checks a token without consuming it. It is idempotent and
// distinguishes unknown, expired and used invitations for the caller.
func (s *InviteService) Verify(ctx context.Context, token string) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	inv, err := s.Store.Invitations().GetInvitationByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrInvitationNotFound
		}
		log.Error("failed to fetch invitation", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	if err := checkRedeemable(inv, time.Now().UTC()); err != nil {
		return domain.Invitation{}, err
	}
	return inv, nil
}

// Accept consumes an invitation and creates the local account. The re-read,
// user upsert and accepted_at stamp run inside one transaction so two
// concurrent accepts cannot both win.
func (s *InviteService) Accept(ctx context.Context, token, name, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	if token == "" || name == "" || password == "" {
		return domain.User{}, ErrInvalidRequest
	}

	// 2. Hash the password up front; argon2 is too slow to hold a
	// transaction open for.
	passwordHash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	fingerprint := cryptox.FingerprintToken(token)
	now := time.Now().UTC()

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 3. Re-read and re-check inside the transaction.
		inv, err := tx.Invitations().GetInvitationByTokenHash(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationNotFound
			}
			return err
		}
		if err := checkRedeemable(inv, now); err != nil {
			return err
		}

		// 4. Create (or refresh) the local account with the invited role.
		openID := domain.LocalOpenID(inv.Email)
		loginMethod := domain.LoginMethodLocal
		role := inv.Role
		if err := tx.Users().UpsertUser(ctx, store.UserUpsert{
			OpenID:       openID,
			Name:         &name,
			Email:        &inv.Email,
			LoginMethod:  &loginMethod,
			Role:         &role,
			PasswordHash: &passwordHash,
			LastSignedIn: &now,
		}); err != nil {
			return err
		}

		// 5. Consume the invitation. The store guards on accepted_at IS
		// NULL, so losing a race surfaces as not-found here.
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationUsed
			}
			return err
		}

		user, err = tx.Users().GetUserByOpenID(ctx, openID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound),
			errors.Is(err, ErrInvitationExpired),
			errors.Is(err, ErrInvitationUsed):
			log.Warn("invitation acceptance rejected", slog.Any("reason", err))
		default:
			log.Error("failed to accept invitation", slog.Any("error", err))
		}
		return domain.User{}, err
	}

	log.Info("user registered via invitation",
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

func checkRedeemable(inv domain.Invitation, at time.Time) error {
	if !at.Before(inv.ExpiresAt) {
		return ErrInvitationExpired
	}
	if inv.AcceptedAt != nil {
		return ErrInvitationUsed
	}
	return nil
}
