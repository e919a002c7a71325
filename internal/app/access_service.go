package app

import (
	"context"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

type RoleRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
	// GrantRole reports whether membership changed; granting a role the
	// principal already holds is a no-op.
	GrantRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
	// RevokeRole reports whether membership changed.
	RevokeRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error)
}

// AccessService maintains role membership. Only admins may mutate it.
//
// There is no safeguard against revoking the last admin; a caller that
// revokes its own admin role can lock the registry's role management.
type AccessService struct {
	repo     RoleRepository
	notifier Notifier
}

func NewAccessService(repo RoleRepository, notifier Notifier) *AccessService {
	return &AccessService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *AccessService) HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	return s.repo.HasRole(ctx, role, principal)
}

// GrantRole adds principal to role. Granting an already-held role succeeds
// without effect and emits nothing.
func (s *AccessService) GrantRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.requireAdmin(txCtx, caller); err != nil {
			return err
		}

		changed, err := s.repo.GrantRole(txCtx, role, principal)
		if err != nil {
			return err
		}
		if changed {
			notify(txCtx, s.notifier, domain.RoleGranted{Role: role, Principal: principal, GrantedBy: caller})
		}
		return nil
	})
}

// RevokeRole removes principal from role. Revoking an absent role succeeds
// without effect and emits nothing.
func (s *AccessService) RevokeRole(ctx context.Context, caller domain.Principal, role domain.Role, principal domain.Principal) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.requireAdmin(txCtx, caller); err != nil {
			return err
		}

		changed, err := s.repo.RevokeRole(txCtx, role, principal)
		if err != nil {
			return err
		}
		if changed {
			notify(txCtx, s.notifier, domain.RoleRevoked{Role: role, Principal: principal, RevokedBy: caller})
		}
		return nil
	})
}

func (s *AccessService) requireAdmin(ctx context.Context, caller domain.Principal) error {
	ok, err := s.repo.HasRole(ctx, domain.RoleAdmin, caller)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthorized
	}
	return nil
}
