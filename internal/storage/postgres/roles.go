package postgres

import (
	"context"
	"fmt"

	"github.com/SergejKubat/crypto-sports/internal/domain"
)

func (s *Store) HasRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM roles WHERE role = $1 AND principal = $2)`

	var held bool
	if err := s.queryRow(ctx, query, role, principal).Scan(&held); err != nil {
		return false, fmt.Errorf("has role: %w", err)
	}
	return held, nil
}

func (s *Store) GrantRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	const stmt = `INSERT INTO roles (role, principal) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	tag, err := s.exec(ctx, stmt, role, principal)
	if err != nil {
		return false, fmt.Errorf("grant role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) RevokeRole(ctx context.Context, role domain.Role, principal domain.Principal) (bool, error) {
	const stmt = `DELETE FROM roles WHERE role = $1 AND principal = $2`

	tag, err := s.exec(ctx, stmt, role, principal)
	if err != nil {
		return false, fmt.Errorf("revoke role: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
