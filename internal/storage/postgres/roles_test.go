package postgres

import (
	"context"
	"testing"

	"github.com/SergejKubat/crypto-sports/internal/domain"
	"github.com/SergejKubat/crypto-sports/internal/testutil"
)

func TestStore_Roles(t *testing.T) {
	pool := testutil.NewTestPool(t)
	store := NewStore(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("grant and query", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		changed, err := store.GrantRole(ctx, domain.RoleAdmin, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !changed {
			t.Fatalf("expected first grant to change state")
		}

		ok, err := store.HasRole(ctx, domain.RoleAdmin, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Fatalf("expected role to be held")
		}

		ok, err = store.HasRole(ctx, domain.RoleEventCreator, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("role must not bleed across role names")
		}
	})

	t.Run("regrant reports no change", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if _, err := store.GrantRole(ctx, domain.RoleAdmin, "user-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		changed, err := store.GrantRole(ctx, domain.RoleAdmin, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if changed {
			t.Fatalf("expected regrant to be a no-op")
		}
	})

	t.Run("revoke", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if _, err := store.GrantRole(ctx, domain.RoleEventCreator, "user-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		changed, err := store.RevokeRole(ctx, domain.RoleEventCreator, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !changed {
			t.Fatalf("expected revoke to change state")
		}

		ok, err := store.HasRole(ctx, domain.RoleEventCreator, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected role to be gone")
		}

		changed, err = store.RevokeRole(ctx, domain.RoleEventCreator, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if changed {
			t.Fatalf("expected revoking an absent role to be a no-op")
		}
	})

	t.Run("grant rolls back with the transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		err := store.WithTx(ctx, func(txCtx context.Context) error {
			if _, err := store.GrantRole(txCtx, domain.RoleAdmin, "user-1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			return context.Canceled
		})
		if err == nil {
			t.Fatalf("expected the transaction to fail")
		}

		ok, err := store.HasRole(ctx, domain.RoleAdmin, "user-1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Fatalf("expected the grant to be rolled back")
		}
	})
}
