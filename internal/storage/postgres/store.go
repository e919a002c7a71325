// Package postgres implements the registry store on a pgx pool. It is the
// durable counterpart of the in-memory store: the same repository surface,
// with transactions running at serializable isolation and row locks taken
// by the ForUpdate reads.
package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SergejKubat/crypto-sports/internal/storage/txhook"
)

type Store struct {
	pool *pgxpool.Pool

	// commitMu makes commit plus commit-hook execution one critical
	// section, so the hook order always matches the commit order even when
	// a goroutine is preempted between COMMIT and its hooks.
	commitMu sync.Mutex
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithTx runs fn inside a serializable transaction. Nested calls join the
// open transaction; commit hooks registered by fn run after COMMIT, inside
// the store's commit critical section.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	txCtx, hooks := txhook.With(context.WithValue(ctx, txKey{}, tx))
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}

func (s *Store) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return s.pool.Exec(ctx, sql, args...)
}

func (s *Store) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return s.pool.QueryRow(ctx, sql, args...)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return s.pool.Query(ctx, sql, args...)
}
