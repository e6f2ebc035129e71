package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeStarter struct {
	tx       *fakeTx
	beginErr error
}

func (s *fakeStarter) Begin(ctx context.Context) (pgx.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func TestWithTransaction_Commit(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}

	err := WithTransaction(context.Background(), starter, func(tx pgx.Tx) error { return nil })

	require.NoError(t, err)
	assert.True(t, starter.tx.committed)
	assert.False(t, starter.tx.rolledBack)
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}
	boom := errors.New("boom")

	err := WithTransaction(context.Background(), starter, func(tx pgx.Tx) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.False(t, starter.tx.committed)
	assert.True(t, starter.tx.rolledBack)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), starter, func(tx pgx.Tx) error { panic("kaboom") })
	})
	assert.True(t, starter.tx.rolledBack)
}

func TestWithTransaction_BeginAndCommitErrors(t *testing.T) {
	err := WithTransaction(context.Background(), &fakeStarter{beginErr: errors.New("no conn")}, func(tx pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "failed to begin transaction")

	starter := &fakeStarter{tx: &fakeTx{commitErr: errors.New("serialization")}}
	err = WithTransaction(context.Background(), starter, func(tx pgx.Tx) error { return nil })
	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.True(t, starter.tx.rolledBack)
}

func TestWithTransactionResult(t *testing.T) {
	starter := &fakeStarter{tx: &fakeTx{}}

	n, err := WithTransactionResult(context.Background(), starter, func(tx pgx.Tx) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	starter = &fakeStarter{tx: &fakeTx{}}
	n, err = WithTransactionResult(context.Background(), starter, func(tx pgx.Tx) (int, error) { return 7, errors.New("nope") })
	assert.Error(t, err)
	assert.Zero(t, n)
}
