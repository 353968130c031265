package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx stores a transaction-scoped executor in ctx. Repositories pick it up
// through Conn, which lets a caller compose several module calls atomically.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Conn returns the executor for ctx: the caller-supplied transaction when one
// is present, otherwise base bound to ctx.
func Conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}

// UnitOfWork is the callback-style transaction boundary offered to callers.
// Returning an error rolls back; nil commits.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(WithTx(ctx, tx))
	})
}

// LockKey takes a transaction-scoped advisory lock on key. The lock is held
// until the transaction carried by ctx ends, so it only serializes callers
// running inside a UnitOfWork. SQLite admits one writer at a time and needs
// no lock.
func LockKey(ctx context.Context, base *gorm.DB, key string) error {
	conn := Conn(ctx, base)
	if conn.Dialector.Name() != DriverPostgres {
		return nil
	}
	return conn.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
