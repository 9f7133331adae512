package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/repository"
)

type unitOfWork struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUnitOfWork creates the transactional boundary used by checkout
func NewUnitOfWork(db *sql.DB, logger *zap.Logger) repository.UnitOfWork {
	return &unitOfWork{db: db, logger: logger}
}

// WithinTx begins a read-committed transaction, hands transactional
// repositories to fn, and commits only when fn returns nil. Any error,
// including a panic in fn, rolls everything back.
func (u *unitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repositories) error) (err error) {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				u.logger.Error("Rollback after panic failed", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx, u.logger)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			u.logger.Error("Transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
