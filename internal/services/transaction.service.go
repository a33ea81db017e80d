package services

import (
	"context"
	"fmt"
	"vistoria/internal/database"

	appContext "vistoria/internal/context"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TransactionService runs units of work inside a single database transaction.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a transaction and commits when it returns nil.
// A transaction already carried by ctx is reused, so nested calls join the outer unit.
// Panics roll back and come back as errors; a failed rollback after a panic re-panics.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	if tx, ok := appContext.GetTransaction(ctx); ok {
		return fn(ctx, tx)
	}

	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rollbackErr, r))
			}

			err = panicErr
		}
	}()

	if err = fn(appContext.WithTransaction(ctx, tx), tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}

// DB returns the connection for reads that do not need a transaction.
func (ts *TransactionService) DB(ctx context.Context) *gorm.DB {
	if tx, ok := appContext.GetTransaction(ctx); ok {
		return tx
	}
	return ts.db.SQLWithContext(ctx)
}
