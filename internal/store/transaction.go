package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type contextKey int

const (
	transactionKey contextKey = iota
)

var errTxDone = errors.New("transaction already finished")

// Tx is a gorm transaction carried in a context.
type Tx struct {
	id  int64
	db  *gorm.DB
	log logrus.FieldLogger
}

// WithTransaction runs fn with a context carrying a transaction. The transaction
// is committed when fn succeeds and rolled back when fn fails or panics.
// When ctx already carries a transaction fn joins it and its owner finishes it.
func WithTransaction(ctx context.Context, s Store, fn func(ctx context.Context) error) error {
	if _, found := ctx.Value(transactionKey).(*Tx); found {
		return fn(ctx)
	}

	txCtx, err := s.NewTransactionContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_, _ = Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if _, rerr := Rollback(txCtx); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	_, err = Commit(txCtx)
	return err
}

func Commit(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, transactionKey, nil), tx.finish(true)
}

func Rollback(ctx context.Context) (context.Context, error) {
	tx, ok := ctx.Value(transactionKey).(*Tx)
	if !ok {
		return ctx, nil
	}
	return context.WithValue(ctx, transactionKey, nil), tx.finish(false)
}

// FromContext returns the transaction carried by ctx, or nil.
func FromContext(ctx context.Context) *gorm.DB {
	if tx, found := ctx.Value(transactionKey).(*Tx); found && tx.db != nil {
		return tx.db
	}
	return nil
}

func newTransactionContext(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) (context.Context, error) {
	// nested calls join the running transaction
	if _, found := ctx.Value(transactionKey).(*Tx); found {
		return ctx, nil
	}

	gormTx := db.Session(&gorm.Session{Context: ctx}).Begin()
	if gormTx.Error != nil {
		return ctx, gormTx.Error
	}

	tx := &Tx{db: gormTx, log: log}
	// txid_current is only meaningful on postgres and is not distinct across time
	if db.Dialector.Name() == "postgres" {
		var txid struct{ ID int64 }
		gormTx.Raw("select txid_current() as id").Scan(&txid)
		tx.id = txid.ID
	}

	return context.WithValue(ctx, transactionKey, tx), nil
}

func (t *Tx) finish(commit bool) error {
	if t.db == nil {
		return errTxDone
	}

	action := "rollback"
	result := t.db.Rollback
	if commit {
		action = "commit"
		result = t.db.Commit
	}

	if err := result().Error; err != nil {
		t.log.Errorf("failed to %s transaction %d: %v", action, t.id, err)
		return err
	}
	t.db = nil
	t.log.Debugf("transaction %d %s done", t.id, action)
	return nil
}
