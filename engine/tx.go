package engine

import (
	"context"
	"errors"
	"fmt"
)

// WithTx runs fn with an engine bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise, including on panic.
// Called on an engine that is already in a transaction, fn joins it.
func (e *Engine) WithTx(ctx context.Context, fn func(tx *Engine) error) (err error) {
	if e.tx != nil {
		return fn(e)
	}

	tx, err := e.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("engine: begin: %w", err)
	}
	bound := *e
	bound.q = tx
	bound.tx = tx

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(&bound); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("engine: rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("engine: commit: %w", err)
	}
	return nil
}
