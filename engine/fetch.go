package engine

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/querystudy/query"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

// Page is one window of a paged fetch together with the unpaged total.
type Page[T any] struct {
	Content []T   `json:"content"`
	Total   int64 `json:"total"`
}

// Fetch runs sb and maps every row onto T. Columns T does not map are
// ignored.
func Fetch[T any](ctx context.Context, e *Engine, sb *query.SelectBuilder) ([]T, error) {
	meta, err := schema.MetaOf[T]()
	if err != nil {
		return nil, err
	}
	stmt, err := sb.Stmt()
	if err != nil {
		return nil, err
	}
	rows, done, err := e.queryNode(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer done()
	defer rows.Close()
	return scanAll[T](e, meta, rows)
}

// FetchOne expects exactly one row.
func FetchOne[T any](ctx context.Context, e *Engine, sb *query.SelectBuilder) (T, error) {
	var zero T
	items, err := Fetch[T](ctx, e, sb.WithLimit(2))
	if err != nil {
		return zero, err
	}
	switch len(items) {
	case 0:
		return zero, ErrNotFound
	case 1:
		return items[0], nil
	}
	return zero, ErrNonUniqueResult
}

// FetchFirst returns the first row in the statement's order.
func FetchFirst[T any](ctx context.Context, e *Engine, sb *query.SelectBuilder) (T, error) {
	var zero T
	items, err := Fetch[T](ctx, e, sb.WithLimit(1))
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, ErrNotFound
	}
	return items[0], nil
}

// FetchCount counts the rows sb would return, ignoring its paging.
func FetchCount(ctx context.Context, e *Engine, sb *query.SelectBuilder) (int64, error) {
	counts, err := FetchScalars[int64](ctx, e, sb.Count())
	if err != nil {
		return 0, err
	}
	if len(counts) != 1 {
		return 0, fmt.Errorf("engine: count returned %d rows", len(counts))
	}
	return counts[0], nil
}

// FetchResults runs the paged statement and a count of the unpaged one.
// The two statements are not isolated from concurrent writes unless e is
// bound to a transaction.
func FetchResults[T any](ctx context.Context, e *Engine, sb *query.SelectBuilder) (Page[T], error) {
	content, err := Fetch[T](ctx, e, sb)
	if err != nil {
		return Page[T]{}, err
	}
	total, err := FetchCount(ctx, e, sb)
	if err != nil {
		return Page[T]{}, err
	}
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, Total: total}, nil
}

// FetchScalars reads the single projected column of every row.
func FetchScalars[V any](ctx context.Context, e *Engine, sb *query.SelectBuilder) ([]V, error) {
	stmt, err := sb.Stmt()
	if err != nil {
		return nil, err
	}
	rows, done, err := e.queryNode(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer done()
	defer rows.Close()
	return scanColumn[V](rows)
}
