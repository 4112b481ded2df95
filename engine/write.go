package engine

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/querystudy/predicate"
	"github.com/Konsultn-Engineering/querystudy/query"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

// Create inserts items one by one. Zero fields with a generator are filled
// before the insert; a zero auto-increment key is read back afterwards,
// through RETURNING where the dialect has it and LastInsertId otherwise.
func Create[T any](ctx context.Context, e *Engine, items ...*T) error {
	meta, err := schema.MetaOf[T]()
	if err != nil {
		return err
	}
	for _, item := range items {
		if item == nil {
			return fmt.Errorf("engine: create %s: nil entity", meta.Name)
		}
		if err := e.insert(ctx, meta, reflect.ValueOf(item).Elem()); err != nil {
			return fmt.Errorf("engine: create %s: %w", meta.Name, err)
		}
	}
	return nil
}

func (e *Engine) insert(ctx context.Context, meta *schema.EntityMeta, v reflect.Value) error {
	cols := make([]string, 0, len(meta.Fields))
	vals := make([]any, 0, len(meta.Fields))
	for _, f := range meta.Fields {
		if f.Generator != nil && f.IsZero(v) {
			id, err := f.Generator.Generate()
			if err != nil {
				return err
			}
			if err := f.Set(v, id); err != nil {
				return err
			}
		}
		if f.AutoIncrement && f.IsZero(v) {
			continue
		}
		cols = append(cols, f.Column)
		vals = append(vals, f.Value(v))
	}
	if len(cols) == 0 {
		return fmt.Errorf("no columns to insert")
	}

	pk := meta.PrimaryKey
	readBack := pk != nil && pk.AutoIncrement && pk.IsZero(v)
	ib := query.InsertEntity(meta).Columns(cols...).Values(vals...)

	if readBack && e.dialect.SupportsReturning() {
		node, err := ib.Returning(pk.Column).Build()
		if err != nil {
			return err
		}
		rows, done, err := e.queryNode(ctx, node)
		if err != nil {
			return err
		}
		defer done()
		defer rows.Close()
		ids, err := scanColumn[int64](rows)
		if err != nil {
			return err
		}
		if len(ids) != 1 {
			return fmt.Errorf("insert returned %d keys", len(ids))
		}
		return pk.Set(v, ids[0])
	}

	node, err := ib.Build()
	if err != nil {
		return err
	}
	res, err := e.execNode(ctx, node)
	if err != nil {
		return err
	}
	if !readBack {
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return pk.Set(v, id)
}

// Update writes every non-key column of item, matched by primary key.
func Update[T any](ctx context.Context, e *Engine, item *T) error {
	meta, v, where, err := byKey(item)
	if err != nil {
		return err
	}
	ub := query.UpdateEntity(meta)
	for _, f := range meta.Fields {
		if f.Primary {
			continue
		}
		ub.Set(f.Column, f.Value(v))
	}
	n, err := e.Execute(ctx, ub.Where(where))
	if err != nil {
		return fmt.Errorf("engine: update %s: %w", meta.Name, err)
	}
	if n == 0 {
		return fmt.Errorf("engine: update %s: %w", meta.Name, ErrNotFound)
	}
	return nil
}

// Delete removes item by primary key.
func Delete[T any](ctx context.Context, e *Engine, item *T) error {
	meta, _, where, err := byKey(item)
	if err != nil {
		return err
	}
	n, err := e.Execute(ctx, query.DeleteEntity(meta).Where(where))
	if err != nil {
		return fmt.Errorf("engine: delete %s: %w", meta.Name, err)
	}
	if n == 0 {
		return fmt.Errorf("engine: delete %s: %w", meta.Name, ErrNotFound)
	}
	return nil
}

func byKey[T any](item *T) (*schema.EntityMeta, reflect.Value, predicate.Predicate, error) {
	meta, err := schema.MetaOf[T]()
	if err != nil {
		return nil, reflect.Value{}, nil, err
	}
	if item == nil {
		return nil, reflect.Value{}, nil, fmt.Errorf("engine: %s: nil entity", meta.Name)
	}
	pk := meta.PrimaryKey
	if pk == nil {
		return nil, reflect.Value{}, nil, fmt.Errorf("engine: %s has no primary key", meta.Name)
	}
	v := reflect.ValueOf(item).Elem()
	if pk.IsZero(v) {
		return nil, reflect.Value{}, nil, fmt.Errorf("engine: %s: zero primary key", meta.Name)
	}
	where := predicate.Leaf{
		Field:  predicate.Field{Table: meta.Table, Column: pk.Column},
		Op:     predicate.OpEq,
		Values: []any{pk.Value(v)},
	}
	return meta, v, where, nil
}

// Execute runs a bulk UPDATE, DELETE or INSERT and reports the rows
// affected.
func (e *Engine) Execute(ctx context.Context, stmt query.Statement) (int64, error) {
	node, err := stmt.Build()
	if err != nil {
		return 0, err
	}
	res, err := e.execNode(ctx, node)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Migrate creates the tables of metas in order, skipping tables that exist.
// Referenced tables must come first.
func (e *Engine) Migrate(ctx context.Context, metas ...*schema.EntityMeta) error {
	for _, meta := range metas {
		stmt, err := schema.CreateTable(meta, true)
		if err != nil {
			return err
		}
		if _, err := e.execNode(ctx, stmt); err != nil {
			return fmt.Errorf("engine: migrate %s: %w", meta.Table, err)
		}
		e.log.Info("table ready", zap.String("table", meta.Table))
	}
	return nil
}
