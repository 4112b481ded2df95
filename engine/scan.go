package engine

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/querystudy/cache"
	"github.com/Konsultn-Engineering/querystudy/database"
	"github.com/Konsultn-Engineering/querystudy/schema"
)

var destPool = sync.Pool{
	New: func() any {
		s := make([]any, 0, 16)
		return &s
	},
}

// discard receives columns that map to no field.
type discard struct{}

func (discard) Scan(any) error { return nil }

// plan resolves result columns to field indexes once per (type, columns).
// Drivers report either bare names or "table.column"; both are accepted.
func (e *Engine) plan(meta *schema.EntityMeta, columns []string) (*cache.ScanPlan, error) {
	return e.scanners.GetOrBuild(meta.Type, columns, func() (*cache.ScanPlan, error) {
		p := &cache.ScanPlan{Type: meta.Type, Fields: make([][]int, len(columns))}
		matched := 0
		for i, col := range columns {
			name := strings.Trim(col, `"`+"`")
			if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
				name = strings.Trim(name[dot+1:], `"`+"`")
			}
			if fm, ok := meta.ColumnMap[name]; ok {
				p.Fields[i] = fm.Index
				matched++
			}
		}
		if matched == 0 {
			return nil, fmt.Errorf("engine: no column of %v maps to %s", columns, meta.Name)
		}
		return p, nil
	})
}

// scanAll reads every remaining row into a new T.
func scanAll[T any](e *Engine, meta *schema.EntityMeta, rows database.Rows) ([]T, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	p, err := e.plan(meta, columns)
	if err != nil {
		return nil, err
	}

	bufp := destPool.Get().(*[]any)
	defer func() {
		clear(*bufp)
		destPool.Put(bufp)
	}()
	dest := (*bufp)[:0]
	for range columns {
		dest = append(dest, nil)
	}
	*bufp = dest

	var out []T
	for rows.Next() {
		var item T
		v := reflect.ValueOf(&item).Elem()
		for i, idx := range p.Fields {
			if idx == nil {
				dest[i] = discard{}
				continue
			}
			dest[i] = v.FieldByIndex(idx).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("engine: scan %s: %w", meta.Name, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// scanColumn reads the first column of every row.
func scanColumn[V any](rows database.Rows) ([]V, error) {
	var out []V
	for rows.Next() {
		var v V
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("engine: scan %T: %w", v, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
