package cache

import (
	"reflect"
	"strings"
	"sync"
)

// ScanPlan maps result columns to struct field indexes. A nil entry in Fields
// means the column has no destination and is discarded.
type ScanPlan struct {
	Type   reflect.Type
	Fields [][]int
}

type scanKey struct {
	typ     reflect.Type
	columns string
}

// ScannerCache memoizes scan plans per (struct type, column list).
type ScannerCache struct {
	mu   sync.RWMutex
	data map[scanKey]*ScanPlan
}

func NewScannerCache() *ScannerCache {
	return &ScannerCache{
		data: make(map[scanKey]*ScanPlan),
	}
}

// GetOrBuild returns the cached plan or stores the one build produces.
func (c *ScannerCache) GetOrBuild(t reflect.Type, columns []string, build func() (*ScanPlan, error)) (*ScanPlan, error) {
	key := scanKey{typ: t, columns: strings.Join(columns, "\x00")}

	c.mu.RLock()
	if existing, ok := c.data[key]; ok {
		c.mu.RUnlock()
		return existing, nil
	}
	c.mu.RUnlock()

	plan, err := build()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.data[key]; ok {
		return existing, nil
	}
	c.data[key] = plan
	return plan, nil
}
