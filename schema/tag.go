package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ParsedTag is the database mapping of one struct field.
type ParsedTag struct {
	ColumnName string
	Skip       bool
	Type       string // native type override
	Size       int    // VARCHAR length

	Null          bool
	NotNull       bool
	Primary       bool
	Unique        bool
	AutoIncrement bool
	Generator     string // uuid, ulid

	ForeignKey string // table.column
	OnDelete   string
}

// TagParser parses and caches struct tags.
type TagParser struct {
	namingStrategy NamingStrategy
	tagName        string
	cache          map[string]*ParsedTag
	cacheMu        sync.RWMutex
}

func NewTagParser(namingStrategy NamingStrategy, tagName string) *TagParser {
	if tagName == "" {
		tagName = "db"
	}
	return &TagParser{
		namingStrategy: namingStrategy,
		tagName:        tagName,
		cache:          make(map[string]*ParsedTag, 16),
	}
}

// ParseTag parses the mapping tag of a field.
//
// Supported tag syntax:
//
//	`db:"column_name"`                      // Basic column mapping
//	`db:"column:member_id;primary;auto"`    // Explicit column, key, identity
//	`db:"not null;unique;size:64"`          // Constraints
//	`db:"generator:uuid"`                   // Generated on insert
//	`db:"references:teams.team_id;on_delete:set null"`
//	`db:"-"`                                // Skip field entirely
func (p *TagParser) ParseTag(fieldName string, tag reflect.StructTag) (*ParsedTag, error) {
	tagValue := tag.Get(p.tagName)

	if tagValue == "" {
		return &ParsedTag{
			ColumnName: p.namingStrategy.ColumnName(fieldName),
		}, nil
	}

	cacheKey := fieldName + ":" + tagValue
	p.cacheMu.RLock()
	if cached, exists := p.cache[cacheKey]; exists {
		p.cacheMu.RUnlock()
		return cached, nil
	}
	p.cacheMu.RUnlock()

	parsed, err := p.parseTagValue(fieldName, tagValue)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fieldName, err)
	}

	p.cacheMu.Lock()
	p.cache[cacheKey] = parsed
	p.cacheMu.Unlock()

	return parsed, nil
}

// Tag format: "option1;option2;key1:value1;key2:value2"
func (p *TagParser) parseTagValue(fieldName, tagValue string) (*ParsedTag, error) {
	if tagValue == "-" {
		return &ParsedTag{Skip: true}, nil
	}

	parsed := &ParsedTag{
		ColumnName: p.namingStrategy.ColumnName(fieldName),
	}

	// Handle simple column name (most common case)
	if !strings.ContainsAny(tagValue, ";:") && !isFlag(tagValue) {
		parsed.ColumnName = tagValue
		return parsed, nil
	}

	for _, option := range strings.Split(tagValue, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}

		if colonIdx := strings.IndexByte(option, ':'); colonIdx != -1 {
			key := strings.TrimSpace(option[:colonIdx])
			value := strings.TrimSpace(option[colonIdx+1:])
			if err := parsed.setOption(key, value); err != nil {
				return nil, err
			}
			continue
		}
		if err := parsed.setFlag(option); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

func isFlag(s string) bool {
	return (&ParsedTag{}).setFlag(s) == nil
}

func (tag *ParsedTag) setFlag(flag string) error {
	switch flag {
	case "primary", "primary_key":
		tag.Primary = true
	case "unique":
		tag.Unique = true
	case "null":
		tag.Null = true
	case "not_null", "not null":
		tag.NotNull = true
	case "auto", "auto_increment":
		tag.AutoIncrement = true
	default:
		return fmt.Errorf("unknown option %q", flag)
	}
	return nil
}

func (tag *ParsedTag) setOption(key, value string) error {
	switch key {
	case "column", "name":
		tag.ColumnName = value
	case "type":
		tag.Type = value
	case "size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid size %q: must be a positive integer", value)
		}
		tag.Size = n
	case "generator", "gen":
		tag.Generator = value
	case "fk", "references":
		if !strings.Contains(value, ".") {
			return fmt.Errorf("invalid reference %q: want table.column", value)
		}
		tag.ForeignKey = value
	case "on_delete":
		tag.OnDelete = strings.ToUpper(value)
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}

// IsSkipped returns true if this field should be skipped entirely.
func (tag *ParsedTag) IsSkipped() bool {
	return tag.Skip
}

// IsNullable returns true if this field explicitly allows NULL values.
func (tag *ParsedTag) IsNullable() bool {
	return tag.Null && !tag.NotNull
}

// Reference splits ForeignKey into table and column.
func (tag *ParsedTag) Reference() (table, column string, ok bool) {
	table, column, ok = strings.Cut(tag.ForeignKey, ".")
	return
}
