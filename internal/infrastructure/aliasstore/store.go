// Package aliasstore reads and writes the persisted alias table produced by
// the offline alias builder.
package aliasstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/torimo/backend/internal/domain"
	"github.com/torimo/backend/internal/pkg/lazy"
)

// document is the on-disk layout of the alias table. AliasToCanonical is
// written in table order; the resolver's containment step depends on it.
type document struct {
	AliasToCanonical    orderedAliases      `json:"alias_to_canonical"`
	CanonicalToVariants map[string][]string `json:"canonical_to_variants"`
}

// orderedAliases is alias_to_canonical with its key order kept
type orderedAliases struct {
	keys    []string
	mapping map[string]string
}

// MarshalJSON writes the aliases as one object in key order
func (o orderedAliases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(o.mapping[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object token by token so file order survives.
// A repeated key keeps its first value.
func (o *orderedAliases) UnmarshalJSON(data []byte) error {
	o.keys = nil
	o.mapping = make(map[string]string)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("alias_to_canonical: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		alias, ok := tok.(string)
		if !ok {
			return fmt.Errorf("alias_to_canonical: unexpected key %v", tok)
		}
		var canonical string
		if err := dec.Decode(&canonical); err != nil {
			return fmt.Errorf("alias_to_canonical[%q]: %w", alias, err)
		}
		if _, dup := o.mapping[alias]; dup {
			continue
		}
		o.keys = append(o.keys, alias)
		o.mapping[alias] = canonical
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Save writes table to path as indented JSON, aliases in table order
func Save(path string, table *domain.AliasTable) error {
	doc := document{
		AliasToCanonical: orderedAliases{
			keys:    table.Aliases(),
			mapping: table.AliasToCanonical(),
		},
		CanonicalToVariants: table.CanonicalToVariants(),
	}
	if doc.CanonicalToVariants == nil {
		doc.CanonicalToVariants = map[string][]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode alias table: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create alias dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write alias table: %w", err)
	}
	return nil
}

// Load reads a persisted alias table. Aliases are registered in file order,
// which is the order the builder registered them in.
func Load(path string) (*domain.AliasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}

	table := domain.NewAliasTable()
	byCanonical := make(map[string][]string, len(doc.CanonicalToVariants))
	for _, alias := range doc.AliasToCanonical.keys {
		canonical := doc.AliasToCanonical.mapping[alias]
		table.Claim(alias, canonical)
		byCanonical[canonical] = append(byCanonical[canonical], alias)
	}
	for canonical, variants := range doc.CanonicalToVariants {
		table.SetVariants(canonical, variants)
	}
	for canonical, claimed := range byCanonical {
		if table.Variants(canonical) == nil {
			table.SetVariants(canonical, claimed)
		}
	}
	return table, nil
}

// Store is the process-wide alias table cache
type Store struct {
	value *lazy.Value[*domain.AliasTable]
}

// NewStore creates a store reading path on first use. A missing or corrupt
// file yields an empty table.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("aliasstore")
	return &Store{
		value: lazy.New(func() *domain.AliasTable {
			table, err := Load(path)
			switch {
			case errors.Is(err, fs.ErrNotExist):
				log.Info("alias table not found", zap.String("path", path))
				return domain.NewAliasTable()
			case err != nil:
				log.Warn("alias table unreadable", zap.String("path", path), zap.Error(err))
				return domain.NewAliasTable()
			}
			log.Info("alias table loaded", zap.String("path", path), zap.Int("aliases", table.Len()))
			return table
		}),
	}
}

// NewStaticStore wraps an already built table
func NewStaticStore(table *domain.AliasTable) *Store {
	if table == nil {
		table = domain.NewAliasTable()
	}
	return &Store{value: lazy.New(func() *domain.AliasTable { return table })}
}

// Table returns the cached alias table
func (s *Store) Table() *domain.AliasTable {
	return s.value.Get()
}

// Reload rereads the alias file
func (s *Store) Reload() *domain.AliasTable {
	return s.value.Reload()
}
