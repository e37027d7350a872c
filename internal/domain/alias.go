package domain

import "sort"

// AliasTable maps alias strings to canonical food names.
// The first registration of an alias wins; later claims are ignored.
type AliasTable struct {
	aliasToCanonical    map[string]string
	order               []string
	canonicalToVariants map[string][]string
}

// NewAliasTable creates an empty alias table
func NewAliasTable() *AliasTable {
	return &AliasTable{
		aliasToCanonical:    make(map[string]string),
		canonicalToVariants: make(map[string][]string),
	}
}

// Register records variants for canonical. Variants already claimed by an
// earlier canonical name keep their owner. It returns the number of newly
// claimed aliases.
func (t *AliasTable) Register(canonical string, variants []string) int {
	t.SetVariants(canonical, variants)

	added := 0
	for _, v := range t.canonicalToVariants[canonical] {
		if t.Claim(v, canonical) {
			added++
		}
	}
	return added
}

// Claim maps alias to canonical unless the alias is empty or already owned
func (t *AliasTable) Claim(alias, canonical string) bool {
	if alias == "" {
		return false
	}
	if _, taken := t.aliasToCanonical[alias]; taken {
		return false
	}
	t.aliasToCanonical[alias] = canonical
	t.order = append(t.order, alias)
	return true
}

// SetVariants replaces the reverse-index entry for canonical with a sorted copy
func (t *AliasTable) SetVariants(canonical string, variants []string) {
	sorted := append([]string(nil), variants...)
	sort.Strings(sorted)
	t.canonicalToVariants[canonical] = sorted
}

// Lookup returns the canonical name registered for alias
func (t *AliasTable) Lookup(alias string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.aliasToCanonical[alias]
	return c, ok
}

// Aliases returns aliases in table order (registration order)
func (t *AliasTable) Aliases() []string {
	if t == nil {
		return nil
	}
	return t.order
}

// Variants returns the sorted variant list generated for canonical
func (t *AliasTable) Variants(canonical string) []string {
	if t == nil {
		return nil
	}
	return t.canonicalToVariants[canonical]
}

// AliasToCanonical returns the alias map. Callers must not modify it.
func (t *AliasTable) AliasToCanonical() map[string]string {
	if t == nil {
		return nil
	}
	return t.aliasToCanonical
}

// CanonicalToVariants returns the reverse index. Callers must not modify it.
func (t *AliasTable) CanonicalToVariants() map[string][]string {
	if t == nil {
		return nil
	}
	return t.canonicalToVariants
}

// Len returns the number of aliases
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Canonicals returns the number of canonical names registered
func (t *AliasTable) Canonicals() int {
	if t == nil {
		return 0
	}
	return len(t.canonicalToVariants)
}
