package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/torimo/backend/internal/domain"
)

func newTestAliasResolver(t *testing.T, names ...string) *AliasResolver {
	t.Helper()
	table := NewAliasBuilder(zaptest.NewLogger(t)).Build(names)
	return NewAliasResolver(staticAliases{table: table}, 0, zaptest.NewLogger(t))
}

func TestAliasResolver_SalmonScripts(t *testing.T) {
	r := newTestAliasResolver(t, "鮭")

	for _, q := range []string{"サーモン", "salmon", "SALMON", "さけ", "ｓａｌｍｏｎ"} {
		t.Run(q, func(t *testing.T) {
			got, ok := r.Resolve(q)
			require.True(t, ok)
			assert.Equal(t, "鮭", got)
		})
	}
}

func TestAliasResolver_Containment(t *testing.T) {
	r := newTestAliasResolver(t, "焼き鮭")

	got, ok := r.Resolve("焼き鮭定食")
	require.True(t, ok)
	assert.Equal(t, "焼き鮭", got)
}

func TestAliasResolver_Fuzzy(t *testing.T) {
	table := domain.NewAliasTable()
	table.Register("abcdefghij", []string{"abcdefghij"})
	r := NewAliasResolver(staticAliases{table: table}, 0, nil)

	got, ok := r.Resolve("abcdefghix")
	require.True(t, ok)
	assert.Equal(t, "abcdefghij", got)

	_, ok = r.Resolve("zyxwvu")
	assert.False(t, ok)
}

func TestAliasResolver_EmptyInputs(t *testing.T) {
	empty := NewAliasResolver(staticAliases{table: domain.NewAliasTable()}, 0, nil)
	_, ok := empty.Resolve("鮭")
	assert.False(t, ok)

	r := newTestAliasResolver(t, "鮭")
	_, ok = r.Resolve("")
	assert.False(t, ok)
	_, ok = r.Resolve("・・")
	assert.False(t, ok)

	nilSource := NewAliasResolver(nil, 0, nil)
	_, ok = nilSource.Resolve("鮭")
	assert.False(t, ok)
}

type swappableAliases struct {
	table *domain.AliasTable
}

func (s *swappableAliases) Table() *domain.AliasTable { return s.table }

func TestAliasResolver_RebuildsIndexOnReload(t *testing.T) {
	b := NewAliasBuilder(nil)
	src := &swappableAliases{table: b.Build([]string{"鮭"})}
	r := NewAliasResolver(src, 0, nil)

	_, ok := r.Resolve("たまご")
	assert.False(t, ok)

	src.table = b.Build([]string{"卵"})
	got, ok := r.Resolve("たまご")
	require.True(t, ok)
	assert.Equal(t, "卵", got)
}
