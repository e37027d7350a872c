package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliasTable_FirstWriterWins(t *testing.T) {
	table := NewAliasTable()
	assert.Equal(t, 2, table.Register("鮭", []string{"サーモン", "鮭"}))
	assert.Equal(t, 1, table.Register("鮭フレーク", []string{"サーモン", "鮭フレーク"}))

	owner, ok := table.Lookup("サーモン")
	assert.True(t, ok)
	assert.Equal(t, "鮭", owner)
	assert.Equal(t, []string{"サーモン", "鮭", "鮭フレーク"}, table.Aliases())
	assert.Equal(t, []string{"サーモン", "鮭フレーク"}, table.Variants("鮭フレーク"))
	assert.Equal(t, 2, table.Canonicals())
}

func TestAliasTable_NilSafe(t *testing.T) {
	var table *AliasTable
	_, ok := table.Lookup("x")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Aliases())
}
