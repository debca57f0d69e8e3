package cache_test

import (
	"testing"

	"github.com/agildata/zeroproxy/cache"
	"github.com/agildata/zeroproxy/dialect/mysql"
	"github.com/agildata/zeroproxy/physical"
	"github.com/agildata/zeroproxy/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapeOf(t *testing.T, sql string) string {
	t.Helper()
	d := mysql.New()
	tokens, _, err := token.Tokenize(sql, d)
	require.NoError(t, err)
	return token.Shape(tokens)
}

func TestSameShapeDifferentLiteralsShareCacheKey(t *testing.T) {
	s1 := shapeOf(t, "SELECT id FROM users WHERE id = 1")
	s2 := shapeOf(t, "SELECT id FROM users WHERE id = 999999")
	assert.Equal(t, s1, s2)
}

func TestDifferentShapeDifferentCacheKey(t *testing.T) {
	s1 := shapeOf(t, "SELECT id FROM users WHERE id = 1")
	s2 := shapeOf(t, "SELECT name FROM users WHERE id = 1")
	assert.NotEqual(t, s1, s2)
}

func TestCachePutGet(t *testing.T) {
	c := cache.New()
	plan := &physical.Plan{Literals: map[int]physical.PlanEntry{}}
	c.Put("shape-a", plan)

	got, ok := c.Get("shape-a")
	require.True(t, ok)
	assert.Same(t, plan, got)

	_, ok = c.Get("shape-b")
	assert.False(t, ok)
}
