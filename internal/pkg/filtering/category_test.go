package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryAddFilter(t *testing.T) {
	opt, _ := newCapture()
	c := NewCategory(opt)

	assert.True(t, c.AddFilter("Name:Orc"))
	assert.Equal(t, 1, c.Len())

	// Duplicate by normalized text, even with a different level range
	assert.False(t, c.AddFilter("Name:Orc;5-10"))
	assert.False(t, c.AddRangeFilter("Name:Orc", 1, 2))
	assert.Equal(t, 1, c.Len())

	// Raw text already carrying the rewrite normalizes to "Name:#?#?Orc"
	assert.True(t, c.AddFilter("Name:#?Orc"))
	assert.Equal(t, 2, c.Len())

	// Invalid patterns are kept but reported
	assert.False(t, c.AddFilter("Race:[bad"))
	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Expression(2).Valid())
}

func TestCategoryRemFilter(t *testing.T) {
	c := NewCategory()
	require.True(t, c.AddFilter("Name:Orc"))
	require.True(t, c.AddFilter("Race:Troll;5-10"))
	require.True(t, c.AddFilter("Class:Warrior"))

	// By normalized text
	assert.True(t, c.RemFilter("Name:#?Orc"))
	assert.Equal(t, 2, c.Len())

	// By raw text, level spec ignored
	assert.True(t, c.RemFilter("Race:Troll;5-10"))
	assert.Equal(t, 1, c.Len())

	assert.False(t, c.RemFilter("Race:Ogre"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "Class:Warrior", c.Expression(0).Pattern())
}

func TestCategoryIsFiltered(t *testing.T) {
	c := NewCategory()
	assert.False(t, c.IsFiltered("Name:Orc:", 1))

	require.True(t, c.AddFilter("Name:.*Orc.*:;10-20"))
	require.True(t, c.AddFilter("Race:Troll"))

	assert.True(t, c.IsFiltered("Name:Orc Pawn:", 15))
	assert.False(t, c.IsFiltered("Name:Orc Pawn:", 5))
	assert.True(t, c.IsFiltered("Name:Orc Pawn:Race:Troll:", 5))
	assert.False(t, c.IsFiltered("Name:Gnoll:", 15))
}

func TestCategoryCaseSensitivity(t *testing.T) {
	c := NewCategory()
	require.True(t, c.AddFilter("Race:Troll"))
	assert.True(t, c.IsFiltered("race:troll", 1))

	c.SetCaseSensitive(true)
	assert.True(t, c.CaseSensitive())
	assert.False(t, c.IsFiltered("race:troll", 1))

	// New expressions inherit the category setting
	require.True(t, c.AddFilter("Class:Warrior"))
	assert.False(t, c.IsFiltered("class:warrior", 1))
	assert.True(t, c.Expression(1).CaseSensitive())
}

func TestCategoryAccessors(t *testing.T) {
	c := NewCategory()
	require.True(t, c.AddFilter("a"))
	require.True(t, c.AddFilter("b"))

	assert.Nil(t, c.Expression(-1))
	assert.Nil(t, c.Expression(2))

	exprs := c.Expressions()
	require.Len(t, exprs, 2)
	exprs[0] = nil
	assert.NotNil(t, c.Expression(0))
}
