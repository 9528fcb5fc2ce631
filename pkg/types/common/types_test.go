package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_Validate(t *testing.T) {
	assert.NoError(t, ID("550e8400-e29b-41d4-a716-446655440000").Validate())

	err := ID("").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = ID("not-a-uuid").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid ID format")
}

func TestNewID_GeneratesValidUUID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NoError(t, a.Validate())
	assert.NotEqual(t, a, b)
}

func TestSortOrder_Ascending(t *testing.T) {
	assert.True(t, SortAsc.Ascending())
	assert.True(t, SortOrder("").Ascending())
	assert.True(t, SortOrder("sideways").Ascending())
	assert.False(t, SortDesc.Ascending())
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, start, c.Now())
	c.Advance(2 * time.Hour)
	assert.Equal(t, start.Add(2*time.Hour), c.Now())
	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestSystemClock_Location(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	now := SystemClock{Location: loc}.Now()
	assert.Equal(t, loc, now.Location())
}

//Personal.AI order the ending
