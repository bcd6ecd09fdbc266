package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate(PrefixStatusCheck)
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate(PrefixStatusCheck)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "status-"))
	// Default NanoID length is 21.
	assert.Len(t, id, len("status-")+21)
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix("status-abc", PrefixStatusCheck))
	assert.False(t, HasPrefix("status-", PrefixStatusCheck))
	assert.False(t, HasPrefix("book-abc", PrefixStatusCheck))
}
