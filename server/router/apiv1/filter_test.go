package apiv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTitleFilterEquals(t *testing.T) {
	filter, err := parseTitleFilter(`title == 'Quantum computing'`)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, "Quantum computing", filter.Equals)
	assert.Empty(t, filter.Contains)
}

func TestParseTitleFilterEqualsReversed(t *testing.T) {
	filter, err := parseTitleFilter(`'Quantum computing' == title`)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, "Quantum computing", filter.Equals)
}

func TestParseTitleFilterContains(t *testing.T) {
	filter, err := parseTitleFilter(`title.contains('quantum')`)
	require.NoError(t, err)
	require.NotNil(t, filter)
	assert.Equal(t, "quantum", filter.Contains)
	assert.Empty(t, filter.Equals)
}

func TestParseTitleFilterEmpty(t *testing.T) {
	filter, err := parseTitleFilter("  ")
	require.NoError(t, err)
	assert.Nil(t, filter)
}

func TestParseTitleFilterRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		filter string
	}{
		{"syntax error", `title == `},
		{"unknown field", `pinned == true`},
		{"unsupported operator", `title != 'x'`},
		{"non-constant argument", `title.contains(title)`},
		{"bare identifier", `title`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTitleFilter(tt.filter)
			assert.Error(t, err)
		})
	}
}
