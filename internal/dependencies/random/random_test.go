package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringUsesAlphabet(t *testing.T) {
	s, err := New().String(64, "ab")
	require.NoError(t, err)

	assert.Len(t, s, 64)
	assert.Empty(t, strings.Trim(s, "ab"))
}

func TestStringRejectsEmptyInput(t *testing.T) {
	_, err := New().String(0, "ab")
	assert.Error(t, err)

	_, err = New().String(8, "")
	assert.Error(t, err)
}
