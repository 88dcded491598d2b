package id

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^wgt_[0-9a-zA-Z]{16}$`)

func TestGenerate_Format(t *testing.T) {
	got, err := Generate("wgt")
	require.NoError(t, err)
	assert.Regexp(t, idPattern, got)
}

func TestGenerate_NoPrefix(t *testing.T) {
	got, err := Generate("")
	require.NoError(t, err)
	assert.Len(t, got, size)
	assert.False(t, strings.Contains(got, "_"))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		got := MustGenerate("wgt")
		assert.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}
