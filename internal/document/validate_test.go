package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	got, err := NormalizeName("  My   First Doc ")
	require.NoError(t, err)
	require.Equal(t, "My First Doc", got)

	_, err = NormalizeName("a")
	require.Error(t, err, "single character names are too short")

	_, err = NormalizeName(strings.Repeat("a", 101))
	require.Error(t, err)

	_, err = NormalizeName("bad!name")
	require.Error(t, err, "punctuation is not allowed")
}

func TestPathFromName(t *testing.T) {
	got, err := PathFromName("My First Doc")
	require.NoError(t, err)
	require.Equal(t, "my-first-doc", got)

	// single segment slugs are rejected for permanent documents
	_, err = PathFromName("Solo")
	require.Error(t, err)

	// 11 segments exceed the slug ceiling
	_, err = PathFromName("a b c d e f g h i j k")
	require.Error(t, err)
}

func TestValidateTags(t *testing.T) {
	tags, err := ValidateTags(nil)
	require.NoError(t, err)
	require.Empty(t, tags)

	tags, err = ValidateTags([]string{"go", "markdown"})
	require.NoError(t, err)
	require.Equal(t, []string{"go", "markdown"}, tags)

	_, err = ValidateTags([]string{"go", "go"})
	require.Error(t, err, "duplicates rejected")

	_, err = ValidateTags([]string{"bad tag"})
	require.Error(t, err)
}

func TestValidateStamp(t *testing.T) {
	require.NoError(t, ValidateStamp("2024-01-02T03:04:05.678Z"))
	require.Error(t, ValidateStamp("2024-01-02T03:04:05Z"))
	require.Error(t, ValidateStamp("yesterday"))
}
