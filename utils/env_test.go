package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("FLASHCARD_TEST_STR", "  value ")
	assert.Equal(t, "value", GetEnv("FLASHCARD_TEST_STR", "def", nil))
	assert.Equal(t, "def", GetEnv("FLASHCARD_TEST_MISSING", "def", nil))

	t.Setenv("FLASHCARD_TEST_BLANK", "   ")
	assert.Equal(t, "def", GetEnv("FLASHCARD_TEST_BLANK", "def", nil))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("FLASHCARD_TEST_INT", "42")
	assert.Equal(t, 42, GetEnvAsInt("FLASHCARD_TEST_INT", 7, nil))

	t.Setenv("FLASHCARD_TEST_INT", "forty")
	assert.Equal(t, 7, GetEnvAsInt("FLASHCARD_TEST_INT", 7, nil))
	assert.Equal(t, 7, GetEnvAsInt("FLASHCARD_TEST_MISSING", 7, nil))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("FLASHCARD_TEST_BOOL", "off")
	assert.False(t, GetEnvAsBool("FLASHCARD_TEST_BOOL", true, nil))
	t.Setenv("FLASHCARD_TEST_BOOL", "YES")
	assert.True(t, GetEnvAsBool("FLASHCARD_TEST_BOOL", false, nil))
	t.Setenv("FLASHCARD_TEST_BOOL", "maybe")
	assert.True(t, GetEnvAsBool("FLASHCARD_TEST_BOOL", true, nil))
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("FLASHCARD_TEST_LIST", "http://a, ,http://b,")
	assert.Equal(t, []string{"http://a", "http://b"}, GetEnvAsList("FLASHCARD_TEST_LIST", nil, nil))

	t.Setenv("FLASHCARD_TEST_LIST", " , ")
	assert.Equal(t, []string{"x"}, GetEnvAsList("FLASHCARD_TEST_LIST", []string{"x"}, nil))
}
