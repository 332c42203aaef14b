package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GetEnvOrDefault(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		assert.Equal(t, "default", GetEnvOrDefault("DEBUGFIND_TEST_UNSET", "default"))
	})
	t.Run("env", func(t *testing.T) {
		t.Setenv("DEBUGFIND_TEST_SET", "env")
		assert.Equal(t, "env", GetEnvOrDefault("DEBUGFIND_TEST_SET", "default"))
	})
	t.Run("empty env", func(t *testing.T) {
		t.Setenv("DEBUGFIND_TEST_SET", "")
		assert.Equal(t, "", GetEnvOrDefault("DEBUGFIND_TEST_SET", "default"))
	})
}
