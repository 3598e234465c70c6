package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTrimmed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("  token-value\n"), 0600))

	val, err := ReadTrimmed(path)
	require.NoError(t, err)
	assert.Equal(t, "token-value", val)
	assert.True(t, Exists(path))

	_, err = ReadTrimmed(path + ".missing")
	assert.Error(t, err)
	assert.False(t, Exists(path+".missing"))
}
