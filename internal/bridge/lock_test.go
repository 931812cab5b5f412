package bridge

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLockWritesPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.lock")
	fl := NewFileLock(path)
	require.NoError(t, fl.TryLock())
	defer fl.Unlock()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestFileLockUnlockRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.lock")
	fl := NewFileLock(path)
	require.NoError(t, fl.TryLock())
	require.NoError(t, fl.Unlock())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, fl.Unlock(), "unlocking twice is harmless")
}

func TestFileLockReacquireAfterUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.lock")

	first := NewFileLock(path)
	require.NoError(t, first.TryLock())
	require.NoError(t, first.Unlock())

	second := NewFileLock(path)
	require.NoError(t, second.TryLock())
	assert.NoError(t, second.Unlock())
}
