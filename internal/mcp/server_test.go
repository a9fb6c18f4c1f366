package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Initialization(t *testing.T) {
	t.Run("custom path creates database", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir)
		require.NoError(t, err)
		defer func() { _ = server.storage.Close() }()

		assert.NotNil(t, server.mcp, "MCP server should be initialized")
		assert.NotNil(t, server.storage, "Storage should be initialized")
	})

	t.Run("run lock starts released", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer(tmpDir)
		require.NoError(t, err)
		defer func() { _ = server.storage.Close() }()

		assert.True(t, server.runLock.TryAcquire())
		server.runLock.Release()
	})
}

func TestRunLock(t *testing.T) {
	var lock RunLock

	assert.True(t, lock.TryAcquire())
	// Second acquire fails while held
	assert.False(t, lock.TryAcquire())

	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}
