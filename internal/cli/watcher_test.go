package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsDefinitionWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "machine.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: demo\n"), 0o644))

	w, err := NewWatcher(file)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(file, []byte("name: demo2\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, file, name)
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change event")
	}
}

func TestWatcher_CloseDrainsCleanly(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "machine.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: demo\n"), 0o644))

	w, err := NewWatcher(file)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	// The loop owns the channels and closes them on its way out.
	select {
	case _, ok := <-w.Events:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events channel never closed")
	}
	select {
	case _, ok := <-w.Errors:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("errors channel never closed")
	}
}
