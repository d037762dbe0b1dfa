package lock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	lock := New("/var/lib/iftool", "etc_sysconfig_network-scripts")
	assert.Equal(t, "/var/lib/iftool/locks/etc_sysconfig_network-scripts.lock", lock.Path())
}

func TestForDestination(t *testing.T) {
	tests := []struct {
		destination string
		want        string
	}{
		{"/etc/sysconfig/network-scripts", "etc_sysconfig_network-scripts"},
		{"/etc/sysconfig/network-scripts/", "etc_sysconfig_network-scripts"},
		{"out", "out"},
		{"/", "root"},
		{".", "root"},
	}
	for _, tt := range tests {
		t.Run(tt.destination, func(t *testing.T) {
			assert.Equal(t, tt.want, ForDestination(tt.destination))
		})
	}
}

func TestLock_AcquireRelease(t *testing.T) {
	tmpDir := t.TempDir()
	lock := New(tmpDir, "test")

	require.NoError(t, lock.Acquire())

	lockPath := filepath.Join(tmpDir, "locks", "test.lock")
	data, err := os.ReadFile(lockPath)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, lock.Release())

	_, err = os.Stat(lockPath)
	assert.True(t, os.IsNotExist(err))
}

func TestLock_DoubleAcquire(t *testing.T) {
	tmpDir := t.TempDir()
	lock1 := New(tmpDir, "test")
	lock2 := New(tmpDir, "test")

	require.NoError(t, lock1.Acquire())
	defer lock1.Release()

	err := lock2.Acquire()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocked)
}

func TestLock_ReleaseWithoutAcquire(t *testing.T) {
	lock := New(t.TempDir(), "test")
	assert.NoError(t, lock.Release())
}

func TestWithLock(t *testing.T) {
	tmpDir := t.TempDir()

	executed := false
	err := WithLock(tmpDir, "test", func() error {
		executed = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, executed)
}

func TestWithLock_Blocked(t *testing.T) {
	tmpDir := t.TempDir()
	lock := New(tmpDir, "test")
	require.NoError(t, lock.Acquire())
	defer lock.Release()

	executed := false
	err := WithLock(tmpDir, "test", func() error {
		executed = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLocked)
	assert.False(t, executed)
}
