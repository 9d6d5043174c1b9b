package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnNewFile(t *testing.T) {
	root := t.TempDir()

	changed := make(chan struct{}, 1)
	w, err := NewWatcher(quietLogger(), func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Stop()
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Watch(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, "new.txt"), []byte("x"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_IgnoresHiddenFiles(t *testing.T) {
	root := t.TempDir()

	changed := make(chan struct{}, 4)
	w, err := NewWatcher(quietLogger(), func() {
		changed <- struct{}{}
	})
	require.NoError(t, err)
	defer w.Stop()
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Watch(root))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0644))

	select {
	case <-changed:
		t.Fatal("hidden files must not trigger a pass")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_StopIsClean(t *testing.T) {
	w, err := NewWatcher(quietLogger(), func() {})
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
