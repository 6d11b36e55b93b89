package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exact_orb: 0.1\n"), 0o644))

	changes := make(chan *Settings, 4)
	errs := make(chan error, 4)
	w, err := Watch(path, func(s *Settings) { changes <- s },
		WithDebounce(20*time.Millisecond),
		WithErrorHandler(func(err error) { errs <- err }))
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))

	require.NoError(t, os.WriteFile(path, []byte("exact_orb: 0.2\n"), 0o644))
	select {
	case s := <-changes:
		assert.Equal(t, 0.2, s.ExactOrb)
	case err := <-errs:
		t.Fatalf("unexpected reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	require.NoError(t, os.WriteFile(path, []byte("orb_mode: median\n"), 0o644))
	timeout := time.After(5 * time.Second)
	for {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, ErrInvalid)
			return
		case s := <-changes:
			// A late duplicate of the previous reload is fine.
			require.Equal(t, 0.2, s.ExactOrb, "invalid settings were delivered")
		case <-timeout:
			t.Fatal("timed out waiting for reload error")
		}
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "nope", "settings.yaml"), func(*Settings) {})
	assert.Error(t, err)
}
