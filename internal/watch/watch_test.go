package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects callback batches from Run.
type recorder struct {
	mu      sync.Mutex
	batches [][]Event
	errs    []error
}

func (r *recorder) fn(_ context.Context, events []Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
	return nil
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func startWatcher(t *testing.T, w *Watcher, fn Func) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, fn)
	}()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		w.Close()
	})
	// Give the loop a moment to start selecting.
	time.Sleep(20 * time.Millisecond)
}

func TestNewRequiresFiles(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{"/nonexistent/dir/that/does/not/exist/file.txt"})
	assert.Error(t, err)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "b"), filepath.Join(dir, "a"), filepath.Join(dir, "a")})
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, []string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}, w.Files())
}

func TestRunCallsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := New([]string{path}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	rec := &recorder{}
	startWatcher(t, w, rec.fn)

	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	assert.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.batches[0])
	abs, _ := filepath.Abs(path)
	assert.Equal(t, abs, rec.batches[0][0].Path)
}

func TestRunIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := New([]string{path}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	rec := &recorder{}
	startWatcher(t, w, rec.fn)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestRunDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("0"), 0o644))

	w, err := New([]string{path}, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)

	rec := &recorder{}
	startWatcher(t, w, rec.fn)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('1' + i)}, 0o644))
	}

	assert.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestRunRenameOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	w, err := New([]string{path}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	rec := &recorder{}
	startWatcher(t, w, rec.fn)

	tmp := filepath.Join(dir, ".input.txt.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("two"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestRunCallbackErrorsGoToHandler(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("one"), 0o644))

	rec := &recorder{}
	w, err := New([]string{path}, WithDebounce(20*time.Millisecond), WithErrorHandler(rec.onError))
	require.NoError(t, err)

	boom := errors.New("boom")
	startWatcher(t, w, func(context.Context, []Event) error {
		return boom
	})

	errCount := func() int {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.errs)
	}

	// The loop keeps running after a failed callback.
	require.NoError(t, os.WriteFile(path, []byte("two"), 0o644))
	assert.Eventually(t, func() bool { return errCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("three"), 0o644))
	assert.Eventually(t, func() bool { return errCount() >= 2 }, 2*time.Second, 10*time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ErrorIs(t, rec.errs[0], boom)
}

func TestRunAfterClose(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "f")})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Run(context.Background(), (&recorder{}).fn), ErrWatcherClosed)
}
