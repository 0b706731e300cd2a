package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - NewFileWatcher succeeds for files in existing directories (files may be missing)
// - NewFileWatcher returns error when no parent directory exists
// - NewFileWatcher skips missing parent directories and keeps watching the rest
// - Writing a watched file fires the callback with the path as given
// - Changes to unwatched files in the same directory are ignored
// - Rapid changes are debounced and deduplicated into one sorted batch
// - Creating a previously missing watched file fires the callback
// - Removing a watched file fires the callback
// - Context cancellation stops the watcher
// - Stop() is idempotent and safe without Start()

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// collect starts fw and returns a channel receiving each callback batch.
func collect(t *testing.T, fw *FileWatcher) <-chan []string {
	t.Helper()

	batches := make(chan []string, 10)
	require.NoError(t, fw.Start(context.Background(), func(files []string) {
		batches <- files
	}))
	return batches
}

func waitBatch(t *testing.T, batches <-chan []string) []string {
	t.Helper()

	select {
	case files := <-batches:
		return files
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not called")
		return nil
	}
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fw, err := NewFileWatcher([]string{filepath.Join(dir, "A.java"), filepath.Join(dir, "B.java")})
	require.NoError(t, err)
	require.NotNil(t, fw)

	require.NoError(t, fw.Stop())
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nonexistent", "A.java")

	fw, err := NewFileWatcher([]string{missing})
	assert.Error(t, err)
	assert.Nil(t, fw)
}

func TestNewFileWatcher_SkipsMissingDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "A.java")
	writeFile(t, file, "class A {}")
	missing := filepath.Join(dir, "nonexistent", "B.java")

	fw, err := NewFileWatcher([]string{missing, file}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	writeFile(t, file, "class A { int x; }")

	assert.Equal(t, []string{file}, waitBatch(t, batches))
}

func TestFileWatcher_WatchedFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "A.java")
	writeFile(t, file, "class A {}")

	fw, err := NewFileWatcher([]string{file}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	writeFile(t, file, "class A { int x; }")

	assert.Equal(t, []string{file}, waitBatch(t, batches))
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "A.java")
	writeFile(t, file, "class A {}")

	fw, err := NewFileWatcher([]string{file}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	writeFile(t, filepath.Join(dir, "Other.java"), "class Other {}")
	writeFile(t, filepath.Join(dir, "notes.txt"), "hello")

	select {
	case files := <-batches:
		t.Fatalf("unexpected callback with %v", files)
	case <-time.After(4 * testDebounce):
	}
}

func TestFileWatcher_DebouncesAndDeduplicates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	writeFile(t, a, "class A {}")
	writeFile(t, b, "class B {}")

	fw, err := NewFileWatcher([]string{b, a}, WithDebounce(200*time.Millisecond))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	for i := 0; i < 3; i++ {
		writeFile(t, b, "class B { }")
		writeFile(t, a, "class A { }")
		time.Sleep(20 * time.Millisecond)
	}

	assert.Equal(t, []string{a, b}, waitBatch(t, batches))

	select {
	case files := <-batches:
		t.Fatalf("expected a single batch, got another: %v", files)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestFileWatcher_FileCreated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "Later.java")

	fw, err := NewFileWatcher([]string{file}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	writeFile(t, file, "class Later {}")

	assert.Equal(t, []string{file}, waitBatch(t, batches))
}

func TestFileWatcher_FileRemoved(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "Gone.java")
	writeFile(t, file, "class Gone {}")

	fw, err := NewFileWatcher([]string{file}, WithDebounce(testDebounce))
	require.NoError(t, err)
	defer fw.Stop()

	batches := collect(t, fw)
	time.Sleep(testDebounce)

	require.NoError(t, os.Remove(file))

	assert.Equal(t, []string{file}, waitBatch(t, batches))
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "A.java")
	writeFile(t, file, "class A {}")

	fw, err := NewFileWatcher([]string{file}, WithDebounce(testDebounce))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	calls := 0
	require.NoError(t, fw.Start(ctx, func(files []string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}))

	cancel()
	select {
	case <-fw.doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit after cancellation")
	}

	writeFile(t, file, "class A { int y; }")
	time.Sleep(4 * testDebounce)

	mu.Lock()
	assert.Zero(t, calls)
	mu.Unlock()

	require.NoError(t, fw.Stop())
}

func TestFileWatcher_StopIdempotent(t *testing.T) {
	t.Parallel()

	fw, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "A.java")})
	require.NoError(t, err)

	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
}
