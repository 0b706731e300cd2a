package output

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mvp-joe/javameta/internal/config"
	"github.com/mvp-joe/javameta/internal/outline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// Test Plan for Output Sinks:
// - FileSink writes a pretty-printed JSON array with filePath/details keys, preserving order
// - FileSink writes "[]" for a run without records
// - FileSink writes YAML that decodes back to the same records
// - FileSink creates missing parent directories and replaces an existing file
// - FileSink leaves no temp files behind
// - FileSink wraps failures in ErrSerialization (unwritable destination)
// - NewFileSink rejects unknown formats
// - SQLiteSink stores runs with ordered records and descriptors that ReadBatch restores
// - SQLiteSink keeps separate runs apart in the same database
// - SQLiteSink wraps failures in ErrSerialization

func sampleRecords() []outline.FileRecord {
	return []outline.FileRecord{
		{FilePath: "src/Foo.java", Details: []string{
			"public     Class                Foo",
			"public     Method               bar()",
			"private    Variable             x",
		}},
		{FilePath: "src/Empty.java", Details: []string{}},
		{FilePath: "src/Foo.java", Details: []string{"public     Class                Foo"}},
	}
}

func TestFileSink_WritesPrettyJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output.json")
	sink, err := NewFileSink(path, config.FormatJSON)
	require.NoError(t, err)

	err = sink.Write(context.Background(), &Batch{Records: sampleRecords()})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[\n  {\n    \"filePath\": \"src/Foo.java\",\n    \"details\": [\n")
	assert.Contains(t, content, "\"details\": []")

	var decoded []outline.FileRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sampleRecords(), decoded)
}

func TestFileSink_EmptyRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output.json")
	sink, err := NewFileSink(path, config.FormatJSON)
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), &Batch{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestFileSink_WritesYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output.yaml")
	sink, err := NewFileSink(path, config.FormatYAML)
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), &Batch{Records: sampleRecords()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- filePath: src/Foo.java\n  details:\n")

	var decoded []outline.FileRecord
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, sampleRecords(), decoded)
}

func TestFileSink_CreatesDirectoriesAndReplaces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out", "output.json")
	sink, err := NewFileSink(path, config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, path, sink.Path())

	require.NoError(t, sink.Write(context.Background(), &Batch{Records: sampleRecords()}))
	require.NoError(t, sink.Write(context.Background(), &Batch{Records: sampleRecords()[:1]}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded []outline.FileRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 1)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should be cleaned up")
	assert.Equal(t, "output.json", entries[0].Name())
}

func TestFileSink_UnwritableDestination(t *testing.T) {
	t.Parallel()

	// A regular file where a directory is expected.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	sink, err := NewFileSink(filepath.Join(blocker, "output.json"), config.FormatJSON)
	require.NoError(t, err)

	err = sink.Write(context.Background(), &Batch{Records: sampleRecords()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestNewFileSink_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := NewFileSink("out.xml", "xml")
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestSQLiteSink_RoundTrip(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "meta", "runs.db")
	sink := NewSQLiteSink(dbPath)
	assert.Equal(t, "sqlite "+dbPath, sink.Name())

	batch := &Batch{
		RunID:     "run-1",
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		Records:   sampleRecords(),
	}
	require.NoError(t, sink.Write(context.Background(), batch))

	records, err := ReadBatch(context.Background(), dbPath, "run-1")
	require.NoError(t, err)
	assert.Equal(t, sampleRecords(), records)
}

func TestSQLiteSink_SeparateRuns(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "runs.db")
	sink := NewSQLiteSink(dbPath)

	require.NoError(t, sink.Write(context.Background(), &Batch{RunID: "first", Records: sampleRecords()}))
	require.NoError(t, sink.Write(context.Background(), &Batch{RunID: "second", Records: sampleRecords()[1:2]}))

	first, err := ReadBatch(context.Background(), dbPath, "first")
	require.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := ReadBatch(context.Background(), dbPath, "second")
	require.NoError(t, err)
	assert.Equal(t, []outline.FileRecord{{FilePath: "src/Empty.java", Details: []string{}}}, second)

	missing, err := ReadBatch(context.Background(), dbPath, "unknown")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestSQLiteSink_DuplicateRunFails(t *testing.T) {
	t.Parallel()

	sink := NewSQLiteSink(filepath.Join(t.TempDir(), "runs.db"))
	batch := &Batch{RunID: "same", Records: sampleRecords()}

	require.NoError(t, sink.Write(context.Background(), batch))
	err := sink.Write(context.Background(), batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
}
