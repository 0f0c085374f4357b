package flog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestArchiveGeneration(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantGen int
		wantOK  bool
	}{
		{"active file", "app.log", 0, false},
		{"first archive", "app.log.1", 1, true},
		{"large generation", "app.log.120", 120, true},
		{"zero", "app.log.0", 0, true},
		{"run of dots", "app.log...7", 7, true},
		{"trailing dots", "app.log.4..", 0, false},
		{"huge number", "app.log.99999999999999999999", 0, false},
		{"prefixed copy", "old-app.log.9", 9, true},
		{"other log", "db.log.3", 0, false},
		{"non numeric suffix", "app.log.bak", 0, false},
		{"signed suffix", "app.log.-2", 0, false},
		{"mixed suffix", "app.log.2a", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, ok := archiveGeneration(tt.file, "app.log")
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantGen, gen)
		})
	}
}

func TestNextGeneration(t *testing.T) {
	dir := t.TempDir()
	gen, err := nextGeneration(dir, "app.log")
	require.NoError(t, err)
	assert.Equal(t, 1, gen)

	for _, name := range []string{"app.log", "app.log.1", "app.log.4", "db.log.9", "app.log.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	gen, err = nextGeneration(dir, "app.log")
	require.NoError(t, err)
	assert.Equal(t, 5, gen)

	_, err = nextGeneration(filepath.Join(dir, "missing"), "app.log")
	assert.Error(t, err)
}

func TestRotation_TriggersAndIncrements(t *testing.T) {
	rec := &errorRecorder{}
	path := filepath.Join(t.TempDir(), "rotate.log")
	l, err := New(path, LevelDebug, WithMaxFileSize(10), WithErrorSink(rec.sink()))
	require.NoError(t, err)

	l.Info("first")
	assert.NoFileExists(t, path+".1")

	l.Info("second")
	require.FileExists(t, path+".1")
	assert.Contains(t, readFile(t, path+".1"), "first")
	assert.NotContains(t, readFile(t, path+".1"), "second")
	assert.Contains(t, readFile(t, path), "second")
	assert.NotContains(t, readFile(t, path), "first")

	l.Info("third")
	require.FileExists(t, path+".2")
	assert.Contains(t, readFile(t, path+".1"), "first", ".1 is never reused")
	assert.Contains(t, readFile(t, path+".2"), "second")
	assert.Contains(t, readFile(t, path), "third")

	assert.Empty(t, rec.errs)
}

func TestRotation_SizeMustStrictlyExceed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edge.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	l, err := New(path, LevelDebug, WithMaxFileSize(10))
	require.NoError(t, err)

	l.Info("appended")
	assert.NoFileExists(t, path+".1")
	assert.True(t, strings.HasPrefix(readFile(t, path), "0123456789["))
}

func TestRotation_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow.log")
	l, err := New(path, LevelDebug, WithMaxFileSize(0))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		l.Info("record", "i", i)
	}

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, 50, strings.Count(readFile(t, path), "] [info] record"))
}

func TestRotation_DiscoversTamperedArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tamper.log")
	require.NoError(t, os.WriteFile(path, []byte("old contents beyond the limit\n"), 0o644))
	require.NoError(t, os.WriteFile(path+".1", []byte("placed by hand\n"), 0o644))

	l, err := New(path, LevelDebug, WithMaxFileSize(10))
	require.NoError(t, err)
	l.Info("fresh")

	assert.Equal(t, "placed by hand\n", readFile(t, path+".1"))
	assert.Equal(t, "old contents beyond the limit\n", readFile(t, path+".2"))
	assert.Contains(t, readFile(t, path), "fresh")
}

func TestRenameNoClobber(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("source"), 0o644))

	require.NoError(t, renameNoClobber(src, dst))
	assert.NoFileExists(t, src)
	assert.Equal(t, "source", readFile(t, dst))

	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	assert.ErrorIs(t, renameNoClobber(src, dst), errArchiveExists)
	assert.Equal(t, "second", readFile(t, src))
	assert.Equal(t, "source", readFile(t, dst))

	assert.Error(t, renameNoClobber(filepath.Join(dir, "absent"), filepath.Join(dir, "other")))
}

func TestRotation_ScanFailureStillAppends(t *testing.T) {
	rec := &errorRecorder{}
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.log")
	require.NoError(t, os.WriteFile(path, []byte("oversized contents\n"), 0o644))

	l, err := New(path, LevelDebug, WithMaxFileSize(10), WithErrorSink(rec.sink()))
	require.NoError(t, err)
	l.directory = filepath.Join(dir, "vanished")

	l.Info("kept")

	require.Len(t, rec.errs, 1)
	var we *WriteError
	require.True(t, errors.As(rec.errs[0], &we))
	assert.Equal(t, "scan", we.Op)
	assert.Equal(t, l.directory, we.Path)

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, "oversized contents\n"))
	assert.Contains(t, content, "] [info] kept")
	assert.NoFileExists(t, path+".1")
}

func TestRotation_UnreadableDirectoryStillAppends(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	rec := &errorRecorder{}
	dir := filepath.Join(t.TempDir(), "locked")
	path := filepath.Join(dir, "locked.log")
	l, err := New(path, LevelDebug, WithMaxFileSize(10), WithErrorSink(rec.sink()))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("oversized contents\n"), 0o644))

	require.NoError(t, os.Chmod(dir, 0o300))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	l.Info("kept")

	require.NoError(t, os.Chmod(dir, 0o755))
	require.Len(t, rec.errs, 1)
	var we *WriteError
	require.True(t, errors.As(rec.errs[0], &we))
	assert.Equal(t, "scan", we.Op)
	assert.Contains(t, readFile(t, path), "] [info] kept")
}

func TestRotation_RenameFailureStillAppends(t *testing.T) {
	rec := &errorRecorder{}
	path := filepath.Join(t.TempDir(), "rename.log")
	require.NoError(t, os.WriteFile(path, []byte("oversized contents\n"), 0o644))

	l, err := New(path, LevelDebug, WithMaxFileSize(10), WithErrorSink(rec.sink()))
	require.NoError(t, err)

	failure := errors.New("device busy")
	removeFile = func(string) error { return failure }
	t.Cleanup(func() { removeFile = os.Remove })

	l.Info("kept")

	require.Len(t, rec.errs, 1)
	var we *WriteError
	require.True(t, errors.As(rec.errs[0], &we))
	assert.Equal(t, "rotate", we.Op)
	assert.Equal(t, path+".1", we.Path)
	assert.ErrorIs(t, rec.errs[0], failure)
	assert.Contains(t, readFile(t, path), "] [info] kept")
}

func TestRenameNoClobber_LostRace(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(src, []byte("contents"), 0o644))

	// another writer links its own archive and unlinks the source first
	removeFile = func(name string) error {
		require.NoError(t, os.Link(name, name+".1"))
		require.NoError(t, os.Remove(name))
		return os.Remove(name)
	}
	t.Cleanup(func() { removeFile = os.Remove })

	err := renameNoClobber(src, src+".2")
	assert.ErrorIs(t, err, errLostRace)
	assert.NoFileExists(t, src)
	assert.Equal(t, "contents", readFile(t, src+".1"))
	assert.Equal(t, "contents", readFile(t, src+".2"))
}

func TestRotation_LostRaceIsNotReported(t *testing.T) {
	rec := &errorRecorder{}
	path := filepath.Join(t.TempDir(), "race.log")
	require.NoError(t, os.WriteFile(path, []byte("oversized contents\n"), 0o644))

	l, err := New(path, LevelDebug, WithMaxFileSize(10), WithErrorSink(rec.sink()))
	require.NoError(t, err)

	removeFile = func(name string) error {
		require.NoError(t, os.Rename(name, name+".7"))
		return os.Remove(name)
	}
	t.Cleanup(func() { removeFile = os.Remove })

	l.Info("after race")

	assert.Empty(t, rec.errs)
	assert.Equal(t, "oversized contents\n", readFile(t, path+".7"))
	assert.Contains(t, readFile(t, path), "] [info] after race")
}
