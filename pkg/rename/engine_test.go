package rename_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/journal"
	"github.com/tahirov/xlrename/pkg/rename"
	"github.com/tahirov/xlrename/pkg/task"
)

func writeSheet(t *testing.T, names ...string) string {
	t.Helper()

	f := excelize.NewFile()
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, name))
	}

	path := filepath.Join(t.TempDir(), "names.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	return path
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

type fakeRecorder struct {
	op      string
	entries []journal.Entry
	calls   int
}

func (r *fakeRecorder) Record(op string, entries []journal.Entry) (uint64, error) {
	r.calls++
	r.op = op
	r.entries = entries

	return uint64(r.calls), nil
}

func TestFilesFromSheet(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	touch(t, filepath.Join(src, "IMG_001.jpg"))
	touch(t, filepath.Join(src, "IMG_002.jpg"))

	sheetPath := writeSheet(t, "Alma bağı", "Şəki gölü")
	rec := &fakeRecorder{}

	e := rename.New(rename.WithRecorder(rec))
	results, err := e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: src,
		DestDir:   dst,
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  1,
		Items:     []string{"IMG_001.jpg", "IMG_002.jpg"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.True(t, r.Success, r.Message)
	}

	assert.FileExists(t, filepath.Join(dst, "Alma bağı.jpg"))
	assert.FileExists(t, filepath.Join(dst, "Şəki gölü.jpg"))
	assert.NoFileExists(t, filepath.Join(src, "IMG_001.jpg"))

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, "rename-files", rec.op)
	assert.Len(t, rec.entries, 2)
}

func TestFoldersFromSheet(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(src, "old"), 0o750))
	touch(t, filepath.Join(src, "old", "inner.txt"))

	sheetPath := writeSheet(t, "2024/05 hesabat")

	e := rename.New()
	results, err := e.FoldersFromSheet(t.Context(), rename.Batch{
		SourceDir: src,
		DestDir:   dst,
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  1,
		Items:     []string{"old"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].Message)

	// Invalid path characters are replaced, contents move along.
	assert.Equal(t, "2024_05 hesabat", results[0].NewName)
	assert.FileExists(t, filepath.Join(dst, "2024_05 hesabat", "inner.txt"))
}

func TestFromSheetPreconditions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sheetPath := writeSheet(t, "name")

	e := rename.New()

	_, err := e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: filepath.Join(dir, "missing"),
		DestDir:   dir,
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  1,
	})
	require.ErrorIs(t, err, rename.ErrSourceMissing)

	_, err = e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: dir,
		DestDir:   filepath.Join(dir, "missing"),
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  1,
	})
	require.ErrorIs(t, err, rename.ErrDestMissing)

	_, err = e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: dir,
		DestDir:   dir,
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  5,
	})
	require.ErrorIs(t, err, rename.ErrNoNames)
}

func TestFromSheetItemFailures(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()
	touch(t, filepath.Join(src, "a.txt"))
	touch(t, filepath.Join(src, "b.txt"))
	touch(t, filepath.Join(src, "c.txt"))
	touch(t, filepath.Join(dst, "taken.txt"))

	sheetPath := writeSheet(t, "fresh", "taken", "spare")
	rec := &fakeRecorder{}

	e := rename.New(rename.WithRecorder(rec))
	results, err := e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: src,
		DestDir:   dst,
		SheetPath: sheetPath,
		Column:    "A",
		StartRow:  1,
		Items:     []string{"a.txt", "b.txt", "missing.txt", "c.txt"},
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success, "destination collision must fail the item")
	assert.Contains(t, results[1].Message, "already exists")
	assert.False(t, results[2].Success, "missing source entries must fail")
	assert.Contains(t, results[2].Message, "not found")
	assert.False(t, results[3].Success, "items beyond the name list must fail")
	assert.Contains(t, results[3].Message, "no spreadsheet name")

	// Collisions leave the source untouched.
	assert.FileExists(t, filepath.Join(src, "b.txt"))

	// Only the success is journaled.
	require.Len(t, rec.entries, 1)
	assert.Equal(t, filepath.Join(dst, "fresh.txt"), rec.entries[0].To)
}

func TestFromSheetCanceledContext(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	touch(t, filepath.Join(src, "a.txt"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	e := rename.New()
	_, err := e.FilesFromSheet(ctx, rename.Batch{
		SourceDir: src,
		DestDir:   src,
		SheetPath: writeSheet(t, "x"),
		Column:    "A",
		StartRow:  1,
		Items:     []string{"a.txt"},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, filepath.Join(src, "a.txt"))
}

func TestFromSheetStop(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	items := make([]string, 50)
	names := make([]string, 50)

	for i := range items {
		items[i] = string(rune('a'+i%26)) + string(rune('a'+i/26)) + ".txt"
		names[i] = "renamed-" + items[i]
		touch(t, filepath.Join(src, items[i]))
	}

	rec := &fakeRecorder{}
	e := rename.New(rename.WithRecorder(rec), rename.WithDelay(5*time.Millisecond))

	events := make(chan task.Event, 256)
	e.Subscribe(events)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for ev := range events {
			if _, ok := ev.(task.EventResult); ok {
				e.Controller().Stop()

				return
			}
		}
	}()

	results, err := e.FilesFromSheet(t.Context(), rename.Batch{
		SourceDir: src,
		DestDir:   src,
		SheetPath: writeSheet(t, names...),
		Column:    "A",
		StartRow:  1,
		Items:     items,
	})
	require.NoError(t, err)
	<-done

	assert.Less(t, len(results), 50, "stop must end the batch early")
	assert.Equal(t, task.StateIdle, e.Controller().State())

	// A stopped batch keeps the renames already performed revertable.
	var succeeded int

	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}

	require.Positive(t, succeeded)
	assert.Equal(t, 1, rec.calls)
	assert.Len(t, rec.entries, succeeded)
}

func TestPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "IMG_1.jpg"))
	touch(t, filepath.Join(dir, "IMG_2.jpg"))
	touch(t, filepath.Join(dir, "notes.txt"))

	rec := &fakeRecorder{}
	e := rename.New(rename.WithRecorder(rec))

	results, err := e.Pattern(t.Context(), dir, "IMG_", "Şəkil ", files.KindFiles)
	require.NoError(t, err)
	require.Len(t, results, 2, "entries without a match are skipped")

	assert.FileExists(t, filepath.Join(dir, "Şəkil 1.jpg"))
	assert.FileExists(t, filepath.Join(dir, "Şəkil 2.jpg"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
	assert.Equal(t, "rename-pattern", rec.op)
	assert.Len(t, rec.entries, 2)
}

func TestPatternStopRecordsJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i := range 30 {
		touch(t, filepath.Join(dir, fmt.Sprintf("IMG_%02d.jpg", i)))
	}

	rec := &fakeRecorder{}
	e := rename.New(rename.WithRecorder(rec), rename.WithDelay(5*time.Millisecond))

	events := make(chan task.Event, 256)
	e.Subscribe(events)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for ev := range events {
			if _, ok := ev.(task.EventResult); ok {
				e.Controller().Stop()

				return
			}
		}
	}()

	results, err := e.Pattern(t.Context(), dir, "IMG_", "Şəkil ", files.KindFiles)
	require.NoError(t, err)
	<-done

	assert.Less(t, len(results), 30, "stop must end the batch early")
	require.NotEmpty(t, results)
	assert.Equal(t, 1, rec.calls)
	assert.Len(t, rec.entries, len(results))
}

func TestPatternErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	e := rename.New()

	_, err := e.Pattern(t.Context(), dir, "", "x", files.KindAll)
	require.ErrorIs(t, err, rename.ErrEmptyPattern)

	_, err = e.Pattern(t.Context(), filepath.Join(dir, "missing"), "a", "b", files.KindAll)
	require.ErrorIs(t, err, rename.ErrSourceMissing)
}

func TestPatternCollision(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, filepath.Join(dir, "draft-report.txt"))
	touch(t, filepath.Join(dir, "report.txt"))

	e := rename.New()
	results, err := e.Pattern(t.Context(), dir, "draft-", "", files.KindFiles)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.FileExists(t, filepath.Join(dir, "draft-report.txt"))
}
