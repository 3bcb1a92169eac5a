// Package rename implements the batch rename operations: pairing files or
// folders with spreadsheet names, and find/replace renames. Batches stream
// progress and result events, honor pause/stop requests between items, and
// record successful renames to a journal.
package rename

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/journal"
	"github.com/tahirov/xlrename/pkg/sheet"
	"github.com/tahirov/xlrename/pkg/task"
)

var (
	// ErrSourceMissing is returned when the source directory does not exist.
	ErrSourceMissing = errors.New("source directory does not exist")

	// ErrDestMissing is returned when the destination directory does not exist.
	ErrDestMissing = errors.New("destination directory does not exist")

	// ErrNoNames is returned when the spreadsheet column yields no names.
	ErrNoNames = errors.New("spreadsheet yielded no names")

	// ErrEmptyPattern is returned when a find/replace rename has nothing to find.
	ErrEmptyPattern = errors.New("pattern must not be empty")
)

// Result is the outcome for one item of a batch.
type Result struct {
	OldName string
	NewName string
	Message string
	Success bool
}

// Recorder persists a completed batch; it matches journal.Journal.
type Recorder interface {
	Record(op string, entries []journal.Entry) (uint64, error)
}

// Batch describes one spreadsheet-driven rename operation. Items are paired
// with spreadsheet rows in order: the first item gets the name at StartRow,
// the second the next non-blank row, and so on.
type Batch struct {
	SourceDir string
	DestDir   string
	SheetPath string
	Column    string
	StartRow  int
	Items     []string
}

// Engine runs batch renames.
type Engine struct {
	tracer   trace.Tracer
	ctl      *task.Controller
	events   *task.Broadcaster
	recorder Recorder
	delay    time.Duration
}

// Opt configures an [Engine].
type Opt func(*Engine)

// WithController sets a shared controller so callers can pause and stop
// running batches.
func WithController(c *task.Controller) Opt {
	return func(e *Engine) {
		e.ctl = c
	}
}

// WithRecorder sets the journal the engine records batches to.
func WithRecorder(r Recorder) Opt {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithDelay inserts a pause after each item, pacing event consumers.
func WithDelay(d time.Duration) Opt {
	return func(e *Engine) {
		e.delay = d
	}
}

// New creates an [Engine].
func New(opts ...Opt) *Engine {
	e := &Engine{
		tracer: otel.Tracer("rename-engine"),
		ctl:    task.NewController(0),
		events: &task.Broadcaster{},
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Controller returns the controller driving this engine's batches.
func (e *Engine) Controller() *task.Controller {
	return e.ctl
}

// Subscribe registers a channel for progress and result events.
func (e *Engine) Subscribe(ch chan<- task.Event) {
	e.events.Subscribe(ch)
}

// FoldersFromSheet renames the listed folders in SourceDir to the names read
// from the spreadsheet, moving them into DestDir.
func (e *Engine) FoldersFromSheet(ctx context.Context, b Batch) ([]Result, error) {
	return e.fromSheet(ctx, b, true)
}

// FilesFromSheet renames the listed files in SourceDir to the names read
// from the spreadsheet, moving them into DestDir. File extensions are kept.
func (e *Engine) FilesFromSheet(ctx context.Context, b Batch) ([]Result, error) {
	return e.fromSheet(ctx, b, false)
}

func (e *Engine) fromSheet(ctx context.Context, b Batch, dirs bool) ([]Result, error) {
	op := "rename-files"
	if dirs {
		op = "rename-folders"
	}

	ctx, span := e.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("source", b.SourceDir),
		attribute.Int("items", len(b.Items)),
	))
	defer span.End()

	err := requireDir(b.SourceDir, ErrSourceMissing)
	if err != nil {
		return nil, err
	}

	err = requireDir(b.DestDir, ErrDestMissing)
	if err != nil {
		return nil, err
	}

	e.ctl.Start()
	defer e.ctl.Reset()

	total := len(b.Items)
	e.events.Broadcast(task.NewEventProgress(0, total, "Reading spreadsheet", b.SheetPath))

	names, err := sheet.ReadColumn(b.SheetPath, b.StartRow, b.Column)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s column %s", ErrNoNames, b.SheetPath, b.Column)
	}

	var (
		results []Result
		entries []journal.Entry
	)

	for i, item := range b.Items {
		err := e.ctl.Checkpoint(ctx)
		if errors.Is(err, task.ErrStopped) {
			// Renames already performed must stay revertable.
			e.record(ctx, op, entries)
			e.events.Broadcast(task.EventDone{Stopped: true, Message: "Stopped"})

			return results, nil
		}
		if err != nil {
			e.record(ctx, op, entries)

			return results, err
		}

		current := i + 1
		e.ctl.SetCurrent(current)
		e.events.Broadcast(task.NewEventProgress(current, total, "Renaming "+item,
			fmt.Sprintf("%d/%d", current, total)))

		r := e.renameOne(b, names, i, item, dirs)
		results = append(results, r)

		if r.Success {
			entries = append(entries, journal.Entry{
				From: filepath.Join(b.SourceDir, r.OldName),
				To:   filepath.Join(b.DestDir, r.NewName),
			})
		}

		e.events.Broadcast(task.EventResult{
			Success: r.Success,
			Message: r.Message,
			Subject: r.OldName,
			Result:  r.NewName,
		})

		e.wait(ctx)
	}

	e.record(ctx, op, entries)
	e.events.Broadcast(task.EventDone{Message: "Completed"})

	return results, nil
}

func (e *Engine) renameOne(b Batch, names []string, i int, item string, dirs bool) Result {
	if i >= len(names) {
		return failure(item, "", "no spreadsheet name for %s", item)
	}

	oldPath := filepath.Join(b.SourceDir, item)

	info, err := os.Stat(oldPath)
	if err != nil {
		return failure(item, "", "not found: %s", item)
	}
	if info.IsDir() != dirs {
		return failure(item, "", "unexpected entry kind: %s", item)
	}

	newName := files.Sanitize(names[i])
	if !dirs {
		newName += filepath.Ext(item)
	}

	return moveEntry(oldPath, filepath.Join(b.DestDir, newName), item, newName)
}

func requireDir(path string, sentinel error) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", sentinel, path)
	}

	return nil
}

func failure(oldName, newName, format string, args ...any) Result {
	return Result{
		OldName: oldName,
		NewName: newName,
		Message: fmt.Sprintf(format, args...),
	}
}

// Pattern renames every listed entry of dir whose name contains find,
// replacing all occurrences with replace. Renames stay within dir.
func (e *Engine) Pattern(ctx context.Context, dir, find, replace string, kind files.Kind) ([]Result, error) {
	ctx, span := e.tracer.Start(ctx, "rename-pattern", trace.WithAttributes(
		attribute.String("dir", dir),
		attribute.String("find", find),
	))
	defer span.End()

	if find == "" {
		return nil, ErrEmptyPattern
	}

	err := requireDir(dir, ErrSourceMissing)
	if err != nil {
		return nil, err
	}

	entries, err := files.List(dir, kind, files.ByName)
	if err != nil {
		return nil, err
	}

	e.ctl.Start()
	defer e.ctl.Reset()

	var (
		results  []Result
		recorded []journal.Entry
	)

	total := len(entries)

	for i, entry := range entries {
		err := e.ctl.Checkpoint(ctx)
		if errors.Is(err, task.ErrStopped) {
			e.record(ctx, "rename-pattern", recorded)
			e.events.Broadcast(task.EventDone{Stopped: true, Message: "Stopped"})

			return results, nil
		}
		if err != nil {
			e.record(ctx, "rename-pattern", recorded)

			return results, err
		}

		newName := strings.ReplaceAll(entry.Name, find, replace)
		if newName == entry.Name {
			continue
		}

		e.ctl.SetCurrent(i + 1)
		e.events.Broadcast(task.NewEventProgress(i+1, total, "Renaming "+entry.Name,
			fmt.Sprintf("%d/%d", i+1, total)))

		r := moveEntry(entry.Path, filepath.Join(dir, newName), entry.Name, newName)
		results = append(results, r)

		if r.Success {
			recorded = append(recorded, journal.Entry{From: entry.Path, To: filepath.Join(dir, newName)})
		}

		e.events.Broadcast(task.EventResult{
			Success: r.Success,
			Message: r.Message,
			Subject: r.OldName,
			Result:  r.NewName,
		})

		e.wait(ctx)
	}

	e.record(ctx, "rename-pattern", recorded)
	e.events.Broadcast(task.EventDone{Message: "Completed"})

	return results, nil
}

func moveEntry(oldPath, newPath, oldName, newName string) Result {
	_, err := os.Stat(newPath)
	if err == nil {
		return failure(oldName, newName, "destination already exists: %s", newName)
	}

	err = files.Move(oldPath, newPath)
	if err != nil {
		return failure(oldName, newName, "%v", err)
	}

	return Result{
		OldName: oldName,
		NewName: newName,
		Message: fmt.Sprintf("%s -> %s", oldName, newName),
		Success: true,
	}
}

func (e *Engine) record(ctx context.Context, op string, entries []journal.Entry) {
	if e.recorder == nil || len(entries) == 0 {
		return
	}

	id, err := e.recorder.Record(op, entries)
	if err != nil {
		slog.WarnContext(ctx, "record batch to journal", slog.Any("err", err))

		return
	}

	slog.DebugContext(ctx, "recorded batch",
		slog.Uint64("id", id),
		slog.String("op", op),
		slog.Int("entries", len(entries)),
	)
}

func (e *Engine) wait(ctx context.Context) {
	if e.delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(e.delay):
	}
}
