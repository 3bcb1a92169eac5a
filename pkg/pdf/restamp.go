package pdf

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tahirov/xlrename/pkg/natsort"
)

// RestampSuffix marks PDFs produced by [Restamper.Restamp]; such files are
// never restamped again.
const RestampSuffix = "_new.pdf"

// Style for the stamped date: small black text at the bottom center of the
// last page, nudged above the edge.
const stampDesc = "font:Helvetica, points:12, pos:bc, off:0 10, fillcolor:#000000, rot:0, scale:0.5 abs"

// Restamper stamps a date string onto the last page of matching PDFs.
type Restamper struct {
	tracer         trace.Tracer
	DeleteOriginal bool
}

// NewRestamper creates a [Restamper].
func NewRestamper() *Restamper {
	return &Restamper{
		tracer: otel.Tracer("pdf-restamper"),
	}
}

// Restamp walks dir for PDFs whose name contains keyword and writes a copy
// with date stamped onto the last page, named with [RestampSuffix]. The
// original is kept unless DeleteOriginal is set.
func (r *Restamper) Restamp(ctx context.Context, dir, keyword, date string) ([]Result, error) {
	_, span := r.tracer.Start(ctx, "pdf-restamp", trace.WithAttributes(
		attribute.String("dir", dir),
		attribute.String("keyword", keyword),
	))
	defer span.End()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirMissing, dir)
	}

	var targets []string

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		name := d.Name()
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return nil
		}
		if strings.HasSuffix(name, RestampSuffix) {
			return nil
		}
		if keyword != "" && !strings.Contains(name, keyword) {
			return nil
		}

		targets = append(targets, path)

		return nil
	})
	if err != nil {
		return nil, err
	}

	natsort.Sort(targets)

	var results []Result

	for _, path := range targets {
		results = append(results, r.restampOne(path, date))
	}

	return results, nil
}

func (r *Restamper) restampOne(path, date string) Result {
	name := filepath.Base(path)

	pages, err := api.PageCountFile(path)
	if err != nil {
		return Result{Folder: name, Message: fmt.Sprintf("page count: %v", err)}
	}

	wm, err := api.TextWatermark(date, stampDesc, true, false, types.POINTS)
	if err != nil {
		return Result{Folder: name, Message: fmt.Sprintf("build stamp: %v", err)}
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + RestampSuffix

	err = api.AddWatermarksFile(path, outPath, []string{strconv.Itoa(pages)}, wm, nil)
	if err != nil {
		return Result{Folder: name, Message: fmt.Sprintf("stamp: %v", err)}
	}

	if r.DeleteOriginal {
		err = os.Remove(path)
		if err != nil {
			return Result{Folder: name, Output: filepath.Base(outPath), Message: err.Error()}
		}
	}

	return Result{
		Folder:  name,
		Output:  filepath.Base(outPath),
		Message: date + " -> " + filepath.Base(outPath),
		Success: true,
	}
}
