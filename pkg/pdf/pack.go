// Package pdf packages folders of images into single PDF documents and
// stamps dates onto existing PDFs.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	// Decoders for formats the imaging package does not register itself.
	_ "golang.org/x/image/webp"

	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/natsort"
	"github.com/tahirov/xlrename/pkg/task"
)

// ErrDirMissing is returned when the working directory does not exist.
var ErrDirMissing = errors.New("directory does not exist")

// A4 portrait with a uniform margin, in millimeters.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 10.0

	// Millimeters per pixel at 96 DPI.
	pxToMM = 0.264583

	jpegQuality = 90
)

// OutputSuffix is appended to a folder's name to form its PDF file name.
const OutputSuffix = "_picture.pdf"

// DefaultExtensions are the image extensions packed when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp"}

// Result is the outcome of packing one subfolder.
type Result struct {
	Folder  string
	Output  string
	Message string
	Images  int
	Success bool
}

// Packer converts each image-bearing subfolder of a directory into one PDF.
type Packer struct {
	tracer      trace.Tracer
	ctl         *task.Controller
	events      *task.Broadcaster
	subfolder   string
	extensions  []string
	deleteNames []string
	delay       time.Duration
}

// Opt configures a [Packer].
type Opt func(*Packer)

// WithController sets a shared controller so callers can pause and stop
// running packs.
func WithController(c *task.Controller) Opt {
	return func(p *Packer) {
		p.ctl = c
	}
}

// WithExtensions overrides [DefaultExtensions]. Extensions are matched
// case-insensitively and include the leading dot.
func WithExtensions(exts []string) Opt {
	return func(p *Packer) {
		p.extensions = exts
	}
}

// WithSubfolder names a subfolder images are read from when it exists,
// e.g. "images" packs "<folder>/images/*" instead of the folder itself.
func WithSubfolder(name string) Opt {
	return func(p *Packer) {
		p.subfolder = name
	}
}

// WithDeleteNames lists extra file names (exact match, case-insensitive)
// removed from each subfolder after its PDF is written.
func WithDeleteNames(names []string) Opt {
	return func(p *Packer) {
		p.deleteNames = names
	}
}

// WithDelay inserts a pause after each folder, pacing event consumers.
func WithDelay(d time.Duration) Opt {
	return func(p *Packer) {
		p.delay = d
	}
}

// NewPacker creates a [Packer].
func NewPacker(opts ...Opt) *Packer {
	p := &Packer{
		tracer: otel.Tracer("pdf-packer"),
		ctl:    task.NewController(0),
		events: &task.Broadcaster{},
	}
	for _, opt := range opts {
		opt(p)
	}

	if len(p.extensions) == 0 {
		p.extensions = DefaultExtensions
	}

	return p
}

// Controller returns the controller driving this packer.
func (p *Packer) Controller() *task.Controller {
	return p.ctl
}

// Subscribe registers a channel for progress and result events.
func (p *Packer) Subscribe(ch chan<- task.Event) {
	p.events.Subscribe(ch)
}

// Pack walks the immediate subfolders of dir in natural order. For each
// subfolder holding images it writes "<folder>_picture.pdf" with one page
// per image, deletes the packed images, moves remaining files up to dir,
// and removes the subfolder once empty.
func (p *Packer) Pack(ctx context.Context, dir string) ([]Result, error) {
	ctx, span := p.tracer.Start(ctx, "pdf-pack", trace.WithAttributes(
		attribute.String("dir", dir),
	))
	defer span.End()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirMissing, dir)
	}

	folders, err := files.List(dir, files.KindDirs, files.ByName)
	if err != nil {
		return nil, err
	}

	p.ctl.Start()
	defer p.ctl.Reset()

	var results []Result

	total := len(folders)

	for i, folder := range folders {
		err := p.ctl.Checkpoint(ctx)
		if errors.Is(err, task.ErrStopped) {
			p.events.Broadcast(task.EventDone{Stopped: true, Message: "Stopped"})

			return results, nil
		}
		if err != nil {
			return results, err
		}

		p.ctl.SetCurrent(i + 1)
		p.events.Broadcast(task.NewEventProgress(i+1, total, "Packing "+folder.Name,
			fmt.Sprintf("%d/%d", i+1, total)))

		r := p.packFolder(folder.Path, folder.Name, dir)
		results = append(results, r)

		p.events.Broadcast(task.EventResult{
			Success: r.Success,
			Message: r.Message,
			Subject: r.Folder,
			Result:  r.Output,
		})

		p.wait(ctx)
	}

	// Drop subfolders left empty after hoisting.
	err = files.RemoveEmptyDirs(dir)
	if err != nil {
		return results, err
	}

	p.events.Broadcast(task.EventDone{Message: "Completed"})

	return results, nil
}

func (p *Packer) packFolder(path, name, parent string) Result {
	imgDir := path

	if p.subfolder != "" {
		sub := filepath.Join(path, p.subfolder)

		info, err := os.Stat(sub)
		if err == nil && info.IsDir() {
			imgDir = sub
		}
	}

	images, err := listImages(imgDir, p.extensions)
	if err != nil {
		return Result{Folder: name, Message: err.Error()}
	}
	if len(images) == 0 {
		return Result{Folder: name, Message: "no images", Success: true}
	}

	outName := name + OutputSuffix
	outPath := filepath.Join(path, outName)

	err = writeDocument(outPath, images)
	if err != nil {
		return Result{Folder: name, Message: err.Error()}
	}

	for _, img := range images {
		err = os.Remove(img)
		if err != nil {
			return Result{Folder: name, Output: outName, Images: len(images), Message: err.Error()}
		}
	}

	p.removeListed(imgDir)

	err = hoist(path, parent)
	if err != nil {
		return Result{Folder: name, Output: outName, Images: len(images), Message: err.Error()}
	}

	return Result{
		Folder:  name,
		Output:  outName,
		Images:  len(images),
		Message: fmt.Sprintf("%d images -> %s", len(images), outName),
		Success: true,
	}
}

func (p *Packer) removeListed(dir string) {
	for _, name := range p.deleteNames {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}

		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(entry.Name(), name) {
				_ = os.Remove(filepath.Join(dir, entry.Name()))
			}
		}
	}
}

func listImages(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}

	var images []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if slices.Contains(exts, ext) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}

	natsort.Sort(images)

	return images, nil
}

// writeDocument renders one A4 page per image, scaled to fit inside the
// margins and centered.
func writeDocument(outPath string, images []string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	opts := fpdf.ImageOptions{ImageType: "JPEG"}

	usableW := pageWidth - 2*margin
	usableH := pageHeight - 2*margin

	for _, path := range images {
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			return fmt.Errorf("open image %s: %w", filepath.Base(path), err)
		}

		// Re-encode everything as JPEG so one registration path covers
		// all input formats.
		var buf bytes.Buffer

		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
		if err != nil {
			return fmt.Errorf("encode image %s: %w", filepath.Base(path), err)
		}

		bounds := img.Bounds()
		w := float64(bounds.Dx()) * pxToMM
		h := float64(bounds.Dy()) * pxToMM

		scale := min(usableW/w, usableH/h)
		if scale > 1 {
			scale = 1
		}

		w *= scale
		h *= scale

		x := margin + (usableW-w)/2
		y := margin + (usableH-h)/2

		doc.AddPage()
		doc.RegisterImageOptionsReader(path, opts, &buf)
		doc.ImageOptions(path, x, y, w, h, false, opts, 0, "")
	}

	err := doc.OutputFileAndClose(outPath)
	if err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}

	return nil
}

// hoist moves every file of dir into parent. Name clashes fail the move.
func hoist(dir, parent string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read folder: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		dst := filepath.Join(parent, entry.Name())

		_, err := os.Stat(dst)
		if err == nil {
			return fmt.Errorf("destination already exists: %s", entry.Name())
		}

		err = files.Move(filepath.Join(dir, entry.Name()), dst)
		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Packer) wait(ctx context.Context) {
	if p.delay <= 0 {
		return
	}

	select {
	case <-ctx.Done():
	case <-time.After(p.delay):
	}
}
