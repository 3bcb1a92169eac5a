// Package files wraps the filesystem primitives behind the batch operations:
// directory enumeration with natural ordering, move with a copy-then-delete
// fallback, and name sanitization.
package files

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tahirov/xlrename/pkg/natsort"
)

// ErrNotExist is returned when the requested directory does not exist.
var ErrNotExist = errors.New("directory does not exist")

// Entry describes one file or folder in a listing.
type Entry struct {
	ModTime time.Time
	Name    string
	Path    string
	Ext     string
	Size    int64
	IsDir   bool
}

// Kind selects which entries a listing includes.
type Kind int

const (
	KindAll Kind = iota
	KindDirs
	KindFiles
)

// AllKinds lists the accepted entry kinds.
var AllKinds = []string{"all", "dirs", "files"}

// ParseKind converts a string to a [Kind], defaulting to [KindAll].
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "all", "":
		return KindAll, nil
	case "dirs":
		return KindDirs, nil
	case "files":
		return KindFiles, nil
	}

	return KindAll, fmt.Errorf("unknown entry kind %q, expected one of: %s", s, AllKinds)
}

// Order selects how a listing is sorted.
type Order string

const (
	// ByName sorts by natural name order.
	ByName Order = "name"
	// ByDate sorts newest first.
	ByDate Order = "date"
	// BySize sorts largest first; folders use their recursive size.
	BySize Order = "size"
)

// AllOrders lists the accepted sort orders.
var AllOrders = []string{string(ByName), string(ByDate), string(BySize)}

// ParseOrder converts a string to an [Order], defaulting to [ByName].
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case ByName, "":
		return ByName, nil
	case ByDate:
		return ByDate, nil
	case BySize:
		return BySize, nil
	}

	return "", fmt.Errorf("unknown sort order %q, expected one of: %s", s, AllOrders)
}

// List enumerates dir non-recursively, filtered by kind and sorted by order.
func List(dir string, kind Kind, order Order) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	entries := make([]Entry, 0, len(des))

	for _, de := range des {
		if kind == KindDirs && !de.IsDir() {
			continue
		}
		if kind == KindFiles && de.IsDir() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", de.Name(), err)
		}

		e := Entry{
			Name:    de.Name(),
			Path:    filepath.Join(dir, de.Name()),
			IsDir:   de.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if !e.IsDir {
			e.Ext = strings.TrimPrefix(filepath.Ext(e.Name), ".")
		}

		entries = append(entries, e)
	}

	err = sortEntries(entries, order)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func sortEntries(entries []Entry, order Order) error {
	switch order {
	case ByDate:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return b.ModTime.Compare(a.ModTime)
		})

	case BySize:
		// Folder sizes are computed once per entry up front, so the
		// comparator stays consistent and cheap.
		sizes := make(map[string]int64, len(entries))

		for _, e := range entries {
			size := e.Size

			if e.IsDir {
				var err error

				size, err = DirSize(e.Path)
				if err != nil {
					return err
				}
			}

			sizes[e.Path] = size
		}

		slices.SortStableFunc(entries, func(a, b Entry) int {
			return cmp.Compare(sizes[b.Path], sizes[a.Path])
		})

	default:
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return natsort.Compare(a.Name, b.Name)
		})
	}

	return nil
}

// Names returns the entry names in listing order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	return names
}

// DirSize returns the total size of all files under path.
func DirSize(path string) (int64, error) {
	var total int64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		total += info.Size()

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %q: %w", path, err)
	}

	return total, nil
}

// IsEmptyDir reports whether path is a directory with no entries.
func IsEmptyDir(path string) (bool, error) {
	des, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}

	return len(des) == 0, nil
}

// RemoveEmptyDirs removes empty directories under root, depth-first, so a
// directory that only contained empty directories is removed as well. The
// root itself is kept.
func RemoveEmptyDirs(root string) error {
	des, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read directory %q: %w", root, err)
	}

	for _, de := range des {
		if !de.IsDir() {
			continue
		}

		sub := filepath.Join(root, de.Name())

		err := RemoveEmptyDirs(sub)
		if err != nil {
			return err
		}

		empty, err := IsEmptyDir(sub)
		if err != nil {
			return err
		}
		if empty {
			err := os.Remove(sub)
			if err != nil {
				return fmt.Errorf("remove %q: %w", sub, err)
			}
		}
	}

	return nil
}
