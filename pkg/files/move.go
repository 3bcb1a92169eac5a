package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Move renames src to dst. When the rename fails (typically across
// filesystems) it falls back to copy-then-delete. Works for files and
// directories.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	info, statErr := os.Stat(src)
	if statErr != nil {
		return fmt.Errorf("source unreadable %q: %w", src, statErr)
	}

	if info.IsDir() {
		err = CopyDir(src, dst)
		if err != nil {
			return err
		}

		err = os.RemoveAll(src)
		if err != nil {
			return fmt.Errorf("delete source %q: %w", src, err)
		}

		return nil
	}

	err = CopyFile(src, dst)
	if err != nil {
		return err
	}

	err = os.Remove(src)
	if err != nil {
		return fmt.Errorf("delete source %q: %w", src, err)
	}

	return nil
}

// CopyDir recursively copies the directory src to dst, creating dst.
func CopyDir(src, dst string) error {
	err := os.MkdirAll(dst, 0o755)
	if err != nil {
		return fmt.Errorf("create destination %q: %w", dst, err)
	}

	des, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("source unreadable %q: %w", src, err)
	}

	for _, de := range des {
		s := filepath.Join(src, de.Name())
		d := filepath.Join(dst, de.Name())

		if de.IsDir() {
			err = CopyDir(s, d)
		} else {
			err = CopyFile(s, d)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single file from src to dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("source unreadable %q: %w", src, err)
	}
	defer in.Close() //nolint:errcheck // Read-only file.

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination %q: %w", dst, err)
	}

	_, err = io.Copy(out, in)
	if err != nil {
		out.Close() //nolint:errcheck,gosec // Copy error takes precedence.

		return fmt.Errorf("copy %q: %w", src, err)
	}

	err = out.Close()
	if err != nil {
		return fmt.Errorf("close destination %q: %w", dst, err)
	}

	return nil
}
