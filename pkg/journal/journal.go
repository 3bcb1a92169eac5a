// Package journal persists rename batches so they can be inspected and
// reverted later.
package journal

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	json "github.com/json-iterator/go"
)

var (
	bucketBatches = []byte("batches")
	bucketEntries = []byte("entries")

	// ErrBatchNotFound is returned when a batch ID does not exist.
	ErrBatchNotFound = errors.New("batch not found")
)

// Batch describes one recorded rename operation.
type Batch struct {
	Time  time.Time `json:"time"`
	Op    string    `json:"op"`
	ID    uint64    `json:"id"`
	Count int       `json:"count"`
}

// Entry is a single rename within a batch.
type Entry struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Mover moves a path; it matches files.Move.
type Mover func(src, dst string) error

// Journal is a bbolt-backed history of rename batches.
type Journal struct {
	db *bolt.DB
}

// Open opens (or creates) the journal database at path.
func Open(path string) (*Journal, error) {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketBatches, bucketEntries} {
			_, err := tx.CreateBucketIfNotExists(name)
			if err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}

		return nil
	})
	if err != nil {
		closeErr := db.Close()

		return nil, errors.Join(err, closeErr)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	err := j.db.Close()
	if err != nil {
		return fmt.Errorf("close journal: %w", err)
	}

	return nil
}

// Record stores a completed batch and returns its ID.
func (j *Journal) Record(op string, entries []Entry) (uint64, error) {
	var id uint64

	err := j.db.Update(func(tx *bolt.Tx) error {
		batches := tx.Bucket(bucketBatches)

		var err error

		id, err = batches.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}

		b := Batch{
			ID:    id,
			Time:  time.Now(),
			Op:    op,
			Count: len(entries),
		}

		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal batch: %w", err)
		}

		err = batches.Put(itob(id), data)
		if err != nil {
			return fmt.Errorf("store batch: %w", err)
		}

		data, err = json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal entries: %w", err)
		}

		err = tx.Bucket(bucketEntries).Put(itob(id), data)
		if err != nil {
			return fmt.Errorf("store entries: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// Batches returns all recorded batches, oldest first.
func (j *Journal) Batches() ([]Batch, error) {
	var batches []Batch

	err := j.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBatches).ForEach(func(_, v []byte) error {
			var b Batch

			err := json.Unmarshal(v, &b)
			if err != nil {
				return fmt.Errorf("unmarshal batch: %w", err)
			}

			batches = append(batches, b)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return batches, nil
}

// Entries returns the renames recorded for the given batch.
func (j *Journal) Entries(id uint64) ([]Entry, error) {
	var entries []Entry

	err := j.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketEntries).Get(itob(id))
		if data == nil {
			return fmt.Errorf("%w: %d", ErrBatchNotFound, id)
		}

		err := json.Unmarshal(data, &entries)
		if err != nil {
			return fmt.Errorf("unmarshal entries: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Revert undoes the batch by moving every destination back to its source, in
// reverse order. It stops at the first failure and reports how many entries
// were reverted.
func (j *Journal) Revert(ctx context.Context, id uint64, move Mover) (int, error) {
	entries, err := j.Entries(id)
	if err != nil {
		return 0, err
	}

	reverted := 0

	for i := len(entries) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			return reverted, ctx.Err()
		}

		e := entries[i]

		err := move(e.To, e.From)
		if err != nil {
			return reverted, fmt.Errorf("revert %q -> %q: %w", e.To, e.From, err)
		}

		reverted++
	}

	return reverted, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)

	return b
}
