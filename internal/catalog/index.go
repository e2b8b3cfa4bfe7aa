package catalog

import (
	"fmt"
	"os"
	"slices"
	"time"

	"go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

var (
	bucketFiles  = []byte("files")
	bucketHashes = []byte("hashes")
)

// Record is the indexed state of one file.
type Record struct {
	Hash    string `yaml:"hash"`
	Size    int64  `yaml:"size"`
	ModTime int64  `yaml:"mtime"` // unix nanoseconds
	Entry   Entry  `yaml:"entry"`
}

// NewRecord builds a record for a file summarised as entry.
func NewRecord(info os.FileInfo, entry Entry) Record {
	r := Record{Hash: entry.Hash, Entry: entry}
	if info != nil {
		r.Size = info.Size()
		r.ModTime = info.ModTime().UnixNano()
	}
	return r
}

// Fresh reports whether the record still describes a file with info.
func (r *Record) Fresh(info os.FileInfo) bool {
	return info != nil && r.Size == info.Size() && r.ModTime == info.ModTime().UnixNano()
}

// Index is a persistent parse cache keyed by file path.
type Index struct {
	db *bbolt.DB
}

// OpenIndex opens or creates the index database at path.
func OpenIndex(path string) (*Index, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketFiles, bucketHashes} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index buckets: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Get returns the record for path, or nil when there is none.
func (ix *Index) Get(path string) (*Record, error) {
	var rec *Record
	err := ix.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketFiles).Get([]byte(path))
		if data == nil {
			return nil
		}
		rec = &Record{}
		return yaml.Unmarshal(data, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("reading index record %s: %w", path, err)
	}
	return rec, nil
}

// Lookup returns the indexed entry for path when the file is unchanged.
func (ix *Index) Lookup(path string, info os.FileInfo) (*Entry, bool) {
	rec, err := ix.Get(path)
	if err != nil || rec == nil || !rec.Fresh(info) {
		return nil, false
	}
	return &rec.Entry, true
}

// Put stores rec for path and adds path to the paths of its hash.
func (ix *Index) Put(path string, rec Record) error {
	return ix.db.Update(func(tx *bbolt.Tx) error {
		data, err := yaml.Marshal(&rec)
		if err != nil {
			return err
		}
		if err := tx.Bucket(bucketFiles).Put([]byte(path), data); err != nil {
			return err
		}

		hashes := tx.Bucket(bucketHashes)
		paths, err := decodePaths(hashes.Get([]byte(rec.Hash)))
		if err != nil {
			return err
		}
		if slices.Contains(paths, path) {
			return nil
		}
		return putPaths(hashes, rec.Hash, append(paths, path))
	})
}

// Delete removes path from the index.
func (ix *Index) Delete(path string) error {
	return ix.db.Update(func(tx *bbolt.Tx) error {
		return deleteRecord(tx, []byte(path))
	})
}

// PathsForHash returns the indexed paths with the given content hash.
func (ix *Index) PathsForHash(hash string) ([]string, error) {
	var paths []string
	err := ix.db.View(func(tx *bbolt.Tx) error {
		var err error
		paths, err = decodePaths(tx.Bucket(bucketHashes).Get([]byte(hash)))
		return err
	})
	return paths, err
}

// Prune removes every record whose path is not in keep and returns the
// number removed.
func (ix *Index) Prune(keep []string) (int, error) {
	wanted := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		wanted[p] = struct{}{}
	}

	removed := 0
	err := ix.db.Update(func(tx *bbolt.Tx) error {
		var stale [][]byte
		if err := tx.Bucket(bucketFiles).ForEach(func(k, _ []byte) error {
			if _, ok := wanted[string(k)]; !ok {
				stale = append(stale, slices.Clone(k))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := deleteRecord(tx, k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func deleteRecord(tx *bbolt.Tx, path []byte) error {
	files := tx.Bucket(bucketFiles)
	data := files.Get(path)
	if data == nil {
		return nil
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return err
	}
	if err := files.Delete(path); err != nil {
		return err
	}

	hashes := tx.Bucket(bucketHashes)
	paths, err := decodePaths(hashes.Get([]byte(rec.Hash)))
	if err != nil {
		return err
	}
	paths = slices.DeleteFunc(paths, func(p string) bool { return p == string(path) })
	if len(paths) == 0 {
		return hashes.Delete([]byte(rec.Hash))
	}
	return putPaths(hashes, rec.Hash, paths)
}

func decodePaths(data []byte) ([]string, error) {
	if data == nil {
		return nil, nil
	}
	var paths []string
	if err := yaml.Unmarshal(data, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

func putPaths(b *bbolt.Bucket, hash string, paths []string) error {
	data, err := yaml.Marshal(paths)
	if err != nil {
		return err
	}
	return b.Put([]byte(hash), data)
}
