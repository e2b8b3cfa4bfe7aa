package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/maple-msb/internal/network/packets"
	"github.com/Faultbox/maple-msb/pkg/msb"
)

// DefaultCacheFile is the metadata cache written by the metadata builder.
const DefaultCacheFile = "metadata-cache.json"

// Entry is the cached summary of one capture.
type Entry struct {
	Path    string                    `json:"path" yaml:"path"`
	Hash    string                    `json:"hash" yaml:"hash"`
	Version uint16                    `json:"version" yaml:"version"`
	Packets map[string]*PacketSummary `json:"packets" yaml:"packets"`
}

// PacketSummary collects the distinct modes seen for one opcode and
// direction, in first-seen order.
type PacketSummary struct {
	Opcode   uint16 `json:"opcode" yaml:"opcode"`
	Outbound bool   `json:"outbound" yaml:"outbound"`
	Modes    []int  `json:"modes" yaml:"modes"`
}

func (s *PacketSummary) addMode(mode byte) {
	for _, m := range s.Modes {
		if m == int(mode) {
			return
		}
	}
	s.Modes = append(s.Modes, int(mode))
}

// BuildOptions configures BuildMetadata.
type BuildOptions struct {
	// Index, when set, skips parsing of files unchanged since they were
	// last summarised and records fresh summaries.
	Index *Index
	// Progress, when set, is called after each file.
	Progress func(done, total int)
}

// BuildMetadata summarises every file. Files that cannot be parsed are
// returned as FileErrors and the batch continues. The returned error is
// non-nil only when ctx is cancelled.
func BuildMetadata(ctx context.Context, files []string, opts BuildOptions) ([]Entry, []FileError, error) {
	entries := make([]Entry, 0, len(files))
	var failed []FileError

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return entries, failed, err
		}

		entry, err := summarise(path, opts.Index)
		switch {
		case err != nil:
			log().Warn("skipping file", zap.String("path", path), zap.Error(err))
			failed = append(failed, FileError{Path: path, Err: err})
		case entry != nil:
			entries = append(entries, *entry)
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(files))
		}
	}

	log().Info("metadata built",
		zap.Int("files", len(files)),
		zap.Int("entries", len(entries)),
		zap.Int("failed", len(failed)))
	return entries, failed, nil
}

func summarise(path string, index *Index) (*Entry, error) {
	var info os.FileInfo
	if index != nil {
		var err error
		if info, err = os.Stat(path); err != nil {
			return nil, err
		}
		if entry, ok := index.Lookup(path, info); ok {
			log().Debug("index hit", zap.String("path", path))
			return entry, nil
		}
	}

	entry, err := ReadEntry(path)
	if err != nil || entry == nil {
		return nil, err
	}

	if index != nil {
		if err := index.Put(path, NewRecord(info, *entry)); err != nil {
			log().Warn("updating index", zap.String("path", path), zap.Error(err))
		}
	}
	return entry, nil
}

// ReadEntry parses one capture and summarises its packets. A capture with
// version 0 has nothing to summarise and yields a nil entry.
func ReadEntry(path string) (*Entry, error) {
	reader, err := msb.Open(path)
	if err != nil {
		return nil, err
	}
	if reader.Version() == 0 {
		log().Debug("skipping zero version", zap.String("path", path))
		return nil, nil
	}

	summaries := make(map[string]*PacketSummary)
	err = reader.Each(func(p *msb.Packet) error {
		if packets.Ignored(p.Opcode, p.Outbound) {
			return nil
		}
		mode, ok := p.Mode()
		if !ok {
			return nil
		}

		key := packets.Key(p.Opcode, p.Outbound)
		s, exists := summaries[key]
		if !exists {
			s = &PacketSummary{Opcode: p.Opcode, Outbound: p.Outbound}
			summaries[key] = s
		}
		s.addMode(mode)
		return nil
	})
	if err != nil {
		return nil, err
	}

	hash, err := HashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hashing: %w", err)
	}

	return &Entry{
		Path:    path,
		Hash:    hash,
		Version: reader.Version(),
		Packets: summaries,
	}, nil
}

// WriteCache writes entries as an indented JSON array, replacing path.
func WriteCache(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing cache: %w", err)
	}
	return nil
}

// ReadCache loads a cache written by WriteCache.
func ReadCache(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding cache %s: %w", path, err)
	}
	return entries, nil
}
