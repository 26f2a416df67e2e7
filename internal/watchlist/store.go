package watchlist

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultSources lists the partition subdirectories scanned under the
// data directory, in consolidation order.
var DefaultSources = []Source{SourceUN, SourceOFAC, SourceEU, SourceUK, SourcePEP}

// generation is one immutable consolidated snapshot of all partitions.
type generation struct {
	seq      uint64
	records  []Record
	loadedAt time.Time
}

// Store holds the consolidated watchlist in memory. Readers always see a
// complete generation; a reload builds the next generation aside and swaps
// it in with a single pointer store.
type Store struct {
	dir     string
	sources []Source
	logger  *zap.Logger

	mu      sync.Mutex // serializes reloads
	seq     atomic.Uint64
	current atomic.Pointer[generation]
	group   singleflight.Group
}

// NewStore creates a store over the given data directory. Nothing is read
// until Load or the first Records call.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{
		dir:     dir,
		sources: DefaultSources,
		logger:  logger.Named("watchlist"),
	}
}

// Load reads every partition and swaps in a new generation. Missing or
// empty partitions are skipped; zero records is a valid (empty) generation.
// At most one load runs at a time.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	var records []Record
	perSource := make(map[Source]int, len(s.sources))

	for _, src := range s.sources {
		loaded, err := s.loadPartition(src)
		if err != nil {
			// A broken partition degrades to zero records from that
			// source, same as a missing one.
			s.logger.Warn("skipping watchlist partition",
				zap.String("source", string(src)),
				zap.Error(err))
			continue
		}
		perSource[src] = len(loaded)
		records = append(records, loaded...)
	}

	gen := &generation{
		seq:      s.seq.Add(1),
		records:  records,
		loadedAt: time.Now(),
	}
	s.current.Store(gen)

	s.logger.Info("watchlist loaded",
		zap.Uint64("generation", gen.seq),
		zap.Int("records", len(records)),
		zap.Any("per_source", perSource),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Records returns the active generation, loading it on first use.
// Concurrent first-time callers share one load; callers during a reload
// keep reading the previous generation until the swap lands.
func (s *Store) Records() []Record {
	if gen := s.current.Load(); gen != nil {
		return gen.records
	}
	_, _, _ = s.group.Do("load", func() (interface{}, error) {
		if s.current.Load() == nil {
			return nil, s.Load()
		}
		return nil, nil
	})
	if gen := s.current.Load(); gen != nil {
		return gen.records
	}
	return nil
}

// Generation returns the sequence number of the active generation, zero
// when nothing has been loaded.
func (s *Store) Generation() uint64 {
	if gen := s.current.Load(); gen != nil {
		return gen.seq
	}
	return 0
}

// Invalidate drops the cached generation so the next read reloads.
func (s *Store) Invalidate() {
	s.current.Store(nil)
	s.logger.Info("watchlist cache invalidated")
}

// loadPartition reads every CSV file in one source subdirectory.
func (s *Store) loadPartition(src Source) ([]Record, error) {
	dir := filepath.Join(s.dir, strings.ToLower(string(src)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partition dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []Record
	for _, name := range names {
		path := filepath.Join(dir, name)
		loaded, err := s.loadFile(src, path)
		if err != nil {
			s.logger.Warn("skipping watchlist file",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		records = append(records, loaded...)
	}
	return records, nil
}

// loadFile parses one normalized CSV file into records. Rows without a
// name are dropped; every surviving record has a non-empty PrimaryName.
func (s *Store) loadFile(src Source, path string) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("no name column in %s", filepath.Base(path))
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		name := cell(row, "name")
		if name == "" {
			continue
		}

		recordType := RecordType(strings.ToLower(cell(row, "record_type")))
		if recordType != RecordTypeEntity {
			recordType = RecordTypeIndividual
		}

		records = append(records, Record{
			Source:         src,
			SourceFile:     filepath.Base(path),
			RecordType:     recordType,
			ExternalID:     cell(row, "dataid"),
			PrimaryName:    name,
			Aliases:        splitMulti(cell(row, "aliases")),
			Nationalities:  splitMulti(cell(row, "nationalities")),
			DateOfBirth:    firstMulti(cell(row, "dob_dates")),
			LastUpdated:    cell(row, "last_updated"),
			ProcessingDate: cell(row, "processing_date"),
		})
	}
	return records, nil
}

func firstMulti(cell string) string {
	parts := splitMulti(cell)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}
