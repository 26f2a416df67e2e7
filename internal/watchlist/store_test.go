package watchlist

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const csvHeader = "source,source_file,dataid,record_type,name,aliases,nationalities,dob_dates,last_updated,processing_date\n"

func writePartition(t *testing.T, dir, source, file, rows string) {
	t.Helper()
	sub := filepath.Join(dir, source)
	require.NoError(t, os.MkdirAll(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, file), []byte(rows), 0o644))
}

func TestStore_LoadConsolidatesPartitions(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,ALI AHMED; AHMAD ALI,QA; SA,1989-03-12,2024-01-01,2024-01-02`+"\n")
	writePartition(t, dir, "ofac", "ofac_latest.csv", csvHeader+
		`OFAC,sdn.csv,2002,entity,ACME TRADING LLC,,IR,,2024-01-01,2024-01-02`+"\n")

	store := NewStore(dir, zap.NewNop())
	require.NoError(t, store.Load())

	records := store.Records()
	require.Len(t, records, 2)

	// Partition order is fixed: UN before OFAC.
	un := records[0]
	assert.Equal(t, SourceUN, un.Source)
	assert.Equal(t, "1001", un.ExternalID)
	assert.Equal(t, "AHMED ALI", un.PrimaryName)
	assert.Equal(t, []string{"ALI AHMED", "AHMAD ALI"}, un.Aliases)
	assert.Equal(t, []string{"QA", "SA"}, un.Nationalities)
	assert.Equal(t, "1989-03-12", un.DateOfBirth)
	assert.Equal(t, RecordTypeIndividual, un.RecordType)
	assert.Equal(t, "UN:1001", un.Key())

	ofac := records[1]
	assert.Equal(t, SourceOFAC, ofac.Source)
	assert.Equal(t, RecordTypeEntity, ofac.RecordType)
	assert.Empty(t, ofac.Aliases)
}

func TestStore_MissingAndEmptyPartitionsSkipped(t *testing.T) {
	dir := t.TempDir()
	// Only UN exists; its directory holds one empty file and one real one.
	writePartition(t, dir, "un", "empty.csv", "")
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,,,,,`+"\n")

	store := NewStore(dir, zap.NewNop())
	require.NoError(t, store.Load())
	assert.Len(t, store.Records(), 1)
}

func TestStore_ZeroRecordsIsValid(t *testing.T) {
	store := NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, store.Load())
	assert.Empty(t, store.Records())
	assert.Equal(t, uint64(1), store.Generation())
}

func TestStore_NamelessRowsDropped(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,,ALIAS ONLY,,,,`+"\n"+
		`UN,un.xml,1002,individual,AHMED ALI,,,,,`+"\n")

	store := NewStore(dir, zap.NewNop())
	require.NoError(t, store.Load())

	records := store.Records()
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].PrimaryName)
}

func TestStore_LazyFirstLoad(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "eu", "eu_latest.csv", csvHeader+
		`EU,eu.csv,3003,individual,MARIA GARCIA,,ES,,,`+"\n")

	store := NewStore(dir, zap.NewNop())
	assert.Equal(t, uint64(0), store.Generation())

	records := store.Records()
	assert.Len(t, records, 1)
	assert.Equal(t, uint64(1), store.Generation())
}

func TestStore_InvalidateForcesReload(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,,,,,`+"\n")

	store := NewStore(dir, zap.NewNop())
	require.NoError(t, store.Load())
	require.Equal(t, uint64(1), store.Generation())

	// New data lands, then the cache is invalidated.
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,,,,,`+"\n"+
		`UN,un.xml,1005,individual,JOHN DOE,,,,,`+"\n")
	store.Invalidate()

	records := store.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, uint64(2), store.Generation())
}

func TestStore_ConcurrentFirstLoadSingleFlight(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,,,,,`+"\n")

	store := NewStore(dir, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records := store.Records()
			assert.Len(t, records, 1)
		}()
	}
	wg.Wait()

	// All 32 readers shared one load.
	assert.Equal(t, uint64(1), store.Generation())
}

func TestStore_ReadersNeverSeeTornGenerations(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "un", "un_latest.csv", csvHeader+
		`UN,un.xml,1001,individual,AHMED ALI,,,,,`+"\n")
	store := NewStore(dir, zap.NewNop())
	require.NoError(t, store.Load())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = store.Load()
		}
		close(done)
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			records := store.Records()
			// A generation is complete or absent, never a mix: every
			// record in one read carries the same snapshot contents.
			for _, r := range records {
				assert.Equal(t, SourceUN, r.Source)
				assert.Equal(t, "AHMED ALI", r.PrimaryName)
			}
			assert.Len(t, records, 1)
		}
	}
	wg.Wait()
}

func TestSplitMulti(t *testing.T) {
	assert.Nil(t, splitMulti(""))
	assert.Nil(t, splitMulti("   "))
	assert.Equal(t, []string{"A", "B"}, splitMulti("A; B"))
	assert.Equal(t, []string{"A"}, splitMulti("A;"))
}

func TestSourceClass(t *testing.T) {
	assert.Equal(t, ClassSanctions, SourceUN.Class())
	assert.Equal(t, ClassSanctions, SourceOFAC.Class())
	assert.Equal(t, ClassPEP, SourcePEP.Class())
	assert.Equal(t, ClassSanctions, Source("UNKNOWN").Class())
}

func TestRecordHasNationality(t *testing.T) {
	rec := Record{Nationalities: []string{"QA", "SA"}}
	assert.True(t, rec.HasNationality("qa"))
	assert.True(t, rec.HasNationality(" SA "))
	assert.False(t, rec.HasNationality("US"))
	assert.False(t, Record{}.HasNationality("QA"))
}
