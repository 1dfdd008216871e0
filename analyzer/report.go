package analyzer

import (
	"bufio"
	"fmt"
	"io"
)

// SchemaCount is one distinct schema and the number of documents that
// carried it.
type SchemaCount struct {
	Schema []byte
	Count  uint32
}

// Report is a snapshot of the analyzer's counters after a corpus.
type Report struct {
	// Docs is the number of documents in the corpus.
	Docs int
	// Occurrences is the number of documents whose configured field is a
	// string starting with the configured prefix.
	Occurrences int
	// DistinctSchemas is the number of distinct schema streams seen.
	DistinctSchemas int
	// Runs counts documents whose schema fingerprint equals the previous
	// document's.
	Runs int
	// Misses is the lifetime recency-cache miss count.
	Misses int64
	// CacheSize is the current number of fingerprints in the recency cache.
	CacheSize int
	// HasCollision reports whether two distinct schemas shared a 32-bit
	// fingerprint.
	HasCollision bool

	// TotalDocBytes, TotalSplitBytes and TotalSchemaBytes compare the corpus
	// size against its split representation: data payloads per document plus
	// each distinct schema stored once.
	TotalDocBytes    int64
	TotalSplitBytes  int64
	TotalSchemaBytes int64

	// SchemaCounts lists the distinct schemas in first-seen order.
	SchemaCounts []SchemaCount
	// Trace is the lifetime fingerprint trace, one entry per document.
	Trace []uint32
}

// Report returns the current counters. The SchemaCounts and Trace slices
// are snapshots; mutating them does not affect the analyzer.
func (a *Analyzer) Report() Report {
	counts := make([]SchemaCount, 0, len(a.schemaOrder))
	for _, key := range a.schemaOrder {
		counts = append(counts, SchemaCount{
			Schema: []byte(key),
			Count:  a.schemaCount[key],
		})
	}

	trace := make([]uint32, len(a.trace))
	copy(trace, a.trace)

	return Report{
		Docs:             a.docs,
		Occurrences:      a.occurrences,
		DistinctSchemas:  len(a.schemaOrder),
		Runs:             a.runs,
		Misses:           a.misses,
		CacheSize:        a.cache.Len(),
		HasCollision:     a.tracker.HasCollision(),
		TotalDocBytes:    a.totalDocBytes,
		TotalSplitBytes:  a.totalSplitBytes,
		TotalSchemaBytes: a.totalSchemaBytes,
		SchemaCounts:     counts,
		Trace:            trace,
	}
}

// HitRate returns the recency-cache hit rate as a percentage of documents.
func (r Report) HitRate() float64 {
	if r.Docs == 0 {
		return 0
	}

	return float64(int64(r.Docs)-r.Misses) * 100 / float64(r.Docs)
}

// WriteSchemaCount writes one "schema count <n>" line per distinct schema,
// in first-seen order.
func (r Report) WriteSchemaCount(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sc := range r.SchemaCounts {
		if _, err := fmt.Fprintf(bw, "schema count %d\n", sc.Count); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteSchemaTrace writes one decimal fingerprint per document, in corpus
// order.
func (r Report) WriteSchemaTrace(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, hash := range r.Trace {
		if _, err := fmt.Fprintf(bw, "%d\n", hash); err != nil {
			return err
		}
	}

	return bw.Flush()
}
