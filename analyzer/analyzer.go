// Package analyzer measures schema redundancy across a corpus of BSON
// documents.
//
// Every document is run through the split codec; its schema stream is
// fingerprinted and recorded in an ordered trace, counted in a
// content-keyed map of distinct schemas, checked against a recency (LRU)
// cache, and compared against the previous document to count runs of
// unchanged schemas. Each document is also reconstructed from its split form
// and verified byte-for-byte against the input.
package analyzer

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/errs"
	"github.com/arloliu/splitbson/internal/collision"
	"github.com/arloliu/splitbson/internal/options"
	"github.com/arloliu/splitbson/split"
)

// Analyzer drives the split builder over a document sequence and maintains
// the distinct-schema map, run counter and recency cache.
//
// The recency cache, fingerprint trace and miss counter live for the
// analyzer's whole lifetime; per-corpus counters reset at the start of each
// AnalyzeCorpus call. An Analyzer is single-goroutine.
type Analyzer struct {
	fieldName string
	prefix    string
	logger    *slog.Logger

	cache   *lru.Cache[uint32, bool]
	tracker *collision.Tracker
	trace   []uint32
	misses  int64

	// Per-corpus state, reset by AnalyzeCorpus.
	schemaCount map[string]uint32
	schemaOrder []string
	docs        int
	occurrences int
	runs        int
	lastHash    uint32
	haveLast    bool

	totalDocBytes    int64
	totalSplitBytes  int64
	totalSchemaBytes int64
}

// Option configures an Analyzer at construction time.
type Option = options.Option[*Analyzer]

// WithLogger injects the logger used for per-document trace output.
// Without it the analyzer is silent.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(a *Analyzer) {
		a.logger = logger
	})
}

// New creates an Analyzer that counts documents whose string field
// fieldName starts with prefix, using a recency cache of the given capacity.
func New(fieldName, prefix string, cacheCapacity int, opts ...Option) (*Analyzer, error) {
	if cacheCapacity <= 0 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidCacheCapacity, cacheCapacity)
	}

	cache, err := lru.New[uint32, bool](cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCacheCapacity, err)
	}

	a := &Analyzer{
		fieldName:   fieldName,
		prefix:      prefix,
		cache:       cache,
		tracker:     collision.NewTracker(),
		schemaCount: make(map[string]uint32),
	}

	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	return a, nil
}

// AnalyzeCorpus processes a byte stream of concatenated BSON documents and
// returns the corpus report. Per-corpus counters reset first; the recency
// cache, trace and miss counter carry over from previous corpora.
func (a *Analyzer) AnalyzeCorpus(data []byte) (Report, error) {
	a.resetCorpus()

	rest := data
	for len(rest) > 4 {
		doc, rem, ok := bsoncore.ReadDocument(rest)
		if !ok {
			return Report{}, fmt.Errorf("%w: corpus ends mid-document at offset %d",
				errs.ErrDocTooShort, len(data)-len(rest))
		}

		if err := a.AnalyzeDocument(doc); err != nil {
			return Report{}, err
		}

		rest = rem
	}

	return a.Report(), nil
}

// AnalyzeDocument feeds a single document into the running analysis.
func (a *Analyzer) AnalyzeDocument(doc bsoncore.Document) error {
	if value, err := doc.LookupErr(a.fieldName); err == nil {
		if s, ok := value.StringValueOK(); ok && strings.HasPrefix(s, a.prefix) {
			a.occurrences++
		}
	}

	builder, err := split.NewBuilder()
	if err != nil {
		return err
	}
	if err := builder.AppendElements(doc); err != nil {
		return err
	}

	hash := builder.Hash()
	splitDoc := builder.Release()
	schema := splitDoc.Schema()

	// Round-trip sanity check: the split form must reproduce the input
	// byte-for-byte.
	restored, err := splitDoc.Document()
	if err != nil {
		return err
	}
	if !bytes.Equal(restored, doc) {
		return fmt.Errorf("%w: document %d reconstructed to %d bytes, want %d",
			errs.ErrRoundTripMismatch, a.docs, len(restored), len(doc))
	}

	a.trace = append(a.trace, hash)
	if !a.cache.Contains(hash) {
		a.misses++
		a.cache.Add(hash, true)
	}

	// The map key is the schema content, not the hash, so fingerprint
	// collisions cannot merge two schemas.
	key := string(schema)
	if _, seen := a.schemaCount[key]; !seen {
		a.schemaOrder = append(a.schemaOrder, key)
		a.totalSchemaBytes += int64(len(schema))
	}
	a.schemaCount[key]++

	a.tracker.Track(hash, schema)

	if a.haveLast && a.lastHash == hash {
		a.runs++
	}
	a.lastHash = hash
	a.haveLast = true

	a.docs++
	a.totalDocBytes += int64(len(doc))
	a.totalSplitBytes += int64(splitDoc.DataSize())

	if a.logger != nil {
		a.logger.Debug("split document",
			slog.Int("bson_bytes", len(doc)),
			slog.Int("schema_bytes", len(schema)),
			slog.Int("data_bytes", splitDoc.DataSize()),
			slog.Uint64("hash", uint64(hash)),
		)
	}

	return nil
}

func (a *Analyzer) resetCorpus() {
	clear(a.schemaCount)
	a.schemaOrder = a.schemaOrder[:0]
	a.docs = 0
	a.occurrences = 0
	a.runs = 0
	a.lastHash = 0
	a.haveLast = false
	a.totalDocBytes = 0
	a.totalSplitBytes = 0
	a.totalSchemaBytes = 0
}
