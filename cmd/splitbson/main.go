// Command splitbson analyzes schema redundancy across files of concatenated
// BSON documents.
//
// Usage:
//
//	splitbson [flags] <fieldname> <prefix> <cache_capacity> <file>...
//
// Every document is split into schema/fixed/variable streams, fingerprinted
// and round-trip checked. After each input file the tool writes two files in
// the working directory: schema-count (one "schema count <n>" line per
// distinct schema) and schema-trace (one decimal fingerprint per document).
// With --container the whole corpus is additionally packed into a split
// document container with deduplicated schemas.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"

	"github.com/arloliu/splitbson/analyzer"
	"github.com/arloliu/splitbson/blob"
	"github.com/arloliu/splitbson/format"
	"github.com/arloliu/splitbson/split"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flagSet := pflag.NewFlagSet("splitbson", pflag.ContinueOnError)
	containerPath := flagSet.String("container", "", "pack the corpus into a split document container at this path")
	schemaComp := flagSet.String("schema-compression", "zstd", "container schema section compression: none, zstd, s2, lz4")
	dataComp := flagSet.String("data-compression", "none", "container data section compression: none, zstd, s2, lz4")
	verbose := flagSet.BoolP("verbose", "v", false, "log every document")

	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: splitbson [flags] <fieldname> <prefix> <cache_capacity> <file>...\n\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)

		return 2
	}

	positional := flagSet.Args()
	if len(positional) < 4 {
		flagSet.Usage()

		return 1
	}

	fieldName := positional[0]
	prefix := positional[1]
	capacity, err := strconv.Atoi(positional[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid cache capacity %q: %v\n", positional[2], err)

		return 1
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a, err := analyzer.New(fieldName, prefix, capacity, analyzer.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create analyzer", "error", err)

		return 1
	}

	var writer *blob.Writer
	if *containerPath != "" {
		writer, err = newContainerWriter(*schemaComp, *dataComp)
		if err != nil {
			logger.Error("failed to create container writer", "error", err)

			return 1
		}
	}

	for _, filename := range positional[3:] {
		data, err := os.ReadFile(filename)
		if err != nil {
			logger.Error("failed to read input", "file", filename, "error", err)

			return 1
		}

		logger.Info("starting search",
			"file", filename, "field", fieldName, "prefix", prefix, "bytes", len(data))

		report, err := a.AnalyzeCorpus(data)
		if err != nil {
			logger.Error("analysis failed", "file", filename, "error", err)

			return 1
		}

		if err := writeReportFiles(report); err != nil {
			logger.Error("failed to write report files", "error", err)

			return 1
		}

		logReport(logger, filename, report)

		if writer != nil {
			if err := packCorpus(writer, data); err != nil {
				logger.Error("failed to pack corpus", "file", filename, "error", err)

				return 1
			}
		}
	}

	if writer != nil {
		if err := writeContainer(writer, *containerPath, logger); err != nil {
			logger.Error("failed to write container", "path", *containerPath, "error", err)

			return 1
		}
	}

	return 0
}

func logReport(logger *slog.Logger, filename string, report analyzer.Report) {
	logger.Info("corpus analyzed",
		"file", filename,
		"docs", report.Docs,
		"occurrences", report.Occurrences,
	)
	logger.Info("corpus sizes",
		"file", filename,
		"bson_bytes", report.TotalDocBytes,
		"schema_bytes", report.TotalSchemaBytes,
		"split_data_bytes", report.TotalSplitBytes,
	)
	logger.Info("schema redundancy",
		"file", filename,
		"distinct_schemas", report.DistinctSchemas,
		"runs", report.Runs,
		"collision", report.HasCollision,
	)
	logger.Info("recency cache",
		"file", filename,
		"misses", report.Misses,
		"cache_size", report.CacheSize,
		"hit_rate_pct", fmt.Sprintf("%.1f", report.HitRate()),
	)
}

func writeReportFiles(report analyzer.Report) error {
	counts, err := os.Create("schema-count")
	if err != nil {
		return err
	}
	defer counts.Close()
	if err := report.WriteSchemaCount(counts); err != nil {
		return err
	}

	trace, err := os.Create("schema-trace")
	if err != nil {
		return err
	}
	defer trace.Close()

	return report.WriteSchemaTrace(trace)
}

func newContainerWriter(schemaComp, dataComp string) (*blob.Writer, error) {
	schemaType, err := parseCompression(schemaComp)
	if err != nil {
		return nil, err
	}
	dataType, err := parseCompression(dataComp)
	if err != nil {
		return nil, err
	}

	return blob.NewWriter(
		blob.WithSchemaCompression(schemaType),
		blob.WithDataCompression(dataType),
	)
}

func parseCompression(name string) (format.CompressionType, error) {
	switch strings.ToLower(name) {
	case "none":
		return format.CompressionNone, nil
	case "zstd":
		return format.CompressionZstd, nil
	case "s2":
		return format.CompressionS2, nil
	case "lz4":
		return format.CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", name)
	}
}

func packCorpus(writer *blob.Writer, data []byte) error {
	rest := data
	for len(rest) > 4 {
		doc, rem, ok := bsoncore.ReadDocument(rest)
		if !ok {
			return fmt.Errorf("corpus ends mid-document at offset %d", len(data)-len(rest))
		}

		builder, err := split.NewBuilder()
		if err != nil {
			return err
		}
		if err := builder.AppendElements(doc); err != nil {
			return err
		}
		writer.Add(builder.Release())

		rest = rem
	}

	return nil
}

func writeContainer(writer *blob.Writer, path string, logger *slog.Logger) error {
	packed, err := writer.Finish()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, packed, 0o644); err != nil {
		return err
	}

	logger.Info("container written",
		"path", path,
		"bytes", len(packed),
		"docs", writer.DocCount(),
		"schemas", writer.SchemaCount(),
		"schema_savings_pct", fmt.Sprintf("%.1f", writer.SchemaStats().SpaceSavings()),
		"data_savings_pct", fmt.Sprintf("%.1f", writer.DataStats().SpaceSavings()),
	)

	return nil
}
