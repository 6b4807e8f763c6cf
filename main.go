package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/util/json"

	"github.com/recset/recset/internal/buildinfo"
	"github.com/recset/recset/pkg/collection"
	"github.com/recset/recset/pkg/pipeline"
	"github.com/recset/recset/pkg/source"
)

var (
	version    = "dev"
	commitHash = "n/a"
	buildDate  = "<unknown>"
)

func main() {
	var input, output, pipelineFile, table string
	var loglevel int

	flag.StringVar(&input, "i", "", "Input path: .csv, .json, .ndjson, or .db/.sqlite (with -table).")
	flag.StringVar(&output, "o", "", "Output path; format from the extension. Default: JSON on stdout.")
	flag.StringVar(&pipelineFile, "p", "", "Pipeline definition (YAML or JSON).")
	flag.StringVar(&table, "table", "records", "Table name for SQLite input/output.")
	flag.IntVar(&loglevel, "v", 0, "Log verbosity (higher is noisier).")
	flag.Parse()

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.Level(-loglevel)) //nolint:gosec
	zc.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zapLog, err := zc.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %s\n", err)
		os.Exit(1)
	}
	logger := zapr.NewLogger(zapLog).WithName("recset")

	logger.Info(fmt.Sprintf("starting recset %s",
		buildinfo.New(version, commitHash, buildDate).String()))

	if input == "" {
		logger.Info("no input given: nothing to do")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	reader, err := readerFor(input, table)
	if err != nil {
		exit(logger, err)
	}
	recs, err := reader.Read(ctx)
	if err != nil {
		exit(logger, err)
	}
	logger.V(1).Info("input loaded", "path", input, "records", len(recs))

	c := collection.FromRecords(recs).WithLogger(logger.WithName("collection"))

	if pipelineFile != "" {
		data, err := os.ReadFile(pipelineFile)
		if err != nil {
			exit(logger, err)
		}
		p, err := pipeline.FromYAML(data, logger.WithName("pipeline"))
		if err != nil {
			exit(logger, err)
		}
		logger.V(1).Info("pipeline parsed", "ops", p.String())

		c, err = p.Evaluate(c)
		if err != nil {
			exit(logger, err)
		}
	}

	out, err := c.Records()
	if err != nil {
		exit(logger, err)
	}

	if output == "" {
		b, err := json.Marshal(out)
		if err != nil {
			exit(logger, err)
		}
		fmt.Println(string(b))
		return
	}

	writer, err := writerFor(output, table)
	if err != nil {
		exit(logger, err)
	}
	if err := writer.Write(ctx, out); err != nil {
		exit(logger, err)
	}
	logger.Info("output written", "path", output, "records", len(out))
}

func readerFor(path, table string) (source.Reader, error) {
	switch ext(path) {
	case ".csv":
		return &source.CSVFile{Path: path}, nil
	case ".json":
		return &source.JSONFile{Path: path}, nil
	case ".ndjson", ".jsonl":
		return &source.JSONFile{Path: path, NDJSON: true}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &source.SQLiteTable{Path: path, Table: table}, nil
	}
	return nil, fmt.Errorf("cannot infer input format from path %q", path)
}

func writerFor(path, table string) (source.Writer, error) {
	switch ext(path) {
	case ".csv":
		return &source.CSVFile{Path: path}, nil
	case ".json":
		return &source.JSONFile{Path: path}, nil
	case ".ndjson", ".jsonl":
		return &source.JSONFile{Path: path, NDJSON: true}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &source.SQLiteTable{Path: path, Table: table}, nil
	}
	return nil, fmt.Errorf("cannot infer output format from path %q", path)
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func exit(logger logr.Logger, err error) {
	logger.Error(err, "fatal error")
	os.Exit(1)
}
