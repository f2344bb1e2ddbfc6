// Command takeo partitions a scene's dialogue rows into recording takes.
// File-format I/O is out of scope per SPEC_FULL.md's Non-goals; the CLI
// boundary is JSON, read from stdin (or -in) and written to stdout (or
// -out), so any spreadsheet front-end can shell out to this binary.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/stableperu/takeo/internal/assemble"
	"github.com/stableperu/takeo/internal/config"
	"github.com/stableperu/takeo/internal/model"
	"github.com/stableperu/takeo/internal/pipeline"
	"github.com/stableperu/takeo/internal/transcript"
)

func slogReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source, ok := a.Value.Any().(*slog.Source)
		if ok && source.File != "" {
			source.File = filepath.Base(source.File)
		}
	}
	return a
}

func main() {
	var (
		inPath         = flag.String("in", "", "path to the input JSON row array (default: stdin)")
		outPath        = flag.String("out", "", "path to write the output JSON summary (default: stdout)")
		transcriptPath = flag.String("transcript", "", "path to write the rendered transcript (optional)")
		filename       = flag.String("filename", "transcript", "name rendered on the transcript header")
		logPath        = flag.String("log", "takeo.log", "path to the run log file")
		maxLines       = flag.Int("max-lines-per-take", 0, "override MaxLinesPerTake (0 keeps the env/default value)")
		maxDuration    = flag.Float64("max-take-duration-seconds", 0, "override MaxTakeDurationSeconds (0 keeps the env/default value)")
	)
	flag.Parse()

	runID := pipeline.NewRunID()

	logFile, err := os.Create(*logPath)
	if err != nil {
		slog.Error("failed to create log file", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer logFile.Close()

	logWriter := io.MultiWriter(os.Stdout, logFile)
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource:   true,
		ReplaceAttr: slogReplaceAttr,
	})).With("runID", runID)
	slog.SetDefault(logger)

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("failed to load config", slog.String("err", err.Error()))
		os.Exit(1)
	}
	if *maxLines > 0 {
		cfg.MaxLinesPerTake = *maxLines
	}
	if *maxDuration > 0 {
		cfg.MaxTakeDurationSeconds = *maxDuration
	}
	if err := cfg.IsValid(); err != nil {
		logger.Error("invalid config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Error("failed to init sentry", slog.String("err", err.Error()))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	rows, present, err := readRows(*inPath)
	if err != nil {
		logger.Error("failed to read input rows", slog.String("err", err.Error()))
		os.Exit(1)
	}

	summary, err := pipeline.Run(context.Background(), logger, rows, present, cfg)
	if err != nil {
		logger.Error("pipeline failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if err := writeSummary(*outPath, summary); err != nil {
		logger.Error("failed to write output", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if *transcriptPath != "" {
		text := transcript.Render(*filename, summary.Takes)
		if err := os.WriteFile(*transcriptPath, []byte(text), 0644); err != nil {
			logger.Error("failed to write transcript", slog.String("err", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("run complete", slog.Int("takes", len(summary.Takes)))
}

func readRows(path string) ([]model.InputRow, map[string]bool, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var rows []model.InputRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, nil, fmt.Errorf("decode input: %w", err)
	}

	return rows, map[string]bool{"IN": true, "OUT": true, "PERSONAJE": true, "DIÁLOGO": true, "SCENE": true}, nil
}

func writeSummary(path string, summary assemble.Summary) error {
	data, err := json.MarshalIndent(map[string]any{
		"rows":        summary.Rows,
		"by_speaker":  summary.BySpeaker,
		"grand_total": summary.GrandTotal,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}

	return os.WriteFile(path, data, 0644)
}
