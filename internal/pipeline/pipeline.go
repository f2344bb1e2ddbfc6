// Package pipeline orchestrates a full partitioner run: normalize, group
// into blocks, partition every scene concurrently, and assemble. Rendering
// the transcript is left to the caller (cmd/takeo).
// This is the only layer that logs (via log/slog) or talks to Sentry; the
// core packages stay pure and return structured warnings instead, per
// SPEC_FULL.md's AMBIENT STACK section. Scene parallelism is grounded on
// MrWong99-glyphoxa/internal/hotctx/assembler.go's errgroup.WithContext
// fan-out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stableperu/takeo/internal/assemble"
	"github.com/stableperu/takeo/internal/block"
	"github.com/stableperu/takeo/internal/config"
	"github.com/stableperu/takeo/internal/model"
	"github.com/stableperu/takeo/internal/normalize"
	"github.com/stableperu/takeo/internal/partition"
)

// sceneResult pairs a scene's partition.Result with its position in
// SceneOrder, so results sent back over a channel by the concurrent
// partitioning goroutines can be placed into a preallocated slice in scene
// order before assembly.
type sceneResult struct {
	index  int
	result partition.Result
}

// Run executes normalize -> block -> partition (parallel per scene) ->
// assemble for rows, logging progress and recovered warnings via log,
// which should already carry a run id attribute (cmd/takeo attaches one
// minted by NewRunID below under the key "runID").
func Run(ctx context.Context, log *slog.Logger, rows []model.InputRow, present map[string]bool, cfg config.Config) (assemble.Summary, error) {
	norm, err := normalize.Normalize(rows, present, normalize.Options{
		Filter: normalize.Filter{
			AllowSpeakers:   toSet(cfg.AllowSpeakers),
			ExcludeSpeakers: toUpperSet(cfg.ExcludeSpeakers),
		},
		FrameRate:        cfg.FrameRate,
		MaxDialogueChars: cfg.MaxDialogueLineChars,
	})
	if err != nil {
		reportFatal(err)
		return assemble.Summary{}, fmt.Errorf("pipeline: normalize: %w", err)
	}
	for _, w := range norm.Warnings {
		log.Warn("recovered anomaly", slog.String("kind", w.Kind), slog.String("message", w.Message))
	}

	pc := partition.Constraints{
		MaxDuration:          model.Seconds(cfg.MaxTakeDurationSeconds),
		MaxLines:             cfg.MaxLinesPerTake,
		MaxConsecutivePerSpk: cfg.MaxConsecutiveLinesPerSpeaker,
		MaxTotalPerSpkInTake: cfg.MaxTotalLinesPerSpeakerInTake,
	}

	results := make([]partition.Result, len(norm.SceneOrder))

	eg, egCtx := errgroup.WithContext(ctx)
	resultsCh := make(chan sceneResult, len(norm.SceneOrder))

	for i, sceneID := range norm.SceneOrder {
		i, sceneID := i, sceneID
		eg.Go(func() error {
			blocks := block.Group(norm.ByScene[sceneID])
			res, err := partition.Partition(egCtx, sceneID, blocks, pc)
			if err != nil {
				return fmt.Errorf("pipeline: partition scene %q: %w", sceneID, err)
			}
			resultsCh <- sceneResult{index: i, result: res}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		reportFatal(err)
		return assemble.Summary{}, err
	}
	close(resultsCh)

	for sr := range resultsCh {
		results[sr.index] = sr.result
	}

	for _, res := range results {
		for _, w := range res.Warnings {
			log.Warn("recovered anomaly", slog.String("kind", w.Kind), slog.String("scene", w.Scene), slog.String("message", w.Message))
		}
	}

	summary := assemble.Assemble(results)
	log.Info("partition run complete",
		slog.Int("scenes", len(results)),
		slog.Int("takes", len(summary.Takes)),
		slog.Int("rows", len(summary.Rows)),
	)

	return summary, nil
}

// NewRunID mints a run correlation id the same way the teacher's
// TRANSCRIPTION_ID is threaded through every log line, for a tool that
// (unlike the teacher) is invoked many times without an externally
// supplied job id.
func NewRunID() string {
	return uuid.NewString()
}

// reportFatal sends err to Sentry when a DSN has been configured via
// sentry.Init; this is a no-op otherwise, matching the teacher's gated
// ReportJobFailure call on startup failure.
func reportFatal(err error) {
	if err == nil {
		return
	}
	sentry.CaptureException(err)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// toUpperSet builds a speaker set keyed case-insensitively, matching
// normalize.Filter.keep's case-insensitive ExcludeSpeakers comparison.
func toUpperSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToUpper(v)] = struct{}{}
	}
	return set
}
