// Package config defines the Config struct that drives a partitioner run,
// modeled on the teacher's cmd/transcriber/config.CallTranscriberConfig
// shape: SetDefaults/IsValid/FromEnv/ToEnv/ToMap/FromMap, generalized from
// call-transcription settings to take-partitioning settings per
// SPEC_FULL.md's AMBIENT STACK section.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	MaxTakeDurationSecondsDefault       = 30
	MaxLinesPerTakeDefault              = 10
	MaxConsecutiveLinesPerSpeakerDefault = 5
	MaxTotalLinesPerSpeakerInTakeDefault = 5
	MaxDialogueLineCharsDefault         = 60
	FrameRateDefault                    = 24
)

// Config holds every tunable of a partitioner run, per SPEC_FULL.md §6.
type Config struct {
	MaxTakeDurationSeconds        float64
	MaxLinesPerTake               int
	MaxConsecutiveLinesPerSpeaker int
	MaxTotalLinesPerSpeakerInTake int
	MaxDialogueLineChars          int
	FrameRate                     int

	AllowSpeakers  []string
	ExcludeSpeakers []string

	SentryDSN string
}

// SetDefaults fills every unset (zero-valued) field with SPEC_FULL.md §6's
// default.
func (cfg *Config) SetDefaults() {
	if cfg.MaxTakeDurationSeconds == 0 {
		cfg.MaxTakeDurationSeconds = MaxTakeDurationSecondsDefault
	}
	if cfg.MaxLinesPerTake == 0 {
		cfg.MaxLinesPerTake = MaxLinesPerTakeDefault
	}
	if cfg.MaxConsecutiveLinesPerSpeaker == 0 {
		cfg.MaxConsecutiveLinesPerSpeaker = MaxConsecutiveLinesPerSpeakerDefault
	}
	if cfg.MaxTotalLinesPerSpeakerInTake == 0 {
		cfg.MaxTotalLinesPerSpeakerInTake = MaxTotalLinesPerSpeakerInTakeDefault
	}
	if cfg.MaxDialogueLineChars == 0 {
		cfg.MaxDialogueLineChars = MaxDialogueLineCharsDefault
	}
	if cfg.FrameRate == 0 {
		cfg.FrameRate = FrameRateDefault
	}
}

// IsValid reports whether cfg's values can drive a run.
func (cfg Config) IsValid() error {
	if cfg.MaxTakeDurationSeconds <= 0 {
		return fmt.Errorf("MaxTakeDurationSeconds must be positive")
	}
	if cfg.MaxLinesPerTake <= 0 {
		return fmt.Errorf("MaxLinesPerTake must be positive")
	}
	if cfg.MaxConsecutiveLinesPerSpeaker <= 0 {
		return fmt.Errorf("MaxConsecutiveLinesPerSpeaker must be positive")
	}
	if cfg.MaxTotalLinesPerSpeakerInTake <= 0 {
		return fmt.Errorf("MaxTotalLinesPerSpeakerInTake must be positive")
	}
	if cfg.MaxDialogueLineChars <= 0 {
		return fmt.Errorf("MaxDialogueLineChars must be positive")
	}
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("FrameRate must be positive")
	}
	if len(cfg.AllowSpeakers) > 0 && len(cfg.ExcludeSpeakers) > 0 {
		return fmt.Errorf("AllowSpeakers and ExcludeSpeakers are mutually exclusive")
	}
	return nil
}

// ToEnv renders cfg as KEY=VALUE lines, the teacher's ToEnv shape.
func (cfg Config) ToEnv() []string {
	vars := []string{
		fmt.Sprintf("MAX_TAKE_DURATION_SECONDS=%g", cfg.MaxTakeDurationSeconds),
		fmt.Sprintf("MAX_LINES_PER_TAKE=%d", cfg.MaxLinesPerTake),
		fmt.Sprintf("MAX_CONSECUTIVE_LINES_PER_SPEAKER=%d", cfg.MaxConsecutiveLinesPerSpeaker),
		fmt.Sprintf("MAX_TOTAL_LINES_PER_SPEAKER_IN_TAKE=%d", cfg.MaxTotalLinesPerSpeakerInTake),
		fmt.Sprintf("MAX_DIALOGUE_LINE_CHARS=%d", cfg.MaxDialogueLineChars),
		fmt.Sprintf("FRAME_RATE=%d", cfg.FrameRate),
		fmt.Sprintf("ALLOW_SPEAKERS=%s", strings.Join(cfg.AllowSpeakers, ",")),
		fmt.Sprintf("EXCLUDE_SPEAKERS=%s", strings.Join(cfg.ExcludeSpeakers, ",")),
		fmt.Sprintf("SENTRY_DSN=%s", cfg.SentryDSN),
	}
	return vars
}

// ToMap renders cfg as a map, matching the teacher's ToMap shape used for
// structured logging and serialization.
func (cfg Config) ToMap() map[string]any {
	return map[string]any{
		"max_take_duration_seconds":          cfg.MaxTakeDurationSeconds,
		"max_lines_per_take":                 cfg.MaxLinesPerTake,
		"max_consecutive_lines_per_speaker":  cfg.MaxConsecutiveLinesPerSpeaker,
		"max_total_lines_per_speaker_in_take": cfg.MaxTotalLinesPerSpeakerInTake,
		"max_dialogue_line_chars":            cfg.MaxDialogueLineChars,
		"frame_rate":                         cfg.FrameRate,
		"allow_speakers":                     cfg.AllowSpeakers,
		"exclude_speakers":                   cfg.ExcludeSpeakers,
	}
}

// FromMap populates cfg from m, tolerating both int and float64 for
// numeric fields the way the teacher's FromMap does for values that may
// have round-tripped through JSON.
func (cfg *Config) FromMap(m map[string]any) *Config {
	cfg.MaxTakeDurationSeconds = toFloat(m["max_take_duration_seconds"])
	cfg.MaxLinesPerTake = toInt(m["max_lines_per_take"])
	cfg.MaxConsecutiveLinesPerSpeaker = toInt(m["max_consecutive_lines_per_speaker"])
	cfg.MaxTotalLinesPerSpeakerInTake = toInt(m["max_total_lines_per_speaker_in_take"])
	cfg.MaxDialogueLineChars = toInt(m["max_dialogue_line_chars"])
	cfg.FrameRate = toInt(m["frame_rate"])
	if v, ok := m["allow_speakers"].([]string); ok {
		cfg.AllowSpeakers = v
	}
	if v, ok := m["exclude_speakers"].([]string); ok {
		cfg.ExcludeSpeakers = v
	}
	return cfg
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// FromEnv builds a Config from the process environment, the teacher's
// env-first pattern that cmd/takeo layers flag overrides on top of.
func FromEnv() (Config, error) {
	var cfg Config
	cfg.MaxTakeDurationSeconds, _ = strconv.ParseFloat(os.Getenv("MAX_TAKE_DURATION_SECONDS"), 64)
	cfg.MaxLinesPerTake, _ = strconv.Atoi(os.Getenv("MAX_LINES_PER_TAKE"))
	cfg.MaxConsecutiveLinesPerSpeaker, _ = strconv.Atoi(os.Getenv("MAX_CONSECUTIVE_LINES_PER_SPEAKER"))
	cfg.MaxTotalLinesPerSpeakerInTake, _ = strconv.Atoi(os.Getenv("MAX_TOTAL_LINES_PER_SPEAKER_IN_TAKE"))
	cfg.MaxDialogueLineChars, _ = strconv.Atoi(os.Getenv("MAX_DIALOGUE_LINE_CHARS"))
	cfg.FrameRate, _ = strconv.Atoi(os.Getenv("FRAME_RATE"))
	cfg.SentryDSN = os.Getenv("SENTRY_DSN")

	if v := os.Getenv("ALLOW_SPEAKERS"); v != "" {
		cfg.AllowSpeakers = strings.Split(v, ",")
	}
	if v := os.Getenv("EXCLUDE_SPEAKERS"); v != "" {
		cfg.ExcludeSpeakers = strings.Split(v, ",")
	}

	cfg.SetDefaults()

	return cfg, nil
}
