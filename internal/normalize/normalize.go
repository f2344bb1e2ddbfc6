// Package normalize turns raw input rows into sorted, scene-partitioned
// interventions: parsing time-codes, splitting overlong dialogue, applying
// an optional speaker filter, and stripping control characters. Grounded
// on original_source/Takeo.py's expandir_dialogos/clean_text/
// asignar_takes_optimizado's scene loop, per SPEC_FULL.md §4.3.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/stableperu/takeo/internal/dialogue"
	"github.com/stableperu/takeo/internal/model"
	"github.com/stableperu/takeo/internal/timecode"
)

// ErrMissingColumn is returned when a required input column is absent.
// It is the only error the normalizer surfaces to its caller; every other
// anomaly degrades gracefully (§7).
var ErrMissingColumn = fmt.Errorf("normalize: missing required column")

// Warning describes a recovered anomaly the caller should log.
type Warning struct {
	Kind    string // "MalformedTimecode"
	Row     model.InputRow
	Message string
}

// Filter controls which rows reach the partitioner.
type Filter struct {
	// AllowSpeakers, if non-empty, keeps only rows whose speaker appears
	// in the set. Applied before ExcludeSpeakers.
	AllowSpeakers map[string]struct{}
	// ExcludeSpeakers drops rows whose upper-cased speaker appears in the
	// set; the set's keys are therefore expected in upper case, which
	// makes the match case-insensitive. Supplements the spec's allow-list with the
	// deny-list convenience original_source/Takeo.py exposes as
	// omit_rotulo (see SPEC_FULL.md "Supplemented Features").
	ExcludeSpeakers map[string]struct{}
}

func (f Filter) keep(speaker string) bool {
	if len(f.AllowSpeakers) > 0 {
		if _, ok := f.AllowSpeakers[speaker]; !ok {
			return false
		}
	}
	if len(f.ExcludeSpeakers) > 0 {
		if _, ok := f.ExcludeSpeakers[strings.ToUpper(speaker)]; ok {
			return false
		}
	}
	return true
}

// Options configures normalization.
type Options struct {
	Filter           Filter
	FrameRate        int
	MaxDialogueChars int
}

// Result is the output of Normalize: interventions grouped by scene, in
// first-appearance scene order, plus any recovered warnings.
type Result struct {
	SceneOrder []string
	ByScene    map[string][]model.Intervention
	Warnings   []Warning
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.C, r) {
			return -1
		}
		return r
	}, s)
}

// Normalize validates, filters, parses, splits, cleans, and sorts rows
// into per-scene intervention lists. Required columns are assumed present
// on model.InputRow by construction; the present parameter exists to let a
// caller driven by dynamically-typed tabular data (the I/O collaborator)
// report ErrMissingColumn before ever constructing a model.InputRow, so
// Normalize takes the set of column names actually present and checks it
// against the schema.
func Normalize(rows []model.InputRow, present map[string]bool, opts Options) (Result, error) {
	required := []string{"IN", "OUT", "PERSONAJE", "DIÁLOGO", "SCENE"}
	for _, col := range required {
		if present != nil && !present[col] {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	res := Result{ByScene: make(map[string][]model.Intervention)}
	if len(rows) == 0 {
		return res, nil
	}

	parser := timecode.New(opts.FrameRate)
	maxChars := opts.MaxDialogueChars

	var all []model.Intervention
	for _, row := range rows {
		if !opts.Filter.keep(row.Speaker) {
			continue
		}

		in, ok := parser.Parse(row.In)
		if !ok {
			res.Warnings = append(res.Warnings, Warning{
				Kind:    "MalformedTimecode",
				Row:     row,
				Message: fmt.Sprintf("malformed IN time-code %q, treated as zero", row.In),
			})
		}
		out, ok := parser.Parse(row.Out)
		if !ok {
			res.Warnings = append(res.Warnings, Warning{
				Kind:    "MalformedTimecode",
				Row:     row,
				Message: fmt.Sprintf("malformed OUT time-code %q, treated as zero", row.Out),
			})
		}
		duration := out - in

		speaker := stripControl(row.Speaker)
		scene := row.Scene

		lines := dialogue.Split(stripControl(row.Dialogue), maxChars)
		for _, line := range lines {
			all = append(all, model.Intervention{
				In:       in,
				Out:      out,
				InRaw:    row.In,
				OutRaw:   row.Out,
				Duration: duration,
				Speaker:  speaker,
				Dialogue: line,
				Scene:    scene,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].In != all[j].In {
			return all[i].In < all[j].In
		}
		return all[i].Out < all[j].Out
	})

	for _, iv := range all {
		if _, seen := res.ByScene[iv.Scene]; !seen {
			res.SceneOrder = append(res.SceneOrder, iv.Scene)
		}
		res.ByScene[iv.Scene] = append(res.ByScene[iv.Scene], iv)
	}

	return res, nil
}
