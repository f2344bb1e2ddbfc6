// Package assemble concatenates per-scene partitions into the final take
// list: assigning globally unique take numbers in scene order, then
// intra-scene order, and computing the per-speaker summary. Grounded on
// original_source/Takeo.py's asignar_takes_optimizado (the take_global_id
// loop) and calcular_total_takes_por_personaje, per SPEC_FULL.md §4.6.
package assemble

import (
	"sort"

	"github.com/stableperu/takeo/internal/model"
	"github.com/stableperu/takeo/internal/partition"
)

// Summary is the result of assembling one or more scenes' partitions.
type Summary struct {
	Takes      []model.Take
	Rows       []model.OutputRow
	BySpeaker  []model.SpeakerSummary
	GrandTotal int
}

// Assemble numbers the takes from scenePartitions (which must already be
// in scene order) starting at 1, and builds the flat row list and
// per-speaker summary described in SPEC_FULL.md §6.
func Assemble(scenePartitions []partition.Result) Summary {
	var takes []model.Take
	number := 1
	for _, sp := range scenePartitions {
		for _, t := range sp.Takes {
			takes = append(takes, model.Take{
				Number:        number,
				Scene:         t.Scene,
				In:            firstIn(t.Interventions),
				Out:           lastOut(t.Interventions),
				Interventions: t.Interventions,
			})
			number++
		}
	}

	var rows []model.OutputRow
	takesBySpeaker := make(map[string]map[int]struct{})
	for _, t := range takes {
		for _, iv := range t.Interventions {
			rows = append(rows, model.OutputRow{
				Take:     t.Number,
				In:       iv.InRaw,
				Out:      iv.OutRaw,
				Speaker:  iv.Speaker,
				Dialogue: iv.Dialogue,
				Duration: float64(iv.Duration),
				Scene:    iv.Scene,
			})

			if takesBySpeaker[iv.Speaker] == nil {
				takesBySpeaker[iv.Speaker] = make(map[int]struct{})
			}
			takesBySpeaker[iv.Speaker][t.Number] = struct{}{}
		}
	}

	speakers := make([]string, 0, len(takesBySpeaker))
	for s := range takesBySpeaker {
		speakers = append(speakers, s)
	}
	sort.Strings(speakers)

	var summary []model.SpeakerSummary
	grandTotal := 0
	for _, s := range speakers {
		n := len(takesBySpeaker[s])
		summary = append(summary, model.SpeakerSummary{Speaker: s, TotalTakes: n})
		grandTotal += n
	}

	return Summary{
		Takes:      takes,
		Rows:       rows,
		BySpeaker:  summary,
		GrandTotal: grandTotal,
	}
}

func firstIn(ivs []model.Intervention) model.Seconds {
	if len(ivs) == 0 {
		return 0
	}
	return ivs[0].In
}

func lastOut(ivs []model.Intervention) model.Seconds {
	if len(ivs) == 0 {
		return 0
	}
	return ivs[len(ivs)-1].Out
}
