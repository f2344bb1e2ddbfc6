// Package block groups a scene's sorted interventions into indivisible
// blocks: maximal runs sharing an identical (In, Out) pair. Grounded on
// original_source/Takeo.py's use of itertools.groupby over
// (in_td, out_td), per SPEC_FULL.md §4.4.
package block

import "github.com/stableperu/takeo/internal/model"

// Group splits a scene's sorted intervention list into blocks. interventions
// must already be sorted by (In, Out); Group performs a single pass and
// starts a new block whenever (In, Out) differs from the previous
// intervention's.
func Group(interventions []model.Intervention) []model.Block {
	if len(interventions) == 0 {
		return nil
	}

	blocks := []model.Block{{Interventions: []model.Intervention{interventions[0]}}}
	for _, iv := range interventions[1:] {
		last := &blocks[len(blocks)-1]
		prev := last.Interventions[0]
		if iv.In == prev.In && iv.Out == prev.Out {
			last.Interventions = append(last.Interventions, iv)
		} else {
			blocks = append(blocks, model.Block{Interventions: []model.Intervention{iv}})
		}
	}

	return blocks
}
