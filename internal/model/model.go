// Package model defines the data types shared by every stage of the take
// partitioner: interventions, the indivisible blocks they group into,
// scenes, and the takes the partitioner ultimately produces.
package model

// Seconds is a duration or time instant expressed as fractional seconds,
// as produced by the time-code parser (hh:mm:ss[:ff] at a configurable
// frame rate).
type Seconds float64

// Intervention is a single spoken (or labeled) line after dialogue
// splitting. It is immutable once constructed.
type Intervention struct {
	In, Out       Seconds
	InRaw, OutRaw string
	Duration      Seconds
	Speaker       string
	Dialogue      string
	Scene         string
}

// Block is an ordered, non-empty group of interventions sharing an
// identical (In, Out) pair within one scene. Blocks are indivisible: any
// take containing one intervention of a block contains all of them.
type Block struct {
	Interventions []Intervention
}

// In returns the block's shared in-point.
func (b Block) In() Seconds { return b.Interventions[0].In }

// Out returns the block's shared out-point.
func (b Block) Out() Seconds { return b.Interventions[0].Out }

// Len reports how many interventions the block carries.
func (b Block) Len() int { return len(b.Interventions) }

// InputRow is a single row of the spreadsheet supplied by the I/O
// collaborator, per SPEC_FULL.md §6. It has no TAKE or DURACIÓN field, so
// those input columns are not read: take numbers are assigned by the
// partitioner and duration is always recomputed.
type InputRow struct {
	In       string
	Out      string
	Speaker  string
	Dialogue string
	Scene    string
}

// OutputRow is a single annotated row of the partitioner's result, per
// SPEC_FULL.md §6.
type OutputRow struct {
	Take     int
	In       string
	Out      string
	Speaker  string
	Dialogue string
	Duration float64
	Scene    string
}

// SpeakerSummary reports the number of distinct takes a speaker appears
// in.
type SpeakerSummary struct {
	Speaker    string
	TotalTakes int
}

// Scene is an ordered sequence of blocks sharing a scene identifier.
type Scene struct {
	ID     string
	Blocks []Block
}

// Take is a contiguous, non-empty run of blocks from a single scene,
// numbered globally once every scene has been partitioned.
type Take struct {
	Number        int
	Scene         string
	In, Out       Seconds
	Interventions []Intervention
}

// Speakers returns the set of distinct speakers appearing in the take.
func (t Take) Speakers() map[string]struct{} {
	out := make(map[string]struct{}, len(t.Interventions))
	for _, iv := range t.Interventions {
		out[iv.Speaker] = struct{}{}
	}
	return out
}
