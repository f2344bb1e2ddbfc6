// Package partition implements the take partitioner: the constraint-aware
// dynamic-programming optimizer that splits a scene's block sequence into
// contiguous, valid takes minimizing a two-tier cost. This is the core of
// the system; see SPEC_FULL.md §4.5.
//
// Grounded on original_source/Takeo.py's optimizar_takes_escena, which
// memoizes a top-down recursion with functools.lru_cache. Per the design
// notes, this implementation instead fills the table bottom-up to avoid
// unbounded recursion depth on large scenes, and distinguishes monotone
// constraints (duration, line count), which may short-circuit the end
// scan with a break, from non-monotone ones (consecutive-speaker runs),
// which must continue scanning past a violation.
package partition

import (
	"context"
	"fmt"

	"github.com/stableperu/takeo/internal/model"
)

// Constraints are the hard per-take limits enforced by the partitioner,
// per SPEC_FULL.md §6.
type Constraints struct {
	MaxDuration          model.Seconds
	MaxLines             int
	MaxConsecutivePerSpk int
	MaxTotalPerSpkInTake int
}

// DefaultConstraints returns the limits named in SPEC_FULL.md §6.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxDuration:          30,
		MaxLines:             10,
		MaxConsecutivePerSpk: 5,
		MaxTotalPerSpkInTake: 5,
	}
}

// Take is a candidate or final contiguous run of blocks produced by the
// partitioner, not yet assigned a global take number.
type Take struct {
	Scene         string
	Blocks        []model.Block
	Interventions []model.Intervention
	Degenerate    bool // true if this take violates a hard constraint (§4.5 infeasibility)
}

// Warning describes a recovered anomaly the caller should log.
type Warning struct {
	Kind    string // "InfeasibleBlock"
	Scene   string
	Message string
}

// Result is the outcome of partitioning a single scene.
type Result struct {
	Scene    string
	Takes    []Take
	Warnings []Warning
}

type cost struct {
	primary, secondary int
}

func (a cost) less(b cost) bool {
	if a.primary != b.primary {
		return a.primary < b.primary
	}
	return a.secondary < b.secondary
}

var infiniteCost = cost{primary: 1 << 30, secondary: 1 << 30}

type dpEntry struct {
	end int // end index (exclusive) of the best first take starting at this position
	c   cost
}

// Partition computes the optimal take partition for a single scene's block
// sequence. blocks must already be sorted by (In, Out) and grouped per
// SPEC_FULL.md §4.4. ctx is checked for cancellation before each position
// of the outer scan (whose inner end scan is bounded by MaxLines), per §5;
// a cancelled context returns promptly without a partial result.
func Partition(ctx context.Context, sceneID string, blocks []model.Block, c Constraints) (Result, error) {
	n := len(blocks)
	if n == 0 {
		return Result{Scene: sceneID}, nil
	}

	dp := make([]dpEntry, n+1)
	dp[n] = dpEntry{end: n, c: cost{0, 0}}

	var warnings []Warning

	for pos := n - 1; pos >= 0; pos-- {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("partition: cancelled: %w", err)
		}

		best := dpEntry{c: infiniteCost}
		foundValid := false

		totals := make(map[string]int)
		consecSpeaker := ""
		consecLen := 0
		distinct := make(map[string]struct{})
		takeLen := 0

		for end := pos + 1; end <= n; end++ {
			b := blocks[end-1]
			takeLen += b.Len()
			if takeLen > c.MaxLines {
				break
			}

			duration := b.Out() - blocks[pos].In()
			if duration > c.MaxDuration {
				break
			}

			valid := true
			for _, iv := range b.Interventions {
				totals[iv.Speaker]++
				distinct[iv.Speaker] = struct{}{}
				if iv.Speaker == consecSpeaker {
					consecLen++
				} else {
					consecSpeaker = iv.Speaker
					consecLen = 1
				}
				if totals[iv.Speaker] > c.MaxTotalPerSpkInTake {
					valid = false
				}
				if consecLen > c.MaxConsecutivePerSpk {
					valid = false
				}
			}
			if !valid {
				continue
			}

			rest := dp[end]
			candidate := cost{
				primary:   rest.c.primary + len(distinct),
				secondary: rest.c.secondary + 1,
			}

			if !foundValid || candidate.less(best.c) {
				foundValid = true
				best = dpEntry{end: end, c: candidate}
			}
		}

		if !foundValid {
			// The single block at pos already violates a hard constraint
			// (§4.5 infeasibility). Emit it as a degenerate take on its
			// own and continue partitioning from pos+1.
			warnings = append(warnings, Warning{
				Kind:    "InfeasibleBlock",
				Scene:   sceneID,
				Message: fmt.Sprintf("block at position %d violates take constraints; emitted as a degenerate take", pos),
			})
			rest := dp[pos+1]
			distinctInBlock := make(map[string]struct{})
			for _, iv := range blocks[pos].Interventions {
				distinctInBlock[iv.Speaker] = struct{}{}
			}
			best = dpEntry{
				end: pos + 1,
				c: cost{
					primary:   rest.c.primary + len(distinctInBlock),
					secondary: rest.c.secondary + 1,
				},
			}
		}

		dp[pos] = best
	}

	var takes []Take
	for pos := 0; pos < n; {
		end := dp[pos].end
		takeBlocks := blocks[pos:end]
		var ivs []model.Intervention
		for _, b := range takeBlocks {
			ivs = append(ivs, b.Interventions...)
		}
		takes = append(takes, Take{
			Scene:         sceneID,
			Blocks:        takeBlocks,
			Interventions: ivs,
			Degenerate:    !isValidTake(ivs, c),
		})
		pos = end
	}

	return Result{Scene: sceneID, Takes: takes, Warnings: warnings}, nil
}

// isValidTake re-derives whether a fully materialized take satisfies every
// hard constraint. It exists so Take.Degenerate can be computed once after
// assembly without threading the flag through the DP loop above.
func isValidTake(ivs []model.Intervention, c Constraints) bool {
	if len(ivs) == 0 {
		return true
	}
	if len(ivs) > c.MaxLines {
		return false
	}
	if ivs[len(ivs)-1].Out-ivs[0].In > c.MaxDuration {
		return false
	}

	totals := make(map[string]int)
	consecSpeaker := ""
	consecLen := 0
	for _, iv := range ivs {
		totals[iv.Speaker]++
		if totals[iv.Speaker] > c.MaxTotalPerSpkInTake {
			return false
		}
		if iv.Speaker == consecSpeaker {
			consecLen++
		} else {
			consecSpeaker = iv.Speaker
			consecLen = 1
		}
		if consecLen > c.MaxConsecutivePerSpk {
			return false
		}
	}
	return true
}
