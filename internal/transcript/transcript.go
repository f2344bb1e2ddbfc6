// Package transcript renders assembled takes as the human-readable
// transcript text format described in SPEC_FULL.md §6, plus the
// supplemented non-accumulated continuation form from
// original_source/Excel_to_Dialog.py's formatear_dialogo.
package transcript

import (
	"fmt"
	"strings"

	"github.com/stableperu/takeo/internal/model"
	"github.com/stableperu/takeo/internal/timecode"
)

var curlyQuoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
)

func flattenDialogue(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = curlyQuoteReplacer.Replace(s)
	return s
}

// Render produces the accumulated transcript text for takes, which must
// already be in final take-number order. filename is rendered uppercased
// on the first line, per SPEC_FULL.md §6.
func Render(filename string, takes []model.Take) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(filename))

	for _, t := range takes {
		fmt.Fprintf(&b, "TAKE %d\n", t.Number)
		if len(t.Interventions) == 0 {
			b.WriteString("\n")
			continue
		}
		b.WriteString(timecode.SpaceSeparated(t.Interventions[0].InRaw))
		b.WriteString("\n")

		for _, line := range mergeConsecutiveSpeakers(t.Interventions) {
			fmt.Fprintf(&b, "%s:\t%s\n", line.speaker, line.dialogue)
		}

		last := t.Interventions[len(t.Interventions)-1]
		b.WriteString(timecode.SpaceSeparated(last.OutRaw))
		b.WriteString("\n\n")
	}

	return b.String()
}

type mergedLine struct {
	speaker  string
	dialogue string
}

// mergeConsecutiveSpeakers merges runs of interventions sharing the same
// speaker into a single printed line, joining their dialogue with single
// spaces and flattening embedded newlines, per SPEC_FULL.md §6.
func mergeConsecutiveSpeakers(ivs []model.Intervention) []mergedLine {
	var out []mergedLine
	for _, iv := range ivs {
		d := flattenDialogue(iv.Dialogue)
		if n := len(out); n > 0 && out[n-1].speaker == iv.Speaker {
			out[n-1].dialogue += " " + d
			continue
		}
		out = append(out, mergedLine{speaker: iv.Speaker, dialogue: d})
	}
	return out
}

// RenderContinuations renders one take's dialogue in the non-accumulated,
// per-take form original_source/Excel_to_Dialog.py produces: an embedded
// newline in a single intervention's dialogue becomes an indented
// "<<"-prefixed continuation line instead of being flattened to a space.
// This does not merge consecutive same-speaker interventions; it exists
// alongside Render, not in place of it.
func RenderContinuations(t model.Take) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TAKE %d\n", t.Number)

	for _, iv := range t.Interventions {
		lines := strings.Split(iv.Dialogue, "\n")
		fmt.Fprintf(&b, "%s:\t%s\n", iv.Speaker, curlyQuoteReplacer.Replace(lines[0]))
		for _, cont := range lines[1:] {
			fmt.Fprintf(&b, "    << %s\n", curlyQuoteReplacer.Replace(cont))
		}
	}

	return b.String()
}
