package transcript

import (
	"strings"
	"testing"

	"github.com/stableperu/takeo/internal/model"
	"github.com/stretchr/testify/require"
)

func iv(inRaw, outRaw, speaker, dialogue string) model.Intervention {
	return model.Intervention{InRaw: inRaw, OutRaw: outRaw, Speaker: speaker, Dialogue: dialogue}
}

func TestRenderHeaderIsUppercasedFilename(t *testing.T) {
	out := Render("scene1.xlsx", nil)
	require.True(t, strings.HasPrefix(out, "SCENE1.XLSX\n\n"))
}

func TestRenderTakeHeaderAndBounds(t *testing.T) {
	takes := []model.Take{
		{
			Number: 1,
			Interventions: []model.Intervention{
				iv("00:00:01:00", "00:00:02:00", "A", "hello"),
			},
		},
	}
	out := Render("f", takes)
	require.Contains(t, out, "TAKE 1\n")
	require.Contains(t, out, "00 00 01 00\n")
	require.Contains(t, out, "00 00 02 00\n")
	require.Contains(t, out, "A:\thello\n")
}

func TestRenderMergesConsecutiveSameSpeaker(t *testing.T) {
	takes := []model.Take{
		{
			Number: 1,
			Interventions: []model.Intervention{
				iv("00:00:01:00", "00:00:02:00", "A", "one"),
				iv("00:00:02:00", "00:00:03:00", "A", "two"),
				iv("00:00:03:00", "00:00:04:00", "B", "three"),
			},
		},
	}
	out := Render("f", takes)
	require.Contains(t, out, "A:\tone two\n")
	require.Contains(t, out, "B:\tthree\n")
	require.NotContains(t, out, "A:\tone\n")
}

func TestRenderFlattensEmbeddedNewlinesToSpaces(t *testing.T) {
	takes := []model.Take{
		{
			Number: 1,
			Interventions: []model.Intervention{
				iv("00:00:01:00", "00:00:02:00", "A", "line one\nline two"),
			},
		},
	}
	out := Render("f", takes)
	require.Contains(t, out, "A:\tline one line two\n")
}

func TestRenderNormalizesCurlyQuotes(t *testing.T) {
	takes := []model.Take{
		{
			Number: 1,
			Interventions: []model.Intervention{
				iv("00:00:01:00", "00:00:02:00", "A", "“hi”"),
			},
		},
	}
	out := Render("f", takes)
	require.Contains(t, out, `A:	"hi"`)
}

func TestRenderBlankLineSeparatesTakes(t *testing.T) {
	takes := []model.Take{
		{Number: 1, Interventions: []model.Intervention{iv("1", "2", "A", "x")}},
		{Number: 2, Interventions: []model.Intervention{iv("3", "4", "B", "y")}},
	}
	out := Render("f", takes)
	require.Contains(t, out, "TAKE 1\n")
	require.Contains(t, out, "TAKE 2\n")
	require.True(t, strings.Index(out, "TAKE 1") < strings.Index(out, "TAKE 2"))
	require.Contains(t, out, "2\n\nTAKE 2\n")
}

func TestRenderContinuationsEmitsPrefixedLines(t *testing.T) {
	take := model.Take{
		Number: 3,
		Interventions: []model.Intervention{
			iv("1", "2", "A", "first line\nsecond line"),
		},
	}
	out := RenderContinuations(take)
	require.Contains(t, out, "TAKE 3\n")
	require.Contains(t, out, "A:\tfirst line\n")
	require.Contains(t, out, "    << second line\n")
}

func TestRenderContinuationsDoesNotMergeSpeakers(t *testing.T) {
	take := model.Take{
		Number: 1,
		Interventions: []model.Intervention{
			iv("1", "2", "A", "one"),
			iv("2", "3", "A", "two"),
		},
	}
	out := RenderContinuations(take)
	require.Contains(t, out, "A:\tone\n")
	require.Contains(t, out, "A:\ttwo\n")
}

func TestRenderEmptyTakeProducesNoDialogueLines(t *testing.T) {
	takes := []model.Take{{Number: 1}}
	out := Render("f", takes)
	require.Contains(t, out, "TAKE 1\n")
	require.NotContains(t, out, ":\t")
}
