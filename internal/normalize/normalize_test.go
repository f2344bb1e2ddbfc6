package normalize

import (
	"testing"

	"github.com/stableperu/takeo/internal/model"
	"github.com/stretchr/testify/require"
)

func presentAll() map[string]bool {
	return map[string]bool{"IN": true, "OUT": true, "PERSONAJE": true, "DIÁLOGO": true, "SCENE": true}
}

func TestNormalizeMissingColumn(t *testing.T) {
	_, err := Normalize(nil, map[string]bool{"IN": true}, Options{})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestNormalizeEmptyInput(t *testing.T) {
	res, err := Normalize(nil, presentAll(), Options{})
	require.NoError(t, err)
	require.Empty(t, res.SceneOrder)
}

func TestNormalizeSortsAndPartitionsByScene(t *testing.T) {
	rows := []model.InputRow{
		{In: "00:00:05:00", Out: "00:00:06:00", Speaker: "A", Dialogue: "later", Scene: "s2"},
		{In: "00:00:01:00", Out: "00:00:02:00", Speaker: "A", Dialogue: "first", Scene: "s1"},
		{In: "00:00:03:00", Out: "00:00:04:00", Speaker: "B", Dialogue: "second", Scene: "s1"},
	}
	res, err := Normalize(rows, presentAll(), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, res.SceneOrder)
	require.Len(t, res.ByScene["s1"], 2)
	require.Equal(t, "first", res.ByScene["s1"][0].Dialogue)
	require.Equal(t, "second", res.ByScene["s1"][1].Dialogue)
}

func TestNormalizeAllowSpeakerFilter(t *testing.T) {
	rows := []model.InputRow{
		{In: "00:00:01:00", Out: "00:00:02:00", Speaker: "A", Dialogue: "keep", Scene: "s1"},
		{In: "00:00:02:00", Out: "00:00:03:00", Speaker: "B", Dialogue: "drop", Scene: "s1"},
	}
	res, err := Normalize(rows, presentAll(), Options{
		Filter: Filter{AllowSpeakers: map[string]struct{}{"A": {}}},
	})
	require.NoError(t, err)
	require.Len(t, res.ByScene["s1"], 1)
	require.Equal(t, "keep", res.ByScene["s1"][0].Dialogue)
}

func TestNormalizeExcludeSpeakerFilter(t *testing.T) {
	rows := []model.InputRow{
		{In: "00:00:01:00", Out: "00:00:02:00", Speaker: "ROTULO", Dialogue: "caption", Scene: "s1"},
		{In: "00:00:02:00", Out: "00:00:03:00", Speaker: "A", Dialogue: "keep", Scene: "s1"},
	}
	res, err := Normalize(rows, presentAll(), Options{
		Filter: Filter{ExcludeSpeakers: map[string]struct{}{"ROTULO": {}}},
	})
	require.NoError(t, err)
	require.Len(t, res.ByScene["s1"], 1)
	require.Equal(t, "keep", res.ByScene["s1"][0].Dialogue)
}

func TestNormalizeMalformedTimecodeWarns(t *testing.T) {
	rows := []model.InputRow{
		{In: "bad", Out: "00:00:02:00", Speaker: "A", Dialogue: "x", Scene: "s1"},
	}
	res, err := Normalize(rows, presentAll(), Options{})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, "MalformedTimecode", res.Warnings[0].Kind)
	require.Equal(t, model.Seconds(0), res.ByScene["s1"][0].In)
}

func TestNormalizeSplitsDialogueIntoMultipleInterventions(t *testing.T) {
	rows := []model.InputRow{
		{
			In: "00:00:01:00", Out: "00:00:02:00", Speaker: "A",
			Dialogue: "one two three four five six seven eight nine ten eleven twelve",
			Scene:    "s1",
		},
	}
	res, err := Normalize(rows, presentAll(), Options{MaxDialogueChars: 20})
	require.NoError(t, err)
	require.Greater(t, len(res.ByScene["s1"]), 1)
	for _, iv := range res.ByScene["s1"] {
		require.Equal(t, model.Seconds(1), iv.In)
		require.Equal(t, model.Seconds(2), iv.Out)
		require.Equal(t, "A", iv.Speaker)
	}
}

func TestNormalizeStripsControlCharacters(t *testing.T) {
	rows := []model.InputRow{
		{In: "00:00:01:00", Out: "00:00:02:00", Speaker: "A\x00", Dialogue: "hi\x07there", Scene: "s1"},
	}
	res, err := Normalize(rows, presentAll(), Options{})
	require.NoError(t, err)
	require.Equal(t, "A", res.ByScene["s1"][0].Speaker)
	require.Equal(t, "hithere", res.ByScene["s1"][0].Dialogue)
}
