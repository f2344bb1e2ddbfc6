package block

import (
	"testing"

	"github.com/stableperu/takeo/internal/model"
	"github.com/stretchr/testify/require"
)

func iv(in, out model.Seconds, speaker string) model.Intervention {
	return model.Intervention{In: in, Out: out, Speaker: speaker}
}

func TestGroupEmpty(t *testing.T) {
	require.Nil(t, Group(nil))
}

func TestGroupSingleBlock(t *testing.T) {
	ivs := []model.Intervention{
		iv(1, 3, "A"),
		iv(1, 3, "B"),
		iv(1, 3, "C"),
	}
	blocks := Group(ivs)
	require.Len(t, blocks, 1)
	require.Equal(t, 3, blocks[0].Len())
}

func TestGroupMultipleBlocksPreservesOrder(t *testing.T) {
	ivs := []model.Intervention{
		iv(1, 3, "A"),
		iv(1, 3, "B"),
		iv(3, 4, "A"),
		iv(5, 6, "C"),
	}
	blocks := Group(ivs)
	require.Len(t, blocks, 3)
	require.Equal(t, 2, blocks[0].Len())
	require.Equal(t, model.Seconds(1), blocks[0].In())
	require.Equal(t, model.Seconds(3), blocks[0].Out())
	require.Equal(t, 1, blocks[1].Len())
	require.Equal(t, 1, blocks[2].Len())
}
