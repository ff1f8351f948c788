package unparse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"nitro-core-dx/internal/bmsparse"
)

func TestMergeMessagesCombinesDisjointPairs(t *testing.T) {
	require.Equal(t, "00002344", mergeMessages([]string{"00002300", "00000044"}))
}

func TestMergeMessagesDifferentLengthsUsesLCM(t *testing.T) {
	// 2 pairs vs 3 pairs -> lcm(2,3) = 6 slots.
	got := mergeMessages([]string{"0100", "000200"})
	require.Len(t, got, 12)
}

func TestUnparseRoundTripsBasicChart(t *testing.T) {
	src := "#BPM 120\n#WAV01 a.wav\n#WAV02 b.wav\n#00111:0102\n#00211:0201\n"
	out := bmsparse.ParseBMS(src, nil)
	require.NoError(t, out.Err)

	rendered := Render(Unparse(out.Source))
	again := bmsparse.ParseBMS(rendered, nil)
	require.NoError(t, again.Err, "rendered:\n%s", rendered)

	require.Len(t, again.Model.WAV.Notes, len(out.Model.WAV.Notes))
	require.Equal(t, 0, again.Model.BPM.InitialBPM.Cmp(out.Model.BPM.InitialBPM))
}

func TestUnparseMergesSameTrackChannelMessages(t *testing.T) {
	src := "#WAV01 a.wav\n#WAV02 b.wav\n#00111:0100\n#00111:0002\n"
	out := bmsparse.ParseBMS(src, nil)
	require.NoError(t, out.Err)

	rendered := Render(Unparse(out.Source))
	require.Equal(t, 1, strings.Count(rendered, "#00111:"), "rendered:\n%s", rendered)
}

func TestUnparseEmitsDefsBeforeMessages(t *testing.T) {
	src := "#00111:0100\n#WAV01 a.wav\n"
	out := bmsparse.ParseBMS(src, nil)
	require.NoError(t, out.Err)

	rendered := Render(Unparse(out.Source))
	wavIdx := strings.Index(rendered, "#WAV01")
	msgIdx := strings.Index(rendered, "#00111:")
	require.True(t, wavIdx >= 0 && msgIdx >= 0 && wavIdx < msgIdx, "rendered:\n%s", rendered)
}

func TestUnparsePreservesNonCommandLines(t *testing.T) {
	src := "; a comment\n#WAV01 a.wav\n"
	out := bmsparse.ParseBMS(src, nil)
	require.NoError(t, out.Err)

	rendered := Render(Unparse(out.Source))
	require.Contains(t, rendered, "; a comment")
}
