package avconv

import (
	"math"
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsource/types"
)

func TestCodecIDRoundTrip(t *testing.T) {
	for c := types.CodecTypeH264; c <= types.CodecTypeAV1; c++ {
		id := CodecID(c)
		require.NotEqual(t, astiav.CodecIDNone, id, c.String())
		require.Equal(t, c, CodecType(id))
	}
	require.Equal(t, astiav.CodecIDNone, CodecID(types.UndefinedCodecType))
	require.Equal(t, types.UndefinedCodecType, CodecType(astiav.CodecIDNone))
}

func TestDuration(t *testing.T) {
	require.Equal(t, 2*time.Second, Duration(180000, types.Rational{Num: 1, Den: 90000}))
	require.Equal(t, NoDuration, Duration(1, types.Rational{}))
	require.Equal(t, NoDuration, Duration(math.MinInt64, types.Rational{Num: 1, Den: 1000}))
}
