// Package avconv converts between libav (astiav) values and the module's own types.
package avconv

import (
	"math"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/types"
)

const (
	// see https://ffmpeg.org/doxygen/trunk/group__lavu__time.html#ga2eaefe702f95f619ea6f2d08afa01be1
	avNoPTSValue = uint64(0x8000000000000000)
)

const (
	NoDuration = time.Duration(math.MinInt64)
)

func Duration(t int64, timeBase types.Rational) time.Duration {
	if uint64(t) == avNoPTSValue || timeBase.IsZero() {
		return NoDuration
	}
	return time.Duration(float64(t) * timeBase.Float64() * float64(time.Second))
}

func Rational(r astiav.Rational) types.Rational {
	return types.Rational{Num: r.Num(), Den: r.Den()}
}

func AstiavRational(r types.Rational) astiav.Rational {
	return astiav.NewRational(r.Num, r.Den)
}
