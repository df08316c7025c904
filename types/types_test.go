package types

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRationalFromString(t *testing.T) {
	r, err := RationalFromString("30000/1001")
	require.NoError(t, err)
	require.Equal(t, Rational{Num: 30000, Den: 1001}, *r)
	require.InDelta(t, 29.97, r.Float64(), 0.001)

	r, err = RationalFromString("25")
	require.NoError(t, err)
	require.Equal(t, Rational{Num: 25, Den: 1}, *r)

	r, err = RationalFromString("12.5")
	require.NoError(t, err)
	require.InDelta(t, 12.5, r.Float64(), 1e-9)

	_, err = RationalFromString("1/0")
	require.Error(t, err)
	_, err = RationalFromString("")
	require.Error(t, err)
}

func TestHardwareDeviceTypeFromString(t *testing.T) {
	for hwt := range endOfHardwareDeviceType {
		require.Equal(t, hwt, HardwareDeviceTypeFromString(hwt.String()))
	}
	require.Equal(t, HardwareDeviceTypeCUDA, HardwareDeviceTypeFromString(" CUDA\n"))
	require.Equal(t, HardwareDeviceType(-1), HardwareDeviceTypeFromString("mlu370"))
}

func TestDecoderTypeYAML(t *testing.T) {
	var cfg struct {
		Decoder  DecoderType        `yaml:"decoder"`
		Hardware HardwareDeviceType `yaml:"hardware"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("decoder: mlu\nhardware: vaapi\n"), &cfg))
	require.Equal(t, DecoderTypeHardware, cfg.Decoder)
	require.Equal(t, HardwareDeviceTypeVAAPI, cfg.Hardware)

	b, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.Equal(t, "decoder: hardware\nhardware: vaapi\n", string(b))

	require.Error(t, yaml.Unmarshal([]byte("decoder: gpu9000\n"), &cfg))
}

func TestStreamIndex(t *testing.T) {
	require.False(t, InvalidStreamIndex.IsValid())
	require.Equal(t, "invalid", InvalidStreamIndex.String())
	require.True(t, StreamIndex(0).IsValid())
	require.Equal(t, "3", StreamIndex(3).String())
}
