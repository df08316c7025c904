package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsource/param"
	"github.com/xaionaro-go/avsource/types"
)

func TestDefaultSourceParam(t *testing.T) {
	p := DefaultSourceParam()
	require.Equal(t, SourceParam{
		DecoderType:        types.DecoderTypeSoftware,
		DeviceID:           -1,
		InputBufNumber:     2,
		OutputBufNumber:    3,
		Interval:           1,
		HardwareDeviceType: types.HardwareDeviceTypeNone,
		Demuxer:            DemuxerTypeLibav,
	}, p)
}

func TestParseSourceParam(t *testing.T) {
	ctx := testCtx(t)

	for _, tc := range []struct {
		value    string
		expected types.DecoderType
	}{
		{"cpu", types.DecoderTypeSoftware},
		{"software", types.DecoderTypeSoftware},
		{"mlu", types.DecoderTypeHardware},
		{"HW", types.DecoderTypeHardware},
	} {
		t.Run("decoder_type="+tc.value, func(t *testing.T) {
			p, err := ParseSourceParam(ctx, param.Raw{"decoder_type": tc.value})
			require.NoError(t, err)
			require.Equal(t, tc.expected, p.DecoderType)
		})
	}

	p, err := ParseSourceParam(ctx, param.Raw{
		"only_key_frame":         "true",
		"apply_stride_align":     "1",
		"reset_interval_on_loop": "true",
		"hw_device_type":         "vaapi",
		"hw_device_name":         "/dev/dri/renderD128",
		"input_buf_number":       "8",
		"output_buf_number":      "16",
	})
	require.NoError(t, err)
	require.True(t, p.OnlyKeyFrame)
	require.True(t, p.ApplyStrideAlign)
	require.True(t, p.ResetIntervalOnLoop)
	require.Equal(t, types.HardwareDeviceTypeVAAPI, p.HardwareDeviceType)
	require.Equal(t, types.HardwareDeviceName("/dev/dri/renderD128"), p.HardwareDeviceName)
	require.Equal(t, uint32(8), p.InputBufNumber)
	require.Equal(t, uint32(16), p.OutputBufNumber)

	for name, raw := range map[string]param.Raw{
		"zero_interval":      {"interval": "0"},
		"negative_interval":  {"interval": "-3"},
		"unknown_decoder":    {"decoder_type": "gpu"},
		"unknown_hw_device":  {"hw_device_type": "tpu"},
		"unknown_demuxer":    {"demuxer": "ogg"},
		"malformed_bool":     {"only_key_frame": "maybe"},
		"malformed_deviceid": {"device_id": "first"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSourceParam(ctx, raw)
			var errParam param.ErrParam
			require.ErrorAs(t, err, &errParam)
			for key := range raw {
				require.Equal(t, key, errParam.Name)
			}
		})
	}

	_, err = ParseSourceParam(ctx, param.Raw{"intervall": "2"})
	require.ErrorIs(t, err, param.ErrUnknownParam)

	_, err = ParseSourceParam(ctx, param.Raw{param.PassthroughKey: "/tmp"})
	require.NoError(t, err)
}

func TestSourceParamDescriptions(t *testing.T) {
	descs := SourceParamDescriptions()
	require.Len(t, descs, 11)
	names := map[string]string{}
	for _, desc := range descs {
		names[desc.Name] = desc.Text
	}
	require.Contains(t, names, "interval")
	require.Contains(t, names, "decoder_type")
	require.True(t, strings.HasSuffix(names["interval"], "--- type : [uint32] --- default value : [1]"), names["interval"])
	require.NotContains(t, names, param.PassthroughKey)
}
