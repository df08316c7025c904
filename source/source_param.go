package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaionaro-go/avsource/param"
	"github.com/xaionaro-go/avsource/types"
)

type DemuxerType string

const (
	DemuxerTypeLibav = DemuxerType("libav")
	DemuxerTypeMP4   = DemuxerType("mp4")

	// DemuxerTypeAuto uses DemuxerTypeMP4 for local MP4 files and
	// DemuxerTypeLibav for everything else.
	DemuxerTypeAuto = DemuxerType("auto")
)

// SourceParam is the configuration snapshot a handler takes when it is opened.
type SourceParam struct {
	DecoderType        types.DecoderType
	DeviceID           int
	InputBufNumber     uint32
	OutputBufNumber    uint32
	Interval           uint32
	OnlyKeyFrame       bool
	HardwareDeviceType types.HardwareDeviceType
	HardwareDeviceName types.HardwareDeviceName

	// ApplyStrideAlign makes decoded pictures line-aligned for hardware scalers.
	ApplyStrideAlign bool

	// ResetIntervalOnLoop restarts the sampling counter on every loop restart;
	// otherwise the counter carries over between passes.
	ResetIntervalOnLoop bool

	Demuxer DemuxerType
}

func DefaultSourceParam() SourceParam {
	var p SourceParam
	if err := sourceParamManager.ParseBy(context.Background(), param.Raw{}, &p); err != nil {
		panic(err)
	}
	return p
}

// ParseSourceParam validates raw against the source parameter descriptions.
func ParseSourceParam(ctx context.Context, raw param.Raw) (SourceParam, error) {
	var p SourceParam
	err := sourceParamManager.ParseBy(ctx, raw, &p)
	return p, err
}

// SourceParamDescriptions returns the help of every source parameter.
func SourceParamDescriptions() []param.Description {
	return sourceParamManager.Descriptions()
}

var sourceParamManager = newSourceParamManager()

func newSourceParamManager() *param.Manager[SourceParam] {
	m := param.NewManager[SourceParam]()
	err := m.RegisterAll(
		param.Desc[SourceParam]{
			Name:         "decoder_type",
			Description:  "Optional. The decoder variant. These values are accepted: software (cpu), hardware (mlu, hw).",
			DefaultValue: "software",
			Type:         "string",
			Parse: func(value string, out *SourceParam) (err error) {
				out.DecoderType, err = types.DecoderTypeFromString(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "device_id",
			Description:  "Optional. The device ordinal to decode on; a negative value means CPU.",
			DefaultValue: "-1",
			Type:         "int",
			Parse: func(value string, out *SourceParam) (err error) {
				out.DeviceID, err = param.Str2Int(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "input_buf_number",
			Description:  "Optional. The number of input buffers of the decoder.",
			DefaultValue: "2",
			Type:         "uint32",
			Parse: func(value string, out *SourceParam) (err error) {
				out.InputBufNumber, err = param.Str2U32(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "output_buf_number",
			Description:  "Optional. The number of output buffers of the decoder.",
			DefaultValue: "3",
			Type:         "uint32",
			Parse: func(value string, out *SourceParam) (err error) {
				out.OutputBufNumber, err = param.Str2U32(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "interval",
			Description:  "Optional. Forward one decoded frame out of every interval frames.",
			DefaultValue: "1",
			Type:         "uint32",
			Parse: func(value string, out *SourceParam) error {
				v, err := param.Str2U32(value)
				if err != nil {
					return err
				}
				if v == 0 {
					return fmt.Errorf("interval must be positive")
				}
				out.Interval = v
				return nil
			},
		},
		param.Desc[SourceParam]{
			Name:         "only_key_frame",
			Description:  "Optional. Demux key frames only.",
			DefaultValue: "false",
			Type:         "bool",
			Parse: func(value string, out *SourceParam) (err error) {
				out.OnlyKeyFrame, err = param.Str2Bool(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "hw_device_type",
			Description:  "Optional. The libav hardware device type of the hardware decoder, for example cuda or vaapi.",
			DefaultValue: "none",
			Type:         "string",
			Parse: func(value string, out *SourceParam) error {
				t := types.HardwareDeviceTypeFromString(value)
				if t < 0 {
					return fmt.Errorf("unknown hardware device type %q", value)
				}
				out.HardwareDeviceType = t
				return nil
			},
		},
		param.Desc[SourceParam]{
			Name:        "hw_device_name",
			Description: "Optional. The libav hardware device name; the device ordinal is used when empty.",
			Type:        "string",
			Parse: func(value string, out *SourceParam) error {
				out.HardwareDeviceName = types.HardwareDeviceName(value)
				return nil
			},
		},
		param.Desc[SourceParam]{
			Name:         "apply_stride_align",
			Description:  "Optional. Align the lines of decoded pictures for hardware scalers.",
			DefaultValue: "false",
			Type:         "bool",
			Parse: func(value string, out *SourceParam) (err error) {
				out.ApplyStrideAlign, err = param.Str2Bool(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "reset_interval_on_loop",
			Description:  "Optional. Restart the frame sampling counter every time a looped source restarts.",
			DefaultValue: "false",
			Type:         "bool",
			Parse: func(value string, out *SourceParam) (err error) {
				out.ResetIntervalOnLoop, err = param.Str2Bool(value)
				return
			},
		},
		param.Desc[SourceParam]{
			Name:         "demuxer",
			Description:  "Optional. The demuxer. These values are accepted: libav, mp4, auto.",
			DefaultValue: string(DemuxerTypeLibav),
			Type:         "string",
			Parse: func(value string, out *SourceParam) error {
				switch d := DemuxerType(strings.ToLower(value)); d {
				case DemuxerTypeLibav, DemuxerTypeMP4, DemuxerTypeAuto:
					out.Demuxer = d
					return nil
				}
				return fmt.Errorf("unknown demuxer %q", value)
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return m
}
