package decoder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsource/types"
)

type dummyDecoder struct{ streamID string }

func (d *dummyDecoder) String() string { return "dummy" }
func (d *dummyDecoder) Create(context.Context, *types.VideoInfo, *ExtraInfo) error {
	return nil
}
func (d *dummyDecoder) Process(context.Context, *types.VideoEsPacket) error { return nil }
func (d *dummyDecoder) Destroy(context.Context) error                       { return nil }

func TestVariantFactory(t *testing.T) {
	ctx := context.Background()
	f := VariantFactory{
		types.DecoderTypeSoftware: func(_ context.Context, streamID string, _ Result) (Decoder, error) {
			return &dummyDecoder{streamID: streamID}, nil
		},
	}

	d, err := f.NewDecoder(ctx, types.DecoderTypeSoftware, "cam0", nil)
	require.NoError(t, err)
	require.Equal(t, "cam0", d.(*dummyDecoder).streamID)

	_, err = f.NewDecoder(ctx, types.DecoderTypeHardware, "cam0", nil)
	require.ErrorIs(t, err, ErrUnsupportedDecoderType)
}

func TestDecodeFrameReleaseNil(t *testing.T) {
	var f *DecodeFrame
	f.Release()
	require.Equal(t, "DecodeFrame(nil)", f.String())
	(&DecodeFrame{}).Release()
}
