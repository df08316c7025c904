package libav

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/types"
)

type dummyResult struct {
	errors []decoder.ErrorCode
	frames []*decoder.DecodeFrame
	eos    int
}

func (r *dummyResult) OnDecodeError(_ context.Context, code decoder.ErrorCode) {
	r.errors = append(r.errors, code)
}

func (r *dummyResult) OnDecodeFrame(_ context.Context, f *decoder.DecodeFrame) {
	r.frames = append(r.frames, f)
}

func (r *dummyResult) OnDecodeEOS(context.Context) {
	r.eos++
}

func TestNewValidatesVariant(t *testing.T) {
	_, err := New(types.UndefinedDecoderType, "s0", &dummyResult{})
	require.ErrorIs(t, err, decoder.ErrUnsupportedDecoderType)

	_, err = New(types.DecoderTypeSoftware, "s0", nil)
	require.Error(t, err)

	d, err := New(types.DecoderTypeHardware, "s0", &dummyResult{})
	require.NoError(t, err)
	require.Equal(t, "LibavDecoder(hardware)", d.String())
}

func TestNotCreated(t *testing.T) {
	ctx := context.Background()
	result := &dummyResult{}
	d, err := New(types.DecoderTypeSoftware, "s0", result)
	require.NoError(t, err)

	require.ErrorIs(t, d.Process(ctx, &types.VideoEsPacket{Data: []byte{0}, IsKey: true}), decoder.ErrNotCreated)
	require.ErrorIs(t, d.Process(ctx, nil), decoder.ErrNotCreated)
	require.Zero(t, result.eos)

	require.NoError(t, d.Destroy(ctx))
	require.NoError(t, d.Destroy(ctx))
}

func TestCreateRejects(t *testing.T) {
	ctx := context.Background()
	d, err := New(types.DecoderTypeSoftware, "s0", &dummyResult{})
	require.NoError(t, err)

	require.Error(t, d.Create(ctx, nil, nil))
	require.ErrorIs(t, d.Create(ctx, &types.VideoInfo{Codec: types.UndefinedCodecType}, nil), ErrUnsupportedCodec)
	require.ErrorIs(t, d.Create(ctx, &types.VideoInfo{
		Codec: types.CodecTypeH264, Width: 7681, Height: 100,
	}, &decoder.ExtraInfo{MaxWidth: 7680, MaxHeight: 4320}), ErrResolutionTooHigh)

	require.ErrorIs(t, d.Process(ctx, nil), decoder.ErrNotCreated)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()
	f := NewFactory()

	d, err := f.NewDecoder(ctx, types.DecoderTypeSoftware, "s0", &dummyResult{})
	require.NoError(t, err)
	require.IsType(t, &Decoder{}, d)

	_, err = f.NewDecoder(ctx, types.UndefinedDecoderType, "s0", &dummyResult{})
	require.ErrorIs(t, err, decoder.ErrUnsupportedDecoderType)
}
