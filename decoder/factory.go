package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avsource/types"
)

// Factory instantiates (but does not Create) a decoder of the requested
// variant bound to the given result receiver.
type Factory interface {
	fmt.Stringer
	NewDecoder(
		ctx context.Context,
		decoderType types.DecoderType,
		streamID string,
		result Result,
	) (Decoder, error)
}

type Constructor func(ctx context.Context, streamID string, result Result) (Decoder, error)

// VariantFactory dispatches on the decoder type.
type VariantFactory map[types.DecoderType]Constructor

var _ Factory = VariantFactory(nil)

func (f VariantFactory) NewDecoder(
	ctx context.Context,
	decoderType types.DecoderType,
	streamID string,
	result Result,
) (Decoder, error) {
	ctor, ok := f[decoderType]
	if !ok || ctor == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDecoderType, decoderType)
	}
	return ctor(ctx, streamID, result)
}

func (f VariantFactory) String() string {
	return fmt.Sprintf("VariantFactory(%d variants)", len(f))
}
