package libav

import (
	"context"

	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/types"
)

// NewFactory returns a factory of both the software and the hardware
// variants.
func NewFactory() decoder.VariantFactory {
	return decoder.VariantFactory{
		types.DecoderTypeSoftware: constructor(types.DecoderTypeSoftware),
		types.DecoderTypeHardware: constructor(types.DecoderTypeHardware),
	}
}

func constructor(variant types.DecoderType) decoder.Constructor {
	return func(ctx context.Context, streamID string, result decoder.Result) (decoder.Decoder, error) {
		return New(variant, streamID, result)
	}
}
