package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/types"
)

var codecIDs = map[types.CodecType]astiav.CodecID{
	types.CodecTypeH264:  astiav.CodecIDH264,
	types.CodecTypeHEVC:  astiav.CodecIDHevc,
	types.CodecTypeMPEG4: astiav.CodecIDMpeg4,
	types.CodecTypeMJPEG: astiav.CodecIDMjpeg,
	types.CodecTypeVP8:   astiav.CodecIDVp8,
	types.CodecTypeVP9:   astiav.CodecIDVp9,
	types.CodecTypeAV1:   astiav.CodecIDAv1,
}

// CodecID returns astiav.CodecIDNone for codecs unknown to the module.
func CodecID(c types.CodecType) astiav.CodecID {
	if id, ok := codecIDs[c]; ok {
		return id
	}
	return astiav.CodecIDNone
}

func CodecType(id astiav.CodecID) types.CodecType {
	for c, candidate := range codecIDs {
		if candidate == id {
			return c
		}
	}
	return types.UndefinedCodecType
}
