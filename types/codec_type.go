package types

import (
	"fmt"
)

type CodecType int

const (
	UndefinedCodecType = CodecType(iota)
	CodecTypeH264
	CodecTypeHEVC
	CodecTypeMPEG4
	CodecTypeMJPEG
	CodecTypeVP8
	CodecTypeVP9
	CodecTypeAV1
	endOfCodecType
)

func (c CodecType) String() string {
	switch c {
	case UndefinedCodecType:
		return "undefined"
	case CodecTypeH264:
		return "h264"
	case CodecTypeHEVC:
		return "hevc"
	case CodecTypeMPEG4:
		return "mpeg4"
	case CodecTypeMJPEG:
		return "mjpeg"
	case CodecTypeVP8:
		return "vp8"
	case CodecTypeVP9:
		return "vp9"
	case CodecTypeAV1:
		return "av1"
	}
	return fmt.Sprintf("unknown_%d", int(c))
}

func CodecTypeFromString(s string) CodecType {
	for candidate := range endOfCodecType {
		if candidate.String() == s {
			return candidate
		}
	}
	return UndefinedCodecType
}
