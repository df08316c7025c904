// Package decoder defines the decoder boundary of a source handler: a
// polymorphic Decoder (software or hardware) that reports decoded pictures
// through Result callbacks, possibly from a goroutine of its own.
package decoder

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avsource/types"
)

var (
	ErrNotCreated             = errors.New("decoder is not created")
	ErrUnsupportedDecoderType = errors.New("unsupported decoder type")
	ErrAlreadyCreated         = errors.New("decoder is already created")
)

type ErrorCode int

const (
	ErrorCodeUnknown = ErrorCode(iota)
	ErrorCodeFrameLost
	ErrorCodeNotSupported
	ErrorCodeOutOfMemory
	ErrorCodeDecodeFailed
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeUnknown:
		return "unknown"
	case ErrorCodeFrameLost:
		return "frame_lost"
	case ErrorCodeNotSupported:
		return "not_supported"
	case ErrorCodeOutOfMemory:
		return "out_of_memory"
	case ErrorCodeDecodeFailed:
		return "decode_failed"
	}
	return fmt.Sprintf("unknown_%d", int(c))
}

// Result receives the output of a Decoder.
type Result interface {
	OnDecodeError(ctx context.Context, code ErrorCode)

	// OnDecodeFrame takes the ownership of the frame; nil frames may be
	// reported and are ignored by consumers.
	OnDecodeFrame(ctx context.Context, frame *DecodeFrame)

	// OnDecodeEOS is called after the decoder is drained by Process(nil).
	OnDecodeEOS(ctx context.Context)
}

// ExtraInfo is the device and buffer configuration a decoder is created with.
type ExtraInfo struct {
	DeviceID           int
	HardwareDeviceType types.HardwareDeviceType
	HardwareDeviceName types.HardwareDeviceName
	InputBufNumber     uint32
	OutputBufNumber    uint32

	// ApplyStrideAlign asks the decoder to align output lines for a
	// hardware scaler.
	ApplyStrideAlign bool

	MaxWidth  int
	MaxHeight int
}

type Decoder interface {
	fmt.Stringer

	Create(ctx context.Context, info *types.VideoInfo, extra *ExtraInfo) error

	// Process feeds one encoded packet; nil flushes the decoder and ends
	// with Result.OnDecodeEOS.
	Process(ctx context.Context, pkt *types.VideoEsPacket) error

	// Destroy is idempotent.
	Destroy(ctx context.Context) error
}
