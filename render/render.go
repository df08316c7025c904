// Package render converts a decoded picture into the buffer of a FrameInfo.
package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/logger"
)

const (
	// StrideAlign is the line alignment expected by hardware scalers.
	StrideAlign = 64

	packedAlign = 1
)

var (
	ErrNoPicture    = errors.New("decoded frame carries no picture")
	ErrEmptyPicture = errors.New("decoded picture is empty")
	ErrNilFrameInfo = errors.New("frame info is nil")
	ErrInvalidFrame = errors.New("decoded frame is marked invalid")
)

type Param struct {
	DeviceID         int
	ApplyStrideAlign bool
}

func (p Param) Align() int {
	if p.ApplyStrideAlign {
		return StrideAlign
	}
	return packedAlign
}

// Process copies the picture of frame into fi and stamps fi with frameID.
// On error fi is left untouched.
func Process(
	ctx context.Context,
	fi *frameinfo.FrameInfo,
	frame *decoder.DecodeFrame,
	frameID uint64,
	param Param,
) (_err error) {
	logger.Tracef(ctx, "Process(%s, %d)", frame, frameID)
	defer func() { logger.Tracef(ctx, "/Process(%s, %d): %v", frame, frameID, _err) }()

	switch {
	case fi == nil:
		return ErrNilFrameInfo
	case frame == nil || frame.Picture == nil:
		return ErrNoPicture
	case !frame.Valid:
		return ErrInvalidFrame
	}

	pic := frame.Picture
	if pic.Width() <= 0 || pic.Height() <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyPicture, pic.Width(), pic.Height())
	}

	align := param.Align()
	data, err := pic.Bytes(align)
	if err != nil {
		return fmt.Errorf("unable to get the picture bytes (align:%d): %w", align, err)
	}
	if len(data) == 0 {
		return ErrEmptyPicture
	}

	fi.FrameID = frameID
	fi.Buffer = &frameinfo.Buffer{
		Width:       pic.Width(),
		Height:      pic.Height(),
		PixelFormat: pic.PixelFormat(),
		Align:       align,
		DeviceID:    param.DeviceID,
		Data:        data,
	}
	return nil
}
