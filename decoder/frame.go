package decoder

import (
	"fmt"
)

// Picture is a decoded image owned by the decoder until Release is called.
type Picture interface {
	Width() int
	Height() int
	PixelFormat() string

	// Bytes returns the image as one contiguous buffer with lines aligned
	// to align bytes.
	Bytes(align int) ([]byte, error)

	// Release returns the picture to the decoder; it is idempotent.
	Release()
}

type DecodeFrame struct {
	// Valid is false for frames the decoder marked as corrupt.
	Valid   bool
	PTS     int64
	Picture Picture
}

func (f *DecodeFrame) Release() {
	if f == nil || f.Picture == nil {
		return
	}
	f.Picture.Release()
}

func (f *DecodeFrame) String() string {
	if f == nil {
		return "DecodeFrame(nil)"
	}
	if f.Picture == nil {
		return fmt.Sprintf("DecodeFrame(pts:%d; valid:%t)", f.PTS, f.Valid)
	}
	return fmt.Sprintf("DecodeFrame(pts:%d; valid:%t; %dx%d %s)", f.PTS, f.Valid, f.Picture.Width(), f.Picture.Height(), f.Picture.PixelFormat())
}
