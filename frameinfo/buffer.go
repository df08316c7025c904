package frameinfo

import (
	"fmt"
)

// Buffer is the host-memory copy of a decoded picture.
type Buffer struct {
	Width       int
	Height      int
	PixelFormat string

	// Align is the line alignment Data was laid out with.
	Align int

	// DeviceID is the device the picture was decoded on (negative for CPU).
	DeviceID int

	Data []byte
}

func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Data)
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%dx%d %s; align:%d; %d bytes)", b.Width, b.Height, b.PixelFormat, b.Align, len(b.Data))
}
