package types

import (
	"fmt"
)

type Resolution struct {
	Width  uint32
	Height uint32
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func (r Resolution) IsZero() bool {
	return r.Width == 0 || r.Height == 0
}

// MaximumResolution is a hint used to size decoder buffers so that a
// resolution change mid-stream does not require recreating the decoder.
type MaximumResolution struct {
	Enabled bool
	Resolution
}

func (r MaximumResolution) String() string {
	if !r.Enabled {
		return "disabled"
	}
	return r.Resolution.String()
}
