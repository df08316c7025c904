package frameinfo

import (
	"strings"
)

// Flags is a bitmask describing what a FrameInfo carries.
type Flags uint64

const (
	// FlagEOS marks the end-of-stream marker; such a FrameInfo has no buffer.
	FlagEOS = Flags(1 << iota)

	// FlagInvalid marks a frame the decoder reported as broken; it is
	// forwarded without pixel data so downstream keeps the timeline.
	FlagInvalid

	// FlagRemoved marks a frame of a stream that was removed while the frame
	// was in flight.
	FlagRemoved
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

func (f Flags) String() string {
	var parts []string
	if f.Has(FlagEOS) {
		parts = append(parts, "eos")
	}
	if f.Has(FlagInvalid) {
		parts = append(parts, "invalid")
	}
	if f.Has(FlagRemoved) {
		parts = append(parts, "removed")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
