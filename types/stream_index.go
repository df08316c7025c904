package types

import (
	"math"
	"strconv"
)

// StreamIndex is the handle the owning module assigns to a registered stream.
type StreamIndex uint32

// InvalidStreamIndex means the stream is not registered in a module (yet).
const InvalidStreamIndex = StreamIndex(math.MaxUint32)

func (idx StreamIndex) IsValid() bool {
	return idx != InvalidStreamIndex
}

func (idx StreamIndex) String() string {
	if !idx.IsValid() {
		return "invalid"
	}
	return strconv.FormatUint(uint64(idx), 10)
}
