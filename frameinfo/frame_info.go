// Package frameinfo defines the unit a source hands to the downstream pipeline.
package frameinfo

import (
	"fmt"

	"github.com/xaionaro-go/avsource/types"
)

// FrameInfo is created by the owning module (see source.Module.CreateFrameInfo)
// and filled in by a source handler.
type FrameInfo struct {
	StreamID    string
	StreamIndex types.StreamIndex
	Timestamp   int64
	Flags       Flags
	FrameID     uint64

	// Buffer is nil for EOS markers and invalid frames.
	Buffer *Buffer
}

func New(streamID string, streamIndex types.StreamIndex, eos bool) *FrameInfo {
	fi := &FrameInfo{
		StreamID:    streamID,
		StreamIndex: streamIndex,
	}
	if eos {
		fi.Flags |= FlagEOS
	}
	return fi
}

func (fi *FrameInfo) IsEOS() bool {
	return fi.Flags.Has(FlagEOS)
}

func (fi *FrameInfo) IsInvalid() bool {
	return fi.Flags.Has(FlagInvalid)
}

func (fi *FrameInfo) String() string {
	return fmt.Sprintf("FrameInfo(%s#%s; id:%d; ts:%d; flags:%s)", fi.StreamID, fi.StreamIndex, fi.FrameID, fi.Timestamp, fi.Flags)
}
