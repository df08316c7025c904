// Package source turns encoded video files into a stream of decoded frames
// for a pipeline: a FileHandler owns one worker goroutine that demuxes,
// decodes, paces and forwards frames to the Module it belongs to.
package source

import (
	"context"

	"github.com/xaionaro-go/avsource/event"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/profiler"
	"github.com/xaionaro-go/avsource/types"
)

// Module is the pipeline module a handler belongs to. All the methods may be
// called from the worker goroutine of any of its handlers.
type Module interface {
	GetName() string
	PostEvent(ctx context.Context, ev event.Event) bool
	GetSourceParam() SourceParam

	// GetProfiler may return nil.
	GetProfiler() profiler.Module

	// GetContainer may return nil.
	GetContainer() Container

	// CreateFrameInfo returns nil if no frame info could be allocated.
	CreateFrameInfo(ctx context.Context, streamID string, streamIndex types.StreamIndex, eos bool) *frameinfo.FrameInfo
	SendFrameInfo(ctx context.Context, fi *frameinfo.FrameInfo) bool
}

// Container is the pipeline a module is registered in.
type Container interface {
	// GetProfiler may return nil.
	GetProfiler() profiler.Pipeline
}
