package source

import (
	"context"

	"github.com/xaionaro-go/avsource/event"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/types"
	"go.uber.org/atomic"
)

// handlerBase is what every kind of source handler has in common: the
// identity of the stream and the ways to talk to the owning module.
type handlerBase struct {
	module      Module
	streamID    string
	streamIndex atomic.Uint32
}

func (b *handlerBase) init(module Module, streamID string) {
	b.module = module
	b.streamID = streamID
	b.streamIndex.Store(uint32(types.InvalidStreamIndex))
}

func (b *handlerBase) GetStreamID() string {
	return b.streamID
}

func (b *handlerBase) GetStreamIndex() types.StreamIndex {
	return types.StreamIndex(b.streamIndex.Load())
}

func (b *handlerBase) SetStreamIndex(idx types.StreamIndex) {
	b.streamIndex.Store(uint32(idx))
}

func (b *handlerBase) moduleName() string {
	if b.module == nil {
		return ""
	}
	return b.module.GetName()
}

func (b *handlerBase) createFrameInfo(ctx context.Context, eos bool) *frameinfo.FrameInfo {
	return b.module.CreateFrameInfo(ctx, b.streamID, b.GetStreamIndex(), eos)
}

func (b *handlerBase) sendFrameInfo(ctx context.Context, fi *frameinfo.FrameInfo) bool {
	return b.module.SendFrameInfo(ctx, fi)
}

// sendFlowEos forwards an end-of-stream marker through the frame path.
func (b *handlerBase) sendFlowEos(ctx context.Context) bool {
	fi := b.createFrameInfo(ctx, true)
	if fi == nil {
		logger.Errorf(ctx, "unable to create an EOS frame info")
		return false
	}
	logger.Debugf(ctx, "sending the flow EOS")
	return b.sendFrameInfo(ctx, fi)
}

func (b *handlerBase) postEvent(ctx context.Context, t event.Type, message string) bool {
	ev := event.New(t, b.moduleName(), b.streamID, message)
	logger.Debugf(ctx, "posting %s", ev)
	return b.module.PostEvent(ctx, ev)
}
