package logger

import (
	"context"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/tool/logger"
)

func FromCtx(ctx context.Context) logger.Logger {
	return logger.FromCtx(ctx)
}

func CtxWithLogger(ctx context.Context, l logger.Logger) context.Context {
	return logger.CtxWithLogger(ctx, l)
}

// CtxWithStreamID attaches the stream identifier as a structured field to
// every message logged through the returned context.
func CtxWithStreamID(ctx context.Context, streamID string) context.Context {
	return belt.WithField(ctx, "stream_id", streamID)
}
