package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/avsource/logger"
)

// SetFinalizerFree makes sure a libav object is freed when the Go wrapper
// is collected, for objects that are not owned by an explicit closer.
func SetFinalizerFree[T interface{ Free() }](
	ctx context.Context,
	freer T,
) {
	runtime.SetFinalizer(freer, func(freer T) {
		logger.Debugf(ctx, "freeing %T", freer)
		freer.Free()
	})
}
