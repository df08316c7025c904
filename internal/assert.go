// Package internal contains helpers shared by avsource packages and not
// meant to be imported from outside.
package internal

import (
	"context"

	"github.com/xaionaro-go/avsource/logger"
)

// Assert panics (through the context logger) if the invariant does not hold.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}
	logger.Panic(ctx, "assertion failed", extraArgs)
}
