// Package device scopes the association between a goroutine and a
// decoding device.
package device

import (
	"context"
	"fmt"
	"runtime"

	"github.com/xaionaro-go/avsource/logger"
)

// Binder makes a device current for the calling OS thread (for example
// cudaSetDevice-like APIs). Implementations must be safe to call from
// different OS threads.
type Binder interface {
	Bind(ctx context.Context, deviceID int) error
	Unbind(ctx context.Context, deviceID int) error
}

// Guard keeps the calling goroutine on its OS thread with the device bound
// until Release is called. A negative device ordinal means CPU and makes
// the guard a no-op.
type Guard struct {
	deviceID int
	binder   Binder
	locked   bool
	bound    bool
}

// Acquire must be paired with Release on the same goroutine.
func Acquire(
	ctx context.Context,
	deviceID int,
	binder Binder,
) (*Guard, error) {
	g := &Guard{
		deviceID: deviceID,
		binder:   binder,
	}
	if deviceID < 0 {
		return g, nil
	}
	runtime.LockOSThread()
	g.locked = true
	if binder == nil {
		return g, nil
	}
	if err := binder.Bind(ctx, deviceID); err != nil {
		g.Release(ctx)
		return nil, fmt.Errorf("unable to bind device #%d: %w", deviceID, err)
	}
	g.bound = true
	logger.Debugf(ctx, "bound device #%d", deviceID)
	return g, nil
}

func (g *Guard) DeviceID() int {
	return g.deviceID
}

// Release is idempotent.
func (g *Guard) Release(ctx context.Context) {
	if g == nil {
		return
	}
	if g.bound {
		if err := g.binder.Unbind(ctx, g.deviceID); err != nil {
			logger.Errorf(ctx, "unable to unbind device #%d: %v", g.deviceID, err)
		}
		g.bound = false
	}
	if g.locked {
		runtime.UnlockOSThread()
		g.locked = false
	}
}
