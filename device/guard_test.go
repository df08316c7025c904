package device

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeBinder struct {
	bindErr error
	calls   []string
}

func (b *fakeBinder) Bind(_ context.Context, deviceID int) error {
	b.calls = append(b.calls, fmt.Sprintf("bind:%d", deviceID))
	return b.bindErr
}

func (b *fakeBinder) Unbind(_ context.Context, deviceID int) error {
	b.calls = append(b.calls, fmt.Sprintf("unbind:%d", deviceID))
	return nil
}

func TestGuardCPUIsNoop(t *testing.T) {
	ctx := context.Background()
	b := &fakeBinder{}
	g, err := Acquire(ctx, -1, b)
	require.NoError(t, err)
	g.Release(ctx)
	require.Empty(t, b.calls)
}

func TestGuardBindsAndReleasesOnce(t *testing.T) {
	ctx := context.Background()
	b := &fakeBinder{}
	g, err := Acquire(ctx, 1, b)
	require.NoError(t, err)
	require.Equal(t, 1, g.DeviceID())
	g.Release(ctx)
	g.Release(ctx)
	require.Equal(t, []string{"bind:1", "unbind:1"}, b.calls)
}

func TestGuardBindFailure(t *testing.T) {
	ctx := context.Background()
	b := &fakeBinder{bindErr: fmt.Errorf("no such device")}
	g, err := Acquire(ctx, 3, b)
	require.Error(t, err)
	require.Nil(t, g)
	require.Equal(t, []string{"bind:3"}, b.calls)
}

func TestGuardWithoutBinder(t *testing.T) {
	ctx := context.Background()
	g, err := Acquire(ctx, 0, nil)
	require.NoError(t, err)
	g.Release(ctx)
}
