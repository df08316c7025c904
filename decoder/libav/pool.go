package libav

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/pool"
)

var framePool = pool.NewPool(
	astiav.AllocFrame,
	func(f *astiav.Frame) { f.Unref() },
	func(f *astiav.Frame) { f.Free() },
)

var packetPool = pool.NewPool(
	astiav.AllocPacket,
	func(p *astiav.Packet) { p.Unref() },
	func(p *astiav.Packet) { p.Free() },
)

// PoolStats reports the frame and packet allocations done by the decoders.
type PoolStats struct {
	FramesAllocated  uint64
	FramesReturned   uint64
	PacketsAllocated uint64
	PacketsReturned  uint64
}

func GetPoolStats() PoolStats {
	return PoolStats{
		FramesAllocated:  framePool.Allocated(),
		FramesReturned:   framePool.Returned(),
		PacketsAllocated: packetPool.Allocated(),
		PacketsReturned:  packetPool.Returned(),
	}
}
