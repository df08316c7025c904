package libav

import (
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avsource/decoder"
)

type picture struct {
	frame       *astiav.Frame
	releaseOnce sync.Once
}

var _ decoder.Picture = (*picture)(nil)

func newPicture(f *astiav.Frame) *picture {
	return &picture{frame: f}
}

func (p *picture) Width() int {
	return p.frame.Width()
}

func (p *picture) Height() int {
	return p.frame.Height()
}

func (p *picture) PixelFormat() string {
	return p.frame.PixelFormat().String()
}

func (p *picture) Bytes(align int) ([]byte, error) {
	return p.frame.Data().Bytes(align)
}

func (p *picture) Release() {
	p.releaseOnce.Do(func() {
		framePool.Put(p.frame)
	})
}
