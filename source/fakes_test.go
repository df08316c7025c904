package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/event"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/parser"
	"github.com/xaionaro-go/avsource/profiler"
	"github.com/xaionaro-go/avsource/types"
	"go.uber.org/atomic"
)

func testCtx(_ *testing.T) context.Context {
	l := logrus.Default().WithLevel(logger.LevelDebug)
	return logger.CtxWithLogger(context.Background(), l)
}

type fakeContainer struct {
	profiler *profiler.Memory
}

func (c *fakeContainer) GetProfiler() profiler.Pipeline {
	if c.profiler == nil {
		return nil
	}
	return c.profiler
}

type fakeModule struct {
	param     SourceParam
	profiler  *profiler.Memory
	container *fakeContainer

	noFrameInfo atomic.Bool

	locker sync.Mutex
	events []event.Event
	frames []*frameinfo.FrameInfo
}

var _ Module = (*fakeModule)(nil)

func newFakeModule(param SourceParam) *fakeModule {
	return &fakeModule{
		param: param,
	}
}

func (m *fakeModule) GetName() string { return "fake" }
func (m *fakeModule) GetSourceParam() SourceParam { return m.param }
func (m *fakeModule) GetContainer() Container {
	if m.container == nil {
		return nil
	}
	return m.container
}
func (m *fakeModule) GetProfiler() profiler.Module {
	if m.profiler == nil {
		return nil
	}
	return m.profiler
}

func (m *fakeModule) PostEvent(_ context.Context, ev event.Event) bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.events = append(m.events, ev)
	return true
}

func (m *fakeModule) CreateFrameInfo(_ context.Context, streamID string, idx types.StreamIndex, eos bool) *frameinfo.FrameInfo {
	if m.noFrameInfo.Load() {
		return nil
	}
	return frameinfo.New(streamID, idx, eos)
}

func (m *fakeModule) SendFrameInfo(_ context.Context, fi *frameinfo.FrameInfo) bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	m.frames = append(m.frames, fi)
	return true
}

func (m *fakeModule) Events() []event.Event {
	m.locker.Lock()
	defer m.locker.Unlock()
	return append([]event.Event(nil), m.events...)
}

// Frames returns the forwarded frames except EOS markers.
func (m *fakeModule) Frames() []*frameinfo.FrameInfo {
	m.locker.Lock()
	defer m.locker.Unlock()
	var result []*frameinfo.FrameInfo
	for _, fi := range m.frames {
		if !fi.IsEOS() {
			result = append(result, fi)
		}
	}
	return result
}

func (m *fakeModule) EOSCount() int {
	m.locker.Lock()
	defer m.locker.Unlock()
	count := 0
	for _, fi := range m.frames {
		if fi.IsEOS() {
			count++
		}
	}
	return count
}

// fakeParser plays the same list of packets on every Open.
type fakeParser struct {
	info       *types.VideoInfo
	packets    []types.VideoEsPacket
	openErr    error
	openErrAt  int
	parseErr   error
	parseErrAt int
	parseHook  func()

	opens  atomic.Int64
	closes atomic.Int64
	parses atomic.Int64

	result parser.Result
	next   int
	opened bool
}

var _ parser.Parser = (*fakeParser)(nil)

func (p *fakeParser) String() string { return "fakeParser" }

func (p *fakeParser) Open(ctx context.Context, _ string, result parser.Result, _ bool) error {
	n := int(p.opens.Inc())
	if p.openErr != nil && n >= p.openErrAt {
		return p.openErr
	}
	p.result = result
	p.next = 0
	p.opened = true
	if p.info != nil {
		info := *p.info
		result.OnMetadata(ctx, &info)
	}
	return nil
}

func (p *fakeParser) Parse(ctx context.Context) error {
	if !p.opened {
		return parser.ErrNotOpened
	}
	n := int(p.parses.Inc())
	if p.parseHook != nil {
		p.parseHook()
	}
	if p.parseErr != nil && n >= p.parseErrAt {
		return p.parseErr
	}
	if p.next >= len(p.packets) {
		p.result.OnPacket(ctx, nil)
		return nil
	}
	pkt := p.packets[p.next]
	p.next++
	p.result.OnPacket(ctx, &pkt)
	return nil
}

func (p *fakeParser) Close(context.Context) error {
	if p.opened {
		p.closes.Inc()
	}
	p.opened = false
	return nil
}

type fakePicture struct {
	released *atomic.Int64
}

func (p *fakePicture) Width() int { return 2 }
func (p *fakePicture) Height() int { return 2 }
func (p *fakePicture) PixelFormat() string { return "gray" }
func (p *fakePicture) Bytes(int) ([]byte, error) {
	return []byte{1, 2, 3, 4}, nil
}
func (p *fakePicture) Release() { p.released.Inc() }

type fakeDecoderFactory struct {
	createErr     error
	processErr    error
	errorAtPacket int
	repeatError   bool
	invalidPTS    map[int64]bool

	// async makes the decoders deliver callbacks from their own goroutine.
	async bool

	created   atomic.Int64
	destroyed atomic.Int64
	live      atomic.Int64
	maxLive   atomic.Int64
	released  atomic.Int64
	flushes   atomic.Int64
	lastExtra *decoder.ExtraInfo
	lastInfo  *types.VideoInfo
}

var _ decoder.Factory = (*fakeDecoderFactory)(nil)

func (f *fakeDecoderFactory) String() string { return "fakeDecoderFactory" }

func (f *fakeDecoderFactory) NewDecoder(
	_ context.Context,
	decoderType types.DecoderType,
	_ string,
	result decoder.Result,
) (decoder.Decoder, error) {
	if !decoderType.IsValid() {
		return nil, fmt.Errorf("%w: %s", decoder.ErrUnsupportedDecoderType, decoderType)
	}
	return &fakeDecoder{factory: f, result: result}, nil
}

type fakeDecoder struct {
	factory   *fakeDecoderFactory
	result    decoder.Result
	created   bool
	destroyed bool
	packets   int

	queue chan func()
	done  chan struct{}
}

func (d *fakeDecoder) String() string { return "fakeDecoder" }

func (d *fakeDecoder) Create(_ context.Context, info *types.VideoInfo, extra *decoder.ExtraInfo) error {
	f := d.factory
	f.lastExtra = extra
	f.lastInfo = info
	if f.createErr != nil {
		return f.createErr
	}
	d.created = true
	f.created.Inc()
	live := f.live.Inc()
	if live > f.maxLive.Load() {
		f.maxLive.Store(live)
	}
	if f.async {
		d.queue = make(chan func(), 16)
		d.done = make(chan struct{})
		go func() {
			defer close(d.done)
			for deliver := range d.queue {
				deliver()
			}
		}()
	}
	return nil
}

func (d *fakeDecoder) deliver(fn func()) {
	if d.queue == nil {
		fn()
		return
	}
	d.queue <- fn
}

func (d *fakeDecoder) Process(ctx context.Context, pkt *types.VideoEsPacket) error {
	f := d.factory
	if !d.created {
		return decoder.ErrNotCreated
	}
	if pkt == nil {
		f.flushes.Inc()
		d.deliver(func() { d.result.OnDecodeEOS(ctx) })
		return nil
	}
	d.packets++
	if f.processErr != nil {
		return f.processErr
	}
	if f.errorAtPacket > 0 && (d.packets == f.errorAtPacket || (f.repeatError && d.packets > f.errorAtPacket)) {
		d.deliver(func() { d.result.OnDecodeError(ctx, decoder.ErrorCodeDecodeFailed) })
		return nil
	}
	frame := &decoder.DecodeFrame{
		Valid:   !f.invalidPTS[pkt.PTS],
		PTS:     pkt.PTS,
		Picture: &fakePicture{released: &f.released},
	}
	d.deliver(func() { d.result.OnDecodeFrame(ctx, frame) })
	return nil
}

func (d *fakeDecoder) Destroy(context.Context) error {
	if d.destroyed {
		return nil
	}
	d.destroyed = true
	if d.queue != nil {
		close(d.queue)
		<-d.done
	}
	if d.created {
		d.factory.destroyed.Inc()
		d.factory.live.Dec()
	}
	return nil
}

func packets(n int) []types.VideoEsPacket {
	result := make([]types.VideoEsPacket, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, types.VideoEsPacket{
			Data:  []byte{byte(i)},
			PTS:   int64(i),
			IsKey: i == 0,
		})
	}
	return result
}

func testVideoInfo() *types.VideoInfo {
	return &types.VideoInfo{Codec: types.CodecTypeH264, Width: 2, Height: 2}
}

var errTest = errors.New("test error")
