package source

import (
	"context"
	"fmt"

	"github.com/phuslu/goid"
	"github.com/xaionaro-go/avsource/decoder"
	decoderlibav "github.com/xaionaro-go/avsource/decoder/libav"
	"github.com/xaionaro-go/avsource/device"
	"github.com/xaionaro-go/avsource/event"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/framerate"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/parser"
	parserlibav "github.com/xaionaro-go/avsource/parser/libav"
	parsermp4 "github.com/xaionaro-go/avsource/parser/mp4"
	"github.com/xaionaro-go/avsource/profiler"
	"github.com/xaionaro-go/avsource/render"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/avsource/urltools"
	"github.com/xaionaro-go/observability"
	"github.com/xaionaro-go/xcontext"
	"github.com/xaionaro-go/xsync"
	"go.uber.org/atomic"
)

const (
	decoderMaxWidth  = 7680
	decoderMaxHeight = 4320
)

const (
	msgPrepareFailed = "Prepare codec resources failed."
	msgDecodeFailed  = "Decode failed."
	msgParseFailed   = "Parse failed."
	msgCreateFailed  = "Create decoder failed."
	msgDeviceFailed  = "Bind device failed."
)

type fileHandlerImpl struct {
	handlerBase

	filename      string
	loop          bool
	maxResolution types.MaximumResolution
	config        Config

	// immutable while the worker runs
	param          SourceParam
	parser         parser.Parser
	decoderFactory decoder.Factory
	frController   *framerate.Controller

	// owned by the worker goroutine
	decoder decoder.Decoder

	locker      xsync.Mutex
	started     bool
	closed      bool
	done        chan struct{}
	cancel      context.CancelFunc
	workerGoID  atomic.Int64
	running     atomic.Bool
	stopRequest atomic.Bool

	// sticky flags set by the callbacks and consumed by the loop
	eosReached          atomic.Bool
	decodeFailed        atomic.Bool
	decoderCreateFailed atomic.Bool
	interrupt           atomic.Bool
	errorReported       atomic.Bool

	frameCount atomic.Uint64
	frameID    atomic.Uint64
}

var (
	_ parser.Result  = (*fileHandlerImpl)(nil)
	_ decoder.Result = (*fileHandlerImpl)(nil)
)

func newFileHandlerImpl(
	module Module,
	streamID string,
	filename string,
	frameRate float64,
	loop bool,
	maxResolution types.MaximumResolution,
	cfg Config,
) *fileHandlerImpl {
	h := &fileHandlerImpl{
		filename:      filename,
		loop:          loop,
		maxResolution: maxResolution,
		config:        cfg,
		frController:  framerate.New(frameRate),
	}
	h.handlerBase.init(module, streamID)
	return h
}

func (h *fileHandlerImpl) Open(ctx context.Context) error {
	return xsync.DoA1R1(ctx, &h.locker, h.openLocked, ctx)
}

func (h *fileHandlerImpl) openLocked(ctx context.Context) (_err error) {
	switch {
	case h.closed:
		return ErrClosed
	case h.started:
		return ErrAlreadyOpened
	}

	h.param = h.module.GetSourceParam()
	if h.param.Interval == 0 {
		h.param.Interval = 1
	}

	parserFactory := h.config.ParserFactory
	if parserFactory == nil {
		parserFactory = defaultParserFactory(h.param.Demuxer, h.filename)
	}
	p, err := parserFactory.NewParser(ctx)
	if err != nil {
		return fmt.Errorf("unable to create a parser using %s: %w", parserFactory, err)
	}
	h.parser = p

	h.decoderFactory = h.config.DecoderFactory
	if h.decoderFactory == nil {
		h.decoderFactory = decoderlibav.NewFactory()
	}

	workerCtx := logger.CtxWithStreamID(xcontext.DetachDone(ctx), h.streamID)
	teardownCtx := workerCtx
	workerCtx, h.cancel = context.WithCancel(workerCtx)
	if h.stopRequest.Load() {
		h.cancel()
	}

	h.started = true
	h.running.Store(!h.stopRequest.Load())
	h.done = make(chan struct{})
	done := h.done
	observability.Go(workerCtx, func(ctx context.Context) {
		defer close(done)
		h.workerGoID.Store(goid.Goid())
		h.run(ctx, teardownCtx)
	})
	return nil
}

func (h *fileHandlerImpl) Stop() {
	h.stopRequest.Store(true)
	h.running.Store(false)
	h.locker.Do(context.Background(), func() {
		if h.cancel != nil {
			h.cancel()
		}
	})
}

func (h *fileHandlerImpl) Close(ctx context.Context) error {
	if h.workerGoID.Load() == goid.Goid() {
		return ErrCloseFromWorker
	}
	h.Stop()

	var done chan struct{}
	h.locker.Do(ctx, func() {
		h.closed = true
		done = h.done
	})
	if done != nil {
		<-done
	}
	return nil
}

// run is the body of the worker goroutine. teardownCtx is not cancelled by
// Stop and is only used to release resources; anything that may block on
// the downstream uses ctx.
func (h *fileHandlerImpl) run(ctx, teardownCtx context.Context) {
	logger.Debugf(ctx, "worker started")
	defer func() { logger.Debugf(ctx, "worker finished") }()

	guard, err := device.Acquire(ctx, h.param.DeviceID, h.config.DeviceBinder)
	if err != nil {
		logger.Errorf(ctx, "unable to acquire the device: %v", err)
		h.reportStreamError(ctx, msgDeviceFailed)
		return
	}
	defer guard.Release(teardownCtx)

	if !h.running.Load() {
		return
	}

	if err := h.prepareResources(ctx, false); err != nil {
		logger.Errorf(ctx, "unable to prepare the resources: %v", err)
		h.clearResources(teardownCtx, false)
		h.reportStreamError(ctx, msgPrepareFailed)
		return
	}
	defer h.clearResources(teardownCtx, false)

	if h.frController.Enabled() {
		h.frController.Start()
	}
	for h.running.Load() {
		if !h.process(ctx, teardownCtx) {
			break
		}
		if h.frController.Enabled() {
			h.frController.Control(ctx)
		}
	}
}

// process runs one parse step and tells whether the loop should go on.
func (h *fileHandlerImpl) process(ctx, teardownCtx context.Context) bool {
	if err := h.parser.Parse(ctx); err != nil {
		if !h.running.Load() {
			logger.Debugf(ctx, "parsing interrupted by a stop request: %v", err)
			return false
		}
		logger.Errorf(ctx, "unable to parse %s: %v", h.filename, err)
		h.reportStreamError(ctx, msgParseFailed)
		return false
	}

	if h.eosReached.Load() {
		if h.loop {
			if !h.running.Load() {
				logger.Debugf(ctx, "not restarting %s: stop requested", h.filename)
				return false
			}
			logger.Debugf(ctx, "restarting %s", h.filename)
			h.clearResources(teardownCtx, true)
			if err := h.prepareResources(ctx, true); err != nil {
				logger.Errorf(ctx, "unable to reopen %s: %v", h.filename, err)
				h.clearResources(teardownCtx, false)
				h.reportStreamError(ctx, msgPrepareFailed)
				return false
			}
			if h.param.ResetIntervalOnLoop {
				h.frameCount.Store(0)
			}
			h.eosReached.Store(false)
			return true
		}

		logger.Debugf(ctx, "end of %s", h.filename)
		if h.decoder == nil {
			h.sendFlowEos(ctx)
			return false
		}
		// the flushed frames go downstream, so Stop must be able to cancel it
		if err := h.decoder.Process(ctx, nil); err != nil {
			logger.Errorf(ctx, "unable to drain the decoder: %v", err)
		}
		return false
	}

	switch {
	case h.decoderCreateFailed.Load():
		h.reportStreamError(ctx, msgCreateFailed)
		return false
	case h.decodeFailed.Load():
		h.reportStreamError(ctx, msgDecodeFailed)
		return false
	case h.interrupt.Load():
		logger.Debugf(ctx, "interrupted by a decoder error")
		return false
	}
	return true
}

// prepareResources opens the parser, which may already deliver the
// metadata and thus create the decoder.
func (h *fileHandlerImpl) prepareResources(ctx context.Context, demuxOnly bool) error {
	logger.Debugf(ctx, "prepareResources(demuxOnly:%t)", demuxOnly)
	if err := h.parser.Open(ctx, h.filename, h, h.param.OnlyKeyFrame); err != nil {
		return fmt.Errorf("unable to open %s with %s: %w", h.filename, h.parser, err)
	}
	if h.decoderCreateFailed.Load() {
		return fmt.Errorf("unable to create a decoder")
	}
	return nil
}

// clearResources is idempotent; with demuxOnly the decoder is kept.
func (h *fileHandlerImpl) clearResources(ctx context.Context, demuxOnly bool) {
	logger.Debugf(ctx, "clearResources(demuxOnly:%t)", demuxOnly)
	if !demuxOnly && h.decoder != nil {
		if err := h.decoder.Destroy(ctx); err != nil {
			logger.Errorf(ctx, "unable to destroy the decoder: %v", err)
		}
		h.decoder = nil
	}
	if h.parser != nil {
		if err := h.parser.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the parser: %v", err)
		}
	}
}

// reportStreamError posts at most one stream error per handler.
func (h *fileHandlerImpl) reportStreamError(ctx context.Context, message string) {
	if !h.errorReported.CompareAndSwap(false, true) {
		logger.Debugf(ctx, "a stream error is already reported; skipping %q", message)
		return
	}
	h.postEvent(ctx, event.TypeStreamError, message)
}

func (h *fileHandlerImpl) OnMetadata(ctx context.Context, info *types.VideoInfo) {
	logger.Debugf(ctx, "OnMetadata(%#+v)", info)
	if h.decoder != nil {
		logger.Debugf(ctx, "reusing decoder %s", h.decoder)
		return
	}
	if info == nil {
		h.decoderCreateFailed.Store(true)
		return
	}
	info.MaximumResolution = h.maxResolution
	h.decoderCreateFailed.Store(false)

	dec, err := h.decoderFactory.NewDecoder(ctx, h.param.DecoderType, h.streamID, h)
	if err != nil {
		logger.Errorf(ctx, "unable to instantiate a %s decoder: %v", h.param.DecoderType, err)
		h.decoderCreateFailed.Store(true)
		return
	}

	extra := &decoder.ExtraInfo{
		DeviceID:           h.param.DeviceID,
		HardwareDeviceType: h.param.HardwareDeviceType,
		HardwareDeviceName: h.param.HardwareDeviceName,
		InputBufNumber:     h.param.InputBufNumber,
		OutputBufNumber:    h.param.OutputBufNumber,
		ApplyStrideAlign:   h.param.ApplyStrideAlign,
		MaxWidth:           decoderMaxWidth,
		MaxHeight:          decoderMaxHeight,
	}
	if err := dec.Create(ctx, info, extra); err != nil {
		logger.Errorf(ctx, "unable to create decoder %s: %v", dec, err)
		if err := dec.Destroy(ctx); err != nil {
			logger.Errorf(ctx, "unable to destroy decoder %s: %v", dec, err)
		}
		h.decoderCreateFailed.Store(true)
		return
	}
	h.decoder = dec
}

func (h *fileHandlerImpl) OnPacket(ctx context.Context, pkt *types.VideoEsPacket) {
	if pkt == nil {
		logger.Debugf(ctx, "end of stream")
		h.eosReached.Store(true)
		return
	}

	key := profiler.RecordKey{StreamID: h.streamID, PTS: pkt.PTS}
	if p := h.module.GetProfiler(); p != nil {
		p.RecordProcessStart(profiler.ProcessProfilerName, key)
	}
	if c := h.module.GetContainer(); c != nil {
		if p := c.GetProfiler(); p != nil {
			p.RecordInput(key)
		}
	}

	h.decodeFailed.Store(true)
	if h.decoder == nil {
		logger.Errorf(ctx, "received a packet, but there is no decoder")
		return
	}
	if err := h.decoder.Process(ctx, pkt); err != nil {
		logger.Errorf(ctx, "unable to decode a packet (pts:%d): %v", pkt.PTS, err)
		return
	}
	h.decodeFailed.Store(false)
}

func (h *fileHandlerImpl) OnDecodeError(ctx context.Context, code decoder.ErrorCode) {
	logger.Errorf(ctx, "decoder error: %s", code)
	h.reportStreamError(ctx, msgDecodeFailed)
	h.interrupt.Store(true)
}

func (h *fileHandlerImpl) OnDecodeFrame(ctx context.Context, frame *decoder.DecodeFrame) {
	defer frame.Release()
	assert(ctx, h.param.Interval > 0, h.param.Interval)

	count := h.frameCount.Inc() - 1
	if count%uint64(h.param.Interval) != 0 {
		return
	}
	if frame == nil {
		logger.Warnf(ctx, "received a nil frame")
		return
	}

	fi := h.createFrameInfo(ctx, false)
	if fi == nil {
		logger.Warnf(ctx, "unable to create a frame info")
		return
	}
	fi.Timestamp = frame.PTS

	if !frame.Valid {
		logger.Warnf(ctx, "received an invalid frame (pts:%d)", frame.PTS)
		fi.Flags |= frameinfo.FlagInvalid
		h.sendFrameInfo(ctx, fi)
		return
	}

	frameID := h.frameID.Inc() - 1
	err := render.Process(ctx, fi, frame, frameID, render.Param{
		DeviceID:         h.param.DeviceID,
		ApplyStrideAlign: h.param.ApplyStrideAlign,
	})
	if err != nil {
		logger.Warnf(ctx, "unable to render frame #%d: %v", frameID, err)
		return
	}
	h.sendFrameInfo(ctx, fi)
}

func (h *fileHandlerImpl) OnDecodeEOS(ctx context.Context) {
	h.sendFlowEos(ctx)
}

func defaultParserFactory(demuxer DemuxerType, filename string) parser.Factory {
	if demuxer == DemuxerTypeAuto {
		demuxer = DemuxerTypeLibav
		if urltools.IsLocalFile(filename) && urltools.FormatName(filename) == "mp4" {
			demuxer = DemuxerTypeMP4
		}
	}
	switch demuxer {
	case DemuxerTypeMP4:
		return parsermp4.Factory{}
	default:
		return parserlibav.NewFactory(parserlibav.Config{})
	}
}
