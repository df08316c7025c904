// Package libav implements decoder.Decoder on top of libavcodec, in a
// software variant and in a hardware-accelerated variant.
package libav

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avsource/avconv"
	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/xsync"
)

var (
	ErrUnsupportedCodec  = errors.New("unsupported codec")
	ErrResolutionTooHigh = errors.New("resolution exceeds the decoder limits")
)

type Decoder struct {
	Variant  types.DecoderType
	StreamID string
	Result   decoder.Result

	locker                xsync.Mutex
	codec                 *astiav.Codec
	codecContext          *astiav.CodecContext
	hardwareDeviceContext *astiav.HardwareDeviceContext
	hardwarePixelFormat   astiav.PixelFormat
	closer                *astikit.Closer
	receivedKeyFrame      bool
}

var _ decoder.Decoder = (*Decoder)(nil)

func New(
	variant types.DecoderType,
	streamID string,
	result decoder.Result,
) (*Decoder, error) {
	switch variant {
	case types.DecoderTypeSoftware, types.DecoderTypeHardware:
	default:
		return nil, fmt.Errorf("%w: %s", decoder.ErrUnsupportedDecoderType, variant)
	}
	if result == nil {
		return nil, fmt.Errorf("result receiver is not set")
	}
	return &Decoder{
		Variant:             variant,
		StreamID:            streamID,
		Result:              result,
		hardwarePixelFormat: astiav.PixelFormatNone,
	}, nil
}

func (d *Decoder) String() string {
	if d.codec == nil {
		return fmt.Sprintf("LibavDecoder(%s)", d.Variant)
	}
	return fmt.Sprintf("LibavDecoder(%s:%s)", d.Variant, d.codec.Name())
}

func (d *Decoder) Create(
	ctx context.Context,
	info *types.VideoInfo,
	extra *decoder.ExtraInfo,
) (_err error) {
	logger.Debugf(ctx, "Create(%#+v, %#+v)", info, extra)
	defer func() { logger.Debugf(ctx, "/Create: %v", _err) }()
	if info == nil {
		return fmt.Errorf("video info is not set")
	}
	if extra == nil {
		extra = &decoder.ExtraInfo{}
	}
	return xsync.DoA3R1(ctx, &d.locker, d.createLocked, ctx, info, extra)
}

func (d *Decoder) createLocked(
	ctx context.Context,
	info *types.VideoInfo,
	extra *decoder.ExtraInfo,
) (_err error) {
	if d.closer != nil {
		return decoder.ErrAlreadyCreated
	}
	if extra.MaxWidth > 0 && info.Width > extra.MaxWidth || extra.MaxHeight > 0 && info.Height > extra.MaxHeight {
		return fmt.Errorf("%w: %dx%d > %dx%d", ErrResolutionTooHigh, info.Width, info.Height, extra.MaxWidth, extra.MaxHeight)
	}

	codecID := avconv.CodecID(info.Codec)
	if codecID == astiav.CodecIDNone {
		return fmt.Errorf("%w: %s", ErrUnsupportedCodec, info.Codec)
	}
	codec := astiav.FindDecoder(codecID)
	if codec == nil {
		return fmt.Errorf("%w: no decoder for %s", ErrUnsupportedCodec, info.Codec)
	}

	d.closer = astikit.NewCloser()
	defer func() {
		if _err != nil {
			d.releaseLocked(ctx)
		}
	}()

	d.codec = codec
	d.codecContext = astiav.AllocCodecContext(codec)
	if d.codecContext == nil {
		return fmt.Errorf("unable to allocate a codec context for %s", codec.Name())
	}
	d.closer.Add(d.codecContext.Free)

	d.codecContext.SetWidth(info.Width)
	d.codecContext.SetHeight(info.Height)
	if !info.TimeBase.IsZero() {
		d.codecContext.SetTimeBase(avconv.AstiavRational(info.TimeBase))
	}
	if len(info.ExtraData) > 0 {
		d.codecContext.SetExtraData(info.ExtraData)
	}

	options := astiav.NewDictionary()
	setFinalizerFree(ctx, options)

	if d.Variant == types.DecoderTypeHardware {
		hwType := extra.HardwareDeviceType
		if hwType == types.HardwareDeviceTypeNone {
			return fmt.Errorf("hardware device type is not set")
		}
		hwName := extra.HardwareDeviceName
		if hwName == "" {
			hwName = types.HardwareDeviceNameFromOrdinal(extra.DeviceID)
		}
		if err := d.initHardware(ctx, hwType, hwName, nil); err != nil {
			return err
		}
		if extra.OutputBufNumber > 0 {
			if err := options.Set("extra_hw_frames", strconv.FormatUint(uint64(extra.OutputBufNumber), 10), astiav.DictionaryFlags(0)); err != nil {
				return fmt.Errorf("unable to set extra_hw_frames: %w", err)
			}
		}
	}
	if extra.InputBufNumber > 0 {
		logger.Debugf(ctx, "input buffers are managed by libavcodec; ignoring input_buf_number=%d", extra.InputBufNumber)
	}

	if err := d.codecContext.Open(codec, options); err != nil {
		return fmt.Errorf("unable to open codec %s: %w", codec.Name(), err)
	}
	d.receivedKeyFrame = false
	return nil
}

func (d *Decoder) Process(
	ctx context.Context,
	pkt *types.VideoEsPacket,
) (_err error) {
	logger.Tracef(ctx, "Process")
	defer func() { logger.Tracef(ctx, "/Process: %v", _err) }()

	var (
		frames  []*decoder.DecodeFrame
		recvErr error
		err     error
	)
	d.locker.Do(ctx, func() {
		frames, recvErr, err = d.processLocked(ctx, pkt)
	})
	for _, f := range frames {
		d.Result.OnDecodeFrame(ctx, f)
	}
	if err != nil {
		return err
	}
	if recvErr != nil {
		logger.Errorf(ctx, "unable to receive a frame: %v", recvErr)
		d.Result.OnDecodeError(ctx, decoder.ErrorCodeDecodeFailed)
		return nil
	}
	if pkt == nil {
		d.Result.OnDecodeEOS(ctx)
	}
	return nil
}

func (d *Decoder) processLocked(
	ctx context.Context,
	pkt *types.VideoEsPacket,
) ([]*decoder.DecodeFrame, error, error) {
	if d.closer == nil {
		return nil, nil, decoder.ErrNotCreated
	}

	if pkt == nil {
		if err := d.codecContext.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
			return nil, nil, fmt.Errorf("unable to flush the decoder: %w", err)
		}
		frames, recvErr := d.receiveFramesLocked(ctx)
		return frames, recvErr, nil
	}

	if !d.receivedKeyFrame {
		if !pkt.IsKey {
			logger.Tracef(ctx, "dropping a non-key packet before the first key packet")
			return nil, nil, nil
		}
		d.receivedKeyFrame = true
	}

	avPkt := packetPool.Get()
	defer packetPool.Put(avPkt)
	if err := avPkt.FromData(pkt.Data); err != nil {
		return nil, nil, fmt.Errorf("unable to fill a packet: %w", err)
	}
	avPkt.SetPts(pkt.PTS)
	avPkt.SetDts(pkt.PTS)
	if pkt.IsKey {
		avPkt.SetFlags(avPkt.Flags().Add(astiav.PacketFlagKey))
	}

	var frames []*decoder.DecodeFrame
	err := d.codecContext.SendPacket(avPkt)
	if errors.Is(err, astiav.ErrEagain) {
		var recvErr error
		frames, recvErr = d.receiveFramesLocked(ctx)
		if recvErr != nil {
			return frames, recvErr, nil
		}
		err = d.codecContext.SendPacket(avPkt)
	}
	if err != nil {
		for _, f := range frames {
			f.Release()
		}
		return nil, nil, fmt.Errorf("unable to send a packet: %w", err)
	}

	more, recvErr := d.receiveFramesLocked(ctx)
	return append(frames, more...), recvErr, nil
}

func (d *Decoder) receiveFramesLocked(
	ctx context.Context,
) ([]*decoder.DecodeFrame, error) {
	var frames []*decoder.DecodeFrame
	for {
		f := framePool.Get()
		err := d.codecContext.ReceiveFrame(f)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEagain), errors.Is(err, astiav.ErrEof):
			framePool.Put(f)
			return frames, nil
		default:
			framePool.Put(f)
			return frames, err
		}

		ramFrame, err := d.transferToRAM(f)
		if err != nil {
			framePool.Put(f)
			logger.Warnf(ctx, "%v", err)
			frames = append(frames, &decoder.DecodeFrame{Valid: false, PTS: f.Pts()})
			continue
		}

		logger.Tracef(ctx, "decoded a frame: pts:%d; %dx%d %s", ramFrame.Pts(), ramFrame.Width(), ramFrame.Height(), ramFrame.PixelFormat())
		frames = append(frames, &decoder.DecodeFrame{
			Valid:   !ramFrame.Flags().Has(astiav.FrameFlagCorrupt),
			PTS:     ramFrame.Pts(),
			Picture: newPicture(ramFrame),
		})
	}
}

func (d *Decoder) Destroy(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Destroy")
	defer func() { logger.Debugf(ctx, "/Destroy: %v", _err) }()
	return xsync.DoR1(ctx, &d.locker, func() error {
		return d.releaseLocked(ctx)
	})
}

func (d *Decoder) releaseLocked(ctx context.Context) error {
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	if err != nil {
		logger.Errorf(ctx, "unable to release the decoder resources: %v", err)
	}
	d.closer = nil
	d.codecContext = nil
	d.hardwareDeviceContext = nil
	d.hardwarePixelFormat = astiav.PixelFormatNone
	d.receivedKeyFrame = false
	return err
}
