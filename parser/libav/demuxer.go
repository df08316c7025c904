// Package libav implements parser.Parser on top of libavformat.
package libav

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/avsource/avconv"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/parser"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/secret"
)

type Config struct {
	// AuthKey is appended to the source URL when opening it and is never logged.
	AuthKey secret.String

	// Options are passed to avformat_open_input.
	Options map[string]string
}

type Demuxer struct {
	Config Config

	locker        sync.Mutex
	formatContext *astiav.FormatContext
	packet        *astiav.Packet
	closer        *astikit.Closer
	result        parser.Result
	videoStream   int
	timeBase      types.Rational
	onlyKeyFrame  bool
	source        string
	eosReported   bool
}

var _ parser.Parser = (*Demuxer)(nil)

func New(cfg Config) *Demuxer {
	return &Demuxer{
		Config:      cfg,
		videoStream: -1,
	}
}

func (d *Demuxer) String() string {
	return fmt.Sprintf("LibavDemuxer(%s)", d.source)
}

func (d *Demuxer) Open(
	ctx context.Context,
	source string,
	result parser.Result,
	onlyKeyFrame bool,
) (_err error) {
	logger.Debugf(ctx, "Open(%q, %t)", source, onlyKeyFrame)
	defer func() { logger.Debugf(ctx, "/Open(%q, %t): %v", source, onlyKeyFrame, _err) }()
	if result == nil {
		return fmt.Errorf("result receiver is not set")
	}

	d.locker.Lock()
	defer d.locker.Unlock()
	if d.closer != nil {
		return fmt.Errorf("already opened")
	}

	closer := astikit.NewCloser()
	defer func() {
		if _err != nil {
			if err := closer.Close(); err != nil {
				logger.Errorf(ctx, "unable to release the demuxer resources: %v", err)
			}
		}
	}()

	var dict *astiav.Dictionary
	if len(d.Config.Options) > 0 {
		dict = astiav.NewDictionary()
		closer.Add(dict.Free)
		for key, value := range d.Config.Options {
			if err := dict.Set(key, value, astiav.DictionaryFlags(0)); err != nil {
				return fmt.Errorf("unable to set option %q to %q: %w", key, value, err)
			}
		}
	}

	formatContext := astiav.AllocFormatContext()
	if formatContext == nil {
		return fmt.Errorf("unable to allocate a format context")
	}
	closer.Add(formatContext.Free)

	urlWithSecret := source
	if authKey := d.Config.AuthKey.Get(); authKey != "" {
		urlWithSecret += authKey
	}
	if err := formatContext.OpenInput(urlWithSecret, nil, dict); err != nil {
		if d.Config.AuthKey.Get() != "" {
			return fmt.Errorf("unable to open input '%s/<HIDDEN>': %w", source, err)
		}
		return fmt.Errorf("unable to open input '%s': %w", source, err)
	}
	closer.Add(formatContext.CloseInput)

	if err := formatContext.FindStreamInfo(nil); err != nil {
		return fmt.Errorf("unable to get stream info: %w", err)
	}

	stream := avconv.FindFirstVideoStream(formatContext)
	if stream == nil {
		return parser.ErrNoVideoStream
	}

	pkt := astiav.AllocPacket()
	closer.Add(pkt.Free)

	info := videoInfo(stream)
	logger.Tracef(ctx, "video stream #%d: %s", stream.Index(), spew.Sdump(info))

	d.formatContext = formatContext
	d.packet = pkt
	d.closer = closer
	d.result = result
	d.videoStream = stream.Index()
	d.timeBase = info.TimeBase
	d.onlyKeyFrame = onlyKeyFrame
	d.source = source
	d.eosReported = false

	result.OnMetadata(ctx, info)
	return nil
}

func videoInfo(stream *astiav.Stream) *types.VideoInfo {
	cp := stream.CodecParameters()
	var extraData []byte
	if b := cp.ExtraData(); len(b) > 0 {
		extraData = make([]byte, len(b))
		copy(extraData, b)
	}
	return &types.VideoInfo{
		Codec:       avconv.CodecType(cp.CodecID()),
		Width:       cp.Width(),
		Height:      cp.Height(),
		PixelFormat: cp.PixelFormat().String(),
		TimeBase:    avconv.Rational(stream.TimeBase()),
		FrameRate:   avconv.Rational(stream.AvgFrameRate()),
		ExtraData:   extraData,
		Progressive: true,
	}
}

func (d *Demuxer) Parse(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Parse")
	defer func() { logger.Tracef(ctx, "/Parse: %v", _err) }()

	d.locker.Lock()
	defer d.locker.Unlock()
	if d.closer == nil {
		return parser.ErrNotOpened
	}
	if d.eosReported {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.packet.Unref()
		err := d.formatContext.ReadFrame(d.packet)
		switch {
		case err == nil:
		case errors.Is(err, astiav.ErrEof), errors.Is(err, astiav.ErrEio):
			d.eosReported = true
			d.result.OnPacket(ctx, nil)
			return nil
		case errors.Is(err, astiav.ErrEagain):
			continue
		default:
			return fmt.Errorf("unable to read a packet: %w", err)
		}

		if d.packet.StreamIndex() != d.videoStream {
			continue
		}
		isKey := d.packet.Flags().Has(astiav.PacketFlagKey)
		if d.onlyKeyFrame && !isKey {
			continue
		}

		logger.Tracef(ctx, "packet: pts:%d (%v); key:%t; size:%d", d.packet.Pts(), avconv.Duration(d.packet.Pts(), d.timeBase), isKey, d.packet.Size())
		d.result.OnPacket(ctx, &types.VideoEsPacket{
			Data:  d.packet.Data(),
			PTS:   d.packet.Pts(),
			IsKey: isKey,
		})
		return nil
	}
}

func (d *Demuxer) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	d.locker.Lock()
	defer d.locker.Unlock()
	if d.closer == nil {
		return nil
	}
	err := d.closer.Close()
	d.closer = nil
	d.formatContext = nil
	d.packet = nil
	d.result = nil
	d.videoStream = -1
	return err
}
