// Package mp4 implements parser.Parser for ISO-BMFF files (progressive and
// fragmented) carrying H.264 video, without libavformat.
package mp4

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/parser"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/avsource/urltools"
)

var ErrUnsupportedSampleEntry = errors.New("unsupported video sample entry")

const defaultTimescale = 1000

type sample struct {
	Data  []byte
	PTS   int64
	IsKey bool
}

// sampleIterator yields samples in decode order; io.EOF ends the track.
type sampleIterator interface {
	Next() (sample, error)
}

type Demuxer struct {
	locker       sync.Mutex
	file         *os.File
	samples      sampleIterator
	result       parser.Result
	onlyKeyFrame bool
	source       string
	eosReported  bool
}

var _ parser.Parser = (*Demuxer)(nil)

func New() *Demuxer {
	return &Demuxer{}
}

func (d *Demuxer) String() string {
	return fmt.Sprintf("MP4Demuxer(%s)", d.source)
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
	if d.file != nil {
		return fmt.Errorf("already opened")
	}

	f, err := os.Open(urltools.LocalPath(source))
	if err != nil {
		return fmt.Errorf("unable to open '%s': %w", source, err)
	}
	defer func() {
		if _err != nil {
			f.Close()
		}
	}()

	mp4File, err := decodeFile(f)
	if err != nil {
		return fmt.Errorf("unable to decode '%s': %w", source, err)
	}

	var moov *mp4.MoovBox
	switch {
	case mp4File.IsFragmented() && mp4File.Init != nil:
		moov = mp4File.Init.Moov
	default:
		moov = mp4File.Moov
	}
	if moov == nil {
		return fmt.Errorf("no moov box in '%s'", source)
	}

	trak := findVideoTrack(moov)
	if trak == nil {
		return parser.ErrNoVideoStream
	}

	info, paramSets, err := videoInfo(trak)
	if err != nil {
		return err
	}
	logger.Tracef(ctx, "video track #%d: %s", trak.Tkhd.TrackID, spew.Sdump(info))

	var samples sampleIterator
	if mp4File.IsFragmented() {
		samples, err = newFragmentedIterator(mp4File, moov, trak, paramSets)
	} else {
		samples, err = newProgressiveIterator(f, trak, paramSets)
	}
	if err != nil {
		return err
	}

	d.file = f
	d.samples = samples
	d.result = result
	d.onlyKeyFrame = onlyKeyFrame
	d.source = source
	d.eosReported = false

	result.OnMetadata(ctx, info)
	return nil
}

// decodeFile leaves the mdat of progressive files on disk; samples are read
// on demand. Fragment samples are resolved from memory, so fragmented files
// are decoded a second time with their media data.
func decodeFile(f io.ReadSeeker) (*mp4.File, error) {
	mp4File, err := mp4.DecodeFile(f, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return nil, err
	}
	if !mp4File.IsFragmented() {
		return mp4File, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("unable to rewind: %w", err)
	}
	return mp4.DecodeFile(f)
}

func findVideoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func videoInfo(trak *mp4.TrakBox) (*types.VideoInfo, []byte, error) {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return nil, nil, fmt.Errorf("no sample description in track #%d", trak.Tkhd.TrackID)
	}

	var entry *mp4.VisualSampleEntryBox
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			entry = vse
			break
		}
	}
	if entry == nil || entry.AvcC == nil {
		return nil, nil, ErrUnsupportedSampleEntry
	}

	timescale := uint32(defaultTimescale)
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	paramSets := parameterSetsAnnexB(entry.AvcC.SPSnalus, entry.AvcC.PPSnalus)
	return &types.VideoInfo{
		Codec:       types.CodecTypeH264,
		Width:       int(entry.Width),
		Height:      int(entry.Height),
		TimeBase:    types.Rational{Num: 1, Den: int(timescale)},
		ExtraData:   paramSets,
		Progressive: true,
	}, paramSets, nil
}

func (d *Demuxer) Parse(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Parse")
	defer func() { logger.Tracef(ctx, "/Parse: %v", _err) }()

	d.locker.Lock()
	defer d.locker.Unlock()
	if d.file == nil {
		return parser.ErrNotOpened
	}
	if d.eosReported {
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s, err := d.samples.Next()
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			d.eosReported = true
			d.result.OnPacket(ctx, nil)
			return nil
		default:
			return fmt.Errorf("unable to read a sample: %w", err)
		}
		if d.onlyKeyFrame && !s.IsKey {
			continue
		}
		d.result.OnPacket(ctx, &types.VideoEsPacket{
			Data:  s.Data,
			PTS:   s.PTS,
			IsKey: s.IsKey,
		})
		return nil
	}
}

func (d *Demuxer) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	d.locker.Lock()
	defer d.locker.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.samples = nil
	d.result = nil
	return err
}
