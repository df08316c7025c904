package mp4

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
)

type progressiveIterator struct {
	reader      io.ReadSeeker
	stbl        *mp4.StblBox
	paramSets   []byte
	syncSamples map[uint32]struct{}
	sampleCount uint32
	nextSample  uint32
}

func newProgressiveIterator(
	reader io.ReadSeeker,
	trak *mp4.TrakBox,
	paramSets []byte,
) (*progressiveIterator, error) {
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil || stbl.Stsc == nil {
		return nil, fmt.Errorf("no sample size or sample-to-chunk table in track #%d", trak.Tkhd.TrackID)
	}
	if stbl.Stco == nil && stbl.Co64 == nil {
		return nil, fmt.Errorf("no chunk offset table in track #%d", trak.Tkhd.TrackID)
	}

	it := &progressiveIterator{
		reader:      reader,
		stbl:        stbl,
		paramSets:   paramSets,
		sampleCount: stbl.Stsz.SampleNumber,
		nextSample:  1,
	}
	if stbl.Stss != nil {
		it.syncSamples = make(map[uint32]struct{}, len(stbl.Stss.SampleNumber))
		for _, nr := range stbl.Stss.SampleNumber {
			it.syncSamples[nr] = struct{}{}
		}
	}
	return it, nil
}

func (it *progressiveIterator) isSync(sampleNr uint32) bool {
	if it.syncSamples == nil {
		return true
	}
	_, ok := it.syncSamples[sampleNr]
	return ok
}

func (it *progressiveIterator) Next() (sample, error) {
	if it.nextSample > it.sampleCount {
		return sample{}, io.EOF
	}
	sampleNr := it.nextSample
	it.nextSample++

	data, err := it.readSample(sampleNr)
	if err != nil {
		return sample{}, fmt.Errorf("sample #%d: %w", sampleNr, err)
	}

	var pts int64
	if it.stbl.Stts != nil {
		decodeTime, _ := it.stbl.Stts.GetDecodeTime(sampleNr)
		pts = int64(decodeTime)
	}
	if it.stbl.Ctts != nil {
		pts += int64(it.stbl.Ctts.GetCompositionTimeOffset(sampleNr))
	}

	isKey := it.isSync(sampleNr)
	annexB := avccToAnnexB(data)
	if isKey {
		annexB = withPrefix(it.paramSets, annexB)
	}
	return sample{
		Data:  annexB,
		PTS:   pts,
		IsKey: isKey,
	}, nil
}

func (it *progressiveIterator) readSample(sampleNr uint32) ([]byte, error) {
	stbl := it.stbl
	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("unable to find the chunk: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("unable to get the chunk offset: %w", err)
		}
	default:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk #%d is out of range", chunkNr)
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}

	if _, err := it.reader.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("unable to seek to %d: %w", offset, err)
	}
	data := make([]byte, stbl.Stsz.GetSampleSize(int(sampleNr)))
	if _, err := io.ReadFull(it.reader, data); err != nil {
		return nil, fmt.Errorf("unable to read %d bytes at %d: %w", len(data), offset, err)
	}
	return data, nil
}
