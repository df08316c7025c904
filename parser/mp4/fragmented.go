package mp4

import (
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
)

type fragmentedIterator struct {
	paramSets []byte
	samples   []sample
	next      int
}

func newFragmentedIterator(
	mp4File *mp4.File,
	moov *mp4.MoovBox,
	trak *mp4.TrakBox,
	paramSets []byte,
) (*fragmentedIterator, error) {
	trackID := trak.Tkhd.TrackID

	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	it := &fragmentedIterator{paramSets: paramSets}
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || !fragmentHasTrack(frag, trackID) {
				continue
			}
			fullSamples, err := frag.GetFullSamples(trex)
			if err != nil {
				return nil, fmt.Errorf("unable to get the samples of a fragment: %w", err)
			}
			for idx, fs := range fullSamples {
				isKey := mp4.IsSyncSampleFlags(fs.Flags) || (len(it.samples) == 0 && idx == 0)
				data := avccToAnnexB(fs.Data)
				if isKey {
					data = withPrefix(paramSets, data)
				}
				it.samples = append(it.samples, sample{
					Data:  data,
					PTS:   fs.PresentationTime(),
					IsKey: isKey,
				})
			}
		}
	}
	return it, nil
}

func fragmentHasTrack(frag *mp4.Fragment, trackID uint32) bool {
	for _, traf := range frag.Moof.Trafs {
		if traf.Tfhd != nil && traf.Tfhd.TrackID == trackID {
			return true
		}
	}
	return false
}

func (it *fragmentedIterator) Next() (sample, error) {
	if it.next >= len(it.samples) {
		return sample{}, io.EOF
	}
	s := it.samples[it.next]
	it.next++
	return s, nil
}
