package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/xaionaro-go/avsource/event"
	"github.com/xaionaro-go/avsource/frameinfo"
	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/param"
	"github.com/xaionaro-go/avsource/profiler"
	"github.com/xaionaro-go/avsource/types"
	"github.com/xaionaro-go/xsync"
)

const (
	defaultFrameQueueSize = 32
	defaultEventQueueSize = 16
)

type DataSourceConfig struct {
	FrameQueueSize int
	EventQueueSize int

	// Profiler is optional.
	Profiler *profiler.Memory

	// Container is optional.
	Container Container

	HandlerOptions []Option
}

// DataSource is a Module that reads any number of files and delivers their
// decoded frames through a single channel.
type DataSource struct {
	name      string
	param     SourceParam
	config    DataSourceConfig
	frames    chan *frameinfo.FrameInfo
	events    chan event.Event
	closeChan chan struct{}
	running   sync.WaitGroup

	locker   xsync.Mutex
	handlers map[string]*FileHandler
	indices  map[types.StreamIndex]string
	closed   bool
}

var _ Module = (*DataSource)(nil)

func NewDataSource(
	ctx context.Context,
	name string,
	raw param.Raw,
	cfg DataSourceConfig,
) (*DataSource, error) {
	p, err := ParseSourceParam(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid parameters of module '%s': %w", name, err)
	}
	if cfg.FrameQueueSize <= 0 {
		cfg.FrameQueueSize = defaultFrameQueueSize
	}
	if cfg.EventQueueSize <= 0 {
		cfg.EventQueueSize = defaultEventQueueSize
	}
	return &DataSource{
		name:      name,
		param:     p,
		config:    cfg,
		frames:    make(chan *frameinfo.FrameInfo, cfg.FrameQueueSize),
		events:    make(chan event.Event, cfg.EventQueueSize),
		closeChan: make(chan struct{}),
		handlers:  map[string]*FileHandler{},
		indices:   map[types.StreamIndex]string{},
	}, nil
}

func (d *DataSource) String() string {
	return fmt.Sprintf("DataSource(%s)", d.name)
}

func (d *DataSource) GetName() string {
	return d.name
}

// Frames is closed by Close after every handler has exited.
func (d *DataSource) Frames() <-chan *frameinfo.FrameInfo {
	return d.frames
}

// Events is closed by Close after every handler has exited.
func (d *DataSource) Events() <-chan event.Event {
	return d.events
}

func (d *DataSource) GetSourceParam() SourceParam {
	return d.param
}

func (d *DataSource) GetProfiler() profiler.Module {
	if d.config.Profiler == nil {
		return nil
	}
	return d.config.Profiler
}

func (d *DataSource) GetContainer() Container {
	return d.config.Container
}

// PostEvent never blocks; events that do not fit the queue are dropped.
func (d *DataSource) PostEvent(ctx context.Context, ev event.Event) bool {
	select {
	case d.events <- ev:
		return true
	default:
		logger.Warnf(ctx, "the event queue is full; dropping %s", ev)
		return false
	}
}

func (d *DataSource) CreateFrameInfo(
	ctx context.Context,
	streamID string,
	streamIndex types.StreamIndex,
	eos bool,
) *frameinfo.FrameInfo {
	return frameinfo.New(streamID, streamIndex, eos)
}

// SendFrameInfo blocks until the frame is queued, ctx is cancelled or the
// module is closed.
func (d *DataSource) SendFrameInfo(ctx context.Context, fi *frameinfo.FrameInfo) bool {
	if fi == nil {
		return false
	}
	if !fi.IsEOS() {
		key := profiler.RecordKey{StreamID: fi.StreamID, PTS: fi.Timestamp}
		if p := d.GetProfiler(); p != nil {
			p.RecordProcessEnd(profiler.ProcessProfilerName, key)
		}
		if c := d.GetContainer(); c != nil {
			if p := c.GetProfiler(); p != nil {
				p.RecordOutput(key)
			}
		}
	}
	select {
	case d.frames <- fi:
		return true
	case <-ctx.Done():
		logger.Debugf(ctx, "dropping %s: %v", fi, ctx.Err())
		return false
	case <-d.closeChan:
		return false
	}
}

// AddSource registers a stream and starts reading filename.
func (d *DataSource) AddSource(
	ctx context.Context,
	streamID string,
	filename string,
	frameRate float64,
	loop bool,
	maxResolution types.MaximumResolution,
) (_err error) {
	logger.Debugf(ctx, "AddSource(%q, %q, %v, %t)", streamID, filename, frameRate, loop)
	defer func() { logger.Debugf(ctx, "/AddSource(%q): %v", streamID, _err) }()

	return xsync.DoR1(ctx, &d.locker, func() error {
		if d.closed {
			return ErrClosed
		}
		if _, ok := d.handlers[streamID]; ok {
			return fmt.Errorf("%w: %q", ErrStreamExists, streamID)
		}

		h, err := NewFileHandler(ctx, d, streamID, filename, frameRate, loop, maxResolution, d.config.HandlerOptions...)
		if err != nil {
			return err
		}
		idx := d.allocStreamIndexLocked(streamID)
		h.SetStreamIndex(idx)
		if err := h.Open(ctx); err != nil {
			delete(d.indices, idx)
			return fmt.Errorf("unable to open stream %q: %w", streamID, err)
		}
		d.handlers[streamID] = h
		d.running.Add(1)
		return nil
	})
}

func (d *DataSource) allocStreamIndexLocked(streamID string) types.StreamIndex {
	idx := types.StreamIndex(0)
	for {
		if _, ok := d.indices[idx]; !ok {
			break
		}
		idx++
	}
	d.indices[idx] = streamID
	return idx
}

// RemoveSource stops a stream and waits for its worker to exit.
func (d *DataSource) RemoveSource(ctx context.Context, streamID string) (_err error) {
	logger.Debugf(ctx, "RemoveSource(%q)", streamID)
	defer func() { logger.Debugf(ctx, "/RemoveSource(%q): %v", streamID, _err) }()

	var h *FileHandler
	d.locker.Do(ctx, func() {
		h = d.handlers[streamID]
		delete(d.handlers, streamID)
	})
	if h == nil {
		return fmt.Errorf("%w: %q", ErrStreamNotFound, streamID)
	}
	defer d.running.Done()
	err := h.Close(ctx)
	d.locker.Do(ctx, func() {
		delete(d.indices, h.GetStreamIndex())
	})
	return err
}

// StreamIDs returns the registered streams sorted by their index.
func (d *DataSource) StreamIDs(ctx context.Context) []string {
	return xsync.DoR1(ctx, &d.locker, func() []string {
		indices := make([]types.StreamIndex, 0, len(d.indices))
		for idx := range d.indices {
			indices = append(indices, idx)
		}
		sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
		result := make([]string, 0, len(indices))
		for _, idx := range indices {
			result = append(result, d.indices[idx])
		}
		return result
	})
}

// Close stops every stream, waits for the workers and closes the output
// channels. It is idempotent.
func (d *DataSource) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	var handlers []*FileHandler
	alreadyClosed := false
	d.locker.Do(ctx, func() {
		if d.closed {
			alreadyClosed = true
			return
		}
		d.closed = true
		for _, h := range d.handlers {
			handlers = append(handlers, h)
		}
		d.handlers = map[string]*FileHandler{}
		d.indices = map[types.StreamIndex]string{}
	})
	if alreadyClosed {
		return nil
	}

	close(d.closeChan)
	var result []error
	for _, h := range handlers {
		if err := h.Close(ctx); err != nil {
			result = append(result, fmt.Errorf("unable to close %s: %w", h, err))
		}
		d.running.Done()
	}
	d.running.Wait()
	close(d.frames)
	close(d.events)
	return errors.Join(result...)
}
