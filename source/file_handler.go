package source

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avsource/logger"
	"github.com/xaionaro-go/avsource/types"
)

// FileHandler is the handle a module keeps for one file (or any URL libav
// can open) it reads from.
type FileHandler struct {
	module Module
	impl   *fileHandlerImpl
}

// NewFileHandler validates the arguments and prepares (but does not start)
// a handler. A frameRate <= 0 means unpaced; loop makes the handler restart
// the source every time it ends.
func NewFileHandler(
	ctx context.Context,
	module Module,
	streamID string,
	filename string,
	frameRate float64,
	loop bool,
	maxResolution types.MaximumResolution,
	opts ...Option,
) (*FileHandler, error) {
	switch {
	case module == nil:
		return nil, ErrNoModule
	case streamID == "":
		return nil, ErrNoStreamID
	case filename == "":
		return nil, ErrNoFilename
	}
	return &FileHandler{
		module: module,
		impl: newFileHandlerImpl(
			module, streamID, filename,
			frameRate, loop, maxResolution,
			Options(opts).config(),
		),
	}, nil
}

func (h *FileHandler) String() string {
	return fmt.Sprintf("FileHandler(%s)", h.GetStreamID())
}

func (h *FileHandler) GetStreamID() string {
	if h.impl == nil {
		return ""
	}
	return h.impl.GetStreamID()
}

func (h *FileHandler) GetStreamIndex() types.StreamIndex {
	if h.impl == nil {
		return types.InvalidStreamIndex
	}
	return h.impl.GetStreamIndex()
}

// SetStreamIndex is called by the owning module before Open.
func (h *FileHandler) SetStreamIndex(idx types.StreamIndex) {
	if h.impl == nil {
		return
	}
	h.impl.SetStreamIndex(idx)
}

// Open starts the worker goroutine.
func (h *FileHandler) Open(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Open")
	defer func() { logger.Debugf(ctx, "/Open: %v", _err) }()
	switch {
	case h.module == nil:
		return ErrNoModule
	case h.impl == nil:
		return ErrNoImpl
	case !h.impl.GetStreamIndex().IsValid():
		return ErrInvalidStreamIndex
	}
	return h.impl.Open(ctx)
}

// Stop asks the worker to exit at its next check and returns immediately.
func (h *FileHandler) Stop() {
	if h.impl == nil {
		return
	}
	h.impl.Stop()
}

// Close stops the worker and waits for it to exit. It must not be called
// from the goroutine that runs the Module callbacks of this handler.
func (h *FileHandler) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	if h.impl == nil {
		return nil
	}
	return h.impl.Close(ctx)
}
