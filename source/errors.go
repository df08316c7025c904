package source

import (
	"errors"
)

var (
	ErrNoModule           = errors.New("module is not set")
	ErrNoStreamID         = errors.New("stream ID is empty")
	ErrNoFilename         = errors.New("filename is empty")
	ErrNoImpl             = errors.New("handler is not initialized")
	ErrInvalidStreamIndex = errors.New("stream index is not assigned")
	ErrAlreadyOpened      = errors.New("handler is already opened")
	ErrClosed             = errors.New("handler is closed")
	ErrCloseFromWorker    = errors.New("handler cannot be closed from its own worker")
	ErrStreamExists       = errors.New("stream already exists")
	ErrStreamNotFound     = errors.New("stream not found")
)
