// Package parser defines the demuxer boundary of a source handler: a Parser
// is driven step by step and reports what it extracts through Result
// callbacks, synchronously, on the calling goroutine.
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avsource/types"
)

var (
	ErrNotOpened     = errors.New("parser is not opened")
	ErrNoVideoStream = errors.New("no video stream found")
)

// Result receives the output of a Parser.
type Result interface {
	// OnMetadata is called once per Open, before the first packet.
	OnMetadata(ctx context.Context, info *types.VideoInfo)

	// OnPacket is called for every encoded packet; nil means end of stream.
	// The packet must not be retained after the call returns.
	OnPacket(ctx context.Context, pkt *types.VideoEsPacket)
}

type Parser interface {
	fmt.Stringer

	// Open opens the source; it may already call Result.OnMetadata.
	Open(ctx context.Context, source string, result Result, onlyKeyFrame bool) error

	// Parse extracts one unit from the source and reports it to Result.
	// Reaching the end of the source is reported as OnPacket(nil) and a nil
	// error.
	Parse(ctx context.Context) error

	// Close is idempotent and may be called on a parser that failed to open.
	Close(ctx context.Context) error
}

// Factory creates a fresh Parser for every handler.
type Factory interface {
	fmt.Stringer
	NewParser(ctx context.Context) (Parser, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(ctx context.Context) (Parser, error)

func (fn FactoryFunc) NewParser(ctx context.Context) (Parser, error) {
	return fn(ctx)
}

func (fn FactoryFunc) String() string {
	return "FactoryFunc"
}
