package mp4

import (
	"context"

	"github.com/xaionaro-go/avsource/parser"
)

type Factory struct{}

var _ parser.Factory = Factory{}

func (Factory) NewParser(context.Context) (parser.Parser, error) {
	return New(), nil
}

func (Factory) String() string {
	return "MP4DemuxerFactory"
}
