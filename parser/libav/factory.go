package libav

import (
	"context"

	"github.com/xaionaro-go/avsource/parser"
)

type Factory struct {
	Config Config
}

var _ parser.Factory = (*Factory)(nil)

func NewFactory(cfg Config) *Factory {
	return &Factory{Config: cfg}
}

func (f *Factory) NewParser(context.Context) (parser.Parser, error) {
	return New(f.Config), nil
}

func (f *Factory) String() string {
	return "LibavDemuxerFactory"
}
