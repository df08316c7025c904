package source

import (
	"github.com/xaionaro-go/avsource/decoder"
	"github.com/xaionaro-go/avsource/device"
	"github.com/xaionaro-go/avsource/parser"
)

type Config struct {
	// ParserFactory overrides the demuxer selected by SourceParam.Demuxer.
	ParserFactory  parser.Factory
	DecoderFactory decoder.Factory
	DeviceBinder   device.Binder
}

type Option interface {
	apply(*Config)
}
type Options []Option

func (opts Options) apply(cfg *Config) {
	for _, opt := range opts {
		opt.apply(cfg)
	}
}

func (opts Options) config() Config {
	var cfg Config
	opts.apply(&cfg)
	return cfg
}

type OptionParserFactoryValue struct {
	parser.Factory
}

func (o OptionParserFactoryValue) apply(cfg *Config) {
	cfg.ParserFactory = o.Factory
}

func OptionParserFactory(f parser.Factory) OptionParserFactoryValue {
	return OptionParserFactoryValue{f}
}

type OptionDecoderFactoryValue struct {
	decoder.Factory
}

func (o OptionDecoderFactoryValue) apply(cfg *Config) {
	cfg.DecoderFactory = o.Factory
}

func OptionDecoderFactory(f decoder.Factory) OptionDecoderFactoryValue {
	return OptionDecoderFactoryValue{f}
}

type OptionDeviceBinderValue struct {
	device.Binder
}

func (o OptionDeviceBinderValue) apply(cfg *Config) {
	cfg.DeviceBinder = o.Binder
}

func OptionDeviceBinder(b device.Binder) OptionDeviceBinderValue {
	return OptionDeviceBinderValue{b}
}
