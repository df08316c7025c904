package types

// VideoInfo is the stream metadata a parser delivers once per decoder creation.
type VideoInfo struct {
	Codec       CodecType
	Width       int
	Height      int
	PixelFormat string
	TimeBase    Rational
	FrameRate   Rational
	ExtraData   []byte
	Progressive bool

	// MaximumResolution is filled in by the handler, not by the parser.
	MaximumResolution MaximumResolution
}

// VideoEsPacket is a borrowed view into parser-owned encoded data. It is
// only valid during the callback that delivers it.
type VideoEsPacket struct {
	Data  []byte
	PTS   int64
	IsKey bool
}
