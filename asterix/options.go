package asterix

import "log/slog"

// Encapsulation selects the framing a Parser's input is wrapped in before
// the raw CAT/LEN data blocks begin. The Parser itself never un-wraps these
// — that is demux's job — and only records the option.
type Encapsulation uint8

const (
	Raw Encapsulation = iota
	Pcap
	Hdlc
	Final
	Gps
)

func (e Encapsulation) String() string {
	switch e {
	case Raw:
		return "raw"
	case Pcap:
		return "pcap"
	case Hdlc:
		return "hdlc"
	case Final:
		return "final"
	case Gps:
		return "gps"
	default:
		return "unknown"
	}
}

// Default option values, per spec.md §6.4.
const (
	DefaultMaxMessageSize   = 65536
	DefaultMaxBlocksPerCall = 10000
)

// Options configures a Parser. Build one with NewOptions and the With*
// constructors below, mirroring the teacher's Reader/ReaderOption pattern.
type Options struct {
	Encapsulation    Encapsulation
	MaxMessageSize   int
	MaxBlocksPerCall int
	Verbose          bool
	Logger           *slog.Logger
}

// Option configures an Options value.
type Option func(*Options)

// NewOptions builds the default Options, then applies opts in order.
func NewOptions(opts ...Option) Options {
	o := Options{
		Encapsulation:    Raw,
		MaxMessageSize:   DefaultMaxMessageSize,
		MaxBlocksPerCall: DefaultMaxBlocksPerCall,
		Logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEncapsulation sets the input framing.
func WithEncapsulation(e Encapsulation) Option {
	return func(o *Options) { o.Encapsulation = e }
}

// WithMaxMessageSize bounds the largest single data block Feed will accept.
func WithMaxMessageSize(n int) Option {
	return func(o *Options) { o.MaxMessageSize = n }
}

// WithMaxBlocksPerCall bounds how many data blocks a single Feed call will
// decode before yielding control back to the caller, guarding against one
// pathological input monopolizing a goroutine forever.
func WithMaxBlocksPerCall(n int) Option {
	return func(o *Options) { o.MaxBlocksPerCall = n }
}

// WithVerbose enables per-record debug logging.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.Verbose = v }
}

// WithLogger overrides the default slog logger used for recovery/skip
// diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
