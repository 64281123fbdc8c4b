// Package demux extracts self-contained raw ASTERIX frames from the
// encapsulations ASTERIX data is commonly captured or transported in: a raw
// passthrough, libpcap captures, HDLC-framed serial links, and the
// site-specific FINAL/GPS length-and-timestamp-prefixed formats.
package demux

import (
	"errors"
	"io"
	"iter"
	"time"
)

// ErrBadEncapsulation wraps any framing-level problem: a bad PCAP magic
// number, a failed HDLC CRC, a length field than doesn't fit the remaining
// buffer. Per spec.md §4.4/§7 these are never fatal to the stream — the
// offending frame is skipped and the next one is attempted.
var ErrBadEncapsulation = errors.New("demux: bad encapsulation framing")

// Frame is one de-multiplexed payload: a self-contained raw ASTERIX byte
// range (typically one or more back-to-back data blocks) and, when the
// encapsulation carries one, its capture timestamp.
type Frame struct {
	Timestamp time.Time
	HasTime   bool
	Payload   []byte
}

// Demuxer extracts a sequence of Frames from an io.Reader. Frames is a
// Go 1.23 iterator, so a malformed/skipped frame never needs its own
// sentinel value in the sequence — it is simply not yielded, while an error
// is yielded alongside a zero Frame for observability (see Raw/PCAP/HDLC
// below for exactly how each variant reports vs. swallows errors).
type Demuxer interface {
	Frames(r io.Reader) iter.Seq2[Frame, error]
}

// New constructs the Demuxer for enc. Every variant is a fresh per-call
// instance with its own scratch buffers — never a package-level singleton —
// so that two demuxers can run concurrently over independent streams.
func New(enc Encapsulation) Demuxer {
	switch enc {
	case PCAP:
		return NewPCAPDemuxer()
	case HDLC:
		return NewHDLCDemuxer()
	case Final:
		return NewLengthPrefixedDemuxer(finalHeader{})
	case GPS:
		return NewLengthPrefixedDemuxer(gpsHeader{})
	default:
		return RawDemuxer{}
	}
}

// Encapsulation names one of the de-muxer variants; mirrors asterix.Encapsulation
// so callers can select a transport without importing the asterix package.
type Encapsulation uint8

const (
	Raw Encapsulation = iota
	PCAP
	HDLC
	Final
	GPS
)
