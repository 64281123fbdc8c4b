package demux

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"time"
)

// frameHeader parses one encapsulation's fixed-size per-frame header into a
// payload length and timestamp. FINAL and GPS share everything except this.
type frameHeader interface {
	size() int
	parse(hdr []byte) (length int, ts time.Time, err error)
}

// finalHeader: 4-byte big-endian length, 4-byte big-endian Unix seconds,
// per spec.md §4.4 ("a header carrying a length and timestamp").
type finalHeader struct{}

func (finalHeader) size() int { return 8 }

func (finalHeader) parse(hdr []byte) (int, time.Time, error) {
	length := int(binary.BigEndian.Uint32(hdr[0:4]))
	secs := binary.BigEndian.Uint32(hdr[4:8])
	return length, time.Unix(int64(secs), 0), nil
}

// gpsEpoch is the start of GPS time, used to interpret gpsHeader's
// timestamp field (seconds since GPS epoch, distinct from Unix epoch by the
// accumulated leap-second offset, which this implementation does not
// attempt to track).
var gpsEpoch = time.Date(1980, time.January, 6, 0, 0, 0, 0, time.UTC)

// gpsHeader: 4-byte big-endian length, 8-byte big-endian seconds-since-GPS-epoch
// timestamp, per spec.md §4.4 ("similar to FINAL, with a GPS-formatted timestamp").
type gpsHeader struct{}

func (gpsHeader) size() int { return 12 }

func (gpsHeader) parse(hdr []byte) (int, time.Time, error) {
	length := int(binary.BigEndian.Uint32(hdr[0:4]))
	secs := binary.BigEndian.Uint64(hdr[4:12])
	return length, gpsEpoch.Add(time.Duration(secs) * time.Second), nil
}

// LengthPrefixedDemuxer implements the FINAL and GPS encapsulations: each
// frame is a fixed header (length + timestamp) followed by exactly that
// many bytes of payload.
type LengthPrefixedDemuxer struct {
	header frameHeader
}

// NewLengthPrefixedDemuxer constructs a LengthPrefixedDemuxer for the given
// header variant (finalHeader or gpsHeader).
func NewLengthPrefixedDemuxer(h frameHeader) *LengthPrefixedDemuxer {
	return &LengthPrefixedDemuxer{header: h}
}

func (d *LengthPrefixedDemuxer) Frames(r io.Reader) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		hdrBuf := make([]byte, d.header.size())
		for {
			if _, err := io.ReadFull(r, hdrBuf); err != nil {
				if err != io.EOF && err != io.ErrUnexpectedEOF {
					yield(Frame{}, fmt.Errorf("%w: frame header: %v", ErrBadEncapsulation, err))
				}
				return
			}

			length, ts, err := d.header.parse(hdrBuf)
			if err != nil {
				if !yield(Frame{}, fmt.Errorf("%w: %v", ErrBadEncapsulation, err)) {
					return
				}
				continue
			}
			if length < 0 {
				if !yield(Frame{}, fmt.Errorf("%w: negative frame length %d", ErrBadEncapsulation, length)) {
					return
				}
				continue
			}

			payload := make([]byte, length)
			if _, err := io.ReadFull(r, payload); err != nil {
				yield(Frame{}, fmt.Errorf("%w: frame payload: %v", ErrBadEncapsulation, err))
				return
			}

			if !yield(Frame{Timestamp: ts, HasTime: true, Payload: payload}, nil) {
				return
			}
		}
	}
}
