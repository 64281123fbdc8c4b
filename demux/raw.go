package demux

import (
	"io"
	"iter"
)

// RawDemuxer passes the input stream through unchanged: each Read off the
// underlying io.Reader becomes one Frame, with no timestamp.
type RawDemuxer struct {
	// ReadSize controls how much is read per Frame; 0 selects a sensible
	// default.
	ReadSize int
}

const defaultRawReadSize = 65536

func (d RawDemuxer) Frames(r io.Reader) iter.Seq2[Frame, error] {
	readSize := d.ReadSize
	if readSize <= 0 {
		readSize = defaultRawReadSize
	}

	return func(yield func(Frame, error) bool) {
		buf := make([]byte, readSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				payload := make([]byte, n)
				copy(payload, buf[:n])
				if !yield(Frame{Payload: payload}, nil) {
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					yield(Frame{}, err)
				}
				return
			}
		}
	}
}
