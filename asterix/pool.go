package asterix

import "sync"

// bufferPool hands out reusable byte slices sized for one data block at a
// time. It hangs off a single Parser instance rather than being a package
// singleton, so two Parsers decoding concurrently never share (and
// contend on) the same pool.
type bufferPool struct {
	small  sync.Pool // up to 64 bytes
	medium sync.Pool // up to 1024 bytes
	large  sync.Pool // up to 8192 bytes
}

const (
	smallBufferSize  = 64
	mediumBufferSize = 1024
	largeBufferSize  = 8192
)

func newBufferPool() *bufferPool {
	return &bufferPool{
		small:  sync.Pool{New: func() any { b := make([]byte, 0, smallBufferSize); return &b }},
		medium: sync.Pool{New: func() any { b := make([]byte, 0, mediumBufferSize); return &b }},
		large:  sync.Pool{New: func() any { b := make([]byte, 0, largeBufferSize); return &b }},
	}
}

func (p *bufferPool) get(capacity int) []byte {
	var buf *[]byte
	switch {
	case capacity <= smallBufferSize:
		buf = p.small.Get().(*[]byte)
		if cap(*buf) < capacity {
			*buf = make([]byte, 0, smallBufferSize)
		}
	case capacity <= mediumBufferSize:
		buf = p.medium.Get().(*[]byte)
		if cap(*buf) < capacity {
			*buf = make([]byte, 0, mediumBufferSize)
		}
	case capacity <= largeBufferSize:
		buf = p.large.Get().(*[]byte)
		if cap(*buf) < capacity {
			*buf = make([]byte, 0, largeBufferSize)
		}
	default:
		return make([]byte, 0, capacity)
	}
	*buf = (*buf)[:0]
	return *buf
}

func (p *bufferPool) put(buf []byte) {
	switch cap(buf) {
	case smallBufferSize:
		p.small.Put(&buf)
	case mediumBufferSize:
		p.medium.Put(&buf)
	case largeBufferSize:
		p.large.Put(&buf)
	default:
		// non-standard size; let the GC reclaim it
	}
}
