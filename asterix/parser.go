package asterix

import (
	"fmt"
	"iter"
	"time"

	"github.com/go-asterix/gobelix/descriptor"
)

// Parser decodes a stream of ASTERIX data blocks against a frozen
// descriptor.Library. One Parser belongs to one stream: it carries whatever
// trailing partial block a Feed call didn't finish, so Feed must always be
// called from a single goroutine at a time (see spec.md §5).
type Parser struct {
	library *descriptor.Library
	options Options
	pool    *bufferPool
	carry   []byte
}

// New creates a Parser over library, which must already be populated (via
// xmlloader) and is typically frozen by the caller beforehand.
func New(library *descriptor.Library, opts ...Option) (*Parser, error) {
	if library == nil {
		return nil, fmt.Errorf("asterix: library cannot be nil")
	}
	return &Parser{
		library: library,
		options: NewOptions(opts...),
		pool:    newBufferPool(),
	}, nil
}

// Feed decodes as many complete data blocks as data (plus whatever was held
// over from a previous Feed call) contains, yielding one (record, error)
// pair per decoded record and at most one additional (nil, error) pair per
// block-level failure. Any trailing incomplete block is retained internally
// and prefixed to the next call's data.
func (p *Parser) Feed(data []byte) iter.Seq2[*DecodedRecord, error] {
	return func(yield func(*DecodedRecord, error) bool) {
		buf := p.pool.get(len(p.carry) + len(data))
		buf = append(buf, p.carry...)
		buf = append(buf, data...)
		if p.carry != nil {
			p.pool.put(p.carry)
			p.carry = nil
		}

		pos := 0
		blocks := 0
		for blocks < p.options.MaxBlocksPerCall {
			if len(buf)-pos < 3 {
				break // wait for more header bytes
			}

			cat := Category(buf[pos])
			length := int(buf[pos+1])<<8 | int(buf[pos+2])

			if length < 3 {
				if !yield(nil, fmt.Errorf("%w: length %d at offset %d", ErrMalformedBlock, length, pos)) {
					p.finish(buf, pos)
					return
				}
				pos++
				continue
			}
			if length > p.options.MaxMessageSize {
				if !yield(nil, fmt.Errorf("%w: length %d exceeds max message size %d", ErrMalformedBlock, length, p.options.MaxMessageSize)) {
					p.finish(buf, len(buf))
					return
				}
				// Byte alignment is unrecoverable once a block claims an
				// implausible length; discard the rest of this buffer.
				p.finish(buf, len(buf))
				return
			}
			if len(buf)-pos < length {
				break // wait for the rest of this block
			}

			// Copied so that records decoded from it stay valid after buf
			// goes back to the pool.
			body := append([]byte(nil), buf[pos+3:pos+length]...)
			cd, ok := p.library.Lookup(cat)
			if !ok {
				if !yield(nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)) {
					p.finish(buf, pos+length)
					return
				}
				pos += length
				blocks++
				continue
			}

			records, err := decodeBlock(cd, body)
			for _, rec := range records {
				rec.Timestamp = time.Now()
				var recErr error
				if rec.Partial {
					recErr = rec.Err
				}
				if p.options.Verbose {
					p.options.Logger.Debug("decoded record", "category", cd.ID, "partial", rec.Partial)
				}
				if !yield(rec, recErr) {
					p.finish(buf, pos+length)
					return
				}
			}
			if err != nil {
				if !yield(nil, err) {
					p.finish(buf, pos+length)
					return
				}
			}

			pos += length
			blocks++
		}

		p.finish(buf, pos)
	}
}

// finish saves whatever of buf lies at or after pos as the next call's
// carry-over, then returns buf itself to the pool (saveCarry has already
// copied anything worth keeping out of it).
func (p *Parser) finish(buf []byte, pos int) {
	p.saveCarry(buf[pos:])
	p.pool.put(buf)
}

func (p *Parser) saveCarry(tail []byte) {
	if len(tail) == 0 {
		p.carry = nil
		return
	}
	c := p.pool.get(len(tail))
	c = append(c, tail...)
	p.carry = c
}
