// Package bitio is the sole component that directly indexes octets.
//
// Every other package reads bytes and bitfields through a Cursor. A Cursor
// is a bounds-checked view over a byte slice: no read may advance past its
// end, and every advance updates the byte count atomically, so a caller can
// always ask how much was consumed even when a read fails partway through.
package bitio

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned whenever a read would need more bytes than the
// cursor has remaining.
var ErrTruncated = errors.New("bitio: truncated")

// Cursor is a forward-only, bounds-checked reader over a byte slice.
type Cursor struct {
	data []byte
	pos  int
}

// New creates a Cursor over data, starting at offset 0.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current byte offset from the start of the underlying slice.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of bytes remaining.
func (c *Cursor) Len() int { return len(c.data) - c.pos }

// Remaining returns the unread tail of the underlying slice. The caller must
// not mutate it; it aliases the Cursor's buffer.
func (c *Cursor) Remaining() []byte { return c.data[c.pos:] }

// Bytes returns the full underlying slice the cursor was constructed with.
func (c *Cursor) Bytes() []byte { return c.data }

// PeekU8 returns the next byte without advancing the cursor.
func (c *Cursor) PeekU8() (byte, error) {
	if c.Len() < 1 {
		return 0, fmt.Errorf("peek u8: %w", ErrTruncated)
	}
	return c.data[c.pos], nil
}

// TakeU8 reads and consumes one byte.
func (c *Cursor) TakeU8() (byte, error) {
	if c.Len() < 1 {
		return 0, fmt.Errorf("take u8: %w", ErrTruncated)
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// TakeU16BE reads and consumes a big-endian uint16.
func (c *Cursor) TakeU16BE() (uint16, error) {
	if c.Len() < 2 {
		return 0, fmt.Errorf("take u16: %w", ErrTruncated)
	}
	v := uint16(c.data[c.pos])<<8 | uint16(c.data[c.pos+1])
	c.pos += 2
	return v, nil
}

// TakeU32BE reads and consumes a big-endian uint32.
func (c *Cursor) TakeU32BE() (uint32, error) {
	if c.Len() < 4 {
		return 0, fmt.Errorf("take u32: %w", ErrTruncated)
	}
	v := uint32(c.data[c.pos])<<24 | uint32(c.data[c.pos+1])<<16 |
		uint32(c.data[c.pos+2])<<8 | uint32(c.data[c.pos+3])
	c.pos += 4
	return v, nil
}

// TakeSlice reads and consumes n bytes, returning a slice aliasing the
// underlying buffer.
func (c *Cursor) TakeSlice(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("take slice: negative length %d", n)
	}
	if c.Len() < n {
		return nil, fmt.Errorf("take slice of %d: %w", n, ErrTruncated)
	}
	s := c.data[c.pos : c.pos+n]
	c.pos += n
	return s, nil
}

// Skip advances the cursor by n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("skip: negative length %d", n)
	}
	if c.Len() < n {
		return fmt.Errorf("skip %d: %w", n, ErrTruncated)
	}
	c.pos += n
	return nil
}

// TakeBits returns the unsigned integer formed from the inclusive bit range
// [toBit..fromBit] of the next (fromBit+7)/8 bytes, using the ASTERIX
// convention: bit 1 is the least-significant bit of the field's *last*
// octet, and bit numbers increase toward the most-significant bit of the
// field's first octet. fromBit must be >= toBit and the field must fit in
// 64 bits.
func (c *Cursor) TakeBits(fromBit, toBit int) (uint64, error) {
	if fromBit < toBit || toBit < 1 {
		return 0, fmt.Errorf("take bits: invalid range [%d..%d]", fromBit, toBit)
	}
	if fromBit-toBit+1 > 64 {
		return 0, fmt.Errorf("take bits: range [%d..%d] exceeds 64 bits", fromBit, toBit)
	}
	nBytes := (fromBit + 7) / 8
	raw, err := c.TakeSlice(nBytes)
	if err != nil {
		return 0, fmt.Errorf("take bits [%d..%d]: %w", fromBit, toBit, err)
	}
	return ExtractBits(raw, fromBit, toBit)
}

// ExtractBits is the pure, cursor-free form of TakeBits: it treats raw as the
// full field (bit `len(raw)*8` is its most-significant bit, bit 1 its
// least-significant bit) and returns the inclusive range [toBit..fromBit].
func ExtractBits(raw []byte, fromBit, toBit int) (uint64, error) {
	totalBits := len(raw) * 8
	if fromBit > totalBits {
		return 0, fmt.Errorf("extract bits: fromBit %d exceeds field width %d", fromBit, totalBits)
	}
	if fromBit-toBit+1 > 64 {
		return 0, fmt.Errorf("extract bits: range [%d..%d] exceeds 64 bits", fromBit, toBit)
	}

	var acc uint64
	for _, b := range raw {
		acc = acc<<8 | uint64(b)
	}

	// acc's bit 0 is the LSB of the last byte, i.e. ASTERIX bit 1.
	width := fromBit - toBit + 1
	shifted := acc >> uint(toBit-1)
	if width >= 64 {
		return shifted, nil
	}
	mask := uint64(1)<<uint(width) - 1
	return shifted & mask, nil
}

// SignExtend sign-extends the low `width` bits of raw (a two's-complement
// field) to a full int64.
func SignExtend(raw uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(raw)
	}
	signBit := uint64(1) << uint(width-1)
	if raw&signBit != 0 {
		return int64(raw) - int64(signBit<<1)
	}
	return int64(raw)
}
