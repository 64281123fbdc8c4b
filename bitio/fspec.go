package bitio

import "fmt"

// MaxFSPECOctets bounds the number of extension octets any single FSPEC (or
// sub-FSPEC, or Repeated Field Specification) chain may contain. No real
// ASTERIX UAP needs more than a handful; this is a safety backstop against
// malformed input forcing an unbounded read, per the "no infinite loops"
// testable property.
const MaxFSPECOctets = 16

// FSPEC is a bit-extensible presence bitmap: a sequence of octets where bits
// 8..2 (1-origin, MSB first) flag the presence of the next seven items in
// some canonical order, and bit 1 (the FX bit) signals whether another
// octet follows. Both the primary record FSPEC and a Compound item's
// sub-FSPEC use this same encoding.
type FSPEC struct {
	octets []byte
}

// SetFRN marks the given 1-origin field reference number present, growing
// the FSPEC (and setting intervening FX bits) as needed.
func (f *FSPEC) SetFRN(frn int) error {
	if frn < 1 {
		return fmt.Errorf("fspec: FRN must be >= 1, got %d", frn)
	}
	byteIndex := (frn - 1) / 7
	bitPos := (frn - 1) % 7

	for byteIndex >= len(f.octets) {
		if len(f.octets) > 0 {
			f.octets[len(f.octets)-1] |= 0x01
		}
		if len(f.octets) >= MaxFSPECOctets {
			return fmt.Errorf("fspec: FRN %d would exceed %d extension octets", frn, MaxFSPECOctets)
		}
		f.octets = append(f.octets, 0)
	}

	f.octets[byteIndex] |= 0x80 >> uint(bitPos)
	return nil
}

// GetFRN reports whether the given 1-origin field reference number is
// marked present.
func (f *FSPEC) GetFRN(frn int) bool {
	if frn < 1 {
		return false
	}
	byteIndex := (frn - 1) / 7
	bitPos := (frn - 1) % 7
	if byteIndex >= len(f.octets) {
		return false
	}
	return f.octets[byteIndex]&(0x80>>uint(bitPos)) != 0
}

// MaxFRN returns the highest FRN this FSPEC could express given its current
// length (7 bits per octet), regardless of which are set.
func (f *FSPEC) MaxFRN() int {
	return len(f.octets) * 7
}

// Octets returns the raw FSPEC bytes (FX bits included).
func (f *FSPEC) Octets() []byte { return f.octets }

// Size returns the number of FSPEC octets.
func (f *FSPEC) Size() int { return len(f.octets) }

// DecodeFSPEC reads an FX-chained presence bitmap from c, stopping at the
// first octet whose FX bit (bit 1) is clear. It fails if the chain exceeds
// MaxFSPECOctets, matching the "too many extension bytes" malformed-FSPEC
// policy.
func DecodeFSPEC(c *Cursor) (*FSPEC, error) {
	f := &FSPEC{}
	for {
		b, err := c.TakeU8()
		if err != nil {
			return f, fmt.Errorf("fspec: %w", err)
		}
		f.octets = append(f.octets, b)

		if b&0x01 == 0 {
			return f, nil
		}
		if len(f.octets) >= MaxFSPECOctets {
			return f, fmt.Errorf("fspec: too many extension octets (>= %d)", MaxFSPECOctets)
		}
	}
}

// EncodeFSPEC appends the FSPEC's octets to dst and returns the result.
func EncodeFSPEC(dst []byte, f *FSPEC) []byte {
	return append(dst, f.octets...)
}
