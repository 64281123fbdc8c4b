package itemcodec

import (
	"fmt"

	"github.com/go-asterix/gobelix/bitio"
	"github.com/go-asterix/gobelix/descriptor"
)

// LengthOf returns the number of bytes of data that one instance of f
// occupies, without fully decoding it. It is the basis for cursor advance in
// the record parser: every variant must return either a definite length or
// an error, never loop or read past data's end.
func LengthOf(f *descriptor.ItemFormat, data []byte) (int, error) {
	switch f.Kind {
	case descriptor.Fixed:
		return fixedLength(f, data)
	case descriptor.Extensible:
		return extensibleLength(f, data)
	case descriptor.Repetitive:
		return repetitiveLength(f, data)
	case descriptor.Compound:
		return compoundLength(f, data)
	case descriptor.Explicit, descriptor.SpecialPurpose:
		return explicitLength(f, data)
	case descriptor.BDSRegister:
		return bdsLength(f, data)
	default:
		return 0, fmt.Errorf("itemcodec: unknown format kind %v", f.Kind)
	}
}

func fixedLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	if f.Length <= 0 {
		return 0, ErrZeroLength
	}
	if len(data) < f.Length {
		return 0, fmt.Errorf("fixed item of length %d: %w", f.Length, bitio.ErrTruncated)
	}
	return f.Length, nil
}

// extensibleLength walks FX-extension segments: f.Length bytes, then
// f.ExtLength more for every segment whose last octet has bit 1 (the FX bit)
// set.
func extensibleLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	if f.Length <= 0 {
		return 0, ErrZeroLength
	}
	if len(data) < f.Length {
		return 0, fmt.Errorf("extensible item base length %d: %w", f.Length, bitio.ErrTruncated)
	}

	pos := f.Length
	for data[pos-1]&0x01 != 0 {
		if f.ExtLength <= 0 {
			return 0, fmt.Errorf("extensible item: FX bit set but ExtLength is 0")
		}
		if pos+f.ExtLength > descriptor.MaxItemSize {
			return 0, fmt.Errorf("extensible item at offset %d: %w", pos, ErrOverflow)
		}
		if len(data) < pos+f.ExtLength {
			return 0, fmt.Errorf("extensible item extension at offset %d: %w", pos, bitio.ErrTruncated)
		}
		pos += f.ExtLength
	}
	return pos, nil
}

// repetitiveLength reads the one-octet repetition count REP, then REP copies
// of f.Element.
func repetitiveLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("repetitive item count octet: %w", bitio.ErrTruncated)
	}
	rep := int(data[0])
	if rep == 0 {
		return 1, nil
	}

	elemLen, err := LengthOf(f.Element, data[1:])
	if err != nil {
		return 0, fmt.Errorf("repetitive item element: %w", err)
	}

	total := 1 + rep*elemLen
	if rep > 0 && (total-1)/rep != elemLen {
		return 0, fmt.Errorf("repetitive item: count %d * element %d: %w", rep, elemLen, ErrOverflow)
	}
	if total > descriptor.MaxItemSize {
		return 0, fmt.Errorf("repetitive item total %d: %w", total, ErrOverflow)
	}
	if len(data) < total {
		return 0, fmt.Errorf("repetitive item of total length %d: %w", total, bitio.ErrTruncated)
	}
	return total, nil
}

// compoundLength reads the sub-FSPEC, then the length of every sub-item it
// flags present, walking the full sub-FSPEC range (not just the declared
// SubItems) so a flagged FRN beyond the last declared sub-item is caught
// here rather than silently under-counted.
func compoundLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	c := bitio.New(data)
	sub, err := bitio.DecodeFSPEC(c)
	if err != nil {
		return 0, fmt.Errorf("compound item sub-fspec: %w", err)
	}

	for i := 0; i < sub.MaxFRN(); i++ {
		frn := i + 1
		if !sub.GetFRN(frn) {
			continue
		}
		if i >= len(f.SubItems) {
			return 0, fmt.Errorf("compound sub-fspec FRN %d: %w", frn, ErrUnknownSubItem)
		}
		si := f.SubItems[i]
		n, err := LengthOf(si.Format, c.Remaining())
		if err != nil {
			return 0, fmt.Errorf("compound sub-item %s: %w", si.ID, err)
		}
		if err := c.Skip(n); err != nil {
			return 0, fmt.Errorf("compound sub-item %s: %w", si.ID, err)
		}
	}

	return c.Pos(), nil
}

// explicitLength covers both Explicit and SpecialPurpose formats: by default
// the item's first octet is its own total length (self-inclusive), unless
// ExplicitLengthOverride pins a fixed total length instead.
func explicitLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	if f.ExplicitLengthOverride > 0 {
		if len(data) < f.ExplicitLengthOverride {
			return 0, fmt.Errorf("explicit item override length %d: %w", f.ExplicitLengthOverride, bitio.ErrTruncated)
		}
		return f.ExplicitLengthOverride, nil
	}

	if len(data) < 1 {
		return 0, fmt.Errorf("explicit item length octet: %w", bitio.ErrTruncated)
	}
	total := int(data[0])
	if total == 0 {
		return 0, ErrZeroLength
	}
	if len(data) < total {
		return 0, fmt.Errorf("explicit item of total length %d: %w", total, bitio.ErrTruncated)
	}
	return total, nil
}

// bdsLength is always a one-octet selector plus a seven-octet register
// content, per the Mode-S MB field width.
func bdsLength(f *descriptor.ItemFormat, data []byte) (int, error) {
	const bdsTotalLength = 8
	if len(data) < bdsTotalLength {
		return 0, fmt.Errorf("bds register item: %w", bitio.ErrTruncated)
	}
	return bdsTotalLength, nil
}
