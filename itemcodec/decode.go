package itemcodec

import (
	"fmt"

	"github.com/go-asterix/gobelix/bitio"
	"github.com/go-asterix/gobelix/descriptor"
)

// Decode determines an item's length with LengthOf, then decodes the
// resulting byte range into a descriptor.DecodedItem. On a partial decode
// (an inner sub-item or register selector this library cannot resolve) it
// returns both a best-effort DecodedItem carrying whatever fields were
// recovered and the error describing what went wrong, per the
// decoded-so-far-plus-error-marker policy for malformed items.
func Decode(f *descriptor.ItemFormat, itemID string, data []byte) (*descriptor.DecodedItem, error) {
	n, err := LengthOf(f, data)
	if err != nil {
		return &descriptor.DecodedItem{ID: itemID, Err: err}, err
	}
	raw := data[:n]

	fields, err := decodeFields(f, raw)
	di := &descriptor.DecodedItem{ID: itemID, RawBytes: raw, Fields: fields}
	if err != nil {
		di.Err = err
		return di, err
	}
	return di, nil
}

func decodeFields(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	switch f.Kind {
	case descriptor.Fixed, descriptor.Extensible:
		return decodeBits(f.Bits, raw)
	case descriptor.Repetitive:
		return decodeRepetitive(f, raw)
	case descriptor.Compound:
		return decodeCompound(f, raw)
	case descriptor.Explicit:
		return decodeExplicit(f, raw)
	case descriptor.SpecialPurpose:
		return decodeSpecialPurpose(f, raw)
	case descriptor.BDSRegister:
		return decodeBDS(f, raw)
	default:
		return nil, fmt.Errorf("itemcodec: unknown format kind %v", f.Kind)
	}
}

// decodeBits extracts every declared BitField from raw, keyed by name.
func decodeBits(bits []descriptor.BitField, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	fields := make(map[string]*descriptor.DecodedValue, len(bits))
	for _, bf := range bits {
		v, err := bitio.ExtractBits(raw, bf.FromBit, bf.ToBit)
		if err != nil {
			return fields, fmt.Errorf("field %s: %w", bf.Name, err)
		}
		fields[bf.Name] = bf.Decode(v)
	}
	return fields, nil
}

// decodeRepetitive decodes the REP count octet followed by REP elements,
// exposing them as an ordered list under the "elements" key.
func decodeRepetitive(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	rep := int(raw[0])
	elems := raw[1:]

	list := make([]*descriptor.DecodedValue, 0, rep)
	pos := 0
	var firstErr error
	for i := 0; i < rep; i++ {
		elemLen, err := LengthOf(f.Element, elems[pos:])
		if err != nil {
			firstErr = fmt.Errorf("element %d: %w", i, err)
			break
		}
		elemRaw := elems[pos : pos+elemLen]
		pos += elemLen

		elemFields, err := decodeFields(f.Element, elemRaw)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("element %d: %w", i, err)
		}
		list = append(list, &descriptor.DecodedValue{Kind: descriptor.KindCompound, Compound: elemFields})
	}

	fields := map[string]*descriptor.DecodedValue{
		"elements": {Kind: descriptor.KindList, List: list},
	}
	return fields, firstErr
}

// decodeCompound reads the sub-FSPEC and decodes every sub-item it flags
// present, nesting each sub-item's own fields under its item id.
func decodeCompound(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	c := bitio.New(raw)
	sub, err := bitio.DecodeFSPEC(c)
	if err != nil {
		return nil, fmt.Errorf("compound sub-fspec: %w", err)
	}

	fields := make(map[string]*descriptor.DecodedValue)
	var firstErr error
	for i := 0; i < sub.MaxFRN(); i++ {
		frn := i + 1
		if !sub.GetFRN(frn) {
			continue
		}
		if i >= len(f.SubItems) {
			if firstErr == nil {
				firstErr = fmt.Errorf("compound sub-fspec FRN %d: %w", frn, ErrUnknownSubItem)
			}
			break
		}

		si := f.SubItems[i]
		n, err := LengthOf(si.Format, c.Remaining())
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("compound sub-item %s: %w", si.ID, err)
			}
			break
		}
		subRaw, err := c.TakeSlice(n)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("compound sub-item %s: %w", si.ID, err)
			}
			break
		}

		subFields, err := decodeFields(si.Format, subRaw)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("compound sub-item %s: %w", si.ID, err)
		}
		fields[si.ID] = &descriptor.DecodedValue{Kind: descriptor.KindCompound, Compound: subFields}
	}

	return fields, firstErr
}

// decodeExplicit decodes the bytes after the self-reported length octet (or,
// with an ExplicitLengthOverride, the whole of raw) as the item's content: bitfields
// if declared, otherwise opaque bytes.
func decodeExplicit(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	content := raw
	if f.ExplicitLengthOverride == 0 {
		content = raw[1:]
	}
	if len(f.Bits) > 0 {
		return decodeBits(f.Bits, content)
	}
	return map[string]*descriptor.DecodedValue{
		"value": {Kind: descriptor.KindBytes, Bytes: content},
	}, nil
}

// decodeSpecialPurpose treats its content as opaque by definition.
func decodeSpecialPurpose(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	content := raw
	if f.ExplicitLengthOverride == 0 {
		content = raw[1:]
	}
	return map[string]*descriptor.DecodedValue{
		"value": {Kind: descriptor.KindBytes, Bytes: content},
	}, nil
}

// decodeBDS splits the register into its one-octet selector and seven-octet
// content. An unrecognized selector decodes the content as opaque bytes
// rather than failing the enclosing item.
func decodeBDS(f *descriptor.ItemFormat, raw []byte) (map[string]*descriptor.DecodedValue, error) {
	selector := raw[0]
	content := raw[1:8]

	fields := map[string]*descriptor.DecodedValue{
		"selector": {Kind: descriptor.KindInteger, Int: int64(selector)},
	}

	regFmt, ok := f.Registers[selector]
	if !ok {
		fields["register"] = &descriptor.DecodedValue{Kind: descriptor.KindBytes, Bytes: content}
		return fields, nil
	}

	regFields, err := decodeBits(regFmt.Bits, content)
	fields["register"] = &descriptor.DecodedValue{Kind: descriptor.KindCompound, Compound: regFields}
	if err != nil {
		return fields, fmt.Errorf("bds register 0x%02x: %w", selector, err)
	}
	return fields, nil
}
