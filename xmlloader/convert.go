package xmlloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-asterix/gobelix/descriptor"
)

func convertCategory(xc *xmlCategory) (*descriptor.CategoryDescription, error) {
	cd := &descriptor.CategoryDescription{
		ID:      descriptor.Category(xc.ID),
		Version: xc.Version,
		Name:    xc.Name,
		Items:   make(map[string]*descriptor.ItemDescription, len(xc.DataItem)),
	}

	for _, xdi := range xc.DataItem {
		id := fmt.Sprintf("I%03d/%s", xc.ID, xdi.ID)
		if _, dup := cd.Items[id]; dup {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidXML, descriptor.ErrDuplicateItem, id)
		}
		format, err := convertFormat(id, &xdi.Format)
		if err != nil {
			return nil, fmt.Errorf("%w: item %s: %v", ErrInvalidXML, id, err)
		}
		cd.Items[id] = &descriptor.ItemDescription{ID: id, Name: xdi.Name, Format: format}
		if xdi.Mandatory {
			cd.Mandatory = append(cd.Mandatory, id)
		}
	}

	cd.UAP = &descriptor.UAP{Slots: make([]descriptor.UAPSlot, 0, len(xc.UAP.Item))}
	for _, xu := range xc.UAP.Item {
		itemID := strings.TrimSpace(xu.ItemID)
		if itemID != descriptor.SlotUndefined && itemID != descriptor.SlotRFS && itemID != descriptor.SlotSPF {
			itemID = fmt.Sprintf("I%03d/%s", xc.ID, itemID)
		}
		cd.UAP.Slots = append(cd.UAP.Slots, descriptor.UAPSlot{FRN: xu.FRN, ItemID: itemID})
	}

	return cd, nil
}

// convertFormat dispatches on which DataItemFormat variant is populated,
// mirroring the schema's mutually-exclusive alternation (spec.md §6.2).
func convertFormat(itemID string, f *xmlDataItemFmt) (*descriptor.ItemFormat, error) {
	switch {
	case f.Fixed != nil:
		return convertFixed(f.Fixed)
	case f.Variable != nil:
		return convertVariable(f.Variable)
	case f.Repetitive != nil:
		elem, err := convertFixed(f.Repetitive)
		if err != nil {
			return nil, err
		}
		return &descriptor.ItemFormat{Kind: descriptor.Repetitive, Element: elem}, nil
	case f.Compound != nil:
		return convertCompound(itemID, f.Compound)
	case f.Explicit != nil:
		return &descriptor.ItemFormat{Kind: descriptor.Explicit}, nil
	case f.ExplicitSP != nil:
		return &descriptor.ItemFormat{Kind: descriptor.SpecialPurpose}, nil
	case f.BDS != nil:
		return convertBDS(f.BDS)
	default:
		return nil, fmt.Errorf("DataItemFormat has no recognized child element")
	}
}

func convertFixed(xf *xmlFixed) (*descriptor.ItemFormat, error) {
	bits, err := convertBitsList(xf.Bits)
	if err != nil {
		return nil, err
	}
	return &descriptor.ItemFormat{Kind: descriptor.Fixed, Length: xf.Length, Bits: bits}, nil
}

// convertVariable flattens the <Variable> segments into one Extensible
// ItemFormat: the first segment's length is the base Fixed length, every
// later segment must share the same length (the per-extension-octet size),
// and every segment's Bits are concatenated — they are already bit-numbered
// over the cumulative extended item on the wire.
func convertVariable(xv *xmlVariable) (*descriptor.ItemFormat, error) {
	if len(xv.Fixed) == 0 {
		return nil, fmt.Errorf("Variable item has no Fixed segments")
	}

	base := xv.Fixed[0]
	extLength := 0
	var allBits []descriptor.BitField
	for i, seg := range xv.Fixed {
		bits, err := convertBitsList(seg.Bits)
		if err != nil {
			return nil, err
		}
		allBits = append(allBits, bits...)
		if i == 1 {
			extLength = seg.Length
		} else if i > 1 && seg.Length != extLength {
			return nil, fmt.Errorf("Variable item extension segments have mismatched lengths (%d vs %d)", seg.Length, extLength)
		}
	}

	return &descriptor.ItemFormat{
		Kind:      descriptor.Extensible,
		Length:    base.Length,
		ExtLength: extLength,
		Bits:      allBits,
	}, nil
}

// convertCompound synthesizes a positional sub-item id for each anonymous
// Compound child, since the schema names sub-items only by their sub-FSPEC
// position, not by an explicit id attribute.
func convertCompound(itemID string, xc *xmlCompound) (*descriptor.ItemFormat, error) {
	subs := make([]*descriptor.ItemDescription, 0, len(xc.SubItem))
	for i, s := range xc.SubItem {
		subID := fmt.Sprintf("%s/%d", itemID, i+1)
		var (
			format *descriptor.ItemFormat
			err    error
		)
		switch {
		case s.Fixed != nil:
			format, err = convertFixed(s.Fixed)
		case s.Variable != nil:
			format, err = convertVariable(s.Variable)
		default:
			err = fmt.Errorf("compound sub-item %d has neither Fixed nor Variable", i+1)
		}
		if err != nil {
			return nil, err
		}
		subs = append(subs, &descriptor.ItemDescription{ID: subID, Format: format})
	}
	return &descriptor.ItemFormat{Kind: descriptor.Compound, SubItems: subs}, nil
}

func convertBDS(xb *xmlBDS) (*descriptor.ItemFormat, error) {
	registers := make(map[byte]*descriptor.ItemFormat, len(xb.Register))
	for _, r := range xb.Register {
		sel, err := strconv.ParseUint(strings.TrimPrefix(r.Selector, "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bds register selector %q: %w", r.Selector, err)
		}
		format, err := convertFixed(&r.Fixed)
		if err != nil {
			return nil, err
		}
		registers[byte(sel)] = format
	}
	return &descriptor.ItemFormat{Kind: descriptor.BDSRegister, Registers: registers}, nil
}

func convertBitsList(xbits []xmlBits) ([]descriptor.BitField, error) {
	bits := make([]descriptor.BitField, 0, len(xbits))
	for _, xb := range xbits {
		enc, err := parseEncoding(xb.Encoding)
		if err != nil {
			return nil, err
		}
		bf := descriptor.BitField{
			Name:     xb.ShortName,
			LongName: xb.LongName,
			FromBit:  xb.From,
			ToBit:    xb.To,
			Encoding: enc,
			Scale:    xb.Scale,
			Unit:     xb.Unit,
		}
		if len(xb.Values) > 0 {
			bf.EnumValue = make(map[int64]string, len(xb.Values))
			for _, v := range xb.Values {
				bf.EnumValue[v.Val] = strings.TrimSpace(v.Label)
			}
		}
		bits = append(bits, bf)
	}
	return bits, nil
}

func parseEncoding(s string) (descriptor.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unsigned":
		return descriptor.Unsigned, nil
	case "signed":
		return descriptor.Signed, nil
	case "hex":
		return descriptor.Hex, nil
	case "octal":
		return descriptor.Octal, nil
	case "ascii":
		return descriptor.Ascii, nil
	case "enumerated":
		return descriptor.Enumerated, nil
	default:
		return 0, fmt.Errorf("%w: unknown Bits encoding %q", ErrInvalidXML, s)
	}
}
