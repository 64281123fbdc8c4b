package asterix

import (
	"fmt"

	"github.com/go-asterix/gobelix/bitio"
	"github.com/go-asterix/gobelix/descriptor"
	"github.com/go-asterix/gobelix/itemcodec"
)

// decodeBlock decodes every record in one data block's body (the bytes after
// CAT/LEN), stopping early only when a record's decode loses byte-alignment
// and the remainder of the block can no longer be resynchronized.
func decodeBlock(cd *descriptor.CategoryDescription, body []byte) ([]*DecodedRecord, error) {
	var records []*DecodedRecord
	c := bitio.New(body)

	for c.Len() > 0 {
		start := c.Pos()
		rec, fatal := decodeRecord(cd, c)
		if rec != nil {
			rec.RawBytes = c.Bytes()[start:c.Pos()]
			records = append(records, rec)
		}
		if fatal != nil {
			return records, &ParseError{Category: cd.ID, Offset: start, Reason: fatal}
		}
	}
	return records, nil
}

// decodeRecord decodes one record's FSPEC and the items it flags present,
// in FRN order, stopping as soon as one item fails to decode (spec.md §4.6
// step 4: any item parse error marks the record Partial and stops the
// per-record loop — items for FRNs after the failing one are left undecoded
// rather than attempted). The returned error is non-nil only when byte
// alignment within the block itself has been lost (an item whose length
// could not be determined at all) — in every other case the record is
// returned with Partial/Err set instead, per the "emit decoded-so-far items
// plus an error marker" policy.
func decodeRecord(cd *descriptor.CategoryDescription, c *bitio.Cursor) (*DecodedRecord, error) {
	fspec, err := bitio.DecodeFSPEC(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFSPEC, err)
	}

	items := make(map[string]*descriptor.DecodedItem)
	rec := &DecodedRecord{Category: cd.ID, Version: cd.Version, Items: items}

	maxFRN := fspec.MaxFRN()
	for frn := 1; frn <= maxFRN; frn++ {
		if !fspec.GetFRN(frn) {
			continue
		}

		itemID, ok := cd.UAP.ItemIDAt(uint8(frn))
		if !ok {
			return rec, fmt.Errorf("%w: FRN %d not defined in UAP", ErrMalformedFSPEC, frn)
		}

		switch itemID {
		case descriptor.SlotUndefined:
			continue

		case descriptor.SlotRFS, descriptor.SlotSPF:
			blob := &descriptor.ItemFormat{Kind: descriptor.Explicit}
			di, derr := itemcodec.Decode(blob, itemID, c.Remaining())
			if derr != nil && len(di.RawBytes) == 0 {
				return rec, fmt.Errorf("%w: %s: %v", ErrMalformedItem, itemID, derr)
			}
			if err := c.Skip(len(di.RawBytes)); err != nil {
				return rec, fmt.Errorf("%w: %s: %v", ErrTruncated, itemID, err)
			}
			items[itemID] = di
			markPartial(rec, di)
			if di.Err != nil {
				return rec, nil
			}

		default:
			desc, ok := cd.Item(itemID)
			if !ok {
				return rec, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
			}

			di, derr := itemcodec.Decode(desc.Format, itemID, c.Remaining())
			if derr != nil && len(di.RawBytes) == 0 {
				// The format's own length could not be determined: byte
				// alignment within the block is lost from here on.
				return rec, fmt.Errorf("%w: %s: %v", ErrMalformedItem, itemID, derr)
			}
			if err := c.Skip(len(di.RawBytes)); err != nil {
				return rec, fmt.Errorf("%w: %s: %v", ErrTruncated, itemID, err)
			}
			items[itemID] = di
			markPartial(rec, di)
			if di.Err != nil {
				// Length was known (byte alignment for the rest of the
				// block is intact) but the item's fields did not fully
				// decode: stop this record's FRN loop here per spec.md
				// §4.6 step 4, leaving any remaining flagged FRNs undecoded.
				return rec, nil
			}
		}
	}

	if verr := cd.Validate(items); verr != nil && rec.Err == nil {
		rec.Partial = true
		rec.Err = verr
	}

	return rec, nil
}

func markPartial(rec *DecodedRecord, di *descriptor.DecodedItem) {
	if di.Err != nil && rec.Err == nil {
		rec.Partial = true
		rec.Err = di.Err
	}
}
