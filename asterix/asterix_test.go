package asterix

import (
	"errors"
	"testing"

	"github.com/go-asterix/gobelix/descriptor"
)

func testLibrary(t *testing.T) *descriptor.Library {
	t.Helper()
	cd := &descriptor.CategoryDescription{
		ID:      1,
		Version: "1.0",
		Name:    "Test Category",
		Items: map[string]*descriptor.ItemDescription{
			"I001/010": {ID: "I001/010", Format: &descriptor.ItemFormat{
				Kind: descriptor.Fixed, Length: 1,
				Bits: []descriptor.BitField{{Name: "a", FromBit: 8, ToBit: 1, Encoding: descriptor.Unsigned}},
			}},
			"I001/020": {ID: "I001/020", Format: &descriptor.ItemFormat{
				Kind: descriptor.Fixed, Length: 1,
				Bits: []descriptor.BitField{{Name: "b", FromBit: 8, ToBit: 1, Encoding: descriptor.Unsigned}},
			}},
		},
		UAP: &descriptor.UAP{Slots: []descriptor.UAPSlot{
			{FRN: 1, ItemID: "I001/010"},
			{FRN: 2, ItemID: "I001/020"},
		}},
		Blockable: true,
	}

	lib := descriptor.NewLibrary()
	if err := lib.AddCategory(cd); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	lib.Freeze()
	return lib
}

// record: FSPEC 0xC0 (FRN1+FRN2, FX clear), I001/010=0x11, I001/020=0x22
var testRecord = []byte{0xC0, 0x11, 0x22}

// block: CAT=1, LEN=6 (3 header + 3 body), one record
var testBlock = append([]byte{0x01, 0x00, 0x06}, testRecord...)

func collect(t *testing.T, p *Parser, data []byte) ([]*DecodedRecord, []error) {
	t.Helper()
	var recs []*DecodedRecord
	var errs []error
	for rec, err := range p.Feed(data) {
		if rec != nil {
			recs = append(recs, rec)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return recs, errs
}

func TestParserFeedSingleBlock(t *testing.T) {
	p, err := New(testLibrary(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	recs, errs := collect(t, p, testBlock)
	if len(errs) != 0 {
		t.Fatalf("errors = %v, want none", errs)
	}
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].Item("I001/010").Field("a").Int != 0x11 {
		t.Errorf("I001/010 = %v, want 0x11", recs[0].Item("I001/010"))
	}
	if recs[0].Item("I001/020").Field("b").Int != 0x22 {
		t.Errorf("I001/020 = %v, want 0x22", recs[0].Item("I001/020"))
	}
}

func TestParserFeedSplitAcrossCalls(t *testing.T) {
	p, err := New(testLibrary(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	recs1, errs1 := collect(t, p, testBlock[:4]) // CAT/LEN + partial body
	if len(recs1) != 0 || len(errs1) != 0 {
		t.Fatalf("first Feed() = (%v, %v), want no output (block incomplete)", recs1, errs1)
	}

	recs2, errs2 := collect(t, p, testBlock[4:])
	if len(errs2) != 0 {
		t.Fatalf("second Feed() errors = %v, want none", errs2)
	}
	if len(recs2) != 1 {
		t.Fatalf("second Feed() records = %d, want 1", len(recs2))
	}
}

func TestParserFeedTwoBlocksBackToBack(t *testing.T) {
	p, err := New(testLibrary(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := append(append([]byte{}, testBlock...), testBlock...)
	recs, errs := collect(t, p, data)
	if len(errs) != 0 {
		t.Fatalf("errors = %v, want none", errs)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
}

func TestParserFeedUnknownCategory(t *testing.T) {
	p, err := New(testLibrary(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := []byte{0x63, 0x00, 0x06, 0xC0, 0x11, 0x22} // CAT 99
	_, errs := collect(t, p, data)
	if len(errs) != 1 || !errors.Is(errs[0], ErrUnknownCategory) {
		t.Fatalf("errors = %v, want one ErrUnknownCategory", errs)
	}
}

func TestParserFeedMalformedLength(t *testing.T) {
	p, err := New(testLibrary(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := []byte{0x01, 0x00, 0x01} // length 1 < 3
	_, errs := collect(t, p, data)
	if len(errs) == 0 || !errors.Is(errs[0], ErrMalformedBlock) {
		t.Fatalf("errors = %v, want ErrMalformedBlock", errs)
	}
}

func TestParserFeedMandatoryFieldMarksPartial(t *testing.T) {
	cd := &descriptor.CategoryDescription{
		ID:        1,
		Items:     map[string]*descriptor.ItemDescription{"I001/010": {ID: "I001/010", Format: &descriptor.ItemFormat{Kind: descriptor.Fixed, Length: 1}}},
		UAP:       &descriptor.UAP{Slots: []descriptor.UAPSlot{{FRN: 1, ItemID: "I001/010"}, {FRN: 2, ItemID: descriptor.SlotUndefined}}},
		Mandatory: []string{"I001/020-does-not-exist"},
	}
	lib := descriptor.NewLibrary()
	if err := lib.AddCategory(cd); err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	lib.Freeze()

	p, err := New(lib)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// FSPEC 0x80 (FRN1 only, FX clear) + I001/010=0x11
	data := []byte{0x01, 0x00, 0x05, 0x80, 0x11}
	recs, _ := collect(t, p, data)
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if !recs[0].Partial {
		t.Error("Partial = false, want true (missing mandatory field)")
	}
}
