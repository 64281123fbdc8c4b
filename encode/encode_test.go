package encode

import (
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

func testRecord() *asterix.DecodedRecord {
	return &asterix.DecodedRecord{
		Category:  1,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Items: map[string]*descriptor.DecodedItem{
			"I001/010": {
				ID:       "I001/010",
				RawBytes: []byte{0x01, 0x02},
				Fields: map[string]*descriptor.DecodedValue{
					"SAC": {Kind: descriptor.KindInteger, Int: 1},
					"SIC": {Kind: descriptor.KindInteger, Int: 2},
				},
			},
		},
	}
}

func testLibrary() *descriptor.Library {
	lib := descriptor.NewLibrary()
	cd := &descriptor.CategoryDescription{
		ID:   1,
		Name: "Test Category",
		Items: map[string]*descriptor.ItemDescription{
			"I001/010": {
				ID:   "I001/010",
				Name: "Data Source Identifier",
				Format: &descriptor.ItemFormat{
					Kind: descriptor.Fixed,
					Bits: []descriptor.BitField{
						{Name: "SAC", LongName: "System Area Code", FromBit: 16, ToBit: 9, Encoding: descriptor.Unsigned},
						{Name: "SIC", LongName: "System Identification Code", FromBit: 8, ToBit: 1, Encoding: descriptor.Unsigned, Unit: "n/a"},
					},
				},
			},
		},
		UAP: &descriptor.UAP{Slots: []descriptor.UAPSlot{{FRN: 1, ItemID: "I001/010"}}},
	}
	if err := lib.AddCategory(cd); err != nil {
		panic(err)
	}
	lib.Freeze()
	return lib
}

func TestLineEncoder(t *testing.T) {
	out, err := LineEncoder{}.Encode(testRecord(), testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "CAT001 I001/010 SAC 1") {
		t.Errorf("missing SAC line, got:\n%s", s)
	}
	if !strings.Contains(s, "CAT001 I001/010 SIC 2") {
		t.Errorf("missing SIC line, got:\n%s", s)
	}
}

func TestTextEncoderIncludesItemNameAndPartialFlag(t *testing.T) {
	rec := testRecord()
	rec.Partial = true
	rec.Err = descriptor.ErrMandatoryField

	out, err := TextEncoder{}.Encode(rec, testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "Data Source Identifier") {
		t.Errorf("missing item name, got:\n%s", s)
	}
	if !strings.Contains(s, "Partial: true") {
		t.Errorf("missing partial marker, got:\n%s", s)
	}
}

func TestJSONEncoderCompactOmitsNames(t *testing.T) {
	out, err := (JSONEncoder{Mode: Compact}).Encode(testRecord(), testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	items := decoded["items"].(map[string]any)
	item := items["I001/010"].(map[string]any)
	if _, ok := item["name"]; ok {
		t.Errorf("compact mode should omit item name, got %v", item)
	}
}

func TestJSONEncoderExtensiveIncludesMetadata(t *testing.T) {
	out, err := (JSONEncoder{Mode: Extensive}).Encode(testRecord(), testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	items := decoded["items"].(map[string]any)
	item := items["I001/010"].(map[string]any)
	if item["name"] != "Data Source Identifier" {
		t.Errorf("item name = %v, want 'Data Source Identifier'", item["name"])
	}
	fields := item["fields"].(map[string]any)
	sic := fields["SIC"].(map[string]any)
	if sic["description"] != "System Identification Code" {
		t.Errorf("SIC description = %v", sic["description"])
	}
	if sic["unit"] != "n/a" {
		t.Errorf("SIC unit = %v", sic["unit"])
	}
	if sic["value"].(float64) != 2 {
		t.Errorf("SIC value = %v, want 2", sic["value"])
	}
}

func TestXMLEncoderProducesValidXML(t *testing.T) {
	out, err := (XMLEncoder{Mode: Human}).Encode(testRecord(), testLibrary())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := xml.Unmarshal(out, new(struct{})); err != nil {
		t.Errorf("output is not well-formed XML: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `category="CAT001"`) {
		t.Errorf("missing category attribute, got:\n%s", s)
	}
	if !strings.Contains(s, `name="Data Source Identifier"`) {
		t.Errorf("missing item name attribute, got:\n%s", s)
	}
}
