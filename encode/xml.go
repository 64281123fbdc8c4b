package encode

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

// XMLEncoder renders a record as XML. Mode distinguishes Compact (bare ids
// and values) from Human and Extensive (item names; Extensive adds units
// where known). There is no separate "human" vs "extensive" XML shape
// beyond what JSONEncoder does, per spec.md §4.7's "analogous" note.
type XMLEncoder struct {
	Mode Mode
}

type xmlRecord struct {
	XMLName   xml.Name  `xml:"record"`
	Category  string    `xml:"category,attr"`
	Version   string    `xml:"version,attr,omitempty"`
	Timestamp time.Time `xml:"timestamp,attr"`
	Partial   bool      `xml:"partial,attr,omitempty"`
	Error     string    `xml:"error,omitempty"`
	Items     []xmlItem `xml:"item"`
}

type xmlItem struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name,attr,omitempty"`
	Error  string     `xml:"error,omitempty"`
	Fields []xmlField `xml:"field"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Unit  string `xml:"unit,attr,omitempty"`
	Value string `xml:",chardata"`
}

func (e XMLEncoder) Encode(rec *asterix.DecodedRecord, lib *descriptor.Library) ([]byte, error) {
	cd := lookupCategory(lib, rec.Category)

	xr := xmlRecord{
		Category:  rec.Category.String(),
		Version:   rec.Version,
		Timestamp: rec.Timestamp,
		Partial:   rec.Partial,
	}
	if rec.Err != nil {
		xr.Error = rec.Err.Error()
	}

	for _, id := range orderedItemIDs(rec, cd) {
		item := rec.Items[id]
		if item == nil {
			continue
		}
		xi := xmlItem{ID: id}
		if e.Mode != Compact {
			xi.Name = itemName(cd, id)
		}
		if item.Err != nil {
			xi.Error = item.Err.Error()
		}

		var bits map[string]*descriptor.BitField
		if e.Mode == Extensive {
			bits = bitFieldsOf(cd, id)
		}

		for _, name := range sortedFieldNames(item.Fields) {
			xf := xmlField{Name: name, Value: fieldString(item.Fields[name])}
			if bf, ok := bits[name]; ok {
				xf.Unit = bf.Unit
			}
			xi.Fields = append(xi.Fields, xf)
		}

		xr.Items = append(xr.Items, xi)
	}

	out, err := xml.Marshal(xr)
	if err != nil {
		return nil, fmt.Errorf("encode: marshal xml: %w", err)
	}
	return out, nil
}
