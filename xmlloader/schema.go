// Package xmlloader parses the Category description XML documents (spec.md
// §6.2) into descriptor.CategoryDescription values and registers them into a
// descriptor.Library. It uses encoding/xml throughout: a plain
// decode-into-struct job, and the only XML library the example corpus or the
// wider ecosystem offers nothing better suited for.
package xmlloader

import "encoding/xml"

// xmlCategory mirrors <Category id="…" ver="…">.
type xmlCategory struct {
	XMLName  xml.Name      `xml:"Category"`
	ID       uint8         `xml:"id,attr"`
	Version  string        `xml:"ver,attr"`
	Name     string        `xml:"name,attr"`
	DataItem []xmlDataItem `xml:"DataItem"`
	UAP      xmlUAP        `xml:"UAP"`
}

// xmlDataItem mirrors <DataItem id="…"><DataItemName>…</DataItemName>
// <DataItemFormat desc="…">…</DataItemFormat></DataItem>.
type xmlDataItem struct {
	ID     string          `xml:"id,attr"`
	Name   string          `xml:"DataItemName"`
	Format xmlDataItemFmt  `xml:"DataItemFormat"`
	Mandatory bool         `xml:"mandatory,attr"`
}

type xmlDataItemFmt struct {
	Desc       string        `xml:"desc,attr"`
	Fixed      *xmlFixed     `xml:"Fixed"`
	Variable   *xmlVariable  `xml:"Variable"`
	Repetitive *xmlFixed     `xml:"Repetitive>Fixed"`
	Compound   *xmlCompound  `xml:"Compound"`
	Explicit   *struct{}     `xml:"Explicit"`
	ExplicitSP *struct{}     `xml:"ExplicitSP"`
	BDS        *xmlBDS       `xml:"BDS"`
}

// xmlFixed mirrors <Fixed length="N"> <Bits .../>… </Fixed>.
type xmlFixed struct {
	Length int       `xml:"length,attr"`
	Bits   []xmlBits `xml:"Bits"`
}

// xmlVariable mirrors <Variable> <Fixed…/>… </Variable> — the FX-extension
// segments of an Extensible item, in order.
type xmlVariable struct {
	Fixed []xmlFixed `xml:"Fixed"`
}

// xmlCompound mirrors <Compound> <Variable/><Fixed…/>… </Compound> — an
// ordered list of anonymous sub-item formats selected by a sub-FSPEC. Order
// matters (it lines up with FRN order in the sub-FSPEC) so this implements
// UnmarshalXML directly instead of relying on struct-tag matching, which
// would group same-named children together and lose the interleaving.
type xmlCompound struct {
	SubItem []xmlSubFormat
}

// xmlSubFormat is one Compound sub-item: either a plain Fixed segment or a
// Variable (FX-extensible) segment.
type xmlSubFormat struct {
	Fixed    *xmlFixed
	Variable *xmlVariable
}

func (c *xmlCompound) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fixed":
				var f xmlFixed
				if err := d.DecodeElement(&f, &t); err != nil {
					return err
				}
				c.SubItem = append(c.SubItem, xmlSubFormat{Fixed: &f})
			case "Variable":
				var v xmlVariable
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				c.SubItem = append(c.SubItem, xmlSubFormat{Variable: &v})
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// xmlBDS mirrors <BDS/>, optionally enumerating known registers by selector.
type xmlBDS struct {
	Register []xmlBDSRegister `xml:"Register"`
}

type xmlBDSRegister struct {
	Selector string    `xml:"selector,attr"` // hex, e.g. "0x40"
	Fixed    xmlFixed  `xml:"Fixed"`
}

// xmlBits mirrors <Bits from="…" to="…" encoding="…" scale="…" unit="…">
// <BitsShortName>…</BitsShortName> [<BitsValue val="k">label</BitsValue>…]
// </Bits>.
type xmlBits struct {
	From      int            `xml:"from,attr"`
	To        int            `xml:"to,attr"`
	Encoding  string         `xml:"encoding,attr"`
	Scale     float64        `xml:"scale,attr"`
	Unit      string         `xml:"unit,attr"`
	ShortName string         `xml:"BitsShortName"`
	LongName  string         `xml:"BitsLongName"`
	Values    []xmlBitsValue `xml:"BitsValue"`
}

type xmlBitsValue struct {
	Val   int64  `xml:"val,attr"`
	Label string `xml:",chardata"`
}

// xmlUAP mirrors <UAP> <UAPItem bit="k" frn="k" len="…">item_id_or_-</UAPItem>… </UAP>.
type xmlUAP struct {
	Item []xmlUAPItem `xml:"UAPItem"`
}

type xmlUAPItem struct {
	FRN    uint8  `xml:"frn,attr"`
	ItemID string `xml:",chardata"`
}
