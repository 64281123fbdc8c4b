package encode

import (
	"encoding/json"
	"time"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

// JSONEncoder renders a record as JSON. Mode controls how much description
// library metadata is pulled in: Compact emits bare ids and values, Human
// adds item names, Extensive additionally adds field descriptions and units
// for top-level bitfields. Enumerated fields carry their label as the value
// in every mode.
type JSONEncoder struct {
	Mode Mode
}

type jsonRecord struct {
	Category  string              `json:"category"`
	Version   string              `json:"version,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	Partial   bool                `json:"partial,omitempty"`
	Error     string              `json:"error,omitempty"`
	Items     map[string]jsonItem `json:"items"`
}

type jsonItem struct {
	Name   string         `json:"name,omitempty"`
	Fields map[string]any `json:"fields"`
	Error  string         `json:"error,omitempty"`
}

type jsonExtensiveField struct {
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

func (e JSONEncoder) Encode(rec *asterix.DecodedRecord, lib *descriptor.Library) ([]byte, error) {
	cd := lookupCategory(lib, rec.Category)

	jr := jsonRecord{
		Category:  rec.Category.String(),
		Version:   rec.Version,
		Timestamp: rec.Timestamp,
		Partial:   rec.Partial,
		Items:     make(map[string]jsonItem, len(rec.Items)),
	}
	if rec.Err != nil {
		jr.Error = rec.Err.Error()
	}

	for id, item := range rec.Items {
		ji := jsonItem{Fields: make(map[string]any, len(item.Fields))}
		if e.Mode != Compact {
			ji.Name = itemName(cd, id)
		}
		if item.Err != nil {
			ji.Error = item.Err.Error()
		}

		var bits map[string]*descriptor.BitField
		if e.Mode == Extensive {
			bits = bitFieldsOf(cd, id)
		}

		for name, v := range item.Fields {
			val := valueToJSON(v)
			if e.Mode == Extensive {
				if bf, ok := bits[name]; ok {
					ji.Fields[name] = jsonExtensiveField{Value: val, Description: bf.LongName, Unit: bf.Unit}
					continue
				}
			}
			ji.Fields[name] = val
		}

		jr.Items[id] = ji
	}

	return json.Marshal(jr)
}

// bitFieldsOf returns the top-level named bitfields of item id within cd,
// keyed by BitField.Name, when the item's format is Fixed or Extensible
// (the only kinds with a flat Bits slice). Compound/Repetitive sub-items
// are not expanded here; their DecodedValue already carries nested
// Compound/List structure instead.
func bitFieldsOf(cd *descriptor.CategoryDescription, id string) map[string]*descriptor.BitField {
	if cd == nil {
		return nil
	}
	it, ok := cd.Item(id)
	if !ok || it.Format == nil {
		return nil
	}
	switch it.Format.Kind {
	case descriptor.Fixed, descriptor.Extensible:
		out := make(map[string]*descriptor.BitField, len(it.Format.Bits))
		for i := range it.Format.Bits {
			out[it.Format.Bits[i].Name] = &it.Format.Bits[i]
		}
		return out
	default:
		return nil
	}
}

func valueToJSON(v *descriptor.DecodedValue) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case descriptor.KindInteger:
		return v.Int
	case descriptor.KindFloat:
		return v.Float
	case descriptor.KindText:
		return v.Text
	case descriptor.KindBytes:
		return v.Bytes
	case descriptor.KindCompound:
		m := make(map[string]any, len(v.Compound))
		for k, sub := range v.Compound {
			m[k] = valueToJSON(sub)
		}
		return m
	case descriptor.KindList:
		list := make([]any, len(v.List))
		for i, sub := range v.List {
			list[i] = valueToJSON(sub)
		}
		return list
	default:
		return nil
	}
}
