// Package encode renders a decoded ASTERIX record (asterix.DecodedRecord)
// into one of the output forms a consumer might want: one line per field,
// a human-readable multi-line dump, JSON, or XML; JSON and XML each have
// compact and richer variants selected by Mode. Every encoder works from the same decoded
// representation the parser produced, never re-parsing raw bytes.
package encode

import (
	"fmt"
	"sort"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

// Mode selects how much description-library metadata an encoder pulls in
// alongside the raw decoded values.
type Mode uint8

const (
	// Compact emits only ids and values.
	Compact Mode = iota + 1
	// Human emits ids, item names, and values, but no description/unit metadata.
	Human
	// Extensive additionally pulls field units (and, for JSON, field
	// descriptions) from the description library. Enumerated fields carry
	// their label as the value in every mode, Compact included.
	Extensive
)

// Encoder renders one DecodedRecord. lib may be nil for Compact mode; Human
// and Extensive modes look up item/field names and metadata in it when
// present, falling back to bare ids when a lookup misses.
type Encoder interface {
	Encode(rec *asterix.DecodedRecord, lib *descriptor.Library) ([]byte, error)
}

// itemName returns the human name for id within cd, or id itself if cd is
// nil or the item is undeclared (reserved slots, unknown ids).
func itemName(cd *descriptor.CategoryDescription, id string) string {
	if cd == nil {
		return id
	}
	if it, ok := cd.Item(id); ok && it.Name != "" {
		return it.Name
	}
	return id
}

// lookupCategory is a small helper shared by every encoder: nil-safe
// Library.Lookup.
func lookupCategory(lib *descriptor.Library, cat asterix.Category) *descriptor.CategoryDescription {
	if lib == nil {
		return nil
	}
	cd, ok := lib.Lookup(cat)
	if !ok {
		return nil
	}
	return cd
}

// fieldString renders one DecodedValue as a flat string, recursing into
// Compound/List. Used by Line and Text, which have no structured output.
func fieldString(v *descriptor.DecodedValue) string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case descriptor.KindCompound:
		return formatCompound(v.Compound)
	case descriptor.KindList:
		return formatList(v.List)
	default:
		return v.String()
	}
}

func formatCompound(m map[string]*descriptor.DecodedValue) string {
	s := "{"
	first := true
	for _, k := range sortedKeys(m) {
		if !first {
			s += ", "
		}
		first = false
		s += fmt.Sprintf("%s: %s", k, fieldString(m[k]))
	}
	return s + "}"
}

func sortedKeys(m map[string]*descriptor.DecodedValue) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatList(list []*descriptor.DecodedValue) string {
	s := "["
	for i, v := range list {
		if i > 0 {
			s += ", "
		}
		s += fieldString(v)
	}
	return s + "]"
}
