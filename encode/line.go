package encode

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

// LineEncoder renders one (category, item id, field name, value) tuple per
// line, in FRN order where a library is available, falling back to sorted
// item id order otherwise.
type LineEncoder struct{}

func (LineEncoder) Encode(rec *asterix.DecodedRecord, lib *descriptor.Library) ([]byte, error) {
	cd := lookupCategory(lib, rec.Category)

	var sb strings.Builder
	for _, id := range orderedItemIDs(rec, cd) {
		item := rec.Items[id]
		if item == nil {
			continue
		}
		for _, field := range sortedFieldNames(item.Fields) {
			sb.WriteString(fmt.Sprintf("%s %s %s %s\n", rec.Category, id, field, fieldString(item.Fields[field])))
		}
		if len(item.Fields) == 0 {
			sb.WriteString(fmt.Sprintf("%s %s raw % x\n", rec.Category, id, item.RawBytes))
		}
	}
	return []byte(sb.String()), nil
}

// orderedItemIDs walks rec's items in the category's UAP FRN order when cd
// is available, then appends any remaining items (e.g. RFS/SPF slots) in
// sorted order so nothing present in the record is ever silently dropped.
func orderedItemIDs(rec *asterix.DecodedRecord, cd *descriptor.CategoryDescription) []string {
	seen := make(map[string]bool, len(rec.Items))
	var ids []string

	if cd != nil && cd.UAP != nil {
		slots := append([]descriptor.UAPSlot(nil), cd.UAP.Slots...)
		sort.Slice(slots, func(i, j int) bool { return slots[i].FRN < slots[j].FRN })
		for _, slot := range slots {
			if _, ok := rec.Items[slot.ItemID]; ok && !seen[slot.ItemID] {
				ids = append(ids, slot.ItemID)
				seen[slot.ItemID] = true
			}
		}
	}

	var rest []string
	for id := range rec.Items {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}

func sortedFieldNames(m map[string]*descriptor.DecodedValue) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
