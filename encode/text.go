package encode

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-asterix/gobelix/asterix"
	"github.com/go-asterix/gobelix/descriptor"
)

// TextEncoder renders a human-readable multi-line dump of one record,
// generalizing the teacher's AsterixMessage.String() FRN-ordered field walk
// from a compiled-in UAP to any loaded descriptor.CategoryDescription.
type TextEncoder struct{}

func (TextEncoder) Encode(rec *asterix.DecodedRecord, lib *descriptor.Library) ([]byte, error) {
	cd := lookupCategory(lib, rec.Category)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s record (%d bytes)\n", rec.Category, len(rec.RawBytes)))
	sb.WriteString(fmt.Sprintf("Timestamp: %s\n", rec.Timestamp.Format(time.RFC3339Nano)))
	if rec.Partial {
		sb.WriteString(fmt.Sprintf("Partial: true (%v)\n", rec.Err))
	}

	for _, id := range orderedItemIDs(rec, cd) {
		item := rec.Items[id]
		if item == nil {
			continue
		}
		name := itemName(cd, id)
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", id, name))
		for _, field := range sortedFieldNames(item.Fields) {
			sb.WriteString(fmt.Sprintf("    %-10s %s\n", field, fieldString(item.Fields[field])))
		}
		if item.Err != nil {
			sb.WriteString(fmt.Sprintf("    !error     %v\n", item.Err))
		}
	}

	return []byte(sb.String()), nil
}
