package asterix

import (
	"time"

	"github.com/go-asterix/gobelix/descriptor"
)

// DecodedRecord is one decoded ASTERIX record: every item its FSPEC flagged
// present, decoded against the category's UAP.
type DecodedRecord struct {
	Category   Category
	Version    string
	RawBytes   []byte
	Timestamp  time.Time
	Items      map[string]*descriptor.DecodedItem
	Partial    bool  // set when one or more items failed to decode fully
	Err        error // the first error encountered, if Partial
}

// Item looks up one decoded item by id.
func (r *DecodedRecord) Item(id string) *descriptor.DecodedItem {
	if r == nil {
		return nil
	}
	return r.Items[id]
}
