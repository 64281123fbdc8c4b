// Package asterix is the streaming record parser: FSPEC/UAP-driven decode of
// ASTERIX data blocks into records, over a descriptor.Library built by
// xmlloader. It owns no per-item decode logic of its own — that lives in
// itemcodec — only the block/record framing state machine.
package asterix

import (
	"fmt"

	"github.com/go-asterix/gobelix/descriptor"
)

// Category is the ASTERIX category number; an alias of descriptor.Category
// so callers never need to convert between the two packages' notions of it.
type Category = descriptor.Category

// Error taxonomy. Block- and record-level failures are one of these, wrapped
// with %w so callers can errors.Is against the category regardless of context.
// A Partial record's Err instead carries the item-level cause from itemcodec
// or descriptor.
var (
	ErrTruncated          = fmt.Errorf("asterix: truncated")
	ErrMalformedBlock     = fmt.Errorf("asterix: malformed data block")
	ErrMalformedFSPEC     = fmt.Errorf("asterix: malformed FSPEC")
	ErrUnknownCategory    = fmt.Errorf("asterix: unknown category")
	ErrUnknownItem        = fmt.Errorf("asterix: unknown data item")
	ErrMalformedItem      = fmt.Errorf("asterix: malformed data item")
	ErrBadEncapsulation   = fmt.Errorf("asterix: bad encapsulation framing")
	ErrAlreadyInitialized = fmt.Errorf("asterix: parser already initialized")
)

// ParseError carries the context spec.md §3 asks every decode failure to
// report: which category and byte offset it happened at, and why.
type ParseError struct {
	Category Category
	Offset   int
	Reason   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("asterix: %s at offset %d: %v", e.Category, e.Offset, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Reason
}
