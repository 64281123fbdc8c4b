// Package itemcodec implements the two polymorphic operations every
// descriptor.ItemFormat variant supports — length_of and decode — as an
// explicit switch over descriptor.FormatKind rather than virtual dispatch.
// This keeps each variant exhaustiveness-checked and allocation-free for
// the common Fixed case, per spec.md §9's re-architecture advice.
package itemcodec

import "errors"

// ErrZeroLength is returned by LengthOf when an item's computed length is
// zero — itself a malformed-item signal, never a valid wire encoding.
var ErrZeroLength = errors.New("itemcodec: item length is zero")

// ErrOverflow is returned when a Repetitive item's count * element length
// would exceed descriptor.MaxItemSize or overflow native arithmetic.
var ErrOverflow = errors.New("itemcodec: repetitive item exceeds maximum item size")

// ErrUnknownSubItem is returned when a Compound item's sub-FSPEC flags a
// slot with no corresponding declared sub-item.
var ErrUnknownSubItem = errors.New("itemcodec: compound sub-FSPEC references undefined sub-item")
