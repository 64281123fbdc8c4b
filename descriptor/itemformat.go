package descriptor

// FormatKind discriminates the seven ItemFormat variants. Keeping this a
// plain tagged union (rather than an interface hierarchy with per-variant
// types implementing a common method set) buys exhaustiveness checking at
// every switch in itemcodec and avoids a heap allocation per item for the
// common Fixed case.
type FormatKind uint8

const (
	Fixed FormatKind = iota + 1
	Extensible
	Repetitive
	Compound
	Explicit
	SpecialPurpose
	BDSRegister
)

func (k FormatKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Extensible:
		return "extensible"
	case Repetitive:
		return "repetitive"
	case Compound:
		return "compound"
	case Explicit:
		return "explicit"
	case SpecialPurpose:
		return "special-purpose"
	case BDSRegister:
		return "bds-register"
	default:
		return "unknown"
	}
}

// MaxItemSize bounds any single item's encoded length, per the
// integer-overflow-safety testable property: Repetitive's length_of must
// never return more than this.
const MaxItemSize = 64 * 1024

// ItemFormat is the sum-type description of one data item's wire encoding.
// Exactly the fields relevant to Kind are meaningful; itemcodec's length_of
// and decode switch exhaustively on Kind.
type ItemFormat struct {
	Kind FormatKind

	// Fixed, and the final segment shape for Extensible/Repetitive elements.
	Length int        // byte length (Fixed); base segment length (Extensible)
	Bits   []BitField // named sub-fields, bit-numbered over the concatenated raw bytes

	// Extensible.
	ExtLength int // bytes added per FX-extension segment

	// Repetitive.
	Element *ItemFormat

	// Compound.
	SubItems []*ItemDescription // declaration order; presence selected by a sub-FSPEC

	// Explicit / SpecialPurpose: ExplicitLengthOverride, when > 0, pins the
	// item to a fixed length instead of trusting the self-reported first
	// length byte (see DESIGN.md Open Question "SpecialPurpose vs Explicit
	// length byte").
	ExplicitLengthOverride int

	// BDSRegister: selector byte -> format of the 7-byte register content.
	// A selector absent from this map decodes as opaque bytes.
	Registers map[byte]*ItemFormat
}

// ItemDescription is one named data item within a category: its id (e.g.
// "I048/010"), human name, and wire format.
type ItemDescription struct {
	ID     string
	Name   string
	Format *ItemFormat
}
