package descriptor

import "fmt"

// DecodedValue is the decoded content of one bitfield within a data item.
// Exactly one of the accessors is meaningful, selected by Kind.
type DecodedValue struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
	Bytes []byte
	// Compound holds nested field values for sub-structures (a Compound
	// item's present sub-items, or one BDS register's decoded fields).
	Compound map[string]*DecodedValue
	// List holds one entry per element of a Repetitive item.
	List []*DecodedValue
}

// ValueKind discriminates DecodedValue's active field.
type ValueKind uint8

const (
	KindInteger ValueKind = iota + 1
	KindFloat
	KindText
	KindBytes
	KindCompound
	KindList
)

func (v *DecodedValue) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindText:
		return v.Text
	case KindBytes:
		return fmt.Sprintf("% x", v.Bytes)
	case KindCompound:
		return fmt.Sprintf("%v", v.Compound)
	case KindList:
		return fmt.Sprintf("%v", v.List)
	default:
		return "<invalid>"
	}
}

// DecodedItem is one data item's decoded representation: the bytes it
// occupied on the wire and its named field values.
type DecodedItem struct {
	ID       string
	RawBytes []byte
	Fields   map[string]*DecodedValue

	// Err is set when the item could be decoded only partially (see
	// ItemFormat.Decode / the MalformedItem policy). RawBytes still holds
	// whatever prefix was consumed.
	Err error
}

// Field looks up a named field, returning nil if absent.
func (di *DecodedItem) Field(name string) *DecodedValue {
	if di == nil {
		return nil
	}
	return di.Fields[name]
}
