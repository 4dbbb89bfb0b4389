package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

// All value kinds.
const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
	KindSequence
)

// String returns the lowercase name of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero value is Missing.
type Value struct {
	kind ValueKind
	num  float64
	text string
	seq  []Value
}

// Missing returns the missing-value marker.
func Missing() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text returns a textual value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Sequence returns a sequence value holding a copy of elems.
func Sequence(elems ...Value) Value {
	seq := make([]Value, len(elems))
	copy(seq, elems)
	return Value{kind: KindSequence, seq: seq}
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Number returns the numeric payload and whether v is a number.
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the textual payload and whether v is text.
func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

// Sequence returns the elements and whether v is a sequence.
// The returned slice must not be modified.
func (v Value) Sequence() ([]Value, bool) { return v.seq, v.kind == KindSequence }

// Equal reports whether two values hold the same variant and payload.
// NaN numbers compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindText:
		return v.text == o.text
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
	}
	return true
}

// String renders v for display. Missing renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return ""
	}
}

// MarshalJSON encodes missing values (and non-finite numbers) as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindSequence:
		return json.Marshal(v.seq)
	default:
		return []byte("null"), nil
	}
}
