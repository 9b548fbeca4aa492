// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ValueKind tags the scalar payload a Node may carry.
type ValueKind uint8

const (
	ValueKindNone ValueKind = iota
	ValueKindInt
	ValueKindFloat
	ValueKindBool
	ValueKindString
	ValueKindBytes
	ValueKindDecimal
)

// Value is the immutable scalar payload a Node optionally carries: an
// integer, an ordered-float, a bool, a string, opaque bytes, or an exact
// decimal literal. Two values compare equal iff they share the same tag
// and the same bit content; floats use ordered-float rules so that two
// NaN payloads (e.g. two literal NaN nodes) are considered equal for
// memoization purposes, rather than comparing unequal as IEEE-754 does.
//
// The Decimal variant is grounded on go-mysql-server's exact-precision
// DECIMAL/NUMERIC column support and is carried via shopspring/decimal so
// that literal equality during memoization never loses precision to a
// float round-trip.
type Value struct {
	kind ValueKind
	i    int64
	f    float64
	b    bool
	s    string
	by   []byte
	d    decimal.Decimal
}

func IntValue(i int64) Value        { return Value{kind: ValueKindInt, i: i} }
func FloatValue(f float64) Value    { return Value{kind: ValueKindFloat, f: f} }
func BoolValue(b bool) Value        { return Value{kind: ValueKindBool, b: b} }
func StringValue(s string) Value    { return Value{kind: ValueKindString, s: s} }
func BytesValue(b []byte) Value     { return Value{kind: ValueKindBytes, by: append([]byte(nil), b...)} }
func DecimalValue(d decimal.Decimal) Value {
	return Value{kind: ValueKindDecimal, d: d}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) Int() int64      { return v.i }
func (v Value) Float() float64  { return v.f }
func (v Value) Bool() bool      { return v.b }
func (v Value) String() string {
	switch v.kind {
	case ValueKindInt:
		return fmt.Sprintf("%d", v.i)
	case ValueKindFloat:
		return fmt.Sprintf("%v", v.f)
	case ValueKindBool:
		return fmt.Sprintf("%v", v.b)
	case ValueKindString:
		return v.s
	case ValueKindBytes:
		return fmt.Sprintf("%x", v.by)
	case ValueKindDecimal:
		return v.d.String()
	default:
		return "<none>"
	}
}
func (v Value) Bytes() []byte            { return v.by }
func (v Value) Decimal() decimal.Decimal { return v.d }

// Equal implements the ordered-float structural equality rule from
// spec.md §3: same tag, same bit content, NaN compares equal to NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueKindNone:
		return true
	case ValueKindInt:
		return v.i == o.i
	case ValueKindFloat:
		return orderedFloatBits(v.f) == orderedFloatBits(o.f)
	case ValueKindBool:
		return v.b == o.b
	case ValueKindString:
		return v.s == o.s
	case ValueKindBytes:
		if len(v.by) != len(o.by) {
			return false
		}
		for i := range v.by {
			if v.by[i] != o.by[i] {
				return false
			}
		}
		return true
	case ValueKindDecimal:
		return v.d.Equal(o.d)
	default:
		return false
	}
}

// orderedFloatBits canonicalizes NaN to a single bit pattern so that all
// NaN payloads hash and compare equal, matching the "ordered-float" rule
// spec.md §3 requires of the Value type.
func orderedFloatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}

// HashKey returns a value usable as a Go map key component; it is exact
// for every variant since Go maps cannot key on []byte directly.
func (v Value) HashKey() interface{} {
	switch v.kind {
	case ValueKindBytes:
		return string(v.by)
	case ValueKindFloat:
		return orderedFloatBits(v.f)
	case ValueKindDecimal:
		return v.d.String()
	default:
		return v
	}
}
