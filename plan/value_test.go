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
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Value
		equal bool
	}{
		{"ints equal", IntValue(1), IntValue(1), true},
		{"ints differ", IntValue(1), IntValue(2), false},
		{"floats equal", FloatValue(1.5), FloatValue(1.5), true},
		{"floats differ", FloatValue(1.5), FloatValue(2.5), false},
		{"nan equals nan", FloatValue(math.NaN()), FloatValue(math.NaN()), true},
		{"nan differs from number", FloatValue(math.NaN()), FloatValue(1), false},
		{"bools equal", BoolValue(true), BoolValue(true), true},
		{"bools differ", BoolValue(true), BoolValue(false), false},
		{"strings equal", StringValue("t1"), StringValue("t1"), true},
		{"strings differ", StringValue("t1"), StringValue("t2"), false},
		{"bytes equal", BytesValue([]byte{1, 2, 3}), BytesValue([]byte{1, 2, 3}), true},
		{"bytes differ", BytesValue([]byte{1, 2, 3}), BytesValue([]byte{1, 2, 4}), false},
		{"decimals equal", DecimalValue(decimal.NewFromFloat(1.10)), DecimalValue(decimal.NewFromFloat(1.1)), true},
		{"decimals differ", DecimalValue(decimal.NewFromFloat(1.1)), DecimalValue(decimal.NewFromFloat(1.2)), false},
		{"different kinds", IntValue(1), StringValue("1"), false},
		{"none equals none", Value{}, Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.equal, tt.a.Equal(tt.b))
			require.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestValueHashKeyNaNCanonicalization(t *testing.T) {
	a := FloatValue(math.NaN())
	b := FloatValue(math.Copysign(math.NaN(), -1))
	require.Equal(t, a.HashKey(), b.HashKey())
}

func TestValueHashKeyDistinguishesBytesAndString(t *testing.T) {
	require.NotEqual(t, BytesValue([]byte("abc")).HashKey(), StringValue("abc").HashKey())
}

func TestValueAccessors(t *testing.T) {
	require.Equal(t, int64(42), IntValue(42).Int())
	require.Equal(t, 3.25, FloatValue(3.25).Float())
	require.True(t, BoolValue(true).Bool())
	require.Equal(t, "hi", StringValue("hi").String())
	require.Equal(t, []byte{0xDE, 0xAD}, BytesValue([]byte{0xDE, 0xAD}).Bytes())
}
