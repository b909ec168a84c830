package records

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		name  string
		input any
		want  float64
	}{
		{name: "missing", input: nil, want: 0},
		{name: "plain number", input: float64(42.5), want: 42.5},
		{name: "integer", input: 100, want: 100},
		{name: "plain string", input: "100", want: 100},
		{name: "currency with thousands", input: "$4,500 / month", want: 4500},
		{name: "decimal string", input: "19.99", want: 19.99},
		{name: "thousands and decimals", input: "1,234.56", want: 1234.56},
		{name: "negative", input: "-25", want: -25},
		{name: "garbage", input: "free", want: 0},
		{name: "empty string", input: "", want: 0},
		{name: "only symbols", input: "$ / month", want: 0},
		{name: "bool", input: true, want: 0},
		{name: "nan", input: math.NaN(), want: 0},
		{name: "infinity", input: math.Inf(1), want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAmount(tc.input))
		})
	}
}
