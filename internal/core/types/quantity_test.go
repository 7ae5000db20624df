package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Quantity
	}{
		{"integer number", `5`, 5},
		{"float number", `5.0`, 5},
		{"fractional rounds half up", `4.5`, 5},
		{"numeric string", `"10"`, 10},
		{"decimal string", `"10.00"`, 10},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
		{"zero", `0`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var q Quantity
			require.NoError(t, json.Unmarshal([]byte(tc.in), &q))
			assert.Equal(t, tc.want, q)
		})
	}
}

func TestQuantityUnmarshalJSON_Invalid(t *testing.T) {
	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &q))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &q))
}

func TestParseQuantity(t *testing.T) {
	for _, v := range []any{5, int64(5), float64(5), json.Number("5"), "5", " 5.0 "} {
		q, err := ParseQuantity(v)
		require.NoError(t, err, "value %v (%T)", v, v)
		assert.Equal(t, Quantity(5), q)
	}

	q, err := ParseQuantity(nil)
	require.NoError(t, err)
	assert.True(t, q.IsZero())

	_, err = ParseQuantity([]string{"5"})
	assert.Error(t, err)

	_, err = ParseQuantity("not-a-number")
	assert.Error(t, err)
}
