// Package types provides common type aliases and utilities.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a whole-unit item count.
//
// Collaborator services are inconsistent about how they encode quantities:
// some return JSON numbers (5, 5.0), some return strings ("5", "5.00").
// Quantity normalizes all of those at the boundary so the domain model only
// ever sees whole units. Fractional values are rounded half-up.
type Quantity int

// Int returns the quantity as a plain int.
func (q Quantity) Int() int { return int(q) }

// IsZero reports whether the quantity is zero.
func (q Quantity) IsZero() bool { return q == 0 }

// IsPositive reports whether the quantity is strictly greater than zero.
func (q Quantity) IsPositive() bool { return q > 0 }

// UnmarshalJSON accepts numbers, numeric strings, and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*q = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal quantity: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*q = 0
			return nil
		}
		raw = s
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("parse quantity %q: %w", raw, err)
	}

	*q = Quantity(d.Round(0).IntPart())
	return nil
}

// ParseQuantity coerces a dynamically typed value (JSON decode result,
// query parameter) into a Quantity.
func ParseQuantity(v any) (Quantity, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return Quantity(t), nil
	case int64:
		return Quantity(t), nil
	case float64:
		return Quantity(decimal.NewFromFloat(t).Round(0).IntPart()), nil
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return 0, fmt.Errorf("parse quantity %q: %w", t.String(), err)
		}
		return Quantity(d.Round(0).IntPart()), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return 0, fmt.Errorf("parse quantity %q: %w", s, err)
		}
		return Quantity(d.Round(0).IntPart()), nil
	default:
		return 0, fmt.Errorf("parse quantity: unsupported type %T", v)
	}
}
