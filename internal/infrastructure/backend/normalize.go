package backend

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"dockhand/internal/core/types"
)

// record is one upstream object before normalization. Decoding into raw
// messages lets each field be coalesced across its known naming variants.
type record map[string]json.RawMessage

// pick returns the first present, non-null value among the given keys.
func (r record) pick(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && len(v) > 0 && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// str coalesces a string field. Numeric ids are accepted and formatted,
// since some services return numbers where others return strings.
func (r record) str(keys ...string) string {
	v, ok := r.pick(keys...)
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}

	return ""
}

// quantity coalesces a quantity field through the tolerant decoder.
func (r record) quantity(keys ...string) types.Quantity {
	v, ok := r.pick(keys...)
	if !ok {
		return 0
	}

	var q types.Quantity
	if err := json.Unmarshal(v, &q); err != nil {
		return 0
	}
	return q
}

// integer coalesces an int field.
func (r record) integer(keys ...string) int {
	v, ok := r.pick(keys...)
	if !ok {
		return 0
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return 0
	}
	i, err := strconv.Atoi(n.String())
	if err != nil {
		return 0
	}
	return i
}

// date coalesces a timestamp field, accepting RFC 3339 and plain dates.
func (r record) date(keys ...string) *time.Time {
	s := r.str(keys...)
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// decodeRecord unmarshals a single upstream object, unwrapping the common
// {"data": {...}} envelope when present.
func decodeRecord(raw []byte) (record, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	for _, key := range []string{"data", "receipt"} {
		if v, ok := r.pick(key); ok && len(v) > 0 && v[0] == '{' {
			var inner record
			if err := json.Unmarshal(v, &inner); err == nil {
				return inner, nil
			}
		}
	}
	return r, nil
}

// decodeRecords unmarshals an upstream collection response. Both a bare
// array and the common {"items": [...]} / {"data": [...]} envelopes are
// accepted.
func decodeRecords(raw []byte) ([]record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"items", "data", "results"} {
		if v, ok := envelope[key]; ok {
			var records []record
			if err := json.Unmarshal(v, &records); err != nil {
				return nil, err
			}
			return records, nil
		}
	}

	return nil, nil
}
