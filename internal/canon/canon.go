// Package canon renders values as canonical JSON: object keys sorted, number
// digits preserved, no insignificant whitespace. Equal values always produce
// identical bytes, which is what cache keying needs.
package canon

import (
	"bytes"
	"encoding/json"
)

// JSON returns the canonical JSON encoding of v. Values that cannot round
// trip through encoding/json (channels, functions, cyclic data) return the
// underlying marshal error.
func JSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	// Re-decode and re-encode: map keys come out sorted and any formatting
	// quirks of custom marshalers (json.RawMessage included) are flattened.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}
