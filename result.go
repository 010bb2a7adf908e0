package graphlink

import (
	"encoding/json"
	"errors"
)

// Result is the outcome of a single call: whatever data the server produced
// and every error it reported. A non-empty Errors does not imply Data is
// absent; partial responses carry both.
type Result struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors,omitempty"`
}

// HasErrors reports whether the server attached any GraphQL errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Decode unmarshals the result data into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return errors.New("graphlink: no data to decode")
	}
	return json.Unmarshal(r.Data, v)
}
