package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value of a JSON string field, which a
// plain *string cannot express:
//   - Present=false: field absent from JSON (caller applies its default)
//   - Present=true, Value=nil: field is JSON null
//   - Present=true, Value=&"": field is empty string
//   - Present=true, Value=&"text": field has value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler.
// Only called when the field is present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// OrDefault returns nil when the field was absent (so the caller's default
// applies), the empty string when it was null, and the value otherwise.
func (o OptionalString) OrDefault() *string {
	if !o.Present {
		return nil
	}
	if o.Value == nil {
		empty := ""
		return &empty
	}
	return o.Value
}
