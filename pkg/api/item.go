package api

import (
	"encoding/json"
	"fmt"
)

// ListItem is one row of a list report. Name is the row key (a page path for
// the pages reports); Values holds every other field keyed by metric name.
type ListItem struct {
	Name   string
	Values map[string]any
}

// Value returns the raw value for a metric name, or nil.
func (li ListItem) Value(name string) any {
	return li.Values[name]
}

// Float returns the numeric value for a metric name.
func (li ListItem) Float(name string) (float64, bool) {
	switch v := li.Values[name].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// UnmarshalJSON decodes a row object, keeping numbers as float64.
func (li *ListItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	name, ok := raw["name"]
	if !ok {
		return fmt.Errorf("list item: missing name")
	}
	li.Name = fmt.Sprint(name)
	delete(raw, "name")
	li.Values = raw
	return nil
}

// MarshalJSON writes the row back as a flat object.
func (li ListItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(li.Values)+1)
	for k, v := range li.Values {
		out[k] = v
	}
	out["name"] = li.Name
	return json.Marshal(out)
}
