// Package types contains the read shapes shared by the service and the HTTP layer.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mergington/activities/internal/domain/model"
)

// Catalog is an ordered snapshot of the registry. It encodes as a JSON object
// keyed by activity name, keeping registry order instead of sorting keys.
type Catalog []model.Activity

// Len returns the number of activities.
func (c Catalog) Len() int { return len(c) }

// Lookup finds an activity by name.
func (c Catalog) Lookup(name string) (model.Activity, bool) {
	for _, a := range c {
		if a.Name == name {
			return a, true
		}
	}
	return model.Activity{}, false
}

// Names lists activity names in order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, a := range c {
		names[i] = a.Name
	}
	return names
}

// MarshalJSON implements json.Marshaler.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if a.Participants == nil {
			a.Participants = []string{}
		}
		val, err := json.Marshal(a)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, restoring document order.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}
	out := Catalog{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var a model.Activity
		if err := dec.Decode(&a); err != nil {
			return err
		}
		a.Name = name
		out = append(out, a)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// Message is the success body of roster mutations.
type Message struct {
	Message string `json:"message"`
}

// Detail is the error body of every API failure.
type Detail struct {
	Detail string `json:"detail"`
}
