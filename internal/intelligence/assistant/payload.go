package assistant

import (
	"bytes"
	"encoding/json"
)

// PayloadKind discriminates the shapes an agent result may take.
type PayloadKind int

const (
	PayloadEmpty PayloadKind = iota
	PayloadStructured
	PayloadText
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadStructured:
		return "structured"
	case PayloadText:
		return "text"
	default:
		return "empty"
	}
}

// Payload is the agent's result: an already-decoded object, a text blob that
// is expected to contain JSON, or nothing.  The zero value is empty.
type Payload struct {
	kind   PayloadKind
	object map[string]any
	text   string
}

// Structured wraps a decoded object.  A nil map yields an empty payload.
func Structured(m map[string]any) Payload {
	if m == nil {
		return Payload{}
	}
	return Payload{kind: PayloadStructured, object: m}
}

// Text wraps a raw text reply.
func Text(s string) Payload {
	return Payload{kind: PayloadText, text: s}
}

// Kind returns the payload shape.
func (p Payload) Kind() PayloadKind { return p.kind }

// Object returns the structured value, if any.
func (p Payload) Object() (map[string]any, bool) {
	return p.object, p.kind == PayloadStructured
}

// Raw returns the text value, if any.
func (p Payload) Raw() (string, bool) {
	return p.text, p.kind == PayloadText
}

// UnmarshalJSON maps a JSON object to Structured, a JSON string to Text and
// anything else (null, numbers, arrays, booleans) to empty.  It never fails
// on well-formed JSON.
func (p *Payload) UnmarshalJSON(data []byte) error {
	*p = Payload{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var m map[string]any
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return err
		}
		*p = Structured(m)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*p = Text(s)
	}
	return nil
}

// MarshalJSON renders the payload back in its original shape.
func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case PayloadStructured:
		return json.Marshal(p.object)
	case PayloadText:
		return json.Marshal(p.text)
	default:
		return []byte("null"), nil
	}
}
