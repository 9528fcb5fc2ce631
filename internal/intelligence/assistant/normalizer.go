package assistant

import (
	"encoding/json"
	"fmt"
)

// FallbackContent is shown when a successful reply has neither summary nor
// details.
const FallbackContent = "Response received."

// NormalizedResult is the fixed-schema view of an agent reply.  All four
// fields are always present; the slices are never nil so they encode as [].
type NormalizedResult struct {
	Summary     string   `json:"summary" yaml:"summary"`
	Details     string   `json:"details" yaml:"details"`
	ActionItems []string `json:"action_items" yaml:"action_items"`
	Alerts      []string `json:"alerts" yaml:"alerts"`
}

// EmptyResult returns a fully-populated empty result.
func EmptyResult() NormalizedResult {
	return NormalizedResult{ActionItems: []string{}, Alerts: []string{}}
}

// DisplayContent is summary, else details, else FallbackContent.
func (r NormalizedResult) DisplayContent() string {
	if r.Summary != "" {
		return r.Summary
	}
	if r.Details != "" {
		return r.Details
	}
	return FallbackContent
}

// IsEmpty reports whether every field is empty.
func (r NormalizedResult) IsEmpty() bool {
	return r.Summary == "" && r.Details == "" && len(r.ActionItems) == 0 && len(r.Alerts) == 0
}

// Normalizer turns untrusted agent payloads into NormalizedResult.
type Normalizer struct {
	extractor Extractor
}

// NewNormalizer builds a Normalizer.  A nil extractor selects JSONExtractor.
func NewNormalizer(extractor Extractor) *Normalizer {
	if extractor == nil {
		extractor = JSONExtractor{}
	}
	return &Normalizer{extractor: extractor}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize uses the default JSONExtractor.
func Normalize(p Payload) NormalizedResult {
	return defaultNormalizer.Normalize(p)
}

// Normalize never fails: missing or mistyped fields degrade to their empty
// value, and an extractor failure (or panic) is treated as an empty object.
func (n *Normalizer) Normalize(p Payload) NormalizedResult {
	var obj map[string]any
	switch p.Kind() {
	case PayloadStructured:
		obj, _ = p.Object()
	case PayloadText:
		raw, _ := p.Raw()
		obj = n.extract(raw)
	}
	return NormalizeObject(obj)
}

func (n *Normalizer) extract(raw string) (obj map[string]any) {
	defer func() {
		if recover() != nil {
			obj = nil
		}
	}()
	m, err := n.extractor.Extract(raw)
	if err != nil {
		return nil
	}
	return m
}

// NormalizeObject applies field extraction to an already-decoded object.
func NormalizeObject(obj map[string]any) NormalizedResult {
	res := EmptyResult()
	if obj == nil {
		return res
	}
	res.Summary = stringField(obj, "summary")
	res.Details = stringField(obj, "details")
	res.ActionItems = stringList(obj, "action_items")
	res.Alerts = stringList(obj, "alerts")
	return res
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

// stringList keeps string elements, drops nulls and renders any other element
// as compact JSON.  A non-array value yields an empty list.
func stringList(obj map[string]any, key string) []string {
	items, ok := obj[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
		case string:
			out = append(out, v)
		default:
			b, err := json.Marshal(v)
			if err != nil {
				out = append(out, fmt.Sprint(v))
				continue
			}
			out = append(out, string(b))
		}
	}
	return out
}

//Personal.AI order the ending
