package assistant

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// Extractor recovers a JSON object embedded in free text.
type Extractor interface {
	Extract(text string) (map[string]any, error)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(text string) (map[string]any, error)

// Extract calls f.
func (f ExtractorFunc) Extract(text string) (map[string]any, error) { return f(text) }

// ErrNoJSON is returned when no object can be recovered.
var ErrNoJSON = errors.New(errors.ErrCodeAgentNoJSON, "no JSON object found in agent text")

// JSONExtractor is the default Extractor.  In order it tries:
//
//  1. the trimmed text, with any markdown code fence removed, as a whole object;
//  2. the text as a JSON string literal whose content is itself an object;
//  3. every balanced {...} span, left to right, returning the first that is
//     a valid object.
type JSONExtractor struct {
	// MaxScan bounds the number of candidate spans examined in step 3.
	// Zero means 64.
	MaxScan int
}

// Extract implements Extractor.
func (e JSONExtractor) Extract(text string) (map[string]any, error) {
	s := stripFence(strings.TrimSpace(text))
	if s == "" {
		return nil, ErrNoJSON
	}

	if m, ok := decodeObject(s); ok {
		return m, nil
	}

	if strings.HasPrefix(s, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err == nil {
			if m, ok := decodeObject(stripFence(strings.TrimSpace(inner))); ok {
				return m, nil
			}
		}
	}

	limit := e.MaxScan
	if limit <= 0 {
		limit = 64
	}
	for start, tried := strings.IndexByte(s, '{'), 0; start >= 0 && tried < limit; tried++ {
		if end := matchBrace(s, start); end > start {
			if m, ok := decodeObject(s[start : end+1]); ok {
				return m, nil
			}
		}
		next := strings.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, ErrNoJSON
}

func decodeObject(s string) (map[string]any, bool) {
	if !gjson.Valid(s) {
		return nil, false
	}
	if !gjson.Parse(s).IsObject() {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return m, true
}

// stripFence removes a surrounding ``` or ```json fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	body := strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		lang := strings.TrimSpace(body[:nl])
		if lang == "" || !strings.ContainsAny(lang, "{[\"") {
			body = body[nl+1:]
		}
	}
	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}

// matchBrace returns the index of the '}' balancing the '{' at open, skipping
// braces inside string literals, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

//Personal.AI order the ending
