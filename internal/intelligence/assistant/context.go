// Package assistant holds the AI-context engine: it serializes the practice's
// clients and deadlines into a deterministic text context, drives the
// single-flight conversation with the external agent and normalizes the
// agent's untrusted replies into a fixed schema.
package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ContextSeparator joins a user message and the serialized context.
const ContextSeparator = "\n\n--- Context ---\n"

// ComposeMessage builds the text dispatched to the agent.
func ComposeMessage(prompt, context string) string {
	return prompt + ContextSeparator + context
}

// ContextFormat selects the body encoding of a context.
type ContextFormat string

const (
	FormatJSON ContextFormat = "json"
	FormatYAML ContextFormat = "yaml"
)

// Snapshot is the store state a context is built from.
type Snapshot struct {
	Clients   []client.Client
	Deadlines []deadline.Deadline
}

// contextDeadline and contextClient fix the field order of the context.
type contextDeadline struct {
	Title    string `json:"title" yaml:"title"`
	DueDate  string `json:"dueDate" yaml:"dueDate"`
	Priority string `json:"priority" yaml:"priority"`
	Status   string `json:"status" yaml:"status"`
}

type contextClient struct {
	Name      string            `json:"name" yaml:"name"`
	Company   string            `json:"company" yaml:"company"`
	Status    string            `json:"status" yaml:"status"`
	Industry  string            `json:"industry" yaml:"industry"`
	Deadlines []contextDeadline `json:"deadlines" yaml:"deadlines"`
}

// Serializer renders a Snapshot as agent context.  The zero value emits JSON.
type Serializer struct {
	Format ContextFormat
}

// Serialize renders:
//
//	Current date: YYYY-MM-DD
//
//	Client & Deadline Data:
//	<body>
//
// The body lists clients in input order, each with its deadlines in input
// order.  Deadlines whose client is absent are omitted.  Output is
// byte-identical for identical input.
func (s Serializer) Serialize(clients []client.Client, deadlines []deadline.Deadline, now time.Time) (string, error) {
	data := contextData(clients, deadlines)

	var body string
	switch s.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return "", fmt.Errorf("encode yaml context: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml context: %w", err)
		}
		body = buf.String()
	case FormatJSON, "":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return "", fmt.Errorf("encode json context: %w", err)
		}
		body = buf.String()
	default:
		return "", fmt.Errorf("unsupported context format %q", s.Format)
	}

	return "Current date: " + common.DateOf(now).String() +
		"\n\nClient & Deadline Data:\n" + strings.TrimRight(body, "\n"), nil
}

// BuildContext renders the JSON context.  It cannot fail for these types.
func BuildContext(clients []client.Client, deadlines []deadline.Deadline, now time.Time) string {
	out, err := Serializer{Format: FormatJSON}.Serialize(clients, deadlines, now)
	if err != nil {
		return "Current date: " + common.DateOf(now).String() + "\n\nClient & Deadline Data:\n[]"
	}
	return out
}

func contextData(clients []client.Client, deadlines []deadline.Deadline) []contextClient {
	byClient := make(map[string][]contextDeadline, len(clients))
	for i := range deadlines {
		d := &deadlines[i]
		byClient[d.ClientID] = append(byClient[d.ClientID], contextDeadline{
			Title:    d.Title,
			DueDate:  d.DueDate.String(),
			Priority: string(d.Priority),
			Status:   string(d.Status),
		})
	}

	out := make([]contextClient, 0, len(clients))
	for i := range clients {
		c := &clients[i]
		ds := byClient[c.ID]
		if ds == nil {
			ds = []contextDeadline{}
		}
		out = append(out, contextClient{
			Name:      c.Name,
			Company:   c.Company,
			Status:    string(c.Status),
			Industry:  c.Industry,
			Deadlines: ds,
		})
	}
	return out
}

//Personal.AI order the ending
