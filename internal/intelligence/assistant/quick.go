package assistant

// QuickQuery is a canned prompt offered next to the chat input.
type QuickQuery struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

var quickQueries = []QuickQuery{
	{ID: "due-this-week", Prompt: "What's due this week?"},
	{ID: "overdue", Prompt: "Overdue items"},
	{ID: "client-summary", Prompt: "Client summary"},
	{ID: "weekly-workload", Prompt: "Weekly workload"},
}

// QuickQueries returns the canned prompts in display order.
func QuickQueries() []QuickQuery {
	out := make([]QuickQuery, len(quickQueries))
	copy(out, quickQueries)
	return out
}

// LookupQuickQuery finds a canned prompt by ID.
func LookupQuickQuery(id string) (QuickQuery, bool) {
	for _, q := range quickQueries {
		if q.ID == id {
			return q, true
		}
	}
	return QuickQuery{}, false
}
