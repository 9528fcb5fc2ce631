package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Message is one entry of the chat log.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Result    *Result   `json:"parsed_response,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is a user message and the assistant's reply.
type Turn struct {
	User      Message `json:"user"`
	Assistant Message `json:"assistant"`
}

// QuickQuery is a canned prompt.
type QuickQuery struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// Export locates an archived transcript.
type Export struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Messages int    `json:"messages"`
}

// ChatClient wraps the /chat endpoints.  Submissions are never retried: a
// lost response may still have produced a turn.
type ChatClient struct {
	client *Client
}

func (c *ChatClient) Messages(ctx context.Context) ([]Message, error) {
	var resp ListResponse[Message]
	if err := c.client.get(ctx, apiPrefix+"/chat/messages", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Send submits text and waits for the assistant's reply.
func (c *ChatClient) Send(ctx context.Context, text string) (*Turn, error) {
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	var out Turn
	if err := c.client.do(ctx, http.MethodPost, apiPrefix+"/chat/messages", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ChatClient) QuickQueries(ctx context.Context) ([]QuickQuery, error) {
	var resp ListResponse[QuickQuery]
	if err := c.client.get(ctx, apiPrefix+"/chat/quick-queries", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *ChatClient) RunQuickQuery(ctx context.Context, id string) (*Turn, error) {
	var out Turn
	if err := c.client.do(ctx, http.MethodPost, apiPrefix+"/chat/quick-queries/"+url.PathEscape(id), nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Export archives the transcript server-side.
func (c *ChatClient) Export(ctx context.Context) (*Export, error) {
	var out Export
	if err := c.client.do(ctx, http.MethodPost, apiPrefix+"/chat/export", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reset clears the conversation.
func (c *ChatClient) Reset(ctx context.Context) error {
	return c.client.delete(ctx, apiPrefix+"/chat/messages")
}

//Personal.AI order the ending
