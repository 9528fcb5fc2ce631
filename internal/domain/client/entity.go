// Package client defines the Client aggregate of a consulting practice and the
// read-side helpers the deadline engine uses to resolve client references.
package client

import (
	"strings"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Status
// ─────────────────────────────────────────────────────────────────────────────

// Status is the engagement state of a client.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseStatus validates a wire value.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", errors.New(errors.ErrCodeClientInvalidStatus, "invalid client status").WithDetail(s)
	}
	return st, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Client
// ─────────────────────────────────────────────────────────────────────────────

// DefaultName is given to clients created without a name.
const DefaultName = "New Client"

// Client is a customer of the practice.  The engine only reads clients.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Industry  string    `json:"industry"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewClient creates a client with a fresh ID.  An empty name becomes
// DefaultName and an empty status becomes active.
func NewClient(name, company, industry string, now time.Time) *Client {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return &Client{
		ID:        common.NewID().String(),
		Name:      name,
		Company:   company,
		Industry:  industry,
		Status:    StatusActive,
		CreatedAt: now,
	}
}

// IsActive reports whether the client is active.
func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// Validate checks the invariants a stored client must hold.
func (c *Client) Validate() error {
	if c.ID == "" {
		return errors.New(errors.ErrCodeClientInvalid, "client id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New(errors.ErrCodeClientInvalid, "client name is required")
	}
	if !c.Status.IsValid() {
		return errors.New(errors.ErrCodeClientInvalidStatus, "invalid client status").WithDetail(string(c.Status))
	}
	return nil
}

// Matches reports whether query occurs, case-insensitively, in the client's
// name, company or industry.  An empty query matches every client.
func (c *Client) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Company), q) ||
		strings.Contains(strings.ToLower(c.Industry), q)
}

// Search returns the clients matching query, in input order.
func Search(clients []Client, query string) []Client {
	out := make([]Client, 0, len(clients))
	for i := range clients {
		if clients[i].Matches(query) {
			out = append(out, clients[i])
		}
	}
	return out
}

// Active returns the active clients, in input order.
func Active(clients []Client) []Client {
	out := make([]Client, 0, len(clients))
	for i := range clients {
		if clients[i].IsActive() {
			out = append(out, clients[i])
		}
	}
	return out
}

//Personal.AI order the ending
