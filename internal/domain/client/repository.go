package client

import "context"

// Repository is the store port for clients.
type Repository interface {
	// List returns all clients in creation order.
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
	// Save inserts or replaces a client.
	Save(ctx context.Context, c *Client) error
	// Delete removes the client and every deadline that references it.
	// Missing IDs yield a not-found error.
	Delete(ctx context.Context, id string) error
}

//Personal.AI order the ending
