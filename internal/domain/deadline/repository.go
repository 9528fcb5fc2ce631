package deadline

import "context"

// Repository is the store port for deadlines.
type Repository interface {
	// List returns all deadlines in creation order.
	List(ctx context.Context) ([]Deadline, error)
	Get(ctx context.Context, id string) (*Deadline, error)
	// Save inserts or replaces a deadline.
	Save(ctx context.Context, d *Deadline) error
	Delete(ctx context.Context, id string) error
	// UpdateStatus sets status on every listed deadline and returns how many
	// existed.  Unknown IDs are skipped.
	UpdateStatus(ctx context.Context, ids []string, status Status) (int, error)
}

//Personal.AI order the ending
