// Package memory is the in-process store.  Clients and deadlines live in
// insertion-ordered maps guarded by one lock, so a client delete and its
// deadline cascade are atomic.
package memory

import (
	"context"
	"sync"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// Store holds clients and deadlines.
type Store struct {
	mu            sync.RWMutex
	clientOrder   []string
	clients       map[string]client.Client
	deadlineOrder []string
	deadlines     map[string]deadline.Deadline
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clients:   make(map[string]client.Client),
		deadlines: make(map[string]deadline.Deadline),
	}
}

// Clients exposes the client repository.
func (s *Store) Clients() client.Repository { return clientRepo{s} }

// Deadlines exposes the deadline repository.
func (s *Store) Deadlines() deadline.Repository { return deadlineRepo{s} }

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// ─────────────────────────────────────────────────────────────────────────────
// Clients
// ─────────────────────────────────────────────────────────────────────────────

type clientRepo struct{ s *Store }

func (r clientRepo) List(ctx context.Context) ([]client.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]client.Client, 0, len(r.s.clientOrder))
	for _, id := range r.s.clientOrder {
		out = append(out, r.s.clients[id])
	}
	return out, nil
}

func (r clientRepo) Get(_ context.Context, id string) (*client.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
	}
	return &c, nil
}

func (r clientRepo) Save(_ context.Context, c *client.Client) error {
	if c == nil || c.ID == "" {
		return errors.New(errors.ErrCodeClientInvalid, "client id is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		r.s.clientOrder = append(r.s.clientOrder, c.ID)
	}
	r.s.clients[c.ID] = *c
	return nil
}

func (r clientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return errors.New(errors.ErrCodeClientNotFound, "client not found").WithDetail(id)
	}
	delete(r.s.clients, id)
	r.s.clientOrder = removeID(r.s.clientOrder, id)

	kept := r.s.deadlineOrder[:0]
	for _, did := range r.s.deadlineOrder {
		if r.s.deadlines[did].ClientID == id {
			delete(r.s.deadlines, did)
			continue
		}
		kept = append(kept, did)
	}
	r.s.deadlineOrder = kept
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Deadlines
// ─────────────────────────────────────────────────────────────────────────────

type deadlineRepo struct{ s *Store }

func (r deadlineRepo) List(ctx context.Context) ([]deadline.Deadline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]deadline.Deadline, 0, len(r.s.deadlineOrder))
	for _, id := range r.s.deadlineOrder {
		out = append(out, r.s.deadlines[id])
	}
	return out, nil
}

func (r deadlineRepo) Get(_ context.Context, id string) (*deadline.Deadline, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.deadlines[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
	}
	return &d, nil
}

func (r deadlineRepo) Save(_ context.Context, d *deadline.Deadline) error {
	if d == nil || d.ID == "" {
		return errors.New(errors.ErrCodeDeadlineInvalid, "deadline id is required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.deadlines[d.ID]; !ok {
		r.s.deadlineOrder = append(r.s.deadlineOrder, d.ID)
	}
	r.s.deadlines[d.ID] = *d
	return nil
}

func (r deadlineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.deadlines[id]; !ok {
		return errors.New(errors.ErrCodeDeadlineNotFound, "deadline not found").WithDetail(id)
	}
	delete(r.s.deadlines, id)
	r.s.deadlineOrder = removeID(r.s.deadlineOrder, id)
	return nil
}

func (r deadlineRepo) UpdateStatus(_ context.Context, ids []string, status deadline.Status) (int, error) {
	if !status.IsValid() {
		return 0, errors.New(errors.ErrCodeDeadlineInvalidStatus, "invalid deadline status").WithDetail(string(status))
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, id := range ids {
		d, ok := r.s.deadlines[id]
		if !ok {
			continue
		}
		d.Status = status
		r.s.deadlines[id] = d
		n++
	}
	return n, nil
}

//Personal.AI order the ending
