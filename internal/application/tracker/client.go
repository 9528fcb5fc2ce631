package tracker

import (
	"context"
	"strings"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ClientQuery filters the client list.
type ClientQuery struct {
	// Search is matched case-insensitively against name, company and industry.
	Search     string `form:"q" json:"q,omitempty"`
	ActiveOnly bool   `form:"active" json:"active,omitempty"`
}

// CreateClientRequest creates a client.  Blank Name becomes DefaultName and
// blank Status becomes active.
type CreateClientRequest struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Industry string `json:"industry"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
}

// UpdateClientRequest patches a client; nil fields are left unchanged.
type UpdateClientRequest struct {
	Name     *string `json:"name,omitempty"`
	Company  *string `json:"company,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ClientService manages clients.
type ClientService interface {
	List(ctx context.Context, query ClientQuery) ([]client.Client, error)
	Get(ctx context.Context, id string) (*client.Client, error)
	Create(ctx context.Context, req CreateClientRequest) (*client.Client, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (*client.Client, error)
	// Delete removes the client together with its deadlines.
	Delete(ctx context.Context, id string) error
}

type clientServiceImpl struct {
	clients   client.Repository
	publisher EventPublisher
	clock     common.Clock
	logger    Logger
}

// NewClientService constructs a ClientService.
func NewClientService(clients client.Repository, publisher EventPublisher, clock common.Clock, logger Logger) ClientService {
	if publisher == nil {
		publisher = NoopPublisher()
	}
	if clock == nil {
		clock = common.SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &clientServiceImpl{clients: clients, publisher: publisher, clock: clock, logger: logger}
}

func (s *clientServiceImpl) List(ctx context.Context, query ClientQuery) ([]client.Client, error) {
	all, err := s.clients.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to list clients")
	}
	out := client.Search(all, query.Search)
	if query.ActiveOnly {
		out = client.Active(out)
	}
	return out, nil
}

func (s *clientServiceImpl) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.clients.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to get client")
	}
	return c, nil
}

func (s *clientServiceImpl) Create(ctx context.Context, req CreateClientRequest) (*client.Client, error) {
	now := s.clock.Now()
	c := client.NewClient(req.Name, req.Company, req.Industry, now)
	c.Email = strings.TrimSpace(req.Email)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Notes = req.Notes
	if req.Status != "" {
		st, err := client.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		c.Status = st
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to save client")
	}
	s.logger.Info("client created", "client_id", c.ID)
	emit(ctx, s.publisher, s.logger, newEvent(EventClientCreated, now, c.ID, c.ID))
	return c, nil
}

func (s *clientServiceImpl) Update(ctx context.Context, id string, req UpdateClientRequest) (*client.Client, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.Name, req.Name)
	set(&c.Company, req.Company)
	set(&c.Email, req.Email)
	set(&c.Phone, req.Phone)
	set(&c.Industry, req.Industry)
	set(&c.Notes, req.Notes)
	if req.Status != nil {
		if c.Status, err = client.ParseStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.clients.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to save client")
	}
	emit(ctx, s.publisher, s.logger, newEvent(EventClientUpdated, s.clock.Now(), c.ID, c.ID))
	return c, nil
}

func (s *clientServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "failed to delete client")
	}
	s.logger.Info("client deleted", "client_id", id)
	emit(ctx, s.publisher, s.logger, newEvent(EventClientDeleted, s.clock.Now(), id, id))
	return nil
}

//Personal.AI order the ending
