package tracker

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// ---------------------------------------------------------------------------
// Deadline DTOs
// ---------------------------------------------------------------------------

// DeadlineQuery selects and orders deadlines.  Empty fields impose nothing;
// an empty Sort keeps store order.
type DeadlineQuery struct {
	ClientID string `form:"client_id" json:"client_id,omitempty"`
	Priority string `form:"priority" json:"priority,omitempty"`
	Status   string `form:"status" json:"status,omitempty"`
	Sort     string `form:"sort" json:"sort,omitempty"`
	Order    string `form:"order" json:"order,omitempty"`
	Locale   string `form:"locale" json:"locale,omitempty"`
}

// CreateDeadlineRequest creates a deadline.  Every field is optional.
type CreateDeadlineRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	ClientID    string       `json:"client_id"`
	DueDate     *common.Date `json:"due_date,omitempty"`
	Priority    string       `json:"priority"`
	Status      string       `json:"status"`
}

// UpdateDeadlineRequest patches a deadline; nil fields are left unchanged.
type UpdateDeadlineRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	ClientID    *string      `json:"client_id,omitempty"`
	DueDate     *common.Date `json:"due_date,omitempty"`
	Priority    *string      `json:"priority,omitempty"`
	Status      *string      `json:"status,omitempty"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

// DeadlineService manages deadlines.
type DeadlineService interface {
	// List applies the query's filter and sort to the store contents.
	List(ctx context.Context, query DeadlineQuery) ([]deadline.Deadline, error)
	Get(ctx context.Context, id string) (*deadline.Deadline, error)
	// Create fills blank fields with form defaults: DefaultTitle, medium,
	// todo, due today, first client.
	Create(ctx context.Context, req CreateDeadlineRequest) (*deadline.Deadline, error)
	Update(ctx context.Context, id string, req UpdateDeadlineRequest) (*deadline.Deadline, error)
	Delete(ctx context.Context, id string) error
	// CycleStatus advances todo → in_progress → complete → todo.
	CycleStatus(ctx context.Context, id string) (*deadline.Deadline, error)
	// CompleteMany marks every listed deadline complete and reports how many
	// existed.
	CompleteMany(ctx context.Context, ids []string) (int, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

// DeadlineServiceConfig holds tunables.
type DeadlineServiceConfig struct {
	// CollationLocale orders titles when a query names no locale.
	CollationLocale language.Tag
}

type deadlineServiceImpl struct {
	deadlines deadline.Repository
	clients   client.Repository
	publisher EventPublisher
	clock     common.Clock
	logger    Logger
	cfg       DeadlineServiceConfig
}

// NewDeadlineService constructs a DeadlineService.
func NewDeadlineService(
	deadlines deadline.Repository,
	clients client.Repository,
	publisher EventPublisher,
	clock common.Clock,
	logger Logger,
	cfg DeadlineServiceConfig,
) DeadlineService {
	if publisher == nil {
		publisher = NoopPublisher()
	}
	if clock == nil {
		clock = common.SystemClock{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &deadlineServiceImpl{
		deadlines: deadlines,
		clients:   clients,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns the filtered, sorted deadlines.
func (s *deadlineServiceImpl) List(ctx context.Context, query DeadlineQuery) ([]deadline.Deadline, error) {
	filter, spec, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}
	all, err := s.deadlines.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to list deadlines")
	}
	return deadline.Apply(all, filter, spec), nil
}

func (s *deadlineServiceImpl) parseQuery(q DeadlineQuery) (deadline.FilterSpec, deadline.SortSpec, error) {
	filter := deadline.FilterSpec{ClientID: strings.TrimSpace(q.ClientID)}
	if v := strings.TrimSpace(q.Priority); v != "" && v != "all" {
		p, err := deadline.ParsePriority(v)
		if err != nil {
			return filter, deadline.SortSpec{}, err
		}
		filter.Priority = p
	}
	if v := strings.TrimSpace(q.Status); v != "" && v != "all" {
		st, err := deadline.ParseStatus(v)
		if err != nil {
			return filter, deadline.SortSpec{}, err
		}
		filter.Status = st
	}
	if filter.ClientID == "all" {
		filter.ClientID = ""
	}

	spec := deadline.SortSpec{
		Ascending: common.SortOrder(strings.ToLower(q.Order)).Ascending(),
		Locale:    s.cfg.CollationLocale,
	}
	if q.Sort != "" {
		field, err := deadline.ParseSortField(q.Sort)
		if err != nil {
			return filter, spec, err
		}
		spec.Field = field
	}
	if q.Locale != "" {
		tag, err := language.Parse(q.Locale)
		if err != nil {
			return filter, spec, errors.New(errors.ErrCodeBadRequest, "invalid locale").WithDetail(q.Locale)
		}
		spec.Locale = tag
	}
	return filter, spec, nil
}

// Get returns one deadline.
func (s *deadlineServiceImpl) Get(ctx context.Context, id string) (*deadline.Deadline, error) {
	d, err := s.deadlines.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to get deadline")
	}
	return d, nil
}

// Create stores a new deadline.
func (s *deadlineServiceImpl) Create(ctx context.Context, req CreateDeadlineRequest) (*deadline.Deadline, error) {
	now := s.clock.Now()
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		clients, err := s.clients.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "failed to resolve default client")
		}
		if len(clients) > 0 {
			clientID = clients[0].ID
		}
	}

	d := deadline.NewDeadline(clientID, common.DateOf(now), now)
	if t := strings.TrimSpace(req.Title); t != "" {
		d.Title = t
	}
	d.Description = req.Description
	if req.DueDate != nil && !req.DueDate.IsZero() {
		d.DueDate = *req.DueDate
	}
	if req.Priority != "" {
		p, err := deadline.ParsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
		d.Priority = p
	}
	if req.Status != "" {
		st, err := deadline.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		d.Status = st
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.deadlines.Save(ctx, d); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to save deadline")
	}

	s.logger.Info("deadline created", "deadline_id", d.ID, "client_id", d.ClientID)
	emit(ctx, s.publisher, s.logger, newEvent(EventDeadlineCreated, now, d.ClientID, d.ID))
	return d, nil
}

// Update patches a deadline.
func (s *deadlineServiceImpl) Update(ctx context.Context, id string, req UpdateDeadlineRequest) (*deadline.Deadline, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		d.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		d.Description = *req.Description
	}
	if req.ClientID != nil {
		d.ClientID = strings.TrimSpace(*req.ClientID)
	}
	if req.DueDate != nil {
		d.DueDate = *req.DueDate
	}
	if req.Priority != nil {
		if d.Priority, err = deadline.ParsePriority(*req.Priority); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if d.Status, err = deadline.ParseStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.deadlines.Save(ctx, d); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to save deadline")
	}
	emit(ctx, s.publisher, s.logger, newEvent(EventDeadlineUpdated, s.clock.Now(), d.ClientID, d.ID))
	return d, nil
}

// Delete removes a deadline.
func (s *deadlineServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.deadlines.Delete(ctx, id); err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "failed to delete deadline")
	}
	s.logger.Info("deadline deleted", "deadline_id", id)
	emit(ctx, s.publisher, s.logger, newEvent(EventDeadlineDeleted, s.clock.Now(), "", id))
	return nil
}

// CycleStatus advances the status one step.
func (s *deadlineServiceImpl) CycleStatus(ctx context.Context, id string) (*deadline.Deadline, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := d.Status
	d.Status = d.Status.Next()
	if err := s.deadlines.Save(ctx, d); err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to save deadline")
	}

	ev := newEvent(EventDeadlineStatusChanged, s.clock.Now(), d.ClientID, d.ID)
	ev.Attributes = map[string]string{"from": string(from), "to": string(d.Status)}
	emit(ctx, s.publisher, s.logger, ev)
	return d, nil
}

// CompleteMany marks deadlines complete.
func (s *deadlineServiceImpl) CompleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.deadlines.UpdateStatus(ctx, ids, deadline.StatusComplete)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeUnknown, "failed to complete deadlines")
	}
	s.logger.Info("deadlines completed", "requested", len(ids), "updated", n)
	if n > 0 {
		emit(ctx, s.publisher, s.logger, newEvent(EventDeadlinesCompleted, s.clock.Now(), "", ids...))
	}
	return n, nil
}

//Personal.AI order the ending
