package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// Deadline is a deadline as returned by the API.
type Deadline struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ClientID    string      `json:"client_id"`
	DueDate     common.Date `json:"due_date"`
	Priority    string      `json:"priority"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ListDeadlinesOptions filters and orders a listing.  Empty fields impose
// nothing.
type ListDeadlinesOptions struct {
	ClientID string
	Priority string
	Status   string
	Sort     string
	Order    string
}

func (o ListDeadlinesOptions) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("client_id", o.ClientID)
	set("priority", o.Priority)
	set("status", o.Status)
	set("sort", o.Sort)
	set("order", o.Order)
	return v
}

// CreateDeadlineRequest creates a deadline; blank fields take the server's
// defaults.
type CreateDeadlineRequest struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	ClientID    string       `json:"client_id,omitempty"`
	DueDate     *common.Date `json:"due_date,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Status      string       `json:"status,omitempty"`
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

// DeadlinesClient wraps the /deadlines endpoints.
type DeadlinesClient struct {
	client *Client
}

func (d *DeadlinesClient) List(ctx context.Context, opts ListDeadlinesOptions) ([]Deadline, error) {
	path := apiPrefix + "/deadlines"
	if q := opts.values().Encode(); q != "" {
		path += "?" + q
	}
	var resp ListResponse[Deadline]
	if err := d.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (d *DeadlinesClient) Get(ctx context.Context, id string) (*Deadline, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "deadline id is required")
	}
	var out Deadline
	if err := d.client.get(ctx, apiPrefix+"/deadlines/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DeadlinesClient) Create(ctx context.Context, req CreateDeadlineRequest) (*Deadline, error) {
	var out Deadline
	if err := d.client.do(ctx, http.MethodPost, apiPrefix+"/deadlines", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DeadlinesClient) Update(ctx context.Context, id string, req UpdateDeadlineRequest) (*Deadline, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "deadline id is required")
	}
	var out Deadline
	if err := d.client.put(ctx, apiPrefix+"/deadlines/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (d *DeadlinesClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeValidation, "deadline id is required")
	}
	return d.client.delete(ctx, apiPrefix+"/deadlines/"+url.PathEscape(id))
}

// Cycle advances the status one step: todo, in_progress, complete, todo.
func (d *DeadlinesClient) Cycle(ctx context.Context, id string) (*Deadline, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "deadline id is required")
	}
	var out Deadline
	if err := d.client.do(ctx, http.MethodPost, apiPrefix+"/deadlines/"+url.PathEscape(id)+"/cycle", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Complete marks every listed deadline complete and returns how many
// existed.
func (d *DeadlinesClient) Complete(ctx context.Context, ids []string) (int, error) {
	var out struct {
		Completed int `json:"completed"`
	}
	body := struct {
		IDs []string `json:"ids"`
	}{IDs: ids}
	if err := d.client.post(ctx, apiPrefix+"/deadlines/complete", body, &out); err != nil {
		return 0, err
	}
	return out.Completed, nil
}

//Personal.AI order the ending
