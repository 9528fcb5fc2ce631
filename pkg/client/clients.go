package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// ClientRecord is a consulting client as returned by the API.
type ClientRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Industry  string    `json:"industry"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClientRequest creates a client.
type CreateClientRequest struct {
	Name     string `json:"name,omitempty"`
	Company  string `json:"company,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Industry string `json:"industry,omitempty"`
	Status   string `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
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

// ClientsClient wraps the /clients endpoints.
type ClientsClient struct {
	client *Client
}

// List returns clients matching search (name, company or industry);
// activeOnly drops inactive ones.
func (c *ClientsClient) List(ctx context.Context, search string, activeOnly bool) ([]ClientRecord, error) {
	v := url.Values{}
	if search != "" {
		v.Set("q", search)
	}
	if activeOnly {
		v.Set("active", "true")
	}
	path := apiPrefix + "/clients"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var resp ListResponse[ClientRecord]
	if err := c.client.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *ClientsClient) Get(ctx context.Context, id string) (*ClientRecord, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "client id is required")
	}
	var out ClientRecord
	if err := c.client.get(ctx, apiPrefix+"/clients/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientsClient) Create(ctx context.Context, req CreateClientRequest) (*ClientRecord, error) {
	var out ClientRecord
	if err := c.client.do(ctx, http.MethodPost, apiPrefix+"/clients", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ClientsClient) Update(ctx context.Context, id string, req UpdateClientRequest) (*ClientRecord, error) {
	if id == "" {
		return nil, errors.New(errors.ErrCodeValidation, "client id is required")
	}
	var out ClientRecord
	if err := c.client.put(ctx, apiPrefix+"/clients/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the client and its deadlines.
func (c *ClientsClient) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New(errors.ErrCodeValidation, "client id is required")
	}
	return c.client.delete(ctx, apiPrefix+"/clients/"+url.PathEscape(id))
}

//Personal.AI order the ending
