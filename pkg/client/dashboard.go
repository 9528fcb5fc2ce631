package client

import (
	"context"
	"time"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

// Counts are the sizes of the three time-window buckets.
type Counts struct {
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"`
	ThisWeek int `json:"this_week"`
}

// AgendaItem is a deadline decorated for display.
type AgendaItem struct {
	Deadline
	ClientName  string `json:"client_name"`
	StatusLabel string `json:"status_label"`
	DaysUntil   int    `json:"days_until"`
}

// Overview is the dashboard landing view.
type Overview struct {
	Today         common.Date  `json:"today"`
	ActiveClients int          `json:"active_clients"`
	Counts        Counts       `json:"counts"`
	Agenda        []AgendaItem `json:"agenda"`
	ThisWeek      []AgendaItem `json:"this_week"`
}

// Result is a normalized agent answer.
type Result struct {
	Summary     string   `json:"summary"`
	Details     string   `json:"details"`
	ActionItems []string `json:"action_items"`
	Alerts      []string `json:"alerts"`
}

// WeeklySummary is the AI summary of the week.  Available is false until
// the server has generated one.
type WeeklySummary struct {
	Available   bool      `json:"available"`
	Result      *Result   `json:"result,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Cached      bool      `json:"cached"`
}

// DashboardClient wraps the /dashboard endpoints.
type DashboardClient struct {
	client *Client
}

func (d *DashboardClient) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	if err := d.client.get(ctx, apiPrefix+"/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary fetches the weekly summary; refresh forces regeneration.
func (d *DashboardClient) Summary(ctx context.Context, refresh bool) (*WeeklySummary, error) {
	path := apiPrefix + "/dashboard/summary"
	if refresh {
		path += "?refresh=true"
	}
	var out WeeklySummary
	if err := d.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
