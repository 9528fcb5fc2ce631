// Package seed provides the demo data set loaded into an empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/client"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/domain/deadline"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

//go:embed seed.yaml
var seedYAML []byte

type fixture struct {
	Clients []struct {
		Name     string `yaml:"name"`
		Company  string `yaml:"company"`
		Email    string `yaml:"email"`
		Phone    string `yaml:"phone"`
		Industry string `yaml:"industry"`
		Status   string `yaml:"status"`
		Notes    string `yaml:"notes"`
	} `yaml:"clients"`
	Deadlines []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Client      int    `yaml:"client"`
		DueInDays   int    `yaml:"due_in_days"`
		Priority    string `yaml:"priority"`
		Status      string `yaml:"status"`
	} `yaml:"deadlines"`
}

// Data builds the seed set relative to now.  Due dates are offsets from the
// calendar date of now in now's location; IDs are fresh on every call.
func Data(now time.Time) ([]client.Client, []deadline.Deadline, error) {
	var f fixture
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, nil, fmt.Errorf("decode seed data: %w", err)
	}

	clients := make([]client.Client, 0, len(f.Clients))
	for _, c := range f.Clients {
		st, err := client.ParseStatus(c.Status)
		if err != nil {
			return nil, nil, err
		}
		clients = append(clients, client.Client{
			ID:        common.NewID().String(),
			Name:      c.Name,
			Company:   c.Company,
			Email:     c.Email,
			Phone:     c.Phone,
			Industry:  c.Industry,
			Status:    st,
			Notes:     c.Notes,
			CreatedAt: now,
		})
	}

	today := common.DateOf(now)
	deadlines := make([]deadline.Deadline, 0, len(f.Deadlines))
	for _, d := range f.Deadlines {
		if d.Client < 0 || d.Client >= len(clients) {
			return nil, nil, fmt.Errorf("seed deadline %q references client %d", d.Title, d.Client)
		}
		p, err := deadline.ParsePriority(d.Priority)
		if err != nil {
			return nil, nil, err
		}
		st, err := deadline.ParseStatus(d.Status)
		if err != nil {
			return nil, nil, err
		}
		deadlines = append(deadlines, deadline.Deadline{
			ID:          common.NewID().String(),
			Title:       d.Title,
			Description: d.Description,
			ClientID:    clients[d.Client].ID,
			DueDate:     today.AddDays(d.DueInDays),
			Priority:    p,
			Status:      st,
			CreatedAt:   now,
		})
	}
	return clients, deadlines, nil
}

// Load writes the seed set through the repositories unless the client store
// already holds data.  It reports whether anything was written.
func Load(ctx context.Context, clients client.Repository, deadlines deadline.Repository, now time.Time) (bool, error) {
	existing, err := clients.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	cs, ds, err := Data(now)
	if err != nil {
		return false, err
	}
	for i := range cs {
		if err := clients.Save(ctx, &cs[i]); err != nil {
			return false, fmt.Errorf("seed client %q: %w", cs[i].Name, err)
		}
	}
	for i := range ds {
		if err := deadlines.Save(ctx, &ds[i]); err != nil {
			return false, fmt.Errorf("seed deadline %q: %w", ds[i].Title, err)
		}
	}
	return true, nil
}

//Personal.AI order the ending
