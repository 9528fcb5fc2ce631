package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

func sampleClients() []Client {
	return []Client{
		{ID: "c1", Name: "Margaret Whitfield", Company: "Whitfield & Associates", Industry: "Legal", Status: StatusActive},
		{ID: "c2", Name: "James Harrington", Company: "Harrington Capital Group", Industry: "Finance", Status: StatusActive},
		{ID: "c3", Name: "Diana Thornton", Company: "Thornton Real Estate", Industry: "Real Estate", Status: StatusInactive},
	}
}

func TestNewClient_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	c := NewClient("  ", "Acme", "Retail", now)

	assert.Equal(t, DefaultName, c.Name)
	assert.Equal(t, StatusActive, c.Status)
	assert.Equal(t, now, c.CreatedAt)
	assert.NotEmpty(t, c.ID)
	assert.NoError(t, c.Validate())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Active ")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	_, err = ParseStatus("archived")
	assert.True(t, errors.IsCode(err, errors.ErrCodeClientInvalidStatus))
}

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name string
		c    Client
		code errors.ErrorCode
	}{
		{"missing id", Client{Name: "x", Status: StatusActive}, errors.ErrCodeClientInvalid},
		{"missing name", Client{ID: "1", Status: StatusActive}, errors.ErrCodeClientInvalid},
		{"bad status", Client{ID: "1", Name: "x", Status: "paused"}, errors.ErrCodeClientInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.IsCode(tt.c.Validate(), tt.code))
		})
	}
}

func TestSearch_CaseInsensitiveAcrossFields(t *testing.T) {
	clients := sampleClients()

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"c1", "c2", "c3"}},
		{"HARRINGTON", []string{"c2"}},
		{"real estate", []string{"c3"}},
		{"legal", []string{"c1"}},
		{"t", []string{"c1", "c2", "c3"}},
		{"nobody", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got []string
			for _, c := range Search(clients, tt.query) {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActive(t *testing.T) {
	got := Active(sampleClients())
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c2", got[1].ID)
}

func TestDirectory(t *testing.T) {
	clients := sampleClients()
	clients = append(clients, Client{ID: "c1", Name: "Duplicate"})
	dir := NewDirectory(clients)

	assert.Equal(t, 3, dir.Len())
	assert.Equal(t, "Margaret Whitfield", dir.NameOf("c1"))
	assert.Equal(t, UnknownName, dir.NameOf("ghost"))

	c, ok := dir.Lookup("c2")
	require.True(t, ok)
	assert.Equal(t, "Harrington Capital Group", c.Company)

	var nilDir *Directory
	assert.Equal(t, UnknownName, nilDir.NameOf("c1"))
	assert.Equal(t, 0, nilDir.Len())
}

//Personal.AI order the ending
