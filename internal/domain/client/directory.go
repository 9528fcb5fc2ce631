package client

// UnknownName is returned for references that resolve to no client.
const UnknownName = "Unknown"

// Directory resolves client IDs against a snapshot of clients.  Deadlines
// hold weak references, so a lookup may legitimately miss.
type Directory struct {
	byID map[string]*Client
}

// NewDirectory indexes clients by ID.  On duplicate IDs the first wins.
func NewDirectory(clients []Client) *Directory {
	d := &Directory{byID: make(map[string]*Client, len(clients))}
	for i := range clients {
		if _, dup := d.byID[clients[i].ID]; dup {
			continue
		}
		d.byID[clients[i].ID] = &clients[i]
	}
	return d
}

// Lookup returns the client with id, if present.
func (d *Directory) Lookup(id string) (*Client, bool) {
	if d == nil {
		return nil, false
	}
	c, ok := d.byID[id]
	return c, ok
}

// NameOf returns the client's name or UnknownName.
func (d *Directory) NameOf(id string) string {
	if c, ok := d.Lookup(id); ok {
		return c.Name
	}
	return UnknownName
}

// Len is the number of distinct clients indexed.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.byID)
}
