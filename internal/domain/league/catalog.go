package league

import (
	"fmt"
	"sort"
)

// Catalog is a read-only Team lookup keyed by team id.
type Catalog struct {
	teams map[string]Team
	ids   []string
}

// NewCatalog validates teams and indexes them by id.
func NewCatalog(teams ...Team) (*Catalog, error) {
	c := &Catalog{teams: make(map[string]Team, len(teams))}
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.teams[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate team id %q", ErrInvalidLeague, t.ID)
		}
		c.teams[t.ID] = t
		c.ids = append(c.ids, t.ID)
	}
	if len(c.ids) == 0 {
		return nil, fmt.Errorf("%w: no teams", ErrInvalidLeague)
	}
	sort.Strings(c.ids)
	return c, nil
}

// Lookup returns the team registered under id.
func (c *Catalog) Lookup(id string) (Team, error) {
	t, ok := c.teams[id]
	if !ok {
		return Team{}, fmt.Errorf("%w: %q", ErrTeamNotFound, id)
	}
	return t, nil
}

// Teams returns every team ordered by id.
func (c *Catalog) Teams() []Team {
	out := make([]Team, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.teams[id])
	}
	return out
}

// Len returns the number of teams.
func (c *Catalog) Len() int { return len(c.ids) }
