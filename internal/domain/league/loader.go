package league

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/default.yaml
var defaultLeague []byte

// leagueDoc mirrors the YAML league file.
type leagueDoc struct {
	Teams []teamDoc `yaml:"teams"`
}

type teamDoc struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	CoachOffense float64            `yaml:"coach_offense"`
	CoachDefense float64            `yaml:"coach_defense"`
	Pace         float64            `yaml:"pace"`
	OffenseFit   map[string]float64 `yaml:"offense_fit"`
	DefenseFit   map[string]float64 `yaml:"defense_fit"`
	Roster       []playerDoc        `yaml:"roster"`
}

type playerDoc struct {
	Name       string             `yaml:"name"`
	Position   string             `yaml:"position"`
	Offense    float64            `yaml:"offense"`
	Defense    float64            `yaml:"defense"`
	Playmaking float64            `yaml:"playmaking"`
	Rebounding float64            `yaml:"rebounding"`
	Usage      float64            `yaml:"usage"`
	Shots      map[string]float64 `yaml:"shots"`
	Creation   map[string]float64 `yaml:"creation"`
}

// Default returns the league bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultLeague)
}

// LoadFile reads a YAML league file from disk.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league %s: %w", path, err)
	}
	return Parse(b)
}

// Parse decodes a YAML league document into a validated Catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc leagueDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLeague, err)
	}
	teams := make([]Team, 0, len(doc.Teams))
	for _, td := range doc.Teams {
		t, err := td.team()
		if err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return NewCatalog(teams...)
}

func (d teamDoc) team() (Team, error) {
	t := Team{
		ID:           d.ID,
		Name:         d.Name,
		CoachOffense: d.CoachOffense,
		CoachDefense: d.CoachDefense,
		Pace:         d.Pace,
	}
	if t.Name == "" {
		t.Name = d.ID
	}
	if err := fill(t.OffenseFit[:], offenseStyleNames, "offense style", d.OffenseFit); err != nil {
		return Team{}, fmt.Errorf("team %q offense_fit: %w", d.ID, err)
	}
	if err := fill(t.DefenseFit[:], defenseStyleNames, "defense style", d.DefenseFit); err != nil {
		return Team{}, fmt.Errorf("team %q defense_fit: %w", d.ID, err)
	}
	for _, pd := range d.Roster {
		p, err := pd.player()
		if err != nil {
			return Team{}, fmt.Errorf("team %q: %w", d.ID, err)
		}
		t.Roster = append(t.Roster, p)
	}
	return t, nil
}

func (d playerDoc) player() (Player, error) {
	pos, err := ParsePosition(d.Position)
	if err != nil {
		return Player{}, fmt.Errorf("player %q: %w", d.Name, err)
	}
	p := Player{
		Name:       d.Name,
		Position:   pos,
		Offense:    d.Offense,
		Defense:    d.Defense,
		Playmaking: d.Playmaking,
		Rebounding: d.Rebounding,
		Usage:      d.Usage,
	}
	if err := fill(p.Shot[:], shotTypeNames, "shot type", d.Shots); err != nil {
		return Player{}, fmt.Errorf("player %q shots: %w", d.Name, err)
	}
	if err := fill(p.Creation[:], creationTypeNames, "creation type", d.Creation); err != nil {
		return Player{}, fmt.Errorf("player %q creation: %w", d.Name, err)
	}
	return p, nil
}

// fill copies an enum-keyed YAML map into dst. Every key must be known and
// every enum value must be present.
func fill(dst []float64, names []string, kind string, src map[string]float64) error {
	set := make([]bool, len(dst))
	for k, v := range src {
		i, err := lookup(kind, names, k)
		if err != nil {
			return err
		}
		dst[i] = v
		set[i] = true
	}
	for i, ok := range set {
		if !ok {
			return fmt.Errorf("%w: missing %s %q", ErrInvalidLeague, kind, names[i])
		}
	}
	return nil
}
