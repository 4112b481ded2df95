// Package fixture loads the study data set: two teams and four members.
package fixture

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/querystudy/engine"
	"github.com/Konsultn-Engineering/querystudy/entity"
)

//go:embed seed.yaml
var defaultSeed []byte

type Seed struct {
	Teams   []TeamSeed   `yaml:"teams"`
	Members []MemberSeed `yaml:"members"`
}

type TeamSeed struct {
	Name string `yaml:"name"`
}

// MemberSeed names its team; an empty team leaves the member unassigned.
type MemberSeed struct {
	Username string `yaml:"username"`
	Age      int    `yaml:"age"`
	Team     string `yaml:"team,omitempty"`
}

// Default returns the embedded data set.
func Default() (*Seed, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

func LoadFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a seed, rejecting unknown keys and members whose team is
// not declared.
func Decode(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("fixture: parse: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return &s, nil
}

func (s *Seed) validate() error {
	teams := make(map[string]bool, len(s.Teams))
	for _, t := range s.Teams {
		if t.Name == "" {
			return fmt.Errorf("team without a name")
		}
		if teams[t.Name] {
			return fmt.Errorf("duplicate team %q", t.Name)
		}
		teams[t.Name] = true
	}
	for _, m := range s.Members {
		if m.Username == "" {
			return fmt.Errorf("member without a username")
		}
		if m.Team != "" && !teams[m.Team] {
			return fmt.Errorf("member %s: unknown team %q", m.Username, m.Team)
		}
	}
	return nil
}

// Data is a persisted seed.
type Data struct {
	Teams   map[string]*entity.Team
	Members []*entity.Member
}

// Apply persists s in one transaction and returns the stored rows with
// their keys.
func Apply(ctx context.Context, e *engine.Engine, s *Seed) (*Data, error) {
	data := &Data{Teams: make(map[string]*entity.Team, len(s.Teams))}
	err := e.WithTx(ctx, func(tx *engine.Engine) error {
		for _, ts := range s.Teams {
			team := &entity.Team{Name: ts.Name}
			if err := engine.Create(ctx, tx, team); err != nil {
				return err
			}
			data.Teams[ts.Name] = team
		}
		for _, ms := range s.Members {
			m := &entity.Member{Username: ms.Username, Age: ms.Age}
			if team, ok := data.Teams[ms.Team]; ok {
				m.TeamID = &team.ID
			}
			if err := engine.Create(ctx, tx, m); err != nil {
				return err
			}
			data.Members = append(data.Members, m)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixture: apply: %w", err)
	}
	return data, nil
}

// Setup migrates the schema and loads the default data set.
func Setup(ctx context.Context, e *engine.Engine) (*Data, error) {
	if err := e.Migrate(ctx, entity.All()...); err != nil {
		return nil, err
	}
	s, err := Default()
	if err != nil {
		return nil, err
	}
	return Apply(ctx, e, s)
}
