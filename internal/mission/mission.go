// Package mission loads the pre-mission unit roster.
package mission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

// Unit is one unit instance inside a group.
type Unit struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Group is a set of units sharing a kind.
type Group struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Units []Unit `yaml:"units"`

	kind model.UnitKind
}

// Kind reports which category list the group was declared in.
func (g Group) Kind() model.UnitKind { return g.kind }

// Country is one side of the mission and its groups.
type Country struct {
	ID            model.CountryID `yaml:"id"`
	Name          string          `yaml:"name"`
	PlaneGroups   []Group         `yaml:"plane_groups"`
	VehicleGroups []Group         `yaml:"vehicle_groups"`
	ShipGroups    []Group         `yaml:"ship_groups"`
}

// Groups returns plane, vehicle and ship groups, in that order.
func (c *Country) Groups() []Group {
	out := make([]Group, 0, len(c.PlaneGroups)+len(c.VehicleGroups)+len(c.ShipGroups))
	out = append(out, c.PlaneGroups...)
	out = append(out, c.VehicleGroups...)
	out = append(out, c.ShipGroups...)
	return out
}

// Side returns the country's name and id.
func (c *Country) Side() model.Side {
	return model.Side{Name: c.Name, ID: c.ID}
}

// Mission is the roster of every country at mission start.
type Mission struct {
	Name      string    `yaml:"name"`
	Countries []Country `yaml:"countries"`
}

// Load reads a mission roster from a YAML file.
func Load(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes a mission roster.
func Parse(data []byte) (*Mission, error) {
	var m Mission
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errclass.ErrRosterInvalid.WithMessagef("parse: %v", err)
	}

	names := make(map[string]bool)
	ids := make(map[model.CountryID]bool)
	for i := range m.Countries {
		c := &m.Countries[i]
		if c.Name == "" {
			return nil, errclass.ErrRosterInvalid.WithMessagef("country %d has no name", c.ID)
		}
		if names[c.Name] || ids[c.ID] {
			return nil, errclass.ErrRosterInvalid.WithMessagef("country %q (id %d) listed twice", c.Name, c.ID)
		}
		names[c.Name] = true
		ids[c.ID] = true
		tagKind(c.PlaneGroups, model.KindPlane)
		tagKind(c.VehicleGroups, model.KindVehicle)
		tagKind(c.ShipGroups, model.KindShip)
	}
	return &m, nil
}

func tagKind(groups []Group, kind model.UnitKind) {
	for i := range groups {
		groups[i].kind = kind
	}
}

// Country finds a country by name.
func (m *Mission) Country(name string) (*Country, error) {
	for i := range m.Countries {
		if m.Countries[i].Name == name {
			return &m.Countries[i], nil
		}
	}
	return nil, errclass.ErrSideUnknown.WithMessagef("country %q is not in the mission", name)
}
