// Package catalog resolves simulator type names to unit-type identifiers.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

//go:embed default.yaml
var defaultCatalog []byte

// Entry is one unit type and the alternative names it is known by.
type Entry struct {
	ID      string   `yaml:"id"`
	Aliases []string `yaml:"aliases,omitempty"`
}

type document struct {
	Vehicles        []Entry  `yaml:"vehicles"`
	Ships           []Entry  `yaml:"ships"`
	Planes          []Entry  `yaml:"planes"`
	ExtraAirDefense []string `yaml:"extra_air_defense"`
}

// Catalog is an immutable set of known unit types.
type Catalog struct {
	byKind  map[model.UnitKind]map[string]model.UnitType
	all     map[string]model.UnitType
	extraAA map[model.UnitType]bool
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in catalog invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errclass.ErrCatalogInvalid.WithMessagef("parse: %v", err)
	}

	c := &Catalog{
		byKind:  make(map[model.UnitKind]map[string]model.UnitType),
		all:     make(map[string]model.UnitType),
		extraAA: make(map[model.UnitType]bool),
	}
	sections := []struct {
		kind    model.UnitKind
		entries []Entry
	}{
		{model.KindVehicle, doc.Vehicles},
		{model.KindShip, doc.Ships},
		{model.KindPlane, doc.Planes},
	}
	for _, s := range sections {
		names := make(map[string]model.UnitType)
		for _, e := range s.entries {
			id := normalize(e.ID)
			if id == "" {
				return nil, errclass.ErrCatalogInvalid.WithMessagef("%s entry with empty id", s.kind)
			}
			for _, name := range append([]string{e.ID}, e.Aliases...) {
				key := normalize(name)
				if key == "" {
					return nil, errclass.ErrCatalogInvalid.WithMessagef("%s %q has an empty alias", s.kind, id)
				}
				if _, dup := c.all[key]; dup {
					return nil, errclass.ErrCatalogInvalid.WithMessagef("name %q defined twice", key)
				}
				names[key] = model.UnitType(id)
				c.all[key] = model.UnitType(id)
			}
		}
		c.byKind[s.kind] = names
	}

	for _, name := range doc.ExtraAirDefense {
		ut, ok := c.Resolve(name)
		if !ok {
			return nil, errclass.ErrCatalogInvalid.WithMessagef("extra air defense %q is not a known unit type", name)
		}
		c.extraAA[ut] = true
	}
	return c, nil
}

// Resolve looks name up across all unit kinds.
func (c *Catalog) Resolve(name string) (model.UnitType, bool) {
	ut, ok := c.all[normalize(name)]
	return ut, ok
}

// ResolveUnit looks a roster unit's type up in the map for its kind. Kinds
// other than vehicle and ship resolve against aircraft.
func (c *Catalog) ResolveUnit(kind model.UnitKind, typeName string) (model.UnitType, bool) {
	if kind != model.KindVehicle && kind != model.KindShip {
		kind = model.KindPlane
	}
	ut, ok := c.byKind[kind][normalize(typeName)]
	return ut, ok
}

// IsExtraAirDefense reports whether ut is excluded from roster counts.
func (c *Catalog) IsExtraAirDefense(ut model.UnitType) bool {
	return c.extraAA[ut]
}

// ExtraAirDefense lists the excluded unit types in sorted order.
func (c *Catalog) ExtraAirDefense() []model.UnitType {
	out := make([]model.UnitType, 0, len(c.extraAA))
	for ut := range c.extraAA {
		out = append(out, ut)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of distinct unit types.
func (c *Catalog) Len() int {
	seen := make(map[model.UnitType]struct{}, len(c.all))
	for _, ut := range c.all {
		seen[ut] = struct{}{}
	}
	return len(seen)
}

func normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
