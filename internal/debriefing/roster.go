package debriefing

import (
	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

// UnitCatalog resolves roster units and names the excluded air defense types.
type UnitCatalog interface {
	ResolveUnit(kind model.UnitKind, typeName string) (model.UnitType, bool)
	IsExtraAirDefense(model.UnitType) bool
}

// CountRoster counts every unit of the country's plane, vehicle and ship
// groups by type. Extra air defense never enters the count.
func CountRoster(c *mission.Country, cat UnitCatalog) (model.RosterCount, error) {
	counts := make(model.RosterCount)
	for _, g := range c.Groups() {
		for _, u := range g.Units {
			ut, ok := cat.ResolveUnit(g.Kind(), u.Type)
			if !ok {
				return nil, errclass.ErrRosterInvalid.WithMessagef(
					"%s group %q: %s unit %q has unknown type %q", c.Name, g.Name, g.Kind(), u.Name, u.Type)
			}
			if cat.IsExtraAirDefense(ut) {
				continue
			}
			counts[ut]++
		}
	}
	return counts, nil
}
