package debriefing

import (
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

// Reconcile derives the debriefing for both sides. rosters is keyed by side
// name. Unit types with deaths but no roster entry appear only in
// DestroyedUnits. tally is not modified. The two sides must differ in both
// name and country id.
func Reconcile(tally model.DeathTally, rosters map[string]model.RosterCount, sides model.Sides, opts ...Option) (*model.Debriefing, error) {
	o := buildOptions(opts)

	if sides.Player.Name == sides.Enemy.Name {
		return nil, errclass.ErrSidesInvalid.WithMessagef("player and enemy are both %q", sides.Player.Name)
	}
	if sides.Player.ID == sides.Enemy.ID {
		return nil, errclass.ErrSidesInvalid.WithMessagef("player and enemy share country id %d", sides.Player.ID)
	}

	d := &model.Debriefing{
		DestroyedUnits: make(map[string]model.UnitCounts, 2),
		AliveUnits:     make(map[string]model.UnitCounts, 2),
	}
	for _, side := range sides.All() {
		roster, ok := rosters[side.Name]
		if !ok {
			return nil, errclass.ErrSideUnknown.WithMessagef("no roster for side %q", side.Name)
		}

		destroyed := tally[side.ID].Clone()
		alive := make(model.UnitCounts, len(roster))
		for ut, initial := range roster {
			n := initial - destroyed[ut]
			if n < 0 {
				o.logger.Warn("more units destroyed than were in the roster", map[string]any{
					"side":      side.Name,
					"unit":      string(ut),
					"roster":    initial,
					"destroyed": destroyed[ut],
					"clamped":   o.clampNegative,
				})
				if o.clampNegative {
					n = 0
				}
			}
			alive[ut] = n
		}

		d.DestroyedUnits[side.Name] = destroyed
		d.AliveUnits[side.Name] = alive
	}
	return d, nil
}
