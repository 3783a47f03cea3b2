package model

// UnitCounts maps a unit type to a number of units.
type UnitCounts map[UnitType]int

// Clone returns an independent copy. A nil receiver yields an empty map.
func (c UnitCounts) Clone() UnitCounts {
	out := make(UnitCounts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Total sums all counts.
func (c UnitCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// DeathTally accumulates destroyed units per country and unit type.
type DeathTally map[CountryID]UnitCounts

// Add records one loss.
func (t DeathTally) Add(country CountryID, unit UnitType) {
	counts, ok := t[country]
	if !ok {
		counts = make(UnitCounts)
		t[country] = counts
	}
	counts[unit]++
}

// RosterCount is the pre-mission number of units per type for one side.
type RosterCount = UnitCounts

// Debriefing is the reconciled outcome of a mission session, keyed by side name.
type Debriefing struct {
	DestroyedUnits map[string]UnitCounts `json:"destroyed_units"`
	AliveUnits     map[string]UnitCounts `json:"alive_units"`
}
