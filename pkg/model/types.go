package model

// CountryID identifies a country (side) in a mission.
type CountryID int

// UnitType is a stable catalog identifier for a unit type.
type UnitType string

// UnitKind determines which catalog map resolves a roster unit's type name.
type UnitKind string

const (
	KindVehicle UnitKind = "vehicle"
	KindShip    UnitKind = "ship"
	KindPlane   UnitKind = "plane"
)

// Initiator categories.
const (
	CategoryUnit = "unit"
)

// InitiatorReference is the decomposed form of an event's initiator field.
type InitiatorReference struct {
	Category  string
	CountryID CountryID
	GroupID   int
	UnitType  UnitType
}

// Side names a country taking part in the mission.
type Side struct {
	Name string    `json:"name"`
	ID   CountryID `json:"id"`
}

// Sides holds both participants of a mission session.
type Sides struct {
	Player Side `json:"player"`
	Enemy  Side `json:"enemy"`
}

// All returns player then enemy.
func (s Sides) All() []Side {
	return []Side{s.Player, s.Enemy}
}
