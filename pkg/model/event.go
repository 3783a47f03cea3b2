package model

// Event kinds that signify a unit loss.
const (
	EventCrash = "crash"
	EventDead  = "dead"
)

// Event is one record from the events block of a debriefing log.
type Event struct {
	Type      string `json:"type"`
	Initiator string `json:"initiator,omitempty"`
}

// Valid reports whether the record carries the minimum required fields.
func (e Event) Valid() bool {
	return e.Type != ""
}

// IsLoss reports whether the event marks a destroyed unit.
func (e Event) IsLoss() bool {
	return e.Type == EventCrash || e.Type == EventDead
}

// EventTable maps an opaque record index to its event.
type EventTable map[int]Event

// Append stores e under the next sequential index.
func (t EventTable) Append(e Event) {
	t[len(t)] = e
}
