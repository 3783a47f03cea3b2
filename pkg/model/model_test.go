package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent(t *testing.T) {
	assert.False(t, Event{}.Valid())
	assert.True(t, Event{Type: "hit"}.Valid())

	assert.True(t, Event{Type: EventDead}.IsLoss())
	assert.True(t, Event{Type: EventCrash}.IsLoss())
	assert.False(t, Event{Type: "hit"}.IsLoss())
	assert.False(t, Event{Type: "Dead"}.IsLoss())
}

func TestEventTable_Append(t *testing.T) {
	table := EventTable{}
	table.Append(Event{Type: "hit"})
	table.Append(Event{Type: "dead"})
	assert.Equal(t, EventTable{0: {Type: "hit"}, 1: {Type: "dead"}}, table)
}

func TestUnitCounts_Clone(t *testing.T) {
	var nilCounts UnitCounts
	c := nilCounts.Clone()
	assert.NotNil(t, c)
	assert.Empty(t, c)

	orig := UnitCounts{"T-72B": 2}
	cp := orig.Clone()
	cp["T-72B"] = 5
	assert.Equal(t, 2, orig["T-72B"])
}

func TestUnitCounts_Total(t *testing.T) {
	assert.Equal(t, 0, UnitCounts(nil).Total())
	assert.Equal(t, 5, UnitCounts{"a": 2, "b": 3}.Total())
}

func TestDeathTally_Add(t *testing.T) {
	tally := DeathTally{}
	tally.Add(2, "T-72B")
	tally.Add(2, "T-72B")
	tally.Add(0, "F-16C_50")
	assert.Equal(t, DeathTally{
		2: {"T-72B": 2},
		0: {"F-16C_50": 1},
	}, tally)
}

func TestSides_All(t *testing.T) {
	s := Sides{Player: Side{Name: "USA", ID: 2}, Enemy: Side{Name: "Russia", ID: 0}}
	assert.Equal(t, []Side{s.Player, s.Enemy}, s.All())
}
