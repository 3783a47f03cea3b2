package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/pkg/color"
)

func testMission() *mission.Mission {
	return &mission.Mission{Countries: []mission.Country{
		{ID: 2, Name: "USA"},
		{ID: 0, Name: "Russia"},
		{ID: 16, Name: "Georgia"},
	}}
}

func TestSuggestSides(t *testing.T) {
	color.Disable()

	t.Run("prefix match", func(t *testing.T) {
		result := suggestSides(testMission(), "USA", "Russ")
		assert.Contains(t, result, `"Russ": Did you mean Russia?`)
		assert.NotContains(t, result, `"USA"`)
	})

	t.Run("substring match", func(t *testing.T) {
		result := suggestSides(testMission(), "orgi")
		assert.Contains(t, result, "Georgia")
	})

	t.Run("no match lists every country", func(t *testing.T) {
		result := suggestSides(testMission(), "France")
		assert.Contains(t, result, "Countries in the mission: USA, Russia, Georgia")
	})
}

func TestCloseCountries(t *testing.T) {
	m := &mission.Mission{Countries: []mission.Country{
		{ID: 1, Name: "Ukraine"},
		{ID: 2, Name: "UK"},
	}}
	assert.Equal(t, []string{"Ukraine", "UK"}, closeCountries(m, "uk"))
	assert.Empty(t, closeCountries(m, "zz"))
}
