package cli

import (
	"fmt"
	"strings"

	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/pkg/color"
)

// suggestSides lists near matches for the side names that are not in the
// mission, or every country when nothing is close.
func suggestSides(m *mission.Mission, names ...string) string {
	var lines []string
	for _, name := range names {
		if _, err := m.Country(name); err == nil {
			continue
		}
		if matches := closeCountries(m, name); len(matches) > 0 {
			hint := "Did you mean"
			if len(matches) > 1 {
				hint += " one of"
			}
			lines = append(lines, color.Dim(fmt.Sprintf("  %q: %s %s?", name, hint, strings.Join(matches, ", "))))
		}
	}
	if len(lines) == 0 {
		var all []string
		for _, c := range m.Countries {
			all = append(all, c.Name)
		}
		return color.Dim("  Countries in the mission: " + strings.Join(all, ", "))
	}
	return strings.Join(lines, "\n")
}

// closeCountries matches by case-insensitive prefix, then by substring.
func closeCountries(m *mission.Mission, name string) []string {
	needle := strings.ToLower(name)
	var matches []string
	for _, c := range m.Countries {
		if strings.HasPrefix(strings.ToLower(c.Name), needle) {
			matches = append(matches, c.Name)
		}
	}
	if len(matches) == 0 {
		for _, c := range m.Countries {
			if strings.Contains(strings.ToLower(c.Name), needle) {
				matches = append(matches, c.Name)
			}
		}
	}
	return matches
}
