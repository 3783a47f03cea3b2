package debriefing

import (
	"github.com/dcsl-project/debrief/pkg/model"
)

// Event outcomes reported to metrics besides the skip reasons.
const (
	outcomeCounted     = "counted"
	outcomeIgnoredType = "ignored_type"
)

// ExtractDeaths tallies crash and dead events per country and unit type.
// Events with any other type are ignored; events whose initiator cannot be
// decomposed are dropped one by one and never abort the tally.
func ExtractDeaths(events model.EventTable, r Resolver, opts ...Option) model.DeathTally {
	o := buildOptions(opts)
	tally := make(model.DeathTally)

	for idx, e := range events {
		if !e.IsLoss() {
			o.metrics.RecordEvent(outcomeIgnoredType)
			continue
		}

		ref, skip := DecomposeInitiator(e.Initiator, r)
		if skip != SkipNone {
			o.metrics.RecordEvent(string(skip))
			o.logger.Debug("loss event skipped", map[string]any{
				"index":     idx,
				"type":      e.Type,
				"initiator": e.Initiator,
				"reason":    string(skip),
			})
			continue
		}

		tally.Add(ref.CountryID, ref.UnitType)
		o.metrics.RecordEvent(outcomeCounted)
	}
	return tally
}
