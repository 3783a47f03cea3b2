// Package debrief provides the library API for reconciling mission debriefing
// logs against a mission roster.
//
// A Session is created once per mission session. It binds the unit-type
// catalog, the roster and the two side names, and counts both rosters up
// front so that every later parse only has to tally deaths.
//
//	m, _ := mission.Load("mission.yaml")
//	s, err := debrief.NewSession(m, catalog.Default(), "USA", "Russia")
//	h, err := s.Watch(ctx, "liberation_debriefings", func(d *model.Debriefing) {
//	    report(d)
//	})
//	defer h.Stop()
//
// # Concurrency Safety
//
// A Session is immutable after NewSession and may be shared between
// goroutines. The watch callback runs on the watcher's goroutine.
package debrief
