package eventlog

import (
	"context"
	"fmt"

	"github.com/dcsl-project/debrief/internal/luatable"
	"github.com/dcsl-project/debrief/pkg/model"
)

// TableDialect reads the debriefing.events sub-table of a decoded Lua chunk.
type TableDialect struct{}

// Name implements Dialect.
func (TableDialect) Name() string { return "table" }

// Decode implements Dialect. Text that fails to decode, or decodes without a
// debriefing.events table, is declined.
func (TableDialect) Decode(ctx context.Context, text string) (model.EventTable, error) {
	root, err := luatable.Decode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDialect, err)
	}
	debriefing, ok := root.Sub("debriefing")
	if !ok {
		return nil, fmt.Errorf("%w: no debriefing table", ErrNotDialect)
	}
	raw, ok := debriefing.Sub("events")
	if !ok {
		return nil, fmt.Errorf("%w: no debriefing.events table", ErrNotDialect)
	}

	events := make(model.EventTable)
	for _, key := range raw.SortedKeys() {
		rec, ok := raw.Sub(key)
		if !ok {
			continue
		}
		var e model.Event
		e.Type, _ = rec.String("type")
		e.Initiator, _ = rec.String("initiator")
		if e.Valid() {
			events.Append(e)
		}
	}
	return events, nil
}
