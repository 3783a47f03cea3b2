package eventlog

import (
	"bufio"
	"context"
	"regexp"
	"strings"

	"github.com/dcsl-project/debrief/pkg/model"
)

const (
	blockStart  = "events ="
	blockEnd    = "} -- end of events"
	recordEnd   = "}, -- end of ["
	initiatorLn = "initiator\t"
	typeLn      = "type\t"
)

var quotedValue = regexp.MustCompile(`=\s*"(.*?)",`)

// MultiplayerDialect scans the line-oriented log written by multiplayer sessions.
type MultiplayerDialect struct{}

// Name implements Dialect.
func (MultiplayerDialect) Name() string { return "multiplayer" }

// Decode implements Dialect. Text without an events block is declined.
func (MultiplayerDialect) Decode(ctx context.Context, text string) (model.EventTable, error) {
	events := make(model.EventTable)
	var (
		sawBlock bool
		inEvents bool
		current  *model.Event
	)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, blockStart):
			inEvents = true
			sawBlock = true
		case strings.HasPrefix(line, blockEnd):
			inEvents = false
		}
		if !inEvents {
			continue
		}

		switch {
		case strings.HasPrefix(line, initiatorLn):
			if v, ok := lineValue(line); ok {
				current = lazyEvent(current)
				current.Initiator = v
			}
		case strings.HasPrefix(line, typeLn):
			if v, ok := lineValue(line); ok {
				current = lazyEvent(current)
				current.Type = v
			}
		case strings.HasPrefix(line, recordEnd):
			if current != nil && current.Valid() {
				events.Append(*current)
			}
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawBlock {
		return nil, ErrNotDialect
	}
	return events, nil
}

func lazyEvent(e *model.Event) *model.Event {
	if e == nil {
		return &model.Event{}
	}
	return e
}

func lineValue(line string) (string, bool) {
	m := quotedValue.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}
