// Package color styles terminal output for the debrief CLI.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dcsl-project/debrief/pkg/model"
)

var state struct {
	once       sync.Once
	enabled    atomic.Bool
	overridden atomic.Bool
}

// Init decides once whether color is enabled, from NO_COLOR, TERM=dumb and
// the --no-color flag. Enable and Disable override the decision.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if state.overridden.Load() {
			return
		}
		_, noColor := os.LookupEnv("NO_COLOR")
		dumb := os.Getenv("TERM") == "dumb"
		state.enabled.Store(!noColor && !dumb && !noColorFlag)
	})
}

// Enabled reports whether styles are applied.
func Enabled() bool {
	Init(false)
	return state.enabled.Load()
}

// Disable turns off color output.
func Disable() {
	state.overridden.Store(true)
	state.enabled.Store(false)
}

// Enable turns on color output.
func Enable() {
	state.overridden.Store(true)
	state.enabled.Store(true)
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#06b6d4"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

func render(style lipgloss.Style, s string) string {
	if !Enabled() {
		return s
	}
	return style.Render(s)
}

// Success formats a success message.
func Success(s string) string { return render(successStyle, s) }

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string { return Success(fmt.Sprintf(format, args...)) }

// Error formats an error message.
func Error(s string) string { return render(errorStyle, s) }

// Errorf formats an error message with printf-style arguments.
func Errorf(format string, args ...any) string { return Error(fmt.Sprintf(format, args...)) }

// Warning formats a warning.
func Warning(s string) string { return render(warningStyle, s) }

// Warningf formats a warning with printf-style arguments.
func Warningf(format string, args ...any) string { return Warning(fmt.Sprintf(format, args...)) }

// Info formats an informational message.
func Info(s string) string { return render(infoStyle, s) }

// Header formats a header.
func Header(s string) string { return render(headerStyle, s) }

// Dim formats secondary text.
func Dim(s string) string { return render(dimStyle, s) }

// DebriefingTable renders one row per side and unit type with destroyed and
// alive counts. Player rows come first, then enemy rows; unit types are
// sorted within a side.
func DebriefingTable(d *model.Debriefing, sides model.Sides) string {
	var rows [][]string
	for _, side := range sides.All() {
		destroyed := d.DestroyedUnits[side.Name]
		alive := d.AliveUnits[side.Name]

		types := make(map[model.UnitType]bool, len(destroyed)+len(alive))
		for ut := range destroyed {
			types[ut] = true
		}
		for ut := range alive {
			types[ut] = true
		}
		sorted := make([]string, 0, len(types))
		for ut := range types {
			sorted = append(sorted, string(ut))
		}
		sort.Strings(sorted)

		for _, ut := range sorted {
			aliveCell := "-"
			if n, ok := alive[model.UnitType(ut)]; ok {
				aliveCell = strconv.Itoa(n)
			}
			rows = append(rows, []string{
				side.Name,
				ut,
				strconv.Itoa(destroyed[model.UnitType(ut)]),
				aliveCell,
			})
		}
	}

	t := table.New().
		Headers("SIDE", "UNIT", "DESTROYED", "ALIVE").
		Rows(rows...)
	if Enabled() {
		t = t.Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				return lipgloss.NewStyle().Padding(0, 1)
			})
	}
	return t.String()
}
