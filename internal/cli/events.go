package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dcsl-project/debrief/internal/eventlog"
	"github.com/dcsl-project/debrief/pkg/color"
	"github.com/dcsl-project/debrief/pkg/errclass"
	"github.com/dcsl-project/debrief/pkg/model"
)

type eventRow struct {
	Index     int    `json:"index"`
	Type      string `json:"type"`
	Initiator string `json:"initiator,omitempty"`
}

type eventsReport struct {
	Log     string     `json:"log"`
	Dialect string     `json:"dialect"`
	Events  []eventRow `json:"events"`
}

var eventsCmd = &cobra.Command{
	Use:   "events <log>",
	Short: "Print the raw events decoded from a debriefing log",
	Long: `Decode a debriefing log without reconciling it and print each event with
the dialect that recognized the file. No roster is needed.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeLogFiles,
	RunE:              runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	timeout, err := cfg.DecodeTimeoutDuration()
	if err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return errclass.ErrLogUnreadable.WithMessagef("%s: %v", path, err)
	}

	p := eventlog.NewParser(eventlog.WithDecodeTimeout(timeout), eventlog.WithLogger(logger))
	res := p.ParseDetailed(string(data))

	report := eventsReport{Log: path, Dialect: res.Dialect, Events: make([]eventRow, 0, len(res.Events))}
	for idx, ev := range res.Events {
		report.Events = append(report.Events, eventRow{Index: idx, Type: ev.Type, Initiator: ev.Initiator})
	}
	sort.Slice(report.Events, func(i, j int) bool { return report.Events[i].Index < report.Events[j].Index })

	if jsonOutput {
		return outputJSON(report)
	}
	fmt.Printf("%s %s (%d events)\n", color.Header(path), color.Dim("dialect="+report.Dialect), len(report.Events))
	for _, e := range report.Events {
		typ := e.Type
		if (model.Event{Type: e.Type}).IsLoss() {
			typ = color.Warning(typ)
		}
		fmt.Printf("  %3d  %-6s %s\n", e.Index, typ, e.Initiator)
	}
	return nil
}
