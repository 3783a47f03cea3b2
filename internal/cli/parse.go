package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dcsl-project/debrief/pkg/color"
	"github.com/dcsl-project/debrief/pkg/fsutil"
	"github.com/dcsl-project/debrief/pkg/model"
	"github.com/dcsl-project/debrief/pkg/progress"
)

// maxParallelParses bounds concurrent log reads.
const maxParallelParses = 4

var (
	parseFlags missionFlags
	parseOut   string
)

// parseReport is one reconciled log.
type parseReport struct {
	Log        string            `json:"log"`
	Debriefing *model.Debriefing `json:"debriefing"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <log>...",
	Short: "Reconcile debriefing logs against the mission roster",
	Long: `Parse one or more debriefing logs and print, for each, the destroyed and
alive unit counts of the player and enemy sides.

Examples:
  debrief parse --roster mission.yaml --player USA --enemy Russia mission_end.log
  debrief parse --json a.log b.log
  debrief parse --out report.json *.log`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeLogFiles,
	RunE:              runParse,
}

func init() {
	parseFlags.register(parseCmd)
	parseCmd.Flags().StringVar(&parseOut, "out", "", "also write the JSON report to this file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	parseFlags.apply(&cfg.Mission)
	s, err := openSession(cfg, logger, nil)
	if err != nil {
		return err
	}

	bar := progress.NewTerminal("Parsing", len(args), progressEnabled(len(args)))
	reports := make([]parseReport, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelParses)
	for i, path := range args {
		g.Go(func() error {
			d, err := s.ParseFile(ctx, path)
			if err != nil {
				return err
			}
			reports[i] = parseReport{Log: path, Debriefing: d}
			bar.Step(filepath.Base(path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	bar.Done("")

	if parseOut != "" {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := fsutil.AtomicWrite(parseOut, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if jsonOutput {
		return outputJSON(reports)
	}
	for _, r := range reports {
		printDebriefing(filepath.Base(r.Log), r.Debriefing, s.Sides())
	}
	if parseOut != "" {
		fmt.Println(color.Successf("Report written to %s", parseOut))
	}
	return nil
}

// progressEnabled shows the bar for multi-file text runs on a terminal.
func progressEnabled(files int) bool {
	if jsonOutput || files < 2 || !color.Enabled() {
		return false
	}
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func printDebriefing(title string, d *model.Debriefing, sides model.Sides) {
	fmt.Println(color.Header(title))
	fmt.Println(color.DebriefingTable(d, sides))
}
