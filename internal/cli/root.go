package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcsl-project/debrief/pkg/color"
)

var (
	jsonOutput bool
	configPath string
	logLevel   string
	noColor    bool
	rootCmd    = &cobra.Command{
		Use:   "debrief",
		Short: "debrief - mission debriefing reconciler",
		Long: `debrief reads the debriefing log a mission writes when it ends, recovers
which units died, and reconciles those deaths against the mission roster to
report alive and destroyed units per side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			color.Init(noColor)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./debrief.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// outputJSON prints v as JSON if --json flag is set, otherwise does nothing.
func outputJSON(v any) error {
	if !jsonOutput {
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	prefix := "debrief: "
	if color.Enabled() {
		prefix = color.Error("debrief:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
