package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dcsl-project/debrief/internal/mission"
	"github.com/dcsl-project/debrief/pkg/config"
)

// Cobra's built-in "completion" command generates the shell scripts; the
// functions here feed it debrief-specific candidates.

// completeLogFiles offers debriefing logs for positional arguments.
func completeLogFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"log"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeYAMLFiles offers roster and catalog files.
func completeYAMLFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeCountries offers the country names of the roster named by --roster,
// or by mission.roster in the config file.
func (f *missionFlags) completeCountries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	m, ok := f.completionMission()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	needle := strings.ToLower(toComplete)
	var names []string
	for _, c := range m.Countries {
		if strings.HasPrefix(strings.ToLower(c.Name), needle) {
			names = append(names, c.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completionMission loads the roster without touching the global logger.
func (f *missionFlags) completionMission() (*mission.Mission, bool) {
	roster := f.roster
	if roster == "" {
		cfg, err := config.Load(effectiveConfigPath())
		if err != nil {
			return nil, false
		}
		roster = cfg.Mission.Roster
	}
	if roster == "" {
		return nil, false
	}
	m, err := mission.Load(roster)
	if err != nil {
		return nil, false
	}
	return m, true
}

func (f *missionFlags) registerCompletions(cmd *cobra.Command) {
	cmd.RegisterFlagCompletionFunc("player", f.completeCountries)
	cmd.RegisterFlagCompletionFunc("enemy", f.completeCountries)
	cmd.RegisterFlagCompletionFunc("roster", completeYAMLFiles)
	cmd.RegisterFlagCompletionFunc("catalog", completeYAMLFiles)
}
