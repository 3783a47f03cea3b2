package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dcsl-project/debrief/pkg/color"
	"github.com/dcsl-project/debrief/pkg/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config <command>",
	Short: "Manage debrief configuration",
	Long: `Manage the debrief configuration file (./debrief.yaml unless --config is given).

Available commands:
  show    - Show the effective configuration
  init    - Write a configuration file with the defaults`,
	DisableFlagsInUseLine: true,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  "Show the configuration after defaults, the config file and --log-level are applied.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(cfg)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Println(color.Dim("# " + effectiveConfigPath()))
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := effectiveConfigPath()
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Println(color.Successf("Wrote %s", path))
		return nil
	},
}

func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
