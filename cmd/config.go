package cmd

import (
	"fmt"
	"os"

	"extract-mp3/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is where commands print user-facing messages
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Inspect the effective configuration.

Examples:
  extract-mp3 config show
  extract-mp3 --config other.yaml config show`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

// RunConfigShowWithDependencies prints cfg, noting whether it came from configPath
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "# loaded from %s\n", configPath)
	} else {
		fmt.Fprintf(out, "# %s not found, showing defaults\n", configPath)
	}
	_, err = out.Write(data)
	return err
}
