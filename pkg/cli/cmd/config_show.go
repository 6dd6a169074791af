package cmd

import (
	"os"

	"github.com/hpcops/slurmbridge/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

// configShowCmd prints the effective configuration after file, environment
// and flag overrides are applied. The password is redacted.
var configShowCmd = &cobra.Command{
	Use:           "show",
	Short:         "Show the effective configuration",
	RunE:          runConfigShow,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
	addConnectionFlags(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyOverrides(cfg)

	if cfg.Connection.Password != "" {
		cfg.Connection.Password = "<redacted>"
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
