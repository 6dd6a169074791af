// Package cmd implements the slurmbridge command line.
package cmd

import (
	"os"

	"github.com/hpcops/slurmbridge/pkg/cli/format"
	"github.com/hpcops/slurmbridge/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool

	// Connection overrides shared by every command that talks to the
	// control plane.
	webServerOverride string
	usernameOverride  string
	clusterOverride   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "slurmbridge",
	Short: "slurmbridge - keep Slurm in sync with an elastic compute fleet",
	Long: `slurmbridge keeps a Slurm scheduler's partition and node configuration
synchronized with an elastic fleet managed by a CycleCloud-style control
plane. It generates scheduler configuration artifacts from cluster
topology and drives node power transitions on the scheduler's behalf.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	Version: version.Version,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		format.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.slurmbridge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	viper.SetEnvPrefix("SLURMBRIDGE")
	viper.AutomaticEnv()
}

// addConnectionFlags registers the control-plane override flags on a
// connecting command.
func addConnectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&webServerOverride, "web-server", "", "Control plane base URL (overrides config)")
	cmd.Flags().StringVar(&usernameOverride, "username", "", "Control plane username (password will be prompted)")
	cmd.Flags().StringVar(&clusterOverride, "cluster", "", "Cluster name (overrides config)")
}
