package cmd

import (
	"os"

	"github.com/hpcops/slurmbridge/pkg/render"
	"github.com/hpcops/slurmbridge/pkg/topology"
	"github.com/spf13/cobra"
)

// topologyCmd generates the switch hierarchy.
var topologyCmd = &cobra.Command{
	Use:   "topology",
	Short: "Generate Slurm network topology configuration",
	Long: `Generate topology.conf switch lines mapping each partition's placement
groups onto a synthetic switch hierarchy, written to stdout.`,
	RunE:          runTopology,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(topologyCmd)
	addConnectionFlags(topologyCmd)
}

func runTopology(cmd *cobra.Command, args []string) error {
	d, err := setup("topology.log")
	if err != nil {
		return err
	}

	parts, err := topology.NewBuilder(d.api, d.slurm, d.logger).Partitions(cmd.Context())
	if err != nil {
		return err
	}
	return render.WriteTopology(os.Stdout, parts)
}
