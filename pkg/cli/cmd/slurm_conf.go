package cmd

import (
	"os"

	"github.com/hpcops/slurmbridge/pkg/render"
	"github.com/hpcops/slurmbridge/pkg/topology"
	"github.com/spf13/cobra"
)

// slurmConfCmd generates the partition and node definition lines.
var slurmConfCmd = &cobra.Command{
	Use:   "slurm-conf",
	Short: "Generate Slurm partition and node configuration",
	Long: `Generate the partition and node definition lines for slurm.conf from the
cluster's current topology, written to stdout.`,
	RunE:          runSlurmConf,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(slurmConfCmd)
	addConnectionFlags(slurmConfCmd)
}

func runSlurmConf(cmd *cobra.Command, args []string) error {
	d, err := setup("slurm_conf.log")
	if err != nil {
		return err
	}

	parts, err := topology.NewBuilder(d.api, d.slurm, d.logger).Partitions(cmd.Context())
	if err != nil {
		return err
	}
	return render.WriteSlurmConf(cmd.Context(), os.Stdout, parts, d.slurm)
}
