package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/arena-access/internal/output"
	"github.com/mj1618/arena-access/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Fprint(cmd.OutOrStdout(), map[string]string{
			"version":    version.Version,
			"commit":     version.Commit,
			"build_date": version.BuildDate,
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
