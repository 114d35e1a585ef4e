package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(checkCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update every mod in the directory to its latest compatible release",
	Long: `Identifies each mod jar on Modrinth, and when the latest release for the
configured game version and loader has a different file name, moves the
installed jar into the backup directory and downloads the new one.

  modsync update -d ~/.minecraft/mods -g 1.21.8 -l fabric
  MODSYNC_GAME_VERSION=1.21.8 modsync update --dir ./mods`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, false)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which mods have updates without changing anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd, true)
	},
}
