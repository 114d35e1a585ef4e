package cli

import (
	"fmt"

	"github.com/modsync/modsync/internal/config"
	"github.com/modsync/modsync/internal/doctor"
	"github.com/spf13/cobra"
)

var doctorFix bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create the backup directory and remove unfinished downloads")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the mods directory and registry settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		s := doctor.Check(out, cfg, newClient(cfg), doctorFix)

		fmt.Fprintln(out)
		if s.Fixed > 0 {
			fmt.Fprintf(out, "Fixed %d issue(s).\n", s.Fixed)
		}
		if s.Problems > 0 {
			return fmt.Errorf("%d problem(s) found", s.Problems)
		}
		fmt.Fprintln(out, "Everything looks good.")
		return nil
	},
}
