package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clearCmd)
	clearCmd.Flags().Bool("yes", false, "Confirm deleting the whole history")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole certificate history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("refusing to clear %d certificates without --yes", len(deps.Store.List()))
		}
		deps.Store.Clear(cmd.Context())
		if n := len(deps.Store.List()); n > 0 {
			return fmt.Errorf("history could not be cleared, %d certificates kept", n)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Certificate history cleared.")
		return nil
	},
}
