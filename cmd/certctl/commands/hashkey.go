package commands

import (
	"fmt"

	"fenix-certificates/internal/middleware"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(hashKeyCmd)
}

var hashKeyCmd = &cobra.Command{
	Use:         "hash-admin-key <key>",
	Short:       "Print a bcrypt hash to put in ADMIN_KEY_HASH",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{"deps": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := middleware.HashAdminKey(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
