package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(crmTextCmd)
}

var crmTextCmd = &cobra.Command{
	Use:   "crm-text <id>",
	Short: "Print the copy-paste CRM text for a certificate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := deps.Certificates.ViewByID(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v.CRMText)
		return nil
	},
}
