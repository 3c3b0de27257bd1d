package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolP("json", "j", false, "Print JSON instead of a table")
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show issued certificates, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		views, err := deps.Certificates.Views()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		}
		if len(views) == 0 {
			fmt.Fprintln(out, "No certificates issued yet.")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tAMOUNT\tRECIPIENT\tMANAGER\tCREATED\tEXPIRES\tID")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				v.Code, v.AmountDisplay, v.RecipientName, v.ManagerName, v.CreatedDisplay, v.ExpiryDisplay, v.ID)
		}
		return tw.Flush()
	},
}
