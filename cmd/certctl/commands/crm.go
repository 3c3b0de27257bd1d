package commands

import (
	"fmt"
	"text/tabwriter"

	"fenix-certificates/internal/crm"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(verifyCmd, redeemCmd, managersCmd)
	redeemCmd.Flags().Int64("crm-id", 0, "KeyCRM order id, skips the lookup by code")
	redeemCmd.Flags().String("order", "", "Order number the certificate was used on")
}

var verifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Look up a certificate order in KeyCRM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := deps.Gateway.Verify(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !res.Found {
			fmt.Fprintf(out, "%s: not found in KeyCRM\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%s: order #%d, %s, %.0f грн, created %s\n",
			args[0], res.ExternalID, res.StatusLabel, res.Amount, res.CreatedAt)
		return nil
	},
}

var redeemCmd = &cobra.Command{
	Use:   "redeem <code>",
	Short: "Mark a certificate as used in KeyCRM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt64("crm-id")
		ref, _ := cmd.Flags().GetString("order")
		res, err := deps.Gateway.Redeem(cmd.Context(), crm.RedeemInput{Code: args[0], ExternalID: id, OrderRef: ref})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s redeemed on KeyCRM order #%d\n", args[0], res.ExternalID)
		return nil
	},
}

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "List active KeyCRM managers",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := deps.Directory.ListActive(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME")
		for _, m := range list {
			fmt.Fprintf(tw, "%d\t%s\n", m.ID, m.DisplayName)
		}
		return tw.Flush()
	},
}
