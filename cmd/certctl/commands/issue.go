package commands

import (
	"fmt"

	"fenix-certificates/internal/certificates"
	"fenix-certificates/internal/format"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.Flags().IntP("amount", "a", 0, "Preset amount (500, 1000, 2000, 5000)")
	issueCmd.Flags().String("custom-amount", "", "Any positive whole amount; overrides --amount")
	issueCmd.Flags().StringP("recipient", "r", "", "Recipient name")
	issueCmd.Flags().StringP("manager", "m", "", "Issuing manager (default \"Менеджер\")")
	issueCmd.Flags().String("expiry", "", "Expiry date YYYY-MM-DD (default six months from today)")
	issueCmd.Flags().Bool("sync-crm", false, "Also create the KeyCRM order")
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a certificate",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		req := certificates.IssueRequest{}
		req.Amount, _ = f.GetInt("amount")
		req.CustomAmount, _ = f.GetString("custom-amount")
		req.RecipientName, _ = f.GetString("recipient")
		req.ManagerName, _ = f.GetString("manager")
		req.ExpiryDate, _ = f.GetString("expiry")
		req.SyncCRM, _ = f.GetBool("sync-crm")

		res, err := deps.Certificates.Issue(cmd.Context(), req)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Issued %s for %s\n\n%s\n", res.Certificate.Code, format.Currency(res.Certificate.Amount), res.CRMText)
		if res.CRM != nil {
			if res.CRM.Success {
				fmt.Fprintf(out, "\nKeyCRM order #%d created\n", res.CRM.ExternalID)
			} else {
				fmt.Fprintf(out, "\nKeyCRM sync failed: %s\n", res.CRM.Error)
			}
		}
		return nil
	},
}
