package commands

import (
	"context"
	"fmt"
	"os"

	"fenix-certificates/internal/app"
	"fenix-certificates/internal/config"
	"fenix-certificates/internal/pkg/logging"

	"github.com/spf13/cobra"
)

// buildDeps is swapped in tests.
var buildDeps = func(ctx context.Context) (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, true)
	return app.Build(ctx, cfg)
}

var deps *app.Deps

var rootCmd = &cobra.Command{
	Use:   "certctl",
	Short: "FENIX gift certificate operator CLI",
	Long: `
certctl works on the same certificate history and KeyCRM account as the API
server. Configuration comes from .env and the environment (STORE_DRIVER,
KEYCRM_API_KEY, ...).

LOCAL HISTORY:
  generate    Print new certificate codes without saving them
  issue       Issue a certificate (optionally also in KeyCRM)
  list        Show issued certificates, newest first
  crm-text    Print the copy-paste CRM text for a certificate
  clear       Delete the whole history (needs --yes)

KEYCRM:
  verify      Look up a certificate order by code
  redeem      Mark a certificate as used
  managers    List active managers

ADMIN:
  hash-admin-key  Print a bcrypt hash for ADMIN_KEY_HASH
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["deps"] == "none" {
			return nil
		}
		d, err := buildDeps(cmd.Context())
		if err != nil {
			return err
		}
		deps = d
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if deps != nil {
			deps.Close()
			deps = nil
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
