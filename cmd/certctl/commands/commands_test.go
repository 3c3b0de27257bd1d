package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"fenix-certificates/internal/app"
	"fenix-certificates/internal/codegen"
	"fenix-certificates/internal/config"
	"fenix-certificates/internal/keycrm"
	"fenix-certificates/internal/keycrm/keycrmtest"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func useTestDeps(t *testing.T) (*app.Deps, *keycrmtest.Server) {
	t.Helper()
	srv := keycrmtest.NewServer(t)
	d, err := app.Build(context.Background(), &config.Config{
		KeyCRMAPIKey:    keycrmtest.APIKey,
		KeyCRMBaseURL:   srv.URL,
		KeyCRMTimeout:   5 * time.Second,
		StoreDriver:     config.StoreMemory,
		StoreKey:        "fenix_certs",
		DisplayTimezone: "UTC",
	})
	require.NoError(t, err)

	prev := buildDeps
	buildDeps = func(context.Context) (*app.Deps, error) { return d, nil }
	t.Cleanup(func() { buildDeps = prev })
	return d, srv
}

// run executes certctl with args and resets every flag afterwards, since
// the command tree is package global.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestGenerate(t *testing.T) {
	out, err := run(t, "generate", "-n", "3")
	require.NoError(t, err)
	lines := strings.Fields(out)
	require.Len(t, lines, 3)
	for _, code := range lines {
		assert.True(t, codegen.Valid(code), code)
	}
}

func TestIssueListAndCRMText(t *testing.T) {
	d, srv := useTestDeps(t)

	out, err := run(t, "issue", "--custom-amount", "1250", "-r", "Олена", "-m", "Оксана", "--expiry", "2025-10-01", "--sync-crm")
	require.NoError(t, err)
	assert.Contains(t, out, "СЕРТИФІКАТ FENIX")
	assert.Contains(t, out, "KeyCRM order #101 created")
	require.Len(t, srv.Created(), 1)

	certs := d.Store.List()
	require.Len(t, certs, 1)
	assert.Equal(t, 1250, certs[0].Amount)

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, certs[0].Code)
	assert.Contains(t, out, "01.10.2025")

	out, err = run(t, "crm-text", certs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "СЕРТИФІКАТ FENIX\nКод: "+certs[0].Code+"\nСума: 1250 грн\nДіє до: 2025-10-01\nСтворив: Оксана\n", out)
}

func TestIssue_RejectsBadAmount(t *testing.T) {
	d, _ := useTestDeps(t)
	_, err := run(t, "issue", "--custom-amount", "12.5")
	assert.Error(t, err)
	assert.Empty(t, d.Store.List())
}

func TestClear_NeedsYes(t *testing.T) {
	d, _ := useTestDeps(t)
	_, err := run(t, "issue", "-a", "500")
	require.NoError(t, err)

	_, err = run(t, "clear")
	assert.Error(t, err)
	assert.Len(t, d.Store.List(), 1)

	out, err := run(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")
	assert.Empty(t, d.Store.List())
}

func TestVerifyRedeemManagers(t *testing.T) {
	_, srv := useTestDeps(t)
	id := srv.AddOrder(keycrm.Order{SourceUUID: "FNX-2025-QWERTY", TotalPrice: 2000, ManagerComment: "Сертифікат: FNX-2025-QWERTY"})
	srv.SetUsers([]keycrm.User{{ID: 7, FullName: "Петро", Status: "active"}}, 50, false)

	out, err := run(t, "verify", "FNX-2025-QWERTY")
	require.NoError(t, err)
	assert.Contains(t, out, "2000 грн")

	out, err = run(t, "verify", "FNX-2025-ZZZZZZ")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")

	out, err = run(t, "redeem", "FNX-2025-QWERTY", "--order", "555")
	require.NoError(t, err)
	assert.Contains(t, out, "redeemed")
	o, ok := srv.Order(id)
	require.True(t, ok)
	assert.Contains(t, o.ManagerComment, "[ВИКОРИСТАНО] Сертифікат FNX-2025-QWERTY | Замовлення: #555")

	out, err = run(t, "managers")
	require.NoError(t, err)
	assert.Contains(t, out, "Петро")
}

func TestHashAdminKey(t *testing.T) {
	out, err := run(t, "hash-admin-key", "s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("s3cret")))
}
