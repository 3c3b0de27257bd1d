package commands

import (
	"fmt"

	"fenix-certificates/internal/codegen"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntP("count", "n", 1, "How many codes to print")
}

var generateCmd = &cobra.Command{
	Use:         "generate",
	Short:       "Print new certificate codes without saving them",
	Annotations: map[string]string{"deps": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		if n < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		g := &codegen.Generator{}
		for i := 0; i < n; i++ {
			code, err := g.Generate()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
		return nil
	},
}
