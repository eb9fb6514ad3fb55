// Command hash-generator prints bcrypt hashes of internal API keys, suitable
// for INTERNAL_API_KEY_HASH.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:          "hash-generator <key>...",
		Short:        "Generate bcrypt hashes for internal API keys",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
				if err != nil {
					return fmt.Errorf("failed to hash key: %w", err)
				}
				if _, err := fmt.Fprintln(out, string(hash)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}
