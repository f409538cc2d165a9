package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolForge-AI/pkg/client"
)

func newGenerateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <requirements...>",
		Short: "Generate candidate molecules from a free-text description",
		Example: `  molforge generate "orally available JAK2 inhibitors with low hERG risk"
  molforge generate --json "blue OLED emitters, high quantum yield"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts.ServerAddr)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			b, err := c.Generate(ctx, client.GenerateRequest{
				Requirements: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return printBatch(cmd.OutOrStdout(), b, opts.JSONOutput)
		},
	}
}
