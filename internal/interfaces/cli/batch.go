package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newBatchCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Inspect stored pipeline batches",
	}
	cmd.AddCommand(newBatchGetCommand(opts))
	return cmd
}

func newBatchGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "get <batch-id>",
		Short:   "Fetch one batch by id",
		Example: `  molforge batch get 3f1d9a2e-8c4b-4f6e-9d27-5a1b0c9e8f70`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("batch id must be a UUID: %w", err)
			}

			c, err := newClient(opts.ServerAddr)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			b, err := c.GetBatch(ctx, id)
			if err != nil {
				return err
			}
			return printBatch(cmd.OutOrStdout(), b, opts.JSONOutput)
		},
	}
}
