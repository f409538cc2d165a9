package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolForge-AI/pkg/client"
)

func newOptimizeCommand(opts *RootOptions) *cobra.Command {
	var (
		targetProperty string
		constraints    []string
	)

	cmd := &cobra.Command{
		Use:   "optimize <smiles>",
		Short: "Optimize an existing molecule toward a target property",
		Example: `  molforge optimize "CC(=O)Oc1ccccc1C(=O)O" --target solubility
  molforge optimize "CCO" --target logP --constraint "keep scaffold"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(opts.ServerAddr)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			b, err := c.Optimize(ctx, client.OptimizeRequest{
				SMILES:         args[0],
				TargetProperty: targetProperty,
				Constraints:    constraints,
			})
			if err != nil {
				return err
			}
			return printBatch(cmd.OutOrStdout(), b, opts.JSONOutput)
		},
	}

	cmd.Flags().StringVar(&targetProperty, "target", "", "property to optimize for (required)")
	cmd.Flags().StringArrayVar(&constraints, "constraint", nil, "optimization constraint (repeatable)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
