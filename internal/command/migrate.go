package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alp4ka/moderator"
)

func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := moderator.Migrate(ctx, a.db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")

			return nil
		},
	}
}
