package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alp4ka/moderator"
)

func NewSetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role UID ROLE",
		Short: "Grant a staff role (admin or mod) to a user",
		Long: "Writes the role claim of a user. The user has to sign out and in " +
			"again before the new role is used.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := args[0]
			role, err := moderator.ValidateRole(args[1])
			if err != nil {
				return err
			}

			email, _ := cmd.Flags().GetString("email")

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := a.identity().SetRole(ctx, uid, email, role); err != nil {
				return fmt.Errorf("set role: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Set role=%s for uid=%s\n", role, uid)
			fmt.Fprintln(out, "Done. Now sign out/in to refresh token.")

			return nil
		},
	}

	cmd.Flags().String("email", "", "email stored with the claims record")

	return cmd
}
