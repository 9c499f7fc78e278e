package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "lfmod"

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Lost & Found moderation console",
		Long:          "lfmod lets staff browse, filter and moderate Lost & Found listings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("config", "", "path to YAML config file")
	cmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the config")
	cmd.PersistentFlags().Bool("debug", false, "log SQL statements and debug events")

	cmd.AddCommand(
		NewConsoleCmd(),
		NewSetRoleCmd(),
		NewMigrateCmd(),
		NewSeedCmd(),
	)

	return cmd
}
