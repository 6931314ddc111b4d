package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baselog-dev/baselog/internal/cli/client"
	"github.com/baselog-dev/baselog/internal/cli/commands"
	"github.com/baselog-dev/baselog/internal/cli/update"
)

var version = "dev" // Will be set during build

// NewRootCmd assembles the command tree around env.
func NewRootCmd(env *commands.Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "baselog",
		Short: "baselog - sales dashboard in your terminal",
		Long: `baselog CLI - Manage products, customers and sales of a baselog backend.

Sign in once with 'baselog login'; the token is kept in the OS keychain
until you sign out or the backend rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newVersionCmd(env))

	rootCmd.AddCommand(commands.NewLoginCmd(env))
	rootCmd.AddCommand(commands.NewLogoutCmd(env))
	rootCmd.AddCommand(commands.NewWhoamiCmd(env))
	rootCmd.AddCommand(commands.NewSignupCmd(env))
	rootCmd.AddCommand(commands.NewPasswdCmd(env))
	rootCmd.AddCommand(commands.NewProductsCmd(env))
	rootCmd.AddCommand(commands.NewCustomersCmd(env))
	rootCmd.AddCommand(commands.NewSalesCmd(env))
	rootCmd.AddCommand(commands.NewUsersCmd(env))
	rootCmd.AddCommand(commands.NewReportsCmd(env))

	return rootCmd
}

func newVersionCmd(env *commands.Env) *cobra.Command {
	var checkServer bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "baselog version %s\n", version)
			if !checkServer {
				return nil
			}

			cfg, err := env.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			status, err := update.Check(cmd.Context(), client.New(cfg.BaseURL), version)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backend %s version %s (%s)\n", cfg.BaseURL, status.ServerVersion, status.ServerStatus)
			update.PrintNotice(cmd.ErrOrStderr(), status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkServer, "server", false, "Also report the backend version")

	return cmd
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	if err := NewRootCmd(commands.DefaultEnv()).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
