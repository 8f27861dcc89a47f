package commands

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/granempresa/erp-portal/modules"
	"github.com/granempresa/erp-portal/pkg/application"
	"github.com/granempresa/erp-portal/pkg/commands/common"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

var ErrDenied = errors.New("permission denied")

// NewCommands returns the management commands: migrate, backends, authz and
// the translation checks.
func NewCommands() []*cobra.Command {
	return []*cobra.Command{
		newMigrateCmd(),
		newBackendsCmd(),
		newAuthzCmd(),
		newCheckTrKeysCmd(),
		newCheckTrUsageCmd(),
	}
}

func builtIn() []application.Module {
	return modules.BuiltIn(nil, nil)
}

// loadApp registers the built-in modules and the menu without opening the database.
func loadApp(ctx context.Context) (*common.Env, error) {
	conf := *configuration.Use()
	conf.Database.Enabled = false
	env, err := common.NewApplication(ctx, &conf, nil, builtIn()...)
	if err != nil {
		return nil, err
	}
	env.App.RegisterNavItems(modules.NavLinks...)
	return env, nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Applies, rolls back or reports the goose migrations embedded by the modules. Requires DB_ENABLED=true.`,
	}
	for _, op := range []struct{ name, short string }{
		{MigrateUp, "Apply all pending migrations"},
		{MigrateDown, "Roll back the latest migration"},
		{MigrateStatus, "Print the status of every migration"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   op.name,
			Short: op.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return Migrate(cmd.Context(), configuration.Use(), op.name, builtIn()...)
			},
		})
	}
	return cmd
}

func newBackendsCmd() *cobra.Command {
	var timeout time.Duration
	check := &cobra.Command{
		Use:   "check",
		Short: "Ping every ERP backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return CheckBackends(cmd.Context(), env.Registry, timeout, cmd.OutOrStdout())
		},
	}
	check.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall timeout")

	cmd := &cobra.Command{Use: "backends", Short: "Inspect the ERP backends"}
	cmd.AddCommand(check)
	return cmd
}

func newAuthzCmd() *cobra.Command {
	var role, object, action, lang string

	check := &cobra.Command{
		Use:   "check",
		Short: "Evaluate one permission for a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			allowed, err := CheckPermission(cmd.Context(), env.Authz, role, object, action, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !allowed {
				cmd.SilenceUsage = true
				return ErrDenied
			}
			return nil
		},
	}
	check.Flags().StringVar(&role, "role", "", "role slug, e.g. compras")
	check.Flags().StringVar(&object, "object", "", "authz object, e.g. compras.ordenes")
	check.Flags().StringVar(&action, "action", "list", "action")
	_ = check.MarkFlagRequired("role")
	_ = check.MarkFlagRequired("object")

	nav := &cobra.Command{
		Use:   "nav",
		Short: "Print the menu a role can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return PrintNavigation(cmd.Context(), env.App, role, lang, cmd.OutOrStdout())
		},
	}
	nav.Flags().StringVar(&role, "role", "", "role slug")
	nav.Flags().StringVar(&lang, "lang", "es", "menu language")
	_ = nav.MarkFlagRequired("role")

	cmd := &cobra.Command{Use: "authz", Short: "Inspect the access policy"}
	cmd.AddCommand(check, nav)
	return cmd
}

func newCheckTrKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check_tr_keys",
		Short: "Check translation key consistency across all locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return CheckTrKeys(env.App, env.Logger)
		},
	}
}

func newCheckTrUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check_tr_usage [root]",
		Short: "Check that translation keys used in Go code exist in every locale",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			env, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			return CheckTrUsage(env.App, root, env.Logger)
		},
	}
}
