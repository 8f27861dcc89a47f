package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/granempresa/erp-portal/pkg/commands"
	"github.com/granempresa/erp-portal/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "command",
		Short: "ERP portal management commands",
	}
	cmd.AddCommand(commands.NewCommands()...)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	configuration.Use().Unload()
	if err != nil {
		os.Exit(1)
	}
}
