// Package main is the entry point for the minibadge CLI.
//
// @title minibadge API
// @version 1.0
// @description Issue email-bound badges and publish their OBI 0.5.0 assertions.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "minibadge/docs"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "minibadge",
		Short: "Issue and verify email-bound badges",
		Long: `minibadge defines badges, awards them to email addresses and publishes
an OBI 0.5.0 assertion for every award.`,
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newAwardCmd(),
		newAssertionCmd(),
		newTokenCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
