package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"minibadge/internal/adapters/auth"
	"minibadge/internal/domain"
)

func newTokenCmd() *cobra.Command {
	var caller domain.Caller
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API",
		Long: `Mint a bearer token signed with JWT_SECRET.

Examples:
  minibadge token --user alice
  minibadge token --user ops --staff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := auth.NewJWT(cfg.JWTSecret, cfg.TokenExpiry).Issue(&caller)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&caller.UserID, "user", "", "user id (token subject)")
	cmd.Flags().BoolVar(&caller.IsStaff, "staff", false, "grant staff rights")
	cmd.Flags().BoolVar(&caller.IsSuperuser, "superuser", false, "grant superuser rights")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
