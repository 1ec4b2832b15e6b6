package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"minibadge/internal/app"
)

func newAssertionCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "assertion <award-slug>",
		Short: "Print the assertion document of an award",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = cfg.BaseURL
			}
			if baseURL == "" {
				return errors.New("a public base url is required: set BASE_URL or pass --base-url")
			}
			return withApp(cmd.Context(), cfg, logger, func(a *app.App) error {
				doc, err := a.Assertions.AssertionForSlug(cmd.Context(), args[0], baseURL)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public origin used in the assertion (default BASE_URL)")
	return cmd
}
