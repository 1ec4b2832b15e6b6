package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"minibadge/internal/app"
	"minibadge/internal/domain"
)

func newAwardCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "award <badge-slug> <emails>...",
		Short: "Award a badge to one or more emails",
		Long: `Award a badge to email addresses as the system, bypassing the owner check.

Emails may be separated by commas, semicolons or whitespace. Recipients that
already hold the badge are left untouched and are not emailed again.

Examples:
  minibadge award coder "a@example.org, b@example.org"
  minibadge award coder a@example.org b@example.org --base-url https://badges.example.org`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			emails := domain.SplitRecipients(strings.Join(args[1:], " "))
			if len(emails) == 0 {
				return errors.New("no recipient emails given")
			}
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
				res, err := a.Awards.AwardBadge(cmd.Context(), nil, args[0], emails, baseURL)
				if res != nil {
					printIssueResult(cmd.OutOrStdout(), res, baseURL)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "public origin used in award links (default BASE_URL)")
	return cmd
}

func printIssueResult(w io.Writer, res *domain.IssueResult, baseURL string) {
	fresh := make(map[string]bool, len(res.NewlyAwarded))
	for _, e := range res.NewlyAwarded {
		fresh[e] = true
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tSLUG\tSTATUS\tURL")
	for _, a := range res.Awards {
		status := "existing"
		if fresh[a.Email] {
			status = "new"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Email, a.Slug, status, strings.TrimSuffix(baseURL, "/")+domain.AwardPath(a.Slug))
	}
	tw.Flush()
}
