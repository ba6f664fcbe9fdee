package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/yupiflow-admin/internal/directory"
	"github.com/noah-isme/yupiflow-admin/internal/models"
)

type dashboard struct {
	Users         directory.StatsSummary      `json:"users"`
	Registrations directory.RegistrationStats `json:"registrations"`
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show header figures for users and registrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		pager := directory.NewPager(client, directory.Query{PageSize: cfg.Directory.PageSize}, logr)
		review := directory.NewRegistrationReview(client, logr)

		var out dashboard
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			view, err := pager.Refresh(ctx)
			if err != nil {
				return err
			}
			out.Users = directory.Summarize(view)
			return nil
		})
		g.Go(func() error {
			if _, err := review.List(ctx); err != nil {
				return err
			}
			out.Registrations = review.Stats()
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), out, func(w io.Writer) error {
			header(w, "USERS", "", "REGISTRATIONS", "")
			fmt.Fprintf(w, "Total\t%d\tTotal\t%d\n", out.Users.Total, out.Registrations.Total)
			fmt.Fprintf(w, "Admins\t%d\tPending\t%d\n", out.Users.Admins, out.Registrations.Pending)
			fmt.Fprintf(w, "Staff\t%d\tApproved\t%d\n", out.Users.Staff, out.Registrations.Approved)
			fmt.Fprintf(w, "\t\tRejected\t%d\n", out.Registrations.Rejected)
			fmt.Fprintln(w)
			for _, info := range models.RoleCatalog {
				if n := out.Users.Count(info.Role); n > 0 {
					fmt.Fprintf(w, "%s\t%d\t(first page)\n", roleChip(info.Role), n)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
