package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/yupiflow-admin/internal/directory"
	"github.com/noah-isme/yupiflow-admin/internal/models"
)

var (
	registrationStatus string
	registrationSearch string
	reviewNote         string
)

var registrationsCmd = &cobra.Command{
	Use:     "registrations",
	Aliases: []string{"reg"},
	Short:   "Review partner registrations",
}

var registrationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		review := directory.NewRegistrationReview(client, logr)
		records, err := review.List(cmd.Context())
		if err != nil {
			return err
		}
		stats := review.Stats()
		records = directory.FilterRegistrations(records, registrationSearch)
		if registrationStatus != "" {
			records = filterStatus(records, models.RegistrationStatus(registrationStatus))
		}

		return render(cmd.OutOrStdout(), models.RegistrationList{Registrations: records}, func(w io.Writer) error {
			fmt.Fprintf(w, "Total %d\tPending %d\tApproved %d\tRejected %d\n\n", stats.Total, stats.Pending, stats.Approved, stats.Rejected)
			if len(records) == 0 {
				fmt.Fprintln(w, mutedStyle.Render("No registrations found"))
				return nil
			}
			header(w, "ID", "NAME", "EMAIL", "CITY", "PLAN", "ROLE", "STATUS", "SUBMITTED")
			for _, reg := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", reg.ID, reg.FullName(), reg.Email, reg.City, reg.Plan, roleChip(reg.RequestedRole), statusChip(reg.Status), directory.FormatDate(reg.CreatedAt))
			}
			return nil
		})
	},
}

var registrationsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		detail, err := directory.NewRegistrationReview(client, logr).Detail(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), detail, func(w io.Writer) error {
			printDetail(w, detail)
			return nil
		})
	},
}

var registrationsApproveCmd = &cobra.Command{
	Use:   "approve ID",
	Short: "Approve a pending registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRegistration(cmd, args[0], models.RegistrationApproved)
	},
}

var registrationsRejectCmd = &cobra.Command{
	Use:   "reject ID",
	Short: "Reject a pending registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRegistration(cmd, args[0], models.RegistrationRejected)
	},
}

func init() {
	rootCmd.AddCommand(registrationsCmd)
	registrationsCmd.AddCommand(registrationsListCmd, registrationsShowCmd, registrationsApproveCmd, registrationsRejectCmd)

	registrationsListCmd.Flags().StringVar(&registrationStatus, "status", "", "pending, approved or rejected")
	registrationsListCmd.Flags().StringVarP(&registrationSearch, "search", "s", "", "search name, username, email, city or country")
	for _, cmd := range []*cobra.Command{registrationsApproveCmd, registrationsRejectCmd} {
		cmd.Flags().StringVar(&reviewNote, "note", "", "note stored with the decision")
	}
}

func reviewRegistration(cmd *cobra.Command, rawID string, status models.RegistrationStatus) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	review := directory.NewRegistrationReview(client, logr)

	// Listing first lets the review refuse an already decided registration without a write.
	if _, err := review.List(cmd.Context()); err != nil {
		return err
	}

	var updated *models.Registration
	if status == models.RegistrationApproved {
		updated, err = review.Approve(cmd.Context(), id, reviewNote)
	} else {
		updated, err = review.Reject(cmd.Context(), id, reviewNote)
	}
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), updated, func(w io.Writer) error {
		fmt.Fprintf(w, "Registration #%d (%s) is now %s\n", updated.ID, updated.FullName(), statusChip(updated.Status))
		return nil
	})
}

func printDetail(w io.Writer, d directory.RegistrationDetail) {
	fmt.Fprintf(w, "%s\t#%d\t%s\n", headerStyle.Render(d.FullName), d.ID, statusChip(d.Status))
	fmt.Fprintf(w, "Requested role\t%s\n", roleChip(d.RequestedRole.Role))
	fmt.Fprintf(w, "Submitted\t%s\n\n", directory.FormatDate(d.Submitted))

	fmt.Fprintln(w, headerStyle.Render("Personal"))
	fmt.Fprintf(w, "Username\t%s\nEmail\t%s\nPhone\t%s\n\n", d.Personal.Username, d.Personal.Email, d.Personal.Phone)

	fmt.Fprintln(w, headerStyle.Render("Address"))
	fmt.Fprintf(w, "Street\t%s\nCity\t%s\nCountry\t%s\nZip\t%s\n\n", d.Address.Street, d.Address.City, d.Address.Country, d.Address.ZipCode)

	fmt.Fprintln(w, headerStyle.Render("Subscription"))
	fmt.Fprintf(w, "Plan\t%s\nPayment\t%s\nSponsor\t%s\n", d.Subscription.Plan, d.Subscription.PaymentMethod, d.Subscription.SponsorID)

	if d.Review != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Review"))
		fmt.Fprintf(w, "By\t#%d\nAt\t%s\nNote\t%s\n", d.Review.ReviewedBy, directory.FormatDate(d.Review.ReviewedAt), d.Review.Note)
	}
}

func filterStatus(records []models.Registration, status models.RegistrationStatus) []models.Registration {
	out := records[:0:0]
	for _, reg := range records {
		if reg.Status == status {
			out = append(out, reg)
		}
	}
	return out
}
