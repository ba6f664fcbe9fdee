package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/yupiflow-admin/internal/directory"
	"github.com/noah-isme/yupiflow-admin/internal/models"
)

var (
	listPage   int
	listLimit  int
	listSearch string
	listRoles  []string

	createInput directory.CreateUserInput

	deleteYes bool

	exportFormat string
	exportOut    string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage directory users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := parseRoles(listRoles)
		if err != nil {
			return err
		}
		return listUsers(cmd, roles)
	},
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List customer accounts (consumer, warehouse and stockist roles)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listUsers(cmd, models.CustomerRoles)
	},
}

var usersShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		user, err := client.GetUser(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), user, func(w io.Writer) error {
			fmt.Fprintf(w, "ID\t%d\n", user.ID)
			fmt.Fprintf(w, "Name\t%s\n", user.Name)
			fmt.Fprintf(w, "Username\t%s\n", orDash(user.Username))
			fmt.Fprintf(w, "Email\t%s\n", user.Email)
			fmt.Fprintf(w, "Role\t%s\n", roleChip(user.Role))
			fmt.Fprintf(w, "Phone\t%s\n", orDash(user.Phone))
			fmt.Fprintf(w, "Created\t%s\n", directory.FormatDate(user.CreatedAt))
			return nil
		})
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := directory.NewOrchestrator(client, nil, logr)
		user, err := orch.Create(cmd.Context(), createInput)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), user, func(w io.Writer) error {
			fmt.Fprintf(w, "Created user #%d %s <%s> as %s\n", user.ID, user.Name, user.Email, roleChip(user.Role))
			return nil
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a user after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		orch := directory.NewOrchestrator(client, nil, logr)

		var confirm directory.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.ErrOrStderr()}
		if deleteYes {
			confirm = directory.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
		}
		if err := orch.Delete(cmd.Context(), id, confirm); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted user #%d\n", id)
		return nil
	},
}

var usersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the directory as CSV or PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := parseRoles(listRoles)
		if err != nil {
			return err
		}
		filename, data, err := client.ExportUsers(cmd.Context(), exportFormat, directory.Query{Search: listSearch, Roles: roles})
		if err != nil {
			return err
		}
		target := exportOut
		if target == "" {
			target = filename
		}
		if target == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d bytes to %s\n", len(data), target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd, customersCmd)
	usersCmd.AddCommand(usersListCmd, usersShowCmd, usersCreateCmd, usersDeleteCmd, usersExportCmd)

	for _, cmd := range []*cobra.Command{usersListCmd, customersCmd} {
		cmd.Flags().IntVar(&listPage, "page", 1, "page number")
		cmd.Flags().IntVar(&listLimit, "limit", 0, "page size (default DIRECTORY_PAGE_SIZE)")
		cmd.Flags().StringVarP(&listSearch, "search", "s", "", "free-text search")
	}
	usersListCmd.Flags().StringSliceVar(&listRoles, "role", nil, "restrict to roles")
	usersExportCmd.Flags().StringVarP(&listSearch, "search", "s", "", "free-text search")
	usersExportCmd.Flags().StringSliceVar(&listRoles, "role", nil, "restrict to roles")
	usersExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or pdf")
	usersExportCmd.Flags().StringVar(&exportOut, "out", "", "output file, - for stdout (default server file name)")

	flags := usersCreateCmd.Flags()
	flags.StringVar(&createInput.Name, "name", "", "full name")
	flags.StringVar(&createInput.Email, "email", "", "email address")
	flags.StringVar(&createInput.Password, "password", "", "password, at least 6 characters")
	flags.StringVar(&createInput.PasswordConfirmation, "password-confirmation", "", "repeat the password")
	flags.StringVar((*string)(&createInput.Role), "role", "", "role: "+strings.Join(models.RoleValues(), ", "))
	flags.StringVar(&createInput.Phone, "phone", "", "phone number")
	flags.StringVar(&createInput.Username, "username", "", "username")

	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func listUsers(cmd *cobra.Command, roles []models.UserRole) error {
	limit := listLimit
	if limit <= 0 {
		limit = cfg.Directory.PageSize
	}
	pager := directory.NewPager(client, directory.Query{PageSize: limit, Search: listSearch, Roles: roles}, logr)
	view, err := pager.SetPage(cmd.Context(), listPage)
	if err != nil {
		return err
	}
	stats := directory.Summarize(view)

	payload := models.UserPage{Page: view.Page, Total: view.Total, LastPage: view.TotalPages, Users: view.Records}
	return render(cmd.OutOrStdout(), payload, func(w io.Writer) error {
		if view.Empty() {
			fmt.Fprintln(w, mutedStyle.Render("No users found"))
			return nil
		}
		header(w, "ID", "NAME", "EMAIL", "ROLE", "PHONE", "CREATED")
		now := time.Now()
		for _, user := range view.Records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", user.ID, user.Name, user.Email, roleChip(user.Role), orDash(user.Phone), directory.FormatCreated(user.CreatedAt, now))
		}
		fmt.Fprintf(w, "\nPage %d of %d\tTotal %d\tAdmins %d\tStaff %d\n", view.Page, view.TotalPages, stats.Total, stats.Admins, stats.Staff)
		return nil
	})
}

func parseRoles(raw []string) ([]models.UserRole, error) {
	roles := make([]models.UserRole, 0, len(raw))
	for _, value := range raw {
		role := models.UserRole(strings.TrimSpace(value))
		if !role.Valid() {
			return nil, fmt.Errorf("unknown role %q (expected one of %s)", value, strings.Join(models.RoleValues(), ", "))
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// promptConfirmer asks on the terminal and accepts y or yes.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
