package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show the role catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		roles, err := client.Roles(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), roles, func(w io.Writer) error {
			header(w, "ROLE", "LABEL", "TIER", "DESCRIPTION")
			for _, info := range roles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Role, roleChip(info.Role), info.Tier, info.Description)
			}
			return nil
		})
	},
}

var loginEmail, loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), res, func(w io.Writer) error {
			fmt.Fprintf(w, "Signed in as %s (%s)\n", res.User.Name, roleChip(res.User.Role))
			fmt.Fprintf(w, "export DIRECTORY_TOKEN=%s\n", res.AccessToken)
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	RunE: func(cmd *cobra.Command, args []string) error {
		me, err := client.Me(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), me, func(w io.Writer) error {
			fmt.Fprintf(w, "#%d\t%s\t%s\t%s\n", me.ID, me.Name, me.Email, roleChip(me.Role))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd, loginCmd, whoamiCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
