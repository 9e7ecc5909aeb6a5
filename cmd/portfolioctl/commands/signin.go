package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-showcase-backend/auth"
)

func newSignInCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and print the access token",
		Long:  `Sign in with email and password. The access token is printed so it can be exported as PORTFOLIO_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			c := newClient(cmd)
			result, err := c.SignIn(cmd.Context(), auth.SignInForm{Email: email, Password: password})
			if err != nil {
				return err
			}
			if result.IsAdmin {
				fmt.Fprintln(cmd.ErrOrStderr(), "signed in as admin")
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Token())
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
