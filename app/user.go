package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marketlink/marketlink/internal/auth"
	"github.com/marketlink/marketlink/internal/daemon"
)

func init() { //nolint: gochecknoinits
	userCreateCmd.Flags().StringVar(&signup.Email, "email", "", "Email of the account")
	userCreateCmd.Flags().StringVar(&signup.Name, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&signup.Password, "password", "", "Password, at least 8 characters")

	for _, f := range []string{"email", "name", "password"} {
		_ = userCreateCmd.MarkFlagRequired(f)
	}

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	signup auth.SignupInput

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userCreateCmd = &cobra.Command{
		Use:     "create",
		Short:   "Create an email and password account",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := daemon.CreateUser(cmd.Context(), &cfg, signup)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", u.ID, u.Email)

			return err
		},
	}
)
