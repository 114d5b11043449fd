package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steambuds/portal/pkg/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and establish a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		sess, err := mgr.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			var apiErr *session.APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("login failed: %s", apiErr.Message)
			}
			if errors.Is(err, session.ErrUnreachable) {
				return fmt.Errorf("login failed: server unreachable, try again")
			}
			return err
		}

		fmt.Printf("Logged in as %s (%s)\n", sess.User.Username, sess.User.Email)
		fmt.Printf("Dashboard: %s\n", sess.DefaultRoute())
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}
