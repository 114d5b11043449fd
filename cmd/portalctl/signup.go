package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	signupUsername string
	signupEmail    string
	signupPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account",
	Long: `Registers a new account with the auth service. Signup does not log
you in; run "portalctl login" afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		user, err := mgr.Signup(cmd.Context(), signupUsername, signupEmail, signupPassword)
		if err != nil {
			return err
		}

		fmt.Printf("Account created: %s (%s)\n", user.Username, user.Email)
		fmt.Println("Run \"portalctl login\" to sign in.")
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupUsername, "username", "", "Desired username")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password (min 8 characters)")
	_ = signupCmd.MarkFlagRequired("username")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")
}
