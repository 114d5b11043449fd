package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and discard stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		// Server-side invalidation is best effort; local state is always
		// cleared.
		mgr.Logout(cmd.Context())
		fmt.Println("Logged out")
		return nil
	},
}
