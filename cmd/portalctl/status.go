package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}

		sess := mgr.Initialize(cmd.Context())
		if sess == nil {
			fmt.Println("Not logged in")
			return nil
		}

		roles := make([]string, 0, len(sess.User.Roles))
		for _, r := range sess.User.Roles {
			roles = append(roles, string(r))
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "User:\t%s\n", sess.User.Username)
		fmt.Fprintf(w, "Email:\t%s\n", sess.User.Email)
		fmt.Fprintf(w, "Roles:\t%s\n", strings.Join(roles, ", "))
		fmt.Fprintf(w, "Dashboard:\t%s\n", sess.DefaultRoute())
		return w.Flush()
	},
}
