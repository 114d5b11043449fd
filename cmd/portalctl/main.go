// portalctl drives the SteamBuds portal auth service from the command line
// using the session SDK, with credentials persisted under ~/.steambuds.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steambuds/portal/pkg/session"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Command-line client for the SteamBuds portal auth service",
	Long: `portalctl manages an authenticated session against the portal auth
service: sign up, log in, inspect the current session, refresh the access
token, and log out. Credentials are stored in ~/.steambuds/credentials.json.`,
	SilenceUsage: true,
}

// newManager builds a session.Manager over the file-backed credential store
// and an HTTP client for the configured server.
func newManager() (*session.Manager, error) {
	store, err := session.DefaultFileStore()
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	client := session.NewClient(serverURL)
	return session.NewManager(client, store), nil
}

func init() {
	defaultServer := os.Getenv("PORTAL_API_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "Auth service base URL (env PORTAL_API_URL)")

	rootCmd.AddCommand(signupCmd, loginCmd, logoutCmd, statusCmd, refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
