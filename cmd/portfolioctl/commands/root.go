// Package commands holds the portfolioctl command tree. Every command talks to a running
// backend through the typed client.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-showcase-backend/client"
)

var rootCmd = newRootCommand()

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "portfolioctl",
		Short:        "Browse and manage a portfolio backend",
		Long:         `portfolioctl signs in to a portfolio backend, browses the public showcase and runs admin bulk actions.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("api", envOr("PORTFOLIO_API_URL", "http://localhost:8080"), "Base URL of the backend")
	rootCmd.PersistentFlags().String("token", os.Getenv("PORTFOLIO_TOKEN"), "Access token sent as a bearer token")

	rootCmd.AddCommand(
		newSignInCommand(),
		newProjectsCommand(),
		newAdminCommand(),
	)
	return rootCmd
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClient(cmd *cobra.Command) *client.Client {
	baseURL, _ := cmd.Flags().GetString("api")
	token, _ := cmd.Flags().GetString("token")
	return client.New(baseURL, client.WithToken(token))
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
