// Package main is the entry point for the parishctl CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parish.org/internal/auth"
	"parish.org/internal/config"
)

// Version information set at build time.
var (
	version = "0.1.0"
	commit  = "dev"
)

// Global flags.
var (
	apiURL string
	token  string
	output string
)

var cfg config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "parishctl",
		Short: "Query and administer parish membership records",
		Long: `parishctl compiles membership queries to the REST wire format,
evaluates session permissions and lists records through the same
guarded managers and async states the admin UI uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if token != "" {
				cfg.Token = token
			}
			switch output {
			case "json", "yaml", "url", "text":
				return nil
			default:
				return fmt.Errorf("unsupported output %q (json, yaml, url, text)", output)
			}
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "Base URL of the membership API (default $PARISH_API_URL)")
	root.PersistentFlags().StringVar(&token, "token", "", "Session token (default $PARISH_TOKEN)")
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "Output format: json, yaml, url or text")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newCanCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newListCmd())

	return root
}

func newIssuer() (*auth.TokenIssuer, error) {
	issuer, err := auth.NewTokenIssuer(cfg.AuthSecret, auth.WithIssuer(cfg.AuthIssuer))
	if err != nil {
		return nil, fmt.Errorf("PARISH_AUTH_SECRET: %w", err)
	}
	return issuer, nil
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errNotSuccess) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
