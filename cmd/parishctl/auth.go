package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"parish.org/internal/auth"
)

func newCanCmd() *cobra.Command {
	var resource string

	cmd := &cobra.Command{
		Use:   "can [token...]",
		Short: "Check the current session token against permission tokens",
		Example: `  parishctl can member.create member.deleteById
  parishctl can --resource envelope`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if resource != "" && !knownResource(resource) {
				return fmt.Errorf("unknown resource %q", resource)
			}
			session, err := currentSession()
			if err != nil {
				return err
			}
			guard := auth.NewGuard(session, auth.WithAdminRole(cfg.AdminRole))
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "user %s role %q admin=%t\n", session.UserID(), session.RoleName(), guard.IsAdmin())
			if resource != "" {
				granted := guard.ResourcePermissions(auth.Resource(resource))
				fmt.Fprintf(out, "%s: %s\n", resource, strings.Join(granted, ", "))
			}
			var denied int
			for _, tok := range args {
				if err := guard.AssertPermission(tok); err != nil {
					denied++
					fmt.Fprintf(out, "%s\tdenied\t%v\n", tok, err)
					continue
				}
				fmt.Fprintf(out, "%s\tallowed\n", tok)
			}
			if denied > 0 {
				return fmt.Errorf("%d of %d permissions denied", denied, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&resource, "resource", "", "List the granted tokens for a resource")
	return cmd
}

func knownResource(name string) bool {
	for _, r := range auth.Resources() {
		if string(r) == name {
			return true
		}
	}
	return false
}

func newTokenCmd() *cobra.Command {
	var (
		user    string
		role    string
		actions []string
		all     bool
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := newIssuer()
			if err != nil {
				return err
			}
			if strings.TrimSpace(user) == "" {
				return fmt.Errorf("--user is required")
			}
			if all {
				actions = auth.Catalogue()
			}
			for _, tok := range actions {
				if !auth.InCatalogue(tok) {
					return fmt.Errorf("unknown permission %q", tok)
				}
			}
			if ttl <= 0 {
				ttl = cfg.TokenTTL
			}
			signed, expiresAt, err := issuer.Issue(auth.NewPrincipal(user, role, actions), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "User id")
	cmd.Flags().StringVar(&role, "role", "", "Role name")
	cmd.Flags().StringSliceVar(&actions, "action", nil, "Permission tokens to grant")
	cmd.Flags().BoolVar(&all, "all", false, "Grant the whole catalogue")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default $PARISH_TOKEN_TTL)")
	return cmd
}

// currentSession verifies the configured token locally.
func currentSession() (auth.Principal, error) {
	if cfg.Token == "" {
		return auth.Principal{}, fmt.Errorf("no session token: pass --token or set PARISH_TOKEN")
	}
	issuer, err := newIssuer()
	if err != nil {
		return auth.Principal{}, err
	}
	return issuer.Parse(cfg.Token)
}
