package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"parish.org/internal/adapter"
	"parish.org/internal/auth"
	"parish.org/internal/membership"
	"parish.org/internal/query"
	"parish.org/internal/repo/remote"
	"parish.org/internal/state"
)

// errNotSuccess marks a rendered non-success state so the exit code is set
// without printing the message twice.
var errNotSuccess = errors.New("request did not succeed")

func newListCmd() *cobra.Command {
	var (
		flags queryFlags
		demo  bool
	)

	cmd := &cobra.Command{
		Use:       "list <members|fellowships|envelopes|roles|users|volunteers>",
		Short:     "List records through the guarded managers",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"members", "fellowships", "envelopes", "roles", "users", "volunteers"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
			defer cancel()

			managers, session, err := listBackend(demo)
			if err != nil {
				return err
			}
			ctx = auth.ContextWithToken(ctx, cfg.Token)

			base, err := flags.builder(false)
			if err != nil {
				return err
			}
			size := flags.pageSize
			if size <= 0 {
				size = cfg.PageSize
			}
			page := flags.page

			w := cmd.OutOrStdout()
			var st state.State
			switch strings.ToLower(args[0]) {
			case membership.CollectionMembers:
				st = runList(ctx, w, managers.Members, session, base, page, size)
			case membership.CollectionFellowships:
				st = runList(ctx, w, managers.Fellowships, session, base, page, size)
			case membership.CollectionEnvelopes:
				st = runList(ctx, w, managers.Envelopes, session, base, page, size)
			case membership.CollectionRoles:
				st = runList(ctx, w, managers.Roles, session, base, page, size)
			case membership.CollectionUsers:
				st = runList(ctx, w, managers.Users, session, base, page, size)
			case membership.CollectionVolunteers:
				st = runList(ctx, w, managers.Volunteers, session, base, page, size)
			default:
				return fmt.Errorf("unknown resource %q", args[0])
			}
			if !state.IsSuccess(st) {
				return errNotSuccess
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&demo, "demo", false, "Use a seeded in-memory backend instead of the API")
	return cmd
}

func listBackend(demo bool) (membership.Managers, auth.Session, error) {
	opts := []membership.ManagerOption{membership.WithAdminRole(cfg.AdminRole)}
	if demo {
		stores := membership.NewMemoryStores()
		membership.SeedDemo(stores)
		return membership.NewManagers(stores.Repositories(), opts...), auth.NewPrincipal("demo", cfg.AdminRole, auth.Catalogue()), nil
	}

	session, err := currentSession()
	if err != nil {
		return membership.Managers{}, nil, err
	}
	client, err := remote.NewClient(cfg.APIURL,
		remote.WithRateLimit(cfg.RatePerSec, cfg.RateBurst),
		remote.WithTimeout(cfg.HTTPTimeout),
	)
	if err != nil {
		return membership.Managers{}, nil, err
	}
	return membership.NewManagers(membership.RemoteRepositories(client), opts...), session, nil
}

// runList loads one page, waits for it and renders the resulting state.
func runList[T any](ctx context.Context, w io.Writer, m *membership.Manager[T], actor auth.Session, base query.Builder, page, size int) state.State {
	l := membership.NewList(ctx, m, actor, base, page, size)
	_ = l.Wait(ctx)

	st := l.State(adapter.WithLoadingMessage("still loading " + string(m.Resource()) + " records"))
	_ = render[T](w, st, output)
	return st
}

// render writes st to w. Failure states are written as a single line a
// shell user can act on.
func render[T any](w io.Writer, st state.State, format string) error {
	return state.Match(st, state.Cases[membership.ListView[T], error]{
		Loading: func(s state.Loading) error {
			_, err := fmt.Fprintln(w, s.Message())
			return err
		},
		Error: func(s state.Error) error {
			_, err := fmt.Fprintf(w, "error: %s\n", s.Message())
			return err
		},
		Unauthorized: func(s state.Unauthorized) error {
			_, err := fmt.Fprintf(w, "unauthorized: %s (requires %s)\n", s.Message(), strings.Join(s.RequiredPermissions(), ", "))
			return err
		},
		Unauthenticated: func(s state.Unauthenticated) error {
			_, err := fmt.Fprintf(w, "unauthenticated: %s; run `parishctl token` and pass --token\n", s.Message())
			return err
		},
		NotFound: func(s state.NotFound) error {
			_, err := fmt.Fprintf(w, "not found: %s\n", s.Message())
			return err
		},
		Success: func(s state.Success[membership.ListView[T]]) error {
			return writeView(w, s.Data(), format)
		},
		Default: func(s state.State) error {
			_, err := fmt.Fprintln(w, "idle")
			return err
		},
	})
}

type viewDoc[T any] struct {
	Items    []T `json:"items" yaml:"items"`
	Total    int `json:"total" yaml:"total"`
	Page     int `json:"page" yaml:"page"`
	Pages    int `json:"pages" yaml:"pages"`
	PageSize int `json:"pageSize" yaml:"pageSize"`
}

func writeView[T any](w io.Writer, v membership.ListView[T], format string) error {
	doc := viewDoc[T]{Items: v.Items, Total: v.Total, Page: v.Page, Pages: v.Pages(), PageSize: v.PageSize}
	if doc.Items == nil {
		doc.Items = []T{}
	}
	switch format {
	case "yaml":
		// Round-trip through JSON so YAML keys follow the wire field names.
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		var generic map[string]any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		return yaml.NewEncoder(w).Encode(generic)
	case "url":
		return writeParams(w, v.Query.Paginate(v.Page, v.PageSize).Build(), "url")
	case "text":
		for _, item := range doc.Items {
			raw, err := json.Marshal(item)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, string(raw)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "page %d/%d, %d total\n", doc.Page, doc.Pages, doc.Total)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
}
