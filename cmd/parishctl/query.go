package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"parish.org/internal/query"
)

// queryFlags are the builder directives shared by query and list.
type queryFlags struct {
	filters  []string
	sorts    []string
	with     []string
	join     []string
	groupBy  []string
	count    string
	page     int
	pageSize int
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as field[:op]=value, e.g. name=Alice or age:gte=30 (repeatable)")
	cmd.Flags().StringArrayVarP(&f.sorts, "sort", "s", nil, "Sort as field[:asc|desc] (repeatable)")
	cmd.Flags().StringSliceVar(&f.with, "with", nil, "Relations to include")
	cmd.Flags().StringSliceVar(&f.join, "join", nil, "Relations to join")
	cmd.Flags().StringSliceVar(&f.groupBy, "group-by", nil, "Fields to group by")
	cmd.Flags().StringVar(&f.count, "count", "", "Count expression, optionally 'expr as alias'")
	cmd.Flags().IntVar(&f.page, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "Page size")
}

// builder applies the flags in order. Paging is left to the caller when
// includePaging is false.
func (f *queryFlags) builder(includePaging bool) (query.Builder, error) {
	b := query.New()
	for _, raw := range f.filters {
		next, err := applyFilter(b, raw)
		if err != nil {
			return query.Builder{}, err
		}
		b = next
	}
	for _, raw := range f.sorts {
		next, err := applySort(b, raw)
		if err != nil {
			return query.Builder{}, err
		}
		b = next
	}
	if len(f.with) > 0 {
		b = b.With(f.with...)
	}
	if len(f.join) > 0 {
		b = b.Join(f.join...)
	}
	if len(f.groupBy) > 0 {
		b = b.GroupBy(f.groupBy...)
	}
	if f.count != "" {
		if expr, alias, ok := strings.Cut(f.count, " as "); ok {
			b = b.CountAs(strings.TrimSpace(expr), strings.TrimSpace(alias))
		} else {
			b = b.Count(f.count)
		}
	}
	if includePaging {
		if f.page > 0 {
			b = b.Page(f.page)
		}
		if f.pageSize > 0 {
			b = b.PageSize(f.pageSize)
		}
	}
	return b, nil
}

// applyFilter parses field[:op]=value. Null checks take no value and in
// splits its value on commas.
func applyFilter(b query.Builder, raw string) (query.Builder, error) {
	key, value, hasValue := strings.Cut(raw, "=")
	field := key
	op := query.OpEq
	if strings.Contains(key, ":") {
		var ok bool
		field, op, ok = query.SplitFilterKey(key)
		if !ok {
			return b, fmt.Errorf("filter %q: unknown operator", raw)
		}
	}
	if field == "" {
		return b, fmt.Errorf("filter %q: field is required", raw)
	}
	switch op {
	case query.OpIsNull, query.OpIsNotNull:
		return b.WhereOp(field, op, nil), nil
	case query.OpIn:
		if !hasValue {
			return b, fmt.Errorf("filter %q: value is required", raw)
		}
		return b.WhereIn(field, strings.Split(value, ",")), nil
	default:
		if !hasValue {
			return b, fmt.Errorf("filter %q: value is required", raw)
		}
		return b.WhereOp(field, op, value), nil
	}
}

func applySort(b query.Builder, raw string) (query.Builder, error) {
	field, dir, _ := strings.Cut(raw, ":")
	if field == "" {
		return b, fmt.Errorf("sort %q: field is required", raw)
	}
	switch strings.ToLower(dir) {
	case "", "asc":
		return b.OrderByAsc(field), nil
	case "desc":
		return b.OrderByDesc(field), nil
	default:
		return b, fmt.Errorf("sort %q: direction must be asc or desc", raw)
	}
}

func newQueryCmd() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Compile a query to wire parameters",
		Example: `  parishctl query -f lastName=Smith -f age:gte=30 -s createdAt:desc --page 2 --page-size 10
  parishctl query --with fellowship,envelope -o url`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := flags.builder(true)
			if err != nil {
				return err
			}
			return writeParams(cmd.OutOrStdout(), b.Build(), output)
		},
	}
	flags.register(cmd)
	return cmd
}

func writeParams(w io.Writer, p query.Params, format string) error {
	switch format {
	case "url":
		_, err := fmt.Fprintln(w, p.Encode())
		return err
	case "yaml":
		return yaml.NewEncoder(w).Encode(map[string]any(p))
	case "text":
		for _, k := range p.Keys() {
			if _, err := fmt.Fprintf(w, "%s\t%v\n", k, p[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
}
