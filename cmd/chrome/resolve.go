package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finitefield.org/hanko-chrome/internal/chrome/breadcrumbs"
)

type resolveOptions struct {
	bundle string
	path   string
	title  string
	plain  bool
}

func newResolveCmd(a *app) *cobra.Command {
	opts := &resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve --path /bundle/page",
		Short: "Print the breadcrumb trail for a console path.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.bundle, "bundle", "", "bundle id (default: first path segment)")
	cmd.Flags().StringVar(&opts.path, "path", "", "console path to resolve")
	cmd.Flags().StringVar(&opts.title, "title", "", "override the bundle title")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print titles joined by > instead of JSON")
	_ = cmd.MarkFlagRequired("path")
	return cmd
}

func (a *app) resolve(cmd *cobra.Command, opts *resolveOptions) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	svc := breadcrumbs.NewService(reg, breadcrumbs.WithLogger(a.logger))
	defer svc.Stop()

	trail, err := svc.Trail(cmd.Context(), opts.bundle, opts.path)
	if err != nil {
		return err
	}
	if opts.title != "" {
		trail.Segments[0].Title = opts.title
	}

	out := cmd.OutOrStdout()
	if opts.plain {
		titles := make([]string, 0, len(trail.Segments))
		for _, s := range trail.Segments {
			titles = append(titles, s.Title)
		}
		_, err = fmt.Fprintln(out, strings.Join(titles, " > "))
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(trail)
}
