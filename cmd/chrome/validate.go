package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finitefield.org/hanko-chrome/internal/chrome/navigation"
	"finitefield.org/hanko-chrome/internal/chrome/routes"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check navigation files and the route table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.validate(cmd)
		},
	}
}

func (a *app) validate(cmd *cobra.Command) error {
	reg, err := a.loadRegistry()
	if err != nil {
		return err
	}
	snap := reg.Snapshot()

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BUNDLE\tITEMS\tGROUPS\tEXPANDABLE\tLEAVES\tACTIVE\tDEPTH")

	problems := 0
	var report []string
	for _, id := range snap.BundleIDs() {
		stats, issues := navigation.Inspect(snap.Bundles[id].Navigation)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			id, stats.Items, stats.Groups, stats.Expandable, stats.Leaves, stats.Active, stats.Depth)
		for _, issue := range issues {
			report = append(report, fmt.Sprintf("%s: %s", id, issue))
		}
		problems += len(issues)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	matcher, err := routes.NewMatcher(snap.RoutePaths())
	if err != nil {
		report = append(report, fmt.Sprintf("routes: %v", err))
		problems++
	}
	fmt.Fprintf(out, "%d routes registered\n", matcher.Len())

	for _, line := range report {
		fmt.Fprintln(out, line)
	}
	if problems > 0 {
		return fmt.Errorf("navigation has %d problem(s)", problems)
	}
	return nil
}
