package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize vault contents and pending work",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			pending, err := store.PendingDecisions(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Vault files", fmt.Sprintf("%d", summary.Files)},
				{"Duplicates parked", fmt.Sprintf("%d", summary.Duplicates)},
				{"Quarantined", fmt.Sprintf("%d", summary.Quarantined)},
			}
			categories := make([]string, 0, len(summary.ByCategory))
			for category := range summary.ByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				rows = append(rows, []string{"  " + category, fmt.Sprintf("%d", summary.ByCategory[category])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Count"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			if len(pending) > 0 {
				fmt.Fprintf(out, "\n%d decision(s) from an interrupted run will be reconciled at the next organize.\n", len(pending))
			}
			return nil
		},
	}
}
