package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/pipeline"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var preview bool
	var workers int

	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize everything waiting in the inbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Run.Workers = workers
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := pipeline.New(logger, cfg, store)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if preview {
				decisions, err := p.Preview(runCtx)
				if err != nil {
					return err
				}
				if len(decisions) == 0 {
					fmt.Fprintln(out, "Inbox is empty; nothing to preview.")
					return nil
				}
				rows := make([][]string, 0, len(decisions))
				for _, decision := range decisions {
					rows = append(rows, []string{
						decision.SourcePath,
						string(decision.Classification.Category),
						decision.Date.LocalDate.Format("2006-01-02"),
						decision.DestinationPath,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Category", "Date", "Destination"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintf(out, "%d file(s) would be organized. No changes were made.\n", len(decisions))
				return nil
			}

			report, err := p.Run(runCtx)
			if err != nil {
				return err
			}
			printReport(out, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "Show planned destinations without moving anything")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the configured worker count")
	return cmd
}

func printReport(out interface{ Write([]byte) (int, error) }, report *pipeline.BatchReport) {
	rows := [][]string{
		{"Organized", fmt.Sprintf("%d", report.Count(pipeline.StatusSuccess))},
		{"Duplicates", fmt.Sprintf("%d", report.Count(pipeline.StatusDuplicate))},
		{"Quarantined", fmt.Sprintf("%d", report.Count(pipeline.StatusQuarantined))},
		{"Failed", fmt.Sprintf("%d", report.Count(pipeline.StatusFailed))},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Files"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	fmt.Fprintf(out, "Processed %d file(s) in %s.\n",
		len(report.Results), report.Elapsed.Round(time.Millisecond))

	if len(report.Ambiguous) > 0 {
		fmt.Fprintf(out, "\n%d file(s) were classified with low confidence:\n", len(report.Ambiguous))
		for _, path := range report.Ambiguous {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	for _, result := range report.Results {
		if result.Status == pipeline.StatusQuarantined || result.Status == pipeline.StatusFailed {
			fmt.Fprintf(out, "  %s: %s\n", result.SourcePath, result.Error)
		}
	}
}
