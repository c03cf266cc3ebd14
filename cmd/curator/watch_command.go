package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/logging"
	"curator/internal/pipeline"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run organize on a recurring schedule",
		Long: `Watch keeps curator running and organizes the inbox on a cron
schedule. The configured run.watch_schedule is used unless --schedule
overrides it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if schedule == "" {
				schedule = cfg.Run.WatchSchedule
			}
			if schedule == "" {
				return errors.New("no schedule configured; set run.watch_schedule or pass --schedule")
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

			scheduler := cron.New()
			_, err = scheduler.AddFunc(schedule, func() {
				report, runErr := p.Run(runCtx)
				if runErr != nil {
					logger.Error("scheduled run failed", logging.Error(runErr))
					return
				}
				if len(report.Results) > 0 {
					logger.Info("scheduled run finished",
						logging.Int("organized", report.Count(pipeline.StatusSuccess)),
						logging.Int("duplicates", report.Count(pipeline.StatusDuplicate)),
						logging.Int("quarantined", report.Count(pipeline.StatusQuarantined)))
				}
			})
			if err != nil {
				return fmt.Errorf("invalid schedule %q: %w", schedule, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Watching inbox on schedule %q. Press Ctrl-C to stop.\n", schedule)
			scheduler.Start()
			<-runCtx.Done()
			<-scheduler.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron schedule override (e.g. \"*/15 * * * *\")")
	return cmd
}
