package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaspistat/catalog-service/internal/database"
	"github.com/kaspistat/catalog-service/internal/jobs"
	"github.com/kaspistat/catalog-service/internal/metrics"
	"github.com/kaspistat/catalog-service/internal/payment"
	"github.com/kaspistat/catalog-service/internal/requestlog"
	"github.com/kaspistat/catalog-service/internal/subscription"
	"github.com/kaspistat/catalog-service/internal/sweepers"
)

var retentionDays int

var expireCmd = &cobra.Command{
	Use:   "expire-subscriptions",
	Short: "Cancel subscriptions whose paid period is over",
	Long: `Mark every subscription scheduled for cancellation whose next transaction
falls on or before today as cancelled, downgrading premium users to site users.
The server runs the same sweep hourly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := subscription.NewService(
			database.NewSubscriptionStore(database.Pool()),
			payment.NewClient(payment.DefaultConfig(), *logger),
			logger,
			metrics.NewRecorder(),
		)
		sweeper := sweepers.NewSubscriptionSweeper(svc, logger, time.Hour)
		fmt.Fprintf(cmd.OutOrStdout(), "Expired %d subscriptions\n", sweeper.Sweep(cmd.Context()))
		return nil
	},
}

var cleanupCmd = &cobra.Command{
	Use:   "cleanup-requests",
	Short: "Delete old product request log entries",
	Example: `  catalog-service cleanup-requests
  catalog-service cleanup-requests --days 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := retentionDays
		if days <= 0 {
			days = cfg.Jobs.RequestLogRetentionDays
		}
		if days <= 0 {
			return fmt.Errorf("retention must be at least one day")
		}

		jobCfg := jobs.DefaultCleanupConfig()
		jobCfg.Retention = time.Duration(days) * 24 * time.Hour
		svc := requestlog.NewService(database.NewRequestLogStore(database.Pool()), *logger, metrics.NewRecorder())

		deleted, err := jobs.NewRequestLogCleanup(svc, jobCfg, logger).RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d request log entries older than %d days\n", deleted, days)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(expireCmd)
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().IntVar(&retentionDays, "days", 0, "Retention in days (defaults to jobs.request_log_retention_days)")
}
