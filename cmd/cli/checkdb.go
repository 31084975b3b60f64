package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/kaspistat/catalog-service/config"
)

var checkDBTimeout time.Duration

var checkDBCmd = &cobra.Command{
	Use:   "check-db",
	Short: "Check that the database is reachable",
	Long: `Open a plain database/sql connection with the postgres driver, ping it and
report the server version. Exits non-zero when the database is unreachable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbURL := config.GetDatabaseURL()
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkDBTimeout)
		defer cancel()

		version, err := checkDatabase(ctx, dbURL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "OK %s\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkDBCmd)
	checkDBCmd.Flags().DurationVar(&checkDBTimeout, "timeout", 5*time.Second, "Connection timeout")
}

func checkDatabase(ctx context.Context, dbURL string) (string, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("ping database: %w", err)
	}
	var version string
	if err := db.QueryRowContext(ctx, "SHOW server_version").Scan(&version); err != nil {
		return "", fmt.Errorf("server version: %w", err)
	}
	return version, nil
}
