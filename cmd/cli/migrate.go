package main

import (
	"github.com/spf13/cobra"

	"github.com/kaspistat/catalog-service/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Create every table and index the service needs. The schema is idempotent,
so running the command against an up-to-date database changes nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cmd.Context(), database.Pool()); err != nil {
			return err
		}
		logger.Info().Msg("Schema applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
